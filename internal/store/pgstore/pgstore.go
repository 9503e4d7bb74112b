// Package pgstore reads a store graph from PostgreSQL.
//
// Expected tables (read-only here):
//
//	alignment_groups(name BIGINT PRIMARY KEY, parent BIGINT NULL)
//	sequences(name BIGINT PRIMARY KEY, header TEXT NOT NULL)
//	endpoints(name BIGINT PRIMARY KEY, group_name BIGINT NOT NULL)
//	instances(name BIGINT PRIMARY KEY, endpoint_name BIGINT NOT NULL,
//	          sequence_name BIGINT, reverse_strand BOOLEAN NOT NULL, side BOOLEAN NOT NULL)
//
// Top-level groups are the rows of alignment_groups with a NULL parent.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"alnnames/internal/store"
)

// DefaultCacheSize bounds the InstanceByName cache when the caller passes <= 0.
const DefaultCacheSize = 4096

const instanceColumns = `i.name, i.reverse_strand, i.side, s.name, s.header
FROM instances i LEFT JOIN sequences s ON s.name = i.sequence_name`

type Store struct {
	db    *sql.DB
	cache *lru.Cache[store.Name, store.Instance]
}

// Open connects with the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string, cacheSize int) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, &store.AccessError{Op: "open postgres", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &store.AccessError{Op: "ping postgres", Err: err}
	}
	s, err := New(db, cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle. Close closes db.
func New(db *sql.DB, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[store.Name, store.Instance](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SingleTopLevelGroup(ctx context.Context) (store.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM alignment_groups WHERE parent IS NULL ORDER BY name LIMIT 2`)
	if err != nil {
		return nil, &store.AccessError{Op: "query top-level groups", Err: err}
	}
	defer rows.Close()

	var names []store.Name
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, &store.AccessError{Op: "scan top-level group", Err: err}
		}
		names = append(names, store.Name(n))
	}
	if err := rows.Err(); err != nil {
		return nil, &store.AccessError{Op: "query top-level groups", Err: err}
	}
	if len(names) > 1 {
		// LIMIT 2 only tells us "more than one"; report the real count.
		var total int
		if err := s.db.QueryRowContext(ctx,
			`SELECT count(*) FROM alignment_groups WHERE parent IS NULL`).Scan(&total); err == nil {
			return nil, store.TopLevelCount(total)
		}
	}
	if err := store.TopLevelCount(len(names)); err != nil {
		return nil, err
	}
	return &group{db: s.db, name: names[0]}, nil
}

func (s *Store) InstanceByName(ctx context.Context, n store.Name) (store.Instance, error) {
	if inst, ok := s.cache.Get(n); ok {
		return inst, nil
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+instanceColumns+` WHERE i.name = $1`, int64(n))
	inst, err := scanInstance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("instance %s: %w", n, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.cache.Add(n, inst)
	return inst, nil
}

type group struct {
	db   *sql.DB
	name store.Name
}

func (g *group) Name() store.Name { return g.name }

func (g *group) Endpoints(ctx context.Context) ([]store.Endpoint, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT name FROM endpoints WHERE group_name = $1 ORDER BY name`, int64(g.name))
	if err != nil {
		return nil, &store.AccessError{Op: "query endpoints", Err: err}
	}
	defer rows.Close()

	var out []store.Endpoint
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, &store.AccessError{Op: "scan endpoint", Err: err}
		}
		out = append(out, &endpoint{db: g.db, name: store.Name(n)})
	}
	if err := rows.Err(); err != nil {
		return nil, &store.AccessError{Op: "query endpoints", Err: err}
	}
	return out, nil
}

type endpoint struct {
	db   *sql.DB
	name store.Name
}

func (e *endpoint) Name() store.Name { return e.name }

func (e *endpoint) Instances(ctx context.Context) ([]store.Instance, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT `+instanceColumns+` WHERE i.endpoint_name = $1 ORDER BY i.name`, int64(e.name))
	if err != nil {
		return nil, &store.AccessError{Op: "query instances", Err: err}
	}
	defer rows.Close()

	var out []store.Instance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.AccessError{Op: "query instances", Err: err}
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstance(row rowScanner) (*instance, error) {
	var (
		name          int64
		reverseStrand bool
		side          bool
		seqName       sql.NullInt64
		header        sql.NullString
	)
	if err := row.Scan(&name, &reverseStrand, &side, &seqName, &header); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, &store.AccessError{Op: "scan instance", Err: err}
	}
	if !seqName.Valid {
		return nil, &store.AccessError{
			Op:  "scan instance",
			Err: fmt.Errorf("instance %d has no sequence", name),
		}
	}
	return &instance{
		name:          store.Name(name),
		reverseStrand: reverseStrand,
		side:          side,
		seq:           sequence{name: store.Name(seqName.Int64), header: header.String},
	}, nil
}

type instance struct {
	name          store.Name
	reverseStrand bool
	side          bool
	seq           sequence
}

func (i *instance) Name() store.Name { return i.name }
func (i *instance) IsReverseStrand() bool { return i.reverseStrand }
func (i *instance) Side() bool { return i.side }
func (i *instance) Sequence() store.Sequence { return i.seq }

// Reverse flips strand and side; the table stores one orientation only.
func (i *instance) Reverse() store.Instance {
	return &instance{name: i.name, reverseStrand: !i.reverseStrand, side: !i.side, seq: i.seq}
}

type sequence struct {
	name   store.Name
	header string
}

func (s sequence) Name() store.Name { return s.name }
func (s sequence) Header() string { return s.header }
