package connector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnnames/internal/store"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Descriptor
	}{
		{"postgres://u:p@db:5432/aln?sslmode=disable", Descriptor{KindPostgres, "postgres://u:p@db:5432/aln?sslmode=disable"}},
		{"postgresql://db/aln", Descriptor{KindPostgres, "postgresql://db/aln"}},
		{"file:/data/store.bin", Descriptor{KindFile, "/data/store.bin"}},
		{"file:///data/store.json", Descriptor{KindFile, "/data/store.json"}},
		{"/data/store.yaml", Descriptor{KindFile, "/data/store.yaml"}},
		{"store.JSON", Descriptor{KindFile, "store.JSON"}},
		{"type=file path='/data/my store.yml'", Descriptor{KindFile, "/data/my store.yml"}},
		{`type=pg dsn="postgres://u@db/aln"`, Descriptor{KindPostgres, "postgres://u@db/aln"}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := Parse(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"  ",
		`<st_kv_database_conf type="kyoto_tycoon"/>`,
		"type=redis host=x",
		"type=file",
		"type=postgres",
		"path=/x.json",
		"type=file path='unterminated",
		"type=file junk",
		"/data/store.bin",
	} {
		_, err := Parse(in)
		var ae *store.AccessError
		require.True(t, errors.As(err, &ae), "%q: got %v", in, err)
	}
}

func TestOpenFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"sequences":[],"groups":[{"name":1}]}`), 0o644))

	s, err := Open(context.Background(), "type=file path="+p, Options{})
	require.NoError(t, err)
	defer s.Close()
	g, err := s.SingleTopLevelGroup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.Name(1), g.Name())
}

func TestOpenMissingFileIsAccessError(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "gone.yaml"), Options{})
	assert.Nil(t, s)
	var ae *store.AccessError
	require.True(t, errors.As(err, &ae))
}
