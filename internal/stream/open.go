// Package stream opens the input and output streams of a conversion run.
//
// Paths may be local files, "-" for stdin/stdout, or s3://bucket/key.
// Paths ending in .gz are transparently (de)compressed. Outputs are staged
// and only published by Commit, so a failed run leaves no partial file.
package stream

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Opener resolves paths to streams. Zero Stdin/Stdout mean os.Stdin/os.Stdout.
type Opener struct {
	Stdin  io.Reader
	Stdout io.Writer
	S3     S3Config

	client *minio.Client
}

func (o *Opener) s3Client() (*minio.Client, error) {
	if o.client != nil {
		return o.client, nil
	}
	c, err := newS3Client(o.S3)
	if err != nil {
		return nil, err
	}
	o.client = c
	return c, nil
}

// OpenInput opens path for reading.
func (o *Opener) OpenInput(ctx context.Context, path string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	switch {
	case path == "-":
		in := o.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.NopCloser(in), nil
	case IsS3(path):
		client, err := o.s3Client()
		if err != nil {
			return nil, err
		}
		obj, err := openS3(ctx, client, path)
		if err != nil {
			return nil, err
		}
		rc = obj
	default:
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		rc = fh
	}
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(rc)
		if err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: rc}, nil
	}
	return rc, nil
}

// Output is a staged output stream. Exactly one of Commit or Abort must be
// called; Abort after Commit is a no-op, so `defer out.Abort()` is safe.
type Output struct {
	path   string
	w      io.Writer
	gz     *gzip.Writer
	tmp    *os.File
	stdout bool
	upload func(ctx context.Context, local string) error
	done   bool
}

// CreateOutput prepares path for writing.
func (o *Opener) CreateOutput(ctx context.Context, path string) (*Output, error) {
	out := &Output{path: path}
	switch {
	case path == "-":
		w := o.Stdout
		if w == nil {
			w = os.Stdout
		}
		out.w = w
		out.stdout = true
	case IsS3(path):
		if _, _, err := SplitS3(path); err != nil {
			return nil, err
		}
		client, err := o.s3Client()
		if err != nil {
			return nil, err
		}
		tmp, err := os.CreateTemp("", "alnnames-*.part")
		if err != nil {
			return nil, err
		}
		out.tmp = tmp
		out.w = tmp
		out.upload = func(ctx context.Context, local string) error {
			return uploadS3(ctx, client, path, local)
		}
	default:
		tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
		if err != nil {
			return nil, err
		}
		if err := tmp.Chmod(0o644); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return nil, err
		}
		out.tmp = tmp
		out.w = tmp
	}
	if strings.HasSuffix(path, ".gz") {
		out.gz = gzip.NewWriter(out.w)
		out.w = out.gz
	}
	return out, nil
}

func (out *Output) Write(p []byte) (int, error) { return out.w.Write(p) }

// Commit flushes and publishes the output.
func (out *Output) Commit(ctx context.Context) error {
	if out.done {
		return fmt.Errorf("output %s already closed", out.path)
	}
	out.done = true
	if out.gz != nil {
		if err := out.gz.Close(); err != nil {
			out.discard()
			return err
		}
	}
	if out.stdout {
		return nil
	}
	if err := out.tmp.Close(); err != nil {
		out.discard()
		return err
	}
	if out.upload != nil {
		defer os.Remove(out.tmp.Name())
		return out.upload(ctx, out.tmp.Name())
	}
	if err := os.Rename(out.tmp.Name(), out.path); err != nil {
		out.discard()
		return err
	}
	return nil
}

// Abort drops whatever was written.
func (out *Output) Abort() {
	if out.done {
		return
	}
	out.done = true
	if out.gz != nil && out.stdout {
		_ = out.gz.Close()
	}
	out.discard()
}

func (out *Output) discard() {
	if out.tmp == nil {
		return
	}
	_ = out.tmp.Close()
	_ = os.Remove(out.tmp.Name())
}
