package stream

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInputPlainAndGzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "in.bed")
	require.NoError(t, os.WriteFile(plain, []byte("a\t1\t2\n"), 0o644))

	gzPath := filepath.Join(dir, "in.bed.gz")
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, _ = gw.Write([]byte("b\t3\t4\n"))
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(gzPath, buf.Bytes(), 0o644))

	op := &Opener{}
	for path, want := range map[string]string{plain: "a\t1\t2\n", gzPath: "b\t3\t4\n"} {
		rc, err := op.OpenInput(context.Background(), path)
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, want, string(got))
	}
}

func TestOpenInputStdin(t *testing.T) {
	op := &Opener{Stdin: strings.NewReader("x")}
	rc, err := op.OpenInput(context.Background(), "-")
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "x", string(got))
}

func TestOpenInputMissing(t *testing.T) {
	_, err := (&Opener{}).OpenInput(context.Background(), filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestOutputCommitPublishes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.cigar")
	out, err := (&Opener{}).CreateOutput(context.Background(), path)
	require.NoError(t, err)

	_, err = io.WriteString(out, "hello\n")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "output must not exist before commit")

	require.NoError(t, out.Commit(context.Background()))
	out.Abort()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging file left behind")
}

func TestOutputAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bed")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	out, err := (&Opener{}).CreateOutput(context.Background(), path)
	require.NoError(t, err)
	_, _ = io.WriteString(out, "partial")
	out.Abort()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(b))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOutputGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bed.gz")
	out, err := (&Opener{}).CreateOutput(context.Background(), path)
	require.NoError(t, err)
	_, _ = io.WriteString(out, "a\t1\t2\n")
	require.NoError(t, out.Commit(context.Background()))

	rc, err := (&Opener{}).OpenInput(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a\t1\t2\n", string(got))
}

func TestOutputStdout(t *testing.T) {
	var buf bytes.Buffer
	out, err := (&Opener{Stdout: &buf}).CreateOutput(context.Background(), "-")
	require.NoError(t, err)
	_, _ = io.WriteString(out, "x\n")
	require.NoError(t, out.Commit(context.Background()))
	assert.Equal(t, "x\n", buf.String())
	assert.Error(t, out.Commit(context.Background()))
}

func TestSplitS3(t *testing.T) {
	b, k, err := SplitS3("s3://runs/2024/out.cigar")
	require.NoError(t, err)
	assert.Equal(t, "runs", b)
	assert.Equal(t, "2024/out.cigar", k)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := SplitS3(bad)
		assert.Error(t, err, bad)
	}
	assert.True(t, IsS3("s3://a/b"))
	assert.False(t, IsS3("/tmp/s3://"))
}

func TestS3NeedsConfiguration(t *testing.T) {
	op := &Opener{}
	_, err := op.OpenInput(context.Background(), "s3://bucket/in.cigar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint")

	op = &Opener{S3: S3Config{Endpoint: "localhost:9000"}}
	_, err = op.CreateOutput(context.Background(), "s3://bucket/out.cigar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access key")
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(syscall.EPIPE))
	assert.True(t, IsBrokenPipe(io.ErrClosedPipe))
	assert.False(t, IsBrokenPipe(io.EOF))
	assert.False(t, IsBrokenPipe(nil))
}
