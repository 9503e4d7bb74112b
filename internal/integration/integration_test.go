// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnnames/internal/app"
	"alnnames/internal/config"
)

// Instance 30 is stored minus-strand on the non-primary side and counts once
// reversed. Instance 21 stays on the non-primary side and is skipped;
// otherwise it would collide with 10 on chr1.
const snapshotYAML = `
sequences:
  - {name: 100, header: chr1}
  - {name: 200, header: chr2}
  - {name: 300, header: chr3}
groups:
  - name: 1
    endpoints:
      - name: 5
        instances:
          - {name: 10, sequence: 100}
          - {name: 20, sequence: 200}
      - name: 6
        instances:
          - {name: 21, sequence: 100, side: true}
          - {name: 30, sequence: 300, reverse: true, side: true}
`

const conflictJSON = `{
  "sequences": [{"name": 100, "header": "chr1"}],
  "groups": [{"name": 1, "endpoints": [{"name": 5, "instances": [
    {"name": 5, "sequence": 100},
    {"name": 7, "sequence": 100}
  ]}]}]
}`

func write(t *testing.T, dir, fn, data string) string {
	t.Helper()
	p := filepath.Join(dir, fn)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644), "write %s", fn)
	return p
}

func run(t *testing.T, cfg *config.Config, argv ...string) (code int, stdout, stderr string) {
	t.Helper()
	if cfg == nil {
		cfg = config.FromEnv(func(string) string { return "" })
	}
	var out, errBuf bytes.Buffer
	code = app.RunConfig(context.Background(), cfg, argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestCIGAREndToEnd(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)
	in := write(t, dir, "in.cigar", "cigar: chr1 10 20 + chr2 50 60 + 1 M 10 D 2\n")
	outPath := filepath.Join(dir, "out.cigar")

	code, _, stderr := run(t, nil, "--store", st, in, outPath)
	require.Equal(t, app.ExitOK, code, stderr)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "cigar: 10 12 22 + 20 52 62 + 1 M 10 D 2\n", string(got))
}

func TestCIGARNamesFromInstances(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", `
sequences:
  - {name: 1, header: chr1}
  - {name: 2, header: chr2}
groups:
  - name: 7
    endpoints:
      - name: 8
        instances:
          - {name: 100, sequence: 1}
          - {name: 200, sequence: 2}
`)
	in := write(t, dir, "in.cigar", "chr1 10 20 + chr2 50 60 + 1 100 M\n")

	code, stdout, stderr := run(t, nil, "-d", st, in, "-")
	require.Equal(t, app.ExitOK, code, stderr)
	assert.Equal(t, "100 12 22 + 200 52 62 + 1 100 M\n", stdout)
}

func TestBEDEndToEnd(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)
	in := write(t, dir, "in.bed", "20\t5\t15\tfeatureX\n\n")

	code, stdout, stderr := run(t, nil, "-d", st, "--bed", "--verbose", in, "-")
	require.Equal(t, app.ExitOK, code, stderr)
	assert.Equal(t, "200\t7\t17\tfeatureX\n", stdout)
	assert.Contains(t, stderr, "INFO: wrote 1 records (1 blank lines skipped)")
}

func TestStoreFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)
	in := write(t, dir, "in.cigar", "chr2 3 0 - chr1 3 0 - 0 M 3\n")
	cfg := config.FromEnv(func(k string) string {
		if k == config.EnvStore {
			return "file:" + st
		}
		return ""
	})

	code, stdout, stderr := run(t, cfg, in, "-")
	require.Equal(t, app.ExitOK, code, stderr)
	assert.Equal(t, "20 5 2 - 10 5 2 - 0 M 3\n", stdout)
}

func TestMinusStrandInstanceIsIndexed(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)
	in := write(t, dir, "in.cigar", "chr3 0 2 + chr1 0 2 + 0 M 2\n")

	code, stdout, stderr := run(t, nil, "-d", st, in, "-")
	require.Equal(t, app.ExitOK, code, stderr)
	assert.Equal(t, "30 2 4 + 10 2 4 + 0 M 2\n", stdout)
}

func TestGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, _ = io.WriteString(gw, "10\t0\t4\n")
	require.NoError(t, gw.Close())
	in := write(t, dir, "in.bed.gz", buf.String())
	outPath := filepath.Join(dir, "out.bed.gz")

	code, _, stderr := run(t, nil, "-d", st, "-F", "bed", in, outPath)
	require.Equal(t, app.ExitOK, code, stderr)

	fh, err := os.Open(outPath)
	require.NoError(t, err)
	defer fh.Close()
	gr, err := gzip.NewReader(fh)
	require.NoError(t, err)
	got, err := io.ReadAll(gr)
	require.NoError(t, err)
	assert.Equal(t, "100\t2\t6\n", string(got))
}

func TestUnresolvedHeaderLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)
	in := write(t, dir, "in.cigar", "chr1 0 1 + chr1 0 1 + 0 M 1\nchrX 0 1 + chr1 0 1 + 0 M 1\n")
	outPath := filepath.Join(dir, "out.cigar")

	code, _, stderr := run(t, nil, "-d", st, in, outPath)
	assert.Equal(t, app.ExitFatal, code)
	assert.Contains(t, stderr, "line 2: sequence chrX is not loaded into the store")
	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "no partial output expected")
}

func TestUnresolvedBEDName(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)
	in := write(t, dir, "in.bed", "99\t0\t1\n")

	code, stdout, stderr := run(t, nil, "-d", st, "--bed", in, "-")
	assert.Equal(t, app.ExitFatal, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "sequence 99 is not loaded into the store")
}

func TestInconsistentStore(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.json", conflictJSON)
	in := write(t, dir, "in.cigar", "")

	code, _, stderr := run(t, nil, "-d", st, in, "-")
	assert.Equal(t, app.ExitFatal, code)
	assert.Contains(t, stderr, "collision with header chr1")
}

func TestBadStoreDescriptor(t *testing.T) {
	dir := t.TempDir()
	in := write(t, dir, "in.cigar", "")
	code, _, stderr := run(t, nil, "-d", "<cactusDisk/>", in, "-")
	assert.Equal(t, app.ExitFatal, code)
	assert.True(t, strings.HasPrefix(stderr, "error: "), stderr)
}

func TestUsageErrors(t *testing.T) {
	code, stdout, stderr := run(t, nil, "only-input")
	assert.Equal(t, app.ExitUsage, code)
	assert.Contains(t, stderr, "--store must be provided")
	assert.Contains(t, stdout, "Usage:")
}

func TestHelpVersionExamples(t *testing.T) {
	code, stdout, _ := run(t, nil)
	assert.Equal(t, app.ExitOK, code)
	assert.Contains(t, stdout, "Usage:")

	code, stdout, _ = run(t, nil, "--version")
	assert.Equal(t, app.ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "alnnames version "), stdout)

	code, stdout, _ = run(t, nil, "--examples")
	assert.Equal(t, app.ExitOK, code)
	assert.Contains(t, stdout, "quickstart")
}

func TestCanceledRunExits130(t *testing.T) {
	dir := t.TempDir()
	st := write(t, dir, "store.yaml", snapshotYAML)
	in := write(t, dir, "in.cigar", strings.Repeat("chr1 0 1 + chr2 0 1 + 0 M 1\n", 1000))
	outPath := filepath.Join(dir, "out.cigar")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.FromEnv(func(string) string { return "" })
	code := app.RunConfig(ctx, cfg, []string{"-d", st, in, outPath}, io.Discard, io.Discard)
	assert.Equal(t, app.ExitCanceled, code)
	_, err := os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))
}
