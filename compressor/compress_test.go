package compressor_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/logrotatorr/compressor"
	"golift.io/logrotatorr/mocks"
)

var errTest = errors.New("this is a test error")

func gunzip(t *testing.T, fileName string) []byte {
	t.Helper()

	f, err := os.Open(fileName)
	require.NoError(t, err)

	defer f.Close()

	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)

	data, err := io.ReadAll(gzr)
	require.NoError(t, err)

	return data
}

func TestGzip(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	gz := &compressor.Gzip{Level: 77, Mode: 0o640} // invalid level falls back to default.
	dir := t.TempDir()
	src := filepath.Join(dir, "testfile.log")
	dst := filepath.Join(dir, "testfile.log"+compressor.SuffixGZ)
	content := bytes.Repeat([]byte("test\n"), 60000)

	r, err := gz.Compress(context.Background(), filepath.Join(dir, "does-not-exist"), dst)
	assert.Error(err)
	assert.Contains(err.Error(), "stating old file:")
	assert.ErrorIs(err, r.Error)

	require.NoError(t, os.WriteFile(src, content, 0o600))

	r, err = gz.Compress(context.Background(), src, dst)
	require.NoError(t, err)
	assert.NoError(r.Error)
	assert.Equal(int64(len(content)), r.OldSize)
	assert.Less(r.NewSize, r.OldSize)
	assert.FileExists(src, "the source file is owned by the caller")
	assert.Equal(content, gunzip(t, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(os.FileMode(0o640), info.Mode().Perm())
}

func TestGzipRemovesPartial(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "testfile.log")
	require.NoError(t, os.WriteFile(src, []byte("test\n"), 0o600))

	// The destination folder does not exist, so opening it fails.
	r, err := (&compressor.Gzip{}).Compress(context.Background(), src, filepath.Join(dir, "none", "file.gz"))
	assert.ErrorIs(err, os.ErrNotExist)
	assert.Error(r.Error)
	assert.Empty(r.Warnings, "a destination that was never created is not a warning")
}

func TestCommand(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	runner := mocks.NewMockRunner(mockCtrl)
	dir := t.TempDir()
	src := filepath.Join(dir, "test.log")
	dst := filepath.Join(dir, "archive", "test.log.gz")
	cmd := &compressor.Command{Runner: runner}

	require.NoError(t, os.WriteFile(src, []byte("test\ntest\n"), 0o600))
	runner.EXPECT().Run(gomock.Any(), compressor.DefaultShell, "-c", compressor.DefaultCommand(src, dst))

	r, err := cmd.Compress(context.Background(), src, dst)
	assert.NoError(err)
	assert.Equal(int64(10), r.OldSize)
	assert.DirExists(filepath.Join(dir, "archive"), "claiming the destination creates its folder")
	assert.NoFileExists(dst, "the claim file is removed before the command runs")

	runner.EXPECT().Run(gomock.Any(), compressor.DefaultShell, "-c", gomock.Any()).Return(errTest)

	r, err = cmd.Compress(context.Background(), src, dst)
	assert.ErrorIs(err, errTest)
	assert.ErrorIs(r.Error, errTest)
}

func TestCommandExec(t *testing.T) {
	t.Parallel()

	for _, bin := range []string{"sh", "gzip", "cat"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available: %v", bin, err)
		}
	}

	assert := assert.New(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "it's a test.log")
	dst := filepath.Join(dir, "test1.log")

	require.NoError(t, os.WriteFile(src, []byte("test\ntest\n"), 0o600))

	r, err := (&compressor.Command{}).Compress(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Positive(r.NewSize)
	assert.Equal("test\ntest\n", string(gunzip(t, dst)))

	_, err = (&compressor.Command{Build: func(_, _ string) string { return "exit 3" }}).
		Compress(context.Background(), src, dst)
	assert.Error(err, "a non-zero exit must fail")
}

func TestClaim(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockFiler := mocks.NewMockFiler(mockCtrl)
	dir := t.TempDir()
	claim, err := os.Create(filepath.Join(dir, "claim"))
	require.NoError(t, err)

	gomock.InOrder(
		mockFiler.EXPECT().OpenFile("a/b", gomock.Any(), gomock.Any()).Return(nil, os.ErrNotExist),
		mockFiler.EXPECT().MkdirAll("a", os.FileMode(0o700)),
		mockFiler.EXPECT().OpenFile("a/b", gomock.Any(), gomock.Any()).Return(claim, nil),
		mockFiler.EXPECT().Remove("a/b").Return(errTest),
	)

	warning, err := compressor.Claim(mockFiler, "a/b", 0o700)
	assert.NoError(err)
	assert.ErrorIs(warning, errTest, "failing to remove the claim is a warning")

	gomock.InOrder(
		mockFiler.EXPECT().OpenFile("a/b", gomock.Any(), gomock.Any()).Return(nil, os.ErrNotExist),
		mockFiler.EXPECT().MkdirAll("a", os.FileMode(0o700)).Return(errTest),
	)

	_, err = compressor.Claim(mockFiler, "a/b", 0o700)
	assert.ErrorIs(err, errTest)
}

func TestLog(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var lines []string

	printf := func(msg string, _ ...any) { lines = append(lines, msg) }

	compressor.Log(&compressor.Report{OldFile: "a", NewFile: "b"}, printf)
	compressor.Log(&compressor.Report{Error: errTest}, printf)
	assert.Equal([]string{
		"Compression Finished in %v: %s/%dkB -> %s/%dkB",
		"Compression Error after %v: %v",
	}, lines)
}

func TestQuote(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `'it'\''s'`, compressor.Quote("it's"))
	assert.Equal(t, `cat 'a' | gzip -c9 > 'b'`, compressor.DefaultCommand("a", "b"))
}
