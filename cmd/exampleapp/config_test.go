package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/logrotatorr/compressor"
	"golift.io/logrotatorr/interval"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "app.yaml")
	data := "dir: /var/log/app\n" +
		"filename: app.log\n" +
		"size: 10M\n" +
		"interval: 1d\n" +
		"interval_boundary: true\n" +
		"compress: gzip\n" +
		"max_size: 1G\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	config, err := loadConfig(path)
	require.NoError(t, err)

	rotator := config.rotator()
	assert.Equal("/var/log/app", rotator.Dir)
	assert.Equal("app.log", rotator.Filename)
	assert.EqualValues(10*interval.Megabyte, rotator.FileSize)
	assert.Equal(interval.Interval{Count: 1, Unit: interval.Day}, rotator.Every)
	assert.True(rotator.IntervalBoundary)
	assert.EqualValues(interval.Gigabyte, rotator.MaxSize)
	assert.Equal(fileCount, rotator.MaxFiles, "defaults stay unless overridden")
	assert.IsType(&compressor.Gzip{}, rotator.Compress)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("interval: 7h\n"), 0o600))

	_, err = loadConfig(path)
	assert.ErrorIs(t, err, interval.ErrInvalid, "7 does not divide a day")
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config, err := loadConfig("")
	require.NoError(t, err)
	assert.Nil(t, config.compressor())
	assert.Equal(t, "myfile.log", config.rotator().Filename)
	assert.EqualValues(t, interval.Megabyte, config.rotator().FileSize)
}

func TestExpand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "xz -c 'a b.log' > 'a b.log.xz'", expand("xz -c ${src} > ${dst}", "a b.log", "a b.log.xz"))
	assert.Equal(t, "echo $HOME", expand("echo $HOME", "x", "y"))

	config := &Config{Compress: "bzip2 -c $src > $dst"}
	command, ok := config.compressor().(*compressor.Command)
	require.True(t, ok)
	assert.Equal(t, "bzip2 -c 'in' > 'out'", command.Build("in", "out"))
}

func TestRoot(t *testing.T) {
	t.Parallel()

	root := newRoot()
	names := []string{}

	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"time", "int", "every", "immutable"}, names)
}
