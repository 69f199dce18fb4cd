package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golift.io/logrotatorr"
	"golift.io/logrotatorr/compressor"
	"golift.io/logrotatorr/interval"
	"gopkg.in/yaml.v3"
)

// Config is the YAML file this app reads with --config.
//
//	dir: /tmp/myfolder
//	filename: myfile.log
//	size: 1M
//	interval: 2s
//	compress: gzip
//	max_files: 10
type Config struct {
	Dir       string            `yaml:"dir"`
	Filename  string            `yaml:"filename"`
	Size      interval.Size     `yaml:"size"`
	Interval  interval.Interval `yaml:"interval"`
	Boundary  bool              `yaml:"interval_boundary"`
	Initial   bool              `yaml:"initial_rotation"`
	Immutable bool              `yaml:"immutable"`
	Rotate    int               `yaml:"rotate"`
	Compress  string            `yaml:"compress"` // gzip, or a shell command with ${src} and ${dst}.
	History   string            `yaml:"history"`
	MaxFiles  int               `yaml:"max_files"`
	MaxSize   interval.Size     `yaml:"max_size"`
	Mode      os.FileMode       `yaml:"mode"`
	Reopen    bool              `yaml:"reopen_missing"`
}

// defaultConfig is used when no config file is provided.
func defaultConfig() *Config {
	return &Config{
		Dir:      filepath.Join(os.TempDir(), "myfolder"),
		Filename: "myfile.log",
		Size:     interval.Megabyte,
		MaxFiles: fileCount,
	}
}

// loadConfig reads a YAML file on top of the defaults.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return config, nil
}

// rotator turns this app's config into a logrotatorr config.
func (c *Config) rotator() *logrotatorr.Config {
	return &logrotatorr.Config{
		Dir:              c.Dir,
		Filename:         c.Filename,
		FileSize:         int64(c.Size),
		Every:            c.Interval,
		IntervalBoundary: c.Boundary,
		InitialRotation:  c.Initial,
		Immutable:        c.Immutable,
		Rotate:           c.Rotate,
		Compress:         c.compressor(),
		History:          c.History,
		MaxFiles:         c.MaxFiles,
		MaxSize:          int64(c.MaxSize),
		FileMode:         c.Mode,
		ReopenMissing:    c.Reopen,
	}
}

func (c *Config) compressor() compressor.Compressor {
	switch c.Compress {
	case "":
		return nil
	case "gzip":
		return &compressor.Gzip{Mode: c.Mode}
	default:
		return &compressor.Command{Build: func(src, dst string) string {
			return expand(c.Compress, src, dst)
		}}
	}
}

// expand replaces {src} and {dst} in a command with quoted paths.
func expand(command, src, dst string) string {
	return os.Expand(command, func(key string) string {
		switch key {
		case "src":
			return compressor.Quote(src)
		case "dst":
			return compressor.Quote(dst)
		default:
			return "$" + key
		}
	})
}
