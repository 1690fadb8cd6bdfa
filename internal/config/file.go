package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBootFile is the boot file looked for when none is configured.
const DefaultBootFile = "BootTidal.hs"

// File is the on-disk YAML configuration consumed by the CLI front end.
type File struct {
	GhciPath       string            `yaml:"ghci_path,omitempty"`
	BootFile       string            `yaml:"boot_file,omitempty"`
	PollIntervalMS int               `yaml:"poll_interval_ms,omitempty"`
	PromptToken    string            `yaml:"prompt_token,omitempty"`
	Cwd            string            `yaml:"cwd,omitempty"`
	Env            map[string]string `yaml:"env,omitempty"`
}

// LoadFile reads a YAML config from path. A missing file is not an error:
// it yields an empty File so defaults apply.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &f, nil
}

// Options converts the file into session Options, filling defaults.
func (f *File) Options() *Options {
	opts := &Options{
		GhciPath:    f.GhciPath,
		BootFile:    f.BootFile,
		PromptToken: f.PromptToken,
		Cwd:         f.Cwd,
		Env:         f.Env,
	}

	if opts.BootFile == "" {
		opts.BootFile = DefaultBootFile
	}

	if f.PollIntervalMS > 0 {
		opts.PollInterval = time.Duration(f.PollIntervalMS) * time.Millisecond
	}

	return opts
}
