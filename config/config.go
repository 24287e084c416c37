// Package config — .ovlkit.yaml configuration file support.
//
// The config file names the resource bundle directory and the subscription
// registry. Every field has a default, so a project laid out as
// res/ + subscriptions.yaml needs no config file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ovlkit/ovlkit/subinfo"
)

// FileName is the default config file name.
const FileName = ".ovlkit.yaml"

// File is the top-level .ovlkit.yaml structure.
type File struct {
	// ResDir is the resource bundle directory relative to the project
	// root (default "res").
	ResDir string `yaml:"res_dir,omitempty"`
	// SubscriptionsFile is the subscription registry path relative to
	// the project root (default "subscriptions.yaml"). Ignored when
	// Subscriptions is set.
	SubscriptionsFile string `yaml:"subscriptions_file,omitempty"`
	// Subscriptions declares the registry inline instead of in a
	// separate file.
	Subscriptions []subinfo.Subscription `yaml:"subscriptions,omitempty"`
	// DefaultSub is the subscription id used when none is given on the
	// command line (default 1).
	DefaultSub int `yaml:"default_sub,omitempty"`
}

// Load reads .ovlkit.yaml from rootDir. A missing file yields the
// defaults, not an error.
func Load(rootDir string) (*File, error) {
	f := &File{}

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	// Defaults
	if f.ResDir == "" {
		f.ResDir = "res"
	}
	if f.SubscriptionsFile == "" {
		f.SubscriptionsFile = "subscriptions.yaml"
	}
	if f.DefaultSub == 0 {
		f.DefaultSub = 1
	}

	return f, nil
}

// AbsResDir returns the resource directory resolved against rootDir.
func (f *File) AbsResDir(rootDir string) string {
	return filepath.Join(rootDir, f.ResDir)
}

// Registry builds the subscription registry: the inline list when
// declared, otherwise the subscriptions file. A missing file yields an
// empty registry — every lookup then carries the unknown-carrier
// sentinel and resolution degrades to base strings.
func (f *File) Registry(rootDir string) (*subinfo.Registry, error) {
	if len(f.Subscriptions) > 0 {
		return subinfo.Load(f.Subscriptions)
	}

	path := filepath.Join(rootDir, f.SubscriptionsFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return subinfo.Load(nil)
	}
	return subinfo.LoadFile(path)
}
