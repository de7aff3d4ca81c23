package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvPath names a config file that takes precedence over the search paths.
const EnvPath = "PHOTOEDIT_CONFIG"

// Loader finds and parses the configuration file.
type Loader struct {
	Version      string // "dev" also searches the working directory
	OverridePath string // set at build time if needed
	Home         string // defaults to the user's home directory
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{Version: version, OverridePath: overridePath, Home: home}
}

// Candidates lists the paths searched, most specific first.
func (l *Loader) Candidates() []string {
	var paths []string
	if p := os.Getenv(EnvPath); p != "" {
		paths = append(paths, p)
	}
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".photoeditrc"))
		}
	}
	if l.Home != "" {
		dir := filepath.Join(l.Home, ".config", "photoedit")
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "photoedit.rc"))
	}
	return paths
}

// GetConfigPath returns the first existing candidate, or "" if none exists.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.Candidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// SavePath is where a new configuration is written: the loaded file if
// there is one, otherwise the XDG location.
func (l *Loader) SavePath() (string, error) {
	if p := l.GetConfigPath(); p != "" {
		return p, nil
	}
	if l.Home == "" {
		return "", fmt.Errorf("no home directory to save the configuration in")
	}
	return filepath.Join(l.Home, ".config", "photoedit", "config.rc"), nil
}

// Load parses the configuration file, or returns defaults when none exists.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
