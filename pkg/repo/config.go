package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultAuthor is the commit identity used when user.name is not
// configured and no author was supplied.
const DefaultAuthor = "Grit User <user@grit.local>"

const defaultBranch = "main"

func (r *Repo) configPath() string {
	return filepath.Join(r.GritDir, "config")
}

// loadConfig reads .grit/config. A missing file yields an empty config.
func (r *Repo) loadConfig() (*ini.File, error) {
	data, err := r.FS.ReadFile(r.configPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ini.Empty(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

func (r *Repo) saveConfig(cfg *ini.File) error {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := r.FS.WriteFile(r.configPath(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (r *Repo) writeDefaultConfig() error {
	cfg := ini.Empty()
	cfg.Section("core").Key("repositoryformatversion").SetValue("0")
	cfg.Section("init").Key("defaultBranch").SetValue(defaultBranch)
	return r.saveConfig(cfg)
}

// splitConfigKey splits a dotted "section.key" address.
func splitConfigKey(key string) (string, string, error) {
	section, name, ok := strings.Cut(key, ".")
	if !ok || section == "" || name == "" {
		return "", "", fmt.Errorf("invalid config key %q (want section.key)", key)
	}
	return section, name, nil
}

// ConfigGet returns the value stored under a dotted "section.key" address.
// An unset key reports an error naming the key.
func (r *Repo) ConfigGet(key string) (string, error) {
	section, name, err := splitConfigKey(key)
	if err != nil {
		return "", err
	}
	cfg, err := r.loadConfig()
	if err != nil {
		return "", err
	}
	val := cfg.Section(section).Key(name).String()
	if val == "" {
		return "", fmt.Errorf("config key %q is not set", key)
	}
	return val, nil
}

// ConfigSet stores a value under a dotted "section.key" address.
func (r *Repo) ConfigSet(key, value string) error {
	section, name, err := splitConfigKey(key)
	if err != nil {
		return err
	}
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	cfg.Section(section).Key(name).SetValue(value)
	return r.saveConfig(cfg)
}

// AuthorIdentity composes "Name <email>" from user.name and user.email.
// Without a configured user.name it falls back to DefaultAuthor.
func (r *Repo) AuthorIdentity() string {
	cfg, err := r.loadConfig()
	if err != nil {
		return DefaultAuthor
	}
	name := cfg.Section("user").Key("name").String()
	if name == "" {
		return DefaultAuthor
	}
	email := cfg.Section("user").Key("email").String()
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// defaultBranchName returns init.defaultBranch, falling back to "main".
func (r *Repo) defaultBranchName() string {
	cfg, err := r.loadConfig()
	if err != nil {
		return defaultBranch
	}
	if name := cfg.Section("init").Key("defaultBranch").String(); name != "" {
		return name
	}
	return defaultBranch
}
