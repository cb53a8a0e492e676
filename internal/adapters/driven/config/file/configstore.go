package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFile is the settings file name inside the archive home.
const ConfigFile = "config.toml"

// ConfigStore serves settings read once from config.toml.
// A missing file yields an empty store, so every setting takes its default.
type ConfigStore struct {
	path   string
	values map[string]any
}

// NewConfigStore reads config.toml from home.
func NewConfigStore(home string) (*ConfigStore, error) {
	s := &ConfigStore{
		path:   filepath.Join(home, ConfigFile),
		values: make(map[string]any),
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	flatten(tree, "", s.values)
	return s, nil
}

// Path returns the location of the settings file.
func (s *ConfigStore) Path() string {
	return s.path
}

func (s *ConfigStore) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// GetInt reads a TOML integer, which the decoder yields as int64.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.values[key].(int64)
	return int(v)
}

func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

func (s *ConfigStore) GetDuration(key string) time.Duration {
	switch v := s.values[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return 0
}

// flatten copies the leaves of tree into out under dotted keys.
func flatten(tree map[string]any, prefix string, out map[string]any) {
	for k, v := range tree {
		if prefix != "" {
			k = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			flatten(table, k, out)
			continue
		}
		out[k] = v
	}
}
