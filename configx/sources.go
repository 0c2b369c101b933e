package configx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvSource loads configuration from environment variables.
// WACLOUD_WHATSAPP_TOKEN with prefix "WACLOUD_" becomes whatsapp.token.
type EnvSource struct {
	prefix   string
	priority int
}

// NewEnvSource creates a new environment variable source
func NewEnvSource(prefix string, priority int) Source {
	return &EnvSource{prefix: prefix, priority: priority}
}

// Load loads configuration values from environment variables
func (s *EnvSource) Load() (map[string]any, error) {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		key, val, ok := strings.Cut(env, "=")
		if ok {
			vars[key] = val
		}
	}
	return nestKeys(vars, s.prefix), nil
}

func (s *EnvSource) Name() string  { return fmt.Sprintf("env(%s)", s.prefix) }
func (s *EnvSource) Priority() int { return s.priority }

// DotEnvSource loads configuration from a .env file
type DotEnvSource struct {
	path     string
	priority int
}

// NewDotEnvSource creates a new .env file source
func NewDotEnvSource(path string, priority int) Source {
	return &DotEnvSource{path: path, priority: priority}
}

// Load reads the file with godotenv. Keys are nested like EnvSource without a prefix.
func (s *DotEnvSource) Load() (map[string]any, error) {
	vars, err := godotenv.Read(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return nestKeys(vars, ""), nil
}

func (s *DotEnvSource) Name() string  { return fmt.Sprintf("dotenv(%s)", s.path) }
func (s *DotEnvSource) Priority() int { return s.priority }

// MapSource loads configuration from a map
type MapSource struct {
	values   map[string]any
	name     string
	priority int
}

// NewMapSource creates a new map source. Dotted keys are expanded.
func NewMapSource(values map[string]any, name string, priority int) Source {
	expanded := make(map[string]any)
	for k, v := range values {
		setNested(expanded, strings.Split(strings.ToLower(k), "."), v)
	}
	return &MapSource{values: expanded, name: name, priority: priority}
}

func (s *MapSource) Load() (map[string]any, error) { return deepCopyMap(s.values), nil }
func (s *MapSource) Name() string                   { return s.name }
func (s *MapSource) Priority() int                  { return s.priority }

// nestKeys turns SERVER_PORT=80 into {"server":{"port":"80"}}, keeping only
// variables that carry prefix when one is given
func nestKeys(vars map[string]string, prefix string) map[string]any {
	result := make(map[string]any)
	for key, val := range vars {
		if prefix != "" {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			key = strings.TrimPrefix(key, prefix)
		}
		if key == "" {
			continue
		}
		setNested(result, strings.Split(strings.ToLower(key), "_"), val)
	}
	return result
}

func setNested(m map[string]any, path []string, val any) {
	for _, part := range path[:len(path)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[part] = next
		}
		m = next
	}
	m[path[len(path)-1]] = val
}
