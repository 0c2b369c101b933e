package configx

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config represents the main configuration interface
type Config interface {
	// Get retrieves a configuration value by dotted key
	Get(key string) Value

	// Has checks if a configuration key exists
	Has(key string) bool

	// AllSettings returns a copy of all settings
	AllSettings() map[string]any

	// LoadAll reloads all configuration sources
	LoadAll() error
}

// Source represents a configuration source
type Source interface {
	// Load loads configuration values from the source
	Load() (map[string]any, error)

	// Name returns the name of the source
	Name() string

	// Priority returns the priority of the source (higher values override lower)
	Priority() int
}

// Value wraps a configuration value and provides type conversion methods
type Value interface {
	IsSet() bool
	AsString() string
	AsStringDefault(def string) string
	AsIntDefault(def int) int
	AsBoolDefault(def bool) bool
	AsDurationDefault(def time.Duration) time.Duration
}

const (
	PriorityDefault = 10
	PriorityDotEnv  = 20
	PriorityEnv     = 30
	PriorityMap     = 40
)

type configuration struct {
	sync.RWMutex
	values  map[string]any
	sources []Source
}

// New creates a Config from sources and loads them
func New(sources ...Source) (Config, error) {
	cfg := &configuration{
		values:  make(map[string]any),
		sources: append([]Source(nil), sources...),
	}
	sort.SliceStable(cfg.sources, func(i, j int) bool {
		return cfg.sources[i].Priority() < cfg.sources[j].Priority()
	})
	if err := cfg.LoadAll(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get retrieves a configuration value by key
func (c *configuration) Get(key string) Value {
	c.RLock()
	defer c.RUnlock()
	v, ok := c.findValue(key)
	return &value{key: key, val: v, set: ok}
}

// findValue walks nested maps following a dotted key
func (c *configuration) findValue(key string) (any, bool) {
	var current any = c.values
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// Has checks if a configuration key exists
func (c *configuration) Has(key string) bool {
	c.RLock()
	defer c.RUnlock()
	_, ok := c.findValue(key)
	return ok
}

// AllSettings returns all settings as a map
func (c *configuration) AllSettings() map[string]any {
	c.RLock()
	defer c.RUnlock()
	return deepCopyMap(c.values)
}

// LoadAll reloads every source, lowest priority first
func (c *configuration) LoadAll() error {
	merged := make(map[string]any)
	for _, source := range c.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("configx: loading %s: %w", source.Name(), err)
		}
		mergeMapRecursive(merged, data)
	}

	c.Lock()
	c.values = merged
	c.Unlock()
	return nil
}

func mergeMapRecursive(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeMapRecursive(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			dst[k] = deepCopyMap(srcMap)
			continue
		}
		dst[k] = v
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}

// value implements the Value interface
type value struct {
	key string
	val any
	set bool
}

func (v *value) IsSet() bool {
	return v.set && v.val != nil
}

func (v *value) AsString() string {
	return v.AsStringDefault("")
}

func (v *value) AsStringDefault(def string) string {
	if !v.IsSet() {
		return def
	}
	if s, ok := v.val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v.val)
}

func (v *value) AsIntDefault(def int) int {
	if !v.IsSet() {
		return def
	}
	switch n := v.val.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

func (v *value) AsBoolDefault(def bool) bool {
	if !v.IsSet() {
		return def
	}
	switch b := v.val.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "1", "on":
			return true
		case "false", "no", "0", "off":
			return false
		}
	}
	return def
}

// AsDurationDefault accepts Go duration strings or integer seconds
func (v *value) AsDurationDefault(def time.Duration) time.Duration {
	if !v.IsSet() {
		return def
	}
	switch d := v.val.(type) {
	case time.Duration:
		return d
	case int:
		return time.Duration(d) * time.Second
	case string:
		if parsed, err := time.ParseDuration(d); err == nil {
			return parsed
		}
		if secs, err := strconv.Atoi(d); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}

// -----------------------------------------------------------------------------
// Builder implementation
// -----------------------------------------------------------------------------

// Builder provides a fluent API for building configuration
type Builder struct {
	sources     []Source
	requiredEnv []string
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithDefaults adds default values
func (b *Builder) WithDefaults(defaults map[string]any) *Builder {
	b.sources = append(b.sources, NewMapSource(defaults, "defaults", PriorityDefault))
	return b
}

// FromDotEnv adds a .env file source; a missing file is skipped
func (b *Builder) FromDotEnv(path string) *Builder {
	b.sources = append(b.sources, NewDotEnvSource(path, PriorityDotEnv))
	return b
}

// FromEnv adds an environment variable source
func (b *Builder) FromEnv(prefix string) *Builder {
	b.sources = append(b.sources, NewEnvSource(prefix, PriorityEnv))
	return b
}

// FromMap adds a map source with the highest priority
func (b *Builder) FromMap(values map[string]any, name string) *Builder {
	b.sources = append(b.sources, NewMapSource(values, name, PriorityMap))
	return b
}

// RequireEnv specifies environment variables that must be present
func (b *Builder) RequireEnv(envVars ...string) *Builder {
	b.requiredEnv = append(b.requiredEnv, envVars...)
	return b
}

// Build builds the configuration
func (b *Builder) Build() (Config, error) {
	var missing []string
	for _, name := range b.requiredEnv {
		if _, ok := os.LookupEnv(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("configx: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return New(b.sources...)
}
