package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSetting is returned when a value does not parse as its setting's type.
var ErrInvalidSetting = errors.New("invalid setting value")

// Defaults holds the recognised settings and their default values. The
// default's spelling decides how a value is validated.
var Defaults = map[string]string{
	"view.sensitivity":    "1.5",
	"view.acceleration":   "0.3",
	"view.naturalScroll":  "true",
	"view.clickDelay":     "300",
	"view.clickThreshold": "10",
	"view.cancelPolicy":   "end",
	"keyboard.layout":     "us",
}

// choices restricts settings that take one of a fixed set of values.
var choices = map[string][]string{
	"view.cancelPolicy": {"end", "discard"},
}

// Settings is a concurrency-safe string store of user settings, optionally
// persisted to a YAML file.
type Settings struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// NewSettings returns an empty in-memory store.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]string)}
}

// LoadSettings reads path into a store that saves back to it. A missing file
// yields an empty store.
func LoadSettings(path string) (*Settings, error) {
	s := NewSettings()
	s.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	flatten("", doc, s.values)
	return s, nil
}

// flatten copies nested maps into out using dotted keys.
func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Get returns the stored value, or the registered default.
func (s *Settings) Get(name string) (string, bool) {
	s.mu.RLock()
	v, ok := s.values[name]
	s.mu.RUnlock()
	if ok {
		return v, true
	}
	v, ok = Defaults[name]
	return v, ok
}

// String returns the value of name, or def when unset.
func (s *Settings) String(name, def string) string {
	if v, ok := s.Get(name); ok {
		return v
	}
	return def
}

// Float returns the value of name as a float, or def when unset or invalid.
func (s *Settings) Float(name string, def float64) float64 {
	v, ok := s.Get(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Bool returns the value of name as a bool, or def when unset or invalid.
func (s *Settings) Bool(name string, def bool) bool {
	v, ok := s.Get(name)
	if !ok {
		return def
	}
	b, ok := parseBool(v)
	if !ok {
		return def
	}
	return b
}

// Set validates and stores a value, then persists the store.
func (s *Settings) Set(name, value string) error {
	return s.SetMany(map[string]string{name: value})
}

// SetMany validates every value, then stores them all and persists once.
// Nothing is stored when any value is rejected.
func (s *Settings) SetMany(values map[string]string) error {
	return s.Apply(values, false)
}

// Apply validates values, optionally drops every stored value, then stores
// values and persists once. Nothing changes when any value is rejected.
func (s *Settings) Apply(values map[string]string, reset bool) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	clean := make(map[string]string, len(values))
	for _, name := range names {
		value := strings.TrimSpace(values[name])
		if err := validate(name, value); err != nil {
			return err
		}
		clean[name] = value
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.values
	if reset {
		stored = make(map[string]string)
	}
	for _, name := range names {
		if other, ok := conflict(name, stored, clean); ok {
			return fmt.Errorf("%w: %s conflicts with %s", ErrInvalidSetting, name, other)
		}
	}
	s.values = stored
	for name, value := range clean {
		s.values[name] = value
	}
	return s.saveLocked()
}

// conflict returns a stored, default or pending name that would nest under
// name or that name would nest under.
func conflict(name string, stored, pending map[string]string) (string, bool) {
	for _, set := range []map[string]string{stored, Defaults, pending} {
		for other := range set {
			if other == name {
				continue
			}
			if strings.HasPrefix(other, name+".") || strings.HasPrefix(name, other+".") {
				return other, true
			}
		}
	}
	return "", false
}

// Reset drops every stored value, reverting to defaults, then persists.
func (s *Settings) Reset() error {
	return s.Apply(nil, true)
}

// Snapshot returns the defaults overlaid with the stored values.
func (s *Settings) Snapshot() map[string]string {
	out := make(map[string]string, len(Defaults))
	for k, v := range Defaults {
		out[k] = v
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// validate checks value against the type implied by the setting's default.
func validate(name, value string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSetting)
	}
	for _, part := range strings.Split(name, ".") {
		if strings.TrimSpace(part) == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidSetting, name)
		}
	}
	def, known := Defaults[name]
	if !known {
		return nil
	}
	if allowed, ok := choices[name]; ok {
		for _, c := range allowed {
			if value == c {
				return nil
			}
		}
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidSetting, name, strings.Join(allowed, ", "))
	}
	if _, isBool := parseBool(def); isBool {
		if _, ok := parseBool(value); !ok {
			return fmt.Errorf("%w: %s must be a boolean", ErrInvalidSetting, name)
		}
		return nil
	}
	if _, err := strconv.ParseFloat(def, 64); err == nil {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", ErrInvalidSetting, name)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidSetting, name)
		}
		if f < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidSetting, name)
		}
	}
	return nil
}

// saveLocked writes the stored values as nested YAML. Caller holds mu.
func (s *Settings) saveLocked() error {
	if s.path == "" {
		return nil
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		insert(root, strings.Split(k, "."), s.values[k])
	}
	data, err := yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// insert places value under the nested path of mapping node m.
func insert(m *yaml.Node, path []string, value string) {
	for i := 0; i < len(m.Content); i += 2 {
		if m.Content[i].Value != path[0] {
			continue
		}
		child := m.Content[i+1]
		if len(path) > 1 && child.Kind == yaml.MappingNode {
			insert(child, path[1:], value)
			return
		}
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Value: path[0]}
	if len(path) == 1 {
		m.Content = append(m.Content, key, &yaml.Node{Kind: yaml.ScalarNode, Value: value})
		return
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, key, child)
	insert(child, path[1:], value)
}
