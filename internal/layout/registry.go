package layout

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed data/*.json data/geometry.yaml
var builtin embed.FS

// DefaultID is the layout used when none is configured.
const DefaultID = "us"

// ErrUnknownLayout is returned when a layout id is not registered.
var ErrUnknownLayout = errors.New("unknown layout")

// Info describes a registered layout.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registry holds the known layouts and the shared geometry.
type Registry struct {
	logger   zerolog.Logger
	mu       sync.RWMutex
	geometry Geometry
	raw      map[string][]byte
	bindings map[string]Bindings
}

// NewRegistry loads the built-in layouts, then *.json files from dir, which
// override built-ins of the same id. An empty dir or geometryPath is skipped.
func NewRegistry(dir, geometryPath string) (*Registry, error) {
	r := &Registry{
		logger: log.With().
			Str("module", "layout").
			Logger(),
		raw:      make(map[string][]byte),
		bindings: make(map[string]Bindings),
	}

	geomData, err := builtin.ReadFile("data/geometry.yaml")
	if err != nil {
		return nil, err
	}
	if geometryPath != "" {
		geomData, err = os.ReadFile(geometryPath)
		if err != nil {
			return nil, fmt.Errorf("read geometry: %w", err)
		}
	}
	if r.geometry, err = ParseGeometry(geomData); err != nil {
		return nil, err
	}

	if err := r.loadFS(builtin, "data"); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := r.loadFS(os.DirFS(dir), "."); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			r.logger.Debug().Str("dir", dir).Msg("layout directory missing")
		}
	}
	return r, nil
}

// loadFS registers every *.json file found in dir of fsys.
func (r *Registry) loadFS(fsys fs.FS, dir string) error {
	if _, err := fs.Stat(fsys, dir); err != nil {
		return err
	}
	matches, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(path.Base(name), ".json")
		if err := r.Add(id, data); err != nil {
			return fmt.Errorf("layout %s: %w", id, err)
		}
	}
	return nil
}

// Add registers or replaces a layout from its JSON document.
func (r *Registry) Add(id string, data []byte) error {
	b, err := ParseBindings(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw[id] = append([]byte(nil), data...)
	r.bindings[id] = b
	r.logger.Debug().Str("id", id).Str("name", b.Meta.Name).Int("keys", len(b.Layout)).Msg("layout registered")
	return nil
}

// List returns the registered layouts sorted by id.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.bindings))
	for id, b := range r.bindings {
		out = append(out, Info{ID: id, Name: b.Meta.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Raw returns the JSON document of a layout.
func (r *Registry) Raw(id string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.raw[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	return data, nil
}

// Geometry returns the keyboard geometry shared by all layouts.
func (r *Registry) Geometry() Geometry {
	return r.geometry
}

// Get returns the layout provider for id.
func (r *Registry) Get(id string) (*Keyboard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, id)
	}
	return NewKeyboard(r.geometry, b), nil
}

// Default returns the layout provider for DefaultID.
func (r *Registry) Default() *Keyboard {
	k, err := r.Get(DefaultID)
	if err != nil {
		// Unreachable while the built-in layouts are embedded.
		panic(err)
	}
	return k
}
