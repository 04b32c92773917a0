package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/monkeython/multipla/internal/log"
)

// ManifestPlug is the implementation object produced by a manifest source:
// the declared metadata of one plugin, as read from its manifest file.
type ManifestPlug struct {
	Label       string            `yaml:"label"`       // extension point label
	ID          string            `yaml:"id"`          // implementation identifier
	Description string            `yaml:"description"` // human-readable description
	Attributes  map[string]string `yaml:"attributes"`  // free-form metadata
}

// manifestFile is the root structure of a plug manifest.
type manifestFile struct {
	Registry string         `yaml:"registry"` // registry name the plugs target
	Plugs    []ManifestPlug `yaml:"plugs"`
}

// ManifestDir discovers plugs from YAML manifest files in a directory.
// Every *.yaml or *.yml file declares a registry name and a list of plugs.
// Rescan re-reads the directory and announces anything that appeared since
// the last pass; pair it with a Watcher to pick up new manifests live.
type ManifestDir struct {
	dir  string
	feed *feed
}

// NewManifestDir creates a source reading plug manifests from dir.
func NewManifestDir(dir string) *ManifestDir {
	return &ManifestDir{
		dir:  dir,
		feed: newFeed(),
	}
}

// Name identifies the source by its directory.
func (m *ManifestDir) Name() string { return "manifest:" + m.dir }

// Dir returns the directory this source reads manifests from.
func (m *ManifestDir) Dir() string { return m.dir }

// Enumerate parses every manifest in the directory and returns the plugs
// targeting the given registry. A manifest that cannot be read or parsed is
// skipped with a warning; one broken file must not hide the others.
func (m *ManifestDir) Enumerate(ctx context.Context, registry string) ([]Plug, error) {
	files, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	var plugs []Plug
	for _, file := range files {
		if file.Registry != registry {
			continue
		}
		for _, entry := range file.Plugs {
			plugs = append(plugs, Plug{
				Label:          entry.Label,
				ID:             entry.ID,
				Implementation: entry,
			})
		}
	}
	return plugs, nil
}

// Subscribe delivers current and future plugs for the registry to fn,
// at most once each, until ctx is cancelled.
func (m *ManifestDir) Subscribe(ctx context.Context, registry string, fn func(Plug)) error {
	return m.feed.subscribe(ctx, m.Name(), registry, m.Enumerate, fn)
}

// Rescan re-reads the directory and announces every plug found, for every
// registry named by the manifests. Subscribers deduplicate, so announcing
// already-known plugs is harmless.
func (m *ManifestDir) Rescan(ctx context.Context) error {
	files, err := m.load(ctx)
	if err != nil {
		return err
	}

	count := 0
	for _, file := range files {
		for _, entry := range file.Plugs {
			m.feed.announce(file.Registry, Plug{
				Label:          entry.Label,
				ID:             entry.ID,
				Implementation: entry,
			})
			count++
		}
	}
	log.Debug(log.CatDiscovery, "manifest rescan", "dir", m.dir, "plugs", count)
	return nil
}

// load parses every manifest file in the directory.
func (m *ManifestDir) load(ctx context.Context) ([]manifestFile, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("reading manifest dir %s: %w", m.dir, err)
	}

	var files []manifestFile
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || !isManifestName(entry.Name()) {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		data, err := os.ReadFile(path) //nolint:gosec // G304: enumerating a configured directory
		if err != nil {
			log.ErrorErr(log.CatDiscovery, "skipping unreadable manifest", err, "path", path)
			continue
		}

		var file manifestFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			log.ErrorErr(log.CatDiscovery, "skipping malformed manifest", err, "path", path)
			continue
		}
		if file.Registry == "" {
			log.Warn(log.CatDiscovery, "skipping manifest without registry", "path", path)
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

// isManifestName reports whether a file name looks like a plug manifest.
func isManifestName(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
