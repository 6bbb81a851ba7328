// Package survey resolves e-Stat mesh survey descriptors.
//
// A Registry is loaded once, from the embedded mesh_stats.json or from a user
// supplied file with the same shape, and passed to whatever needs a lookup.
package survey

import (
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/goccy/go-json"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// DownloadBaseURL is the e-Stat statistics download endpoint.
const DownloadBaseURL = "https://www.e-stat.go.jp/gis/statmap-search/data"

//go:embed mesh_stats.json
var defaultRegistry []byte

// Descriptor identifies one downloadable mesh statistics table.
type Descriptor struct {
	Name      string `json:"name"`
	Year      uint16 `json:"year"`
	MeshLevel uint8  `json:"meshlevel"`
	StatsID   string `json:"stats_id"`
	Datum     uint16 `json:"datum"`
}

// DownloadURL returns the archive URL for one first-level mesh.
func (d Descriptor) DownloadURL(lv1 uint64) string {
	return fmt.Sprintf("%s?statsId=%s&code=%d&downloadType=2", DownloadBaseURL, url.QueryEscape(d.StatsID), lv1)
}

// ArchiveName returns the local file name of the archive for lv1,
// "<year>-<statsId>-<lv1>.zip".
func (d Descriptor) ArchiveName(lv1 uint64) string {
	return fmt.Sprintf("%d-%s-%d.zip", d.Year, d.StatsID, lv1)
}

// Registry is an ordered list of descriptors.
type Registry struct {
	descriptors []Descriptor
}

type registryFile struct {
	MeshStats []Descriptor `json:"mesh_stats"`
}

// Load parses a registry document.
func Load(r io.Reader) (*Registry, error) {
	var doc registryFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing mesh survey registry: %w", err)
	}

	for i, d := range doc.MeshStats {
		if d.Name == "" || d.StatsID == "" {
			return nil, fmt.Errorf("%w: registry entry %d needs name and stats_id", errs.ErrInvalidOption, i)
		}
	}

	return &Registry{descriptors: doc.MeshStats}, nil
}

// LoadFile parses a registry document from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reg, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return reg, nil
}

// Default returns the embedded registry.
func Default() *Registry {
	var doc registryFile
	if err := json.Unmarshal(defaultRegistry, &doc); err != nil {
		panic(fmt.Sprintf("embedded mesh_stats.json: %v", err))
	}

	return &Registry{descriptors: doc.MeshStats}
}

// Descriptors returns a copy of the registry entries in order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)

	return out
}

// Lookup returns the first descriptor matching level, year and name exactly.
func (r *Registry) Lookup(level uint8, year uint16, name string) (Descriptor, error) {
	for _, d := range r.descriptors {
		if d.MeshLevel == level && d.Year == year && d.Name == name {
			return d, nil
		}
	}

	return Descriptor{}, fmt.Errorf("%w: level %d, year %d, survey %q", errs.ErrNoMatchingSurvey, level, year, name)
}
