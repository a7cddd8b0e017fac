package hull

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML hull format.
type File struct {
	Name      string       `yaml:"name"`
	Vertices  [][3]float32 `yaml:"vertices"`
	Triangles [][3]uint32  `yaml:"triangles"`
}

// Load reads a YAML hull file.
func Load(path string) (Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Geometry{}, fmt.Errorf("reading hull file: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return Geometry{}, fmt.Errorf("parsing hull file %s: %w", path, err)
	}
	if g.Name == "" {
		g.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return g, nil
}

// Parse decodes YAML hull data.
func Parse(data []byte) (Geometry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Geometry{}, err
	}
	return f.Geometry(), nil
}

// Geometry flattens the file into raw buffers. Index ranges are validated
// when the buffers are welded.
func (f File) Geometry() Geometry {
	g := Geometry{
		Name:      f.Name,
		Positions: make([]float32, 0, len(f.Vertices)*3),
		Indices:   make([]uint32, 0, len(f.Triangles)*3),
	}
	for _, v := range f.Vertices {
		g.Positions = append(g.Positions, v[0], v[1], v[2])
	}
	for _, t := range f.Triangles {
		g.Indices = append(g.Indices, t[0], t[1], t[2])
	}
	return g
}

// Save writes g as a YAML hull file.
func Save(path string, g Geometry) error {
	f := File{Name: g.Name}
	for i := 0; i < g.VertexCount(); i++ {
		v := g.Vertex(uint32(i))
		f.Vertices = append(f.Vertices, [3]float32{v.X, v.Y, v.Z})
	}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		f.Triangles = append(f.Triangles, [3]uint32{g.Indices[i], g.Indices[i+1], g.Indices[i+2]})
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling hull: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating hull directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing hull file: %w", err)
	}
	return nil
}
