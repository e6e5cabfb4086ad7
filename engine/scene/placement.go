package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidPlacement is wrapped by every placement table validation failure.
var ErrInvalidPlacement = errors.New("invalid placement")

// Placement describes one instance of the castle: the shape it draws, where it sits and what it is made of.
type Placement struct {
	Name    string           `toml:"name"`
	Submesh geometry.Submesh `toml:"submesh"`
	// Scale is applied before Translate.
	Scale     [3]float32 `toml:"scale"`
	Translate [3]float32 `toml:"translate"`
	Material  string     `toml:"material"`
	// TexScale scales texture coordinates. A zero value means no scaling.
	TexScale [2]float32 `toml:"tex_scale"`
}

// World returns the placement's object-to-world transform, Translate * Scale.
func (p Placement) World() mgl32.Mat4 {
	scale := mgl32.Vec3(p.Scale)
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return common.PlacementMatrix(scale, mgl32.Vec3(p.Translate))
}

// TexTransform returns the texture coordinate transform.
func (p Placement) TexTransform() mgl32.Mat4 {
	if p.TexScale == ([2]float32{}) {
		return mgl32.Ident4()
	}
	return mgl32.Scale3D(p.TexScale[0], p.TexScale[1], 1)
}

// placementFile is the TOML layout of a scene file.
type placementFile struct {
	Placements []Placement `toml:"placement"`
}

// LoadPlacements reads a TOML scene file containing [[placement]] tables.
//
// Parameters:
//   - path: the scene file
//   - materials: the material names placements may reference
//
// Returns:
//   - []Placement: the placements in file order
//   - error: error if the file cannot be read, decoded or validated
func LoadPlacements(path string, materials []string) ([]Placement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %q: %w", path, err)
	}
	placements, err := ParsePlacements(data, materials)
	if err != nil {
		return nil, fmt.Errorf("scene file %q: %w", path, err)
	}
	return placements, nil
}

// ParsePlacements decodes a TOML scene document and validates it against the known materials.
//
// Parameters:
//   - data: the TOML document
//   - materials: the material names placements may reference
//
// Returns:
//   - []Placement: the decoded placements
//   - error: error if decoding fails or a placement is invalid
func ParsePlacements(data []byte, materials []string) ([]Placement, error) {
	var f placementFile
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode placements: %w", err)
	}
	if err := ValidatePlacements(f.Placements, materials); err != nil {
		return nil, err
	}
	return f.Placements, nil
}

// ValidatePlacements checks that the table is non-empty and that every placement names a known
// material and has no negative or zero scale component.
//
// Parameters:
//   - placements: the table to check
//   - materials: the material names placements may reference
//
// Returns:
//   - error: an error wrapping ErrInvalidPlacement, or nil
func ValidatePlacements(placements []Placement, materials []string) error {
	if len(placements) == 0 {
		return fmt.Errorf("%w: no placements", ErrInvalidPlacement)
	}
	known := make(map[string]bool, len(materials))
	for _, m := range materials {
		known[m] = true
	}
	for i, p := range placements {
		if !known[p.Material] {
			return fmt.Errorf("%w: placement %d (%s) uses unknown material %q", ErrInvalidPlacement, i, p.Name, p.Material)
		}
		if p.Scale != ([3]float32{}) && (p.Scale[0] <= 0 || p.Scale[1] <= 0 || p.Scale[2] <= 0) {
			return fmt.Errorf("%w: placement %d (%s) has scale %v", ErrInvalidPlacement, i, p.Name, p.Scale)
		}
	}
	return nil
}
