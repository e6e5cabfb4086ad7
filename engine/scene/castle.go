package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
)

// Material names used by the castle tables.
const (
	MaterialBricks = "bricks0"
	MaterialStone  = "stone0"
	MaterialTile   = "tile0"
)

// MaterialNames lists the materials a placement table may reference, in constant buffer index order.
func MaterialNames() []string {
	return []string{MaterialBricks, MaterialStone, MaterialTile}
}

// castle column corners along z, and the x of the front and back column rows.
var (
	columnZ = [2]float32{-53, 44}
	columnX = [2]float32{-45, 50}
)

const (
	columnCenterY = 15
	// sphere caps sit at the top of the 30 unit tall columns
	sphereCenterY = 30
	// cones rest on the sphere caps
	coneCenterY = 47
)

func box(name string, scale, translate [3]float32, material string) Placement {
	return Placement{Name: name, Submesh: geometry.SubmeshBox, Scale: scale, Translate: translate, Material: material}
}

// walls returns the walls, merlins, crenels and ground shared by both variants, in object index order.
func walls() []Placement {
	p := []Placement{
		box("backWall", [3]float32{10, 20, 100}, [3]float32{50, 10, -10}, MaterialStone),
		box("rightWall", [3]float32{100, 20, 10}, [3]float32{5, 10, -55}, MaterialStone),
		box("leftWall", [3]float32{100, 20, 10}, [3]float32{0, 10, 45}, MaterialStone),
		box("frontWall0", [3]float32{10, 20, 35}, [3]float32{-45, 10, -37}, MaterialStone),
		box("frontWall1", [3]float32{10, 20, 35}, [3]float32{-45, 10, 28}, MaterialStone),
		box("gateLintel", [3]float32{10, 6, 31}, [3]float32{-45, 17, -4}, MaterialStone),
	}

	merlin := [3]float32{1, 6, 15}
	for i, t := range [][3]float32{
		{-40, 22, -25}, {-40, 22, -5}, {-40, 22, 15},
		{-50, 22, 23}, {-50, 22, 3}, {-50, 22, -17}, {-50, 22, -37},
	} {
		p = append(p, box(fmt.Sprintf("frontMerlin%d", i), merlin, t, MaterialTile))
	}
	p = append(p,
		box("frontCrenel0", [3]float32{0.5, 4, 100}, [3]float32{-50.2, 20, -4}, MaterialBricks),
		box("frontCrenel1", [3]float32{0.5, 4, 100}, [3]float32{-40.2, 20, -4}, MaterialBricks),
	)

	for i, t := range [][3]float32{
		{45, 22, -25}, {45, 22, -5}, {45, 22, 15},
		{55, 22, 23}, {55, 22, 3}, {55, 22, -17}, {55, 22, -37},
	} {
		p = append(p, box(fmt.Sprintf("backMerlin%d", i), merlin, t, MaterialTile))
	}
	p = append(p,
		box("backCrenel0", [3]float32{0.5, 4, 100}, [3]float32{55.2, 20, -4}, MaterialBricks),
		box("backCrenel1", [3]float32{0.5, 4, 100}, [3]float32{45.2, 20, -4}, MaterialBricks),
		Placement{Name: "ground", Submesh: geometry.SubmeshGrid, Material: MaterialBricks, TexScale: [2]float32{8, 8}},
		box("leftCrenel0", [3]float32{100, 4, 0.5}, [3]float32{1, 20, 40}, MaterialBricks),
		box("leftCrenel1", [3]float32{100, 4, 0.5}, [3]float32{1, 20, 50}, MaterialBricks),
		box("rightCrenel0", [3]float32{100, 4, 0.5}, [3]float32{5, 20, -50}, MaterialBricks),
		box("rightCrenel1", [3]float32{100, 4, 0.5}, [3]float32{5, 20, -60}, MaterialBricks),
	)
	return p
}

// corner returns one placement per column corner row, front then back.
func corner(name string, s geometry.Submesh, y float32, material string, z float32, i int) []Placement {
	return []Placement{
		{Name: fmt.Sprintf("front%s%d", name, i), Submesh: s, Translate: [3]float32{columnX[0], y, z}, Material: material},
		{Name: fmt.Sprintf("back%s%d", name, i), Submesh: s, Translate: [3]float32{columnX[1], y, z}, Material: material},
	}
}

// CastlePlacements returns the built-in placement table of a scene variant.
// The columns variant has 37 instances; the shapes variant adds a cone to each of the four corner
// columns for 41.
//
// Parameters:
//   - variant: config.VariantColumns or config.VariantShapes
//
// Returns:
//   - []Placement: the placements in object index order
//   - error: error if the variant is unknown
func CastlePlacements(variant string) ([]Placement, error) {
	p := walls()
	switch variant {
	case config.VariantColumns:
		for i, z := range columnZ {
			p = append(p, corner("Column", geometry.SubmeshCylinder, columnCenterY, MaterialBricks, z, i)...)
			p = append(p, corner("Sphere", geometry.SubmeshSphere, sphereCenterY, MaterialStone, z, i)...)
		}
	case config.VariantShapes:
		for i, z := range columnZ {
			p = append(p, corner("Column", geometry.SubmeshCylinder, columnCenterY, MaterialBricks, z, i)...)
			p = append(p, corner("Cone", geometry.SubmeshCone, coneCenterY, MaterialTile, z, i)...)
			p = append(p, corner("Sphere", geometry.SubmeshSphere, sphereCenterY, MaterialStone, z, i)...)
		}
	default:
		return nil, fmt.Errorf("unknown scene variant %q", variant)
	}
	return p, nil
}
