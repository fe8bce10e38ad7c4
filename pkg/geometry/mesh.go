package geometry

import (
	"fmt"

	"github.com/fogleman/fauxgl"

	"github.com/df07/go-raycast/pkg/core"
)

// boxFace describes one face of the unit box as a corner plus two edge
// vectors whose cross product points outward
type boxFace struct {
	corner core.Vec3
	u, v   core.Vec3
}

var unitBoxFaces = [6]boxFace{
	// +Z
	{core.NewVec3(-1, -1, 1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0)},
	// -Z
	{core.NewVec3(1, -1, -1), core.NewVec3(-2, 0, 0), core.NewVec3(0, 2, 0)},
	// +X
	{core.NewVec3(1, -1, 1), core.NewVec3(0, 0, -2), core.NewVec3(0, 2, 0)},
	// -X
	{core.NewVec3(-1, -1, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0)},
	// +Y
	{core.NewVec3(-1, 1, 1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, -2)},
	// -Y
	{core.NewVec3(-1, -1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2)},
}

// Tessellate builds a triangle mesh of the unit box with each face split
// into a slices x slices grid. Triangles wind counter-clockwise seen from
// outside, so their face normals agree with Box.Normal.
func Tessellate(slices int) (*fauxgl.Mesh, error) {
	if slices < 1 {
		return nil, fmt.Errorf("tessellate: slices must be positive, got %d", slices)
	}

	step := 1.0 / float64(slices)
	triangles := make([]*fauxgl.Triangle, 0, 6*slices*slices*2)

	for _, face := range unitBoxFaces {
		at := func(i, j int) fauxgl.Vector {
			p := face.corner.
				Add(face.u.Multiply(float64(i) * step)).
				Add(face.v.Multiply(float64(j) * step))
			return fauxgl.V(p.X, p.Y, p.Z)
		}

		for j := 0; j < slices; j++ {
			for i := 0; i < slices; i++ {
				p00, p10 := at(i, j), at(i+1, j)
				p01, p11 := at(i, j+1), at(i+1, j+1)
				triangles = append(triangles,
					fauxgl.NewTriangleForPoints(p00, p10, p11),
					fauxgl.NewTriangleForPoints(p00, p11, p01),
				)
			}
		}
	}

	return fauxgl.NewTriangleMesh(triangles), nil
}

// WriteSTL tessellates the unit box and saves it as a binary STL file
func WriteSTL(path string, slices int) error {
	mesh, err := Tessellate(slices)
	if err != nil {
		return err
	}
	if err := mesh.SaveSTL(path); err != nil {
		return fmt.Errorf("write stl %s: %w", path, err)
	}
	return nil
}
