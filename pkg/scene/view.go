package scene

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// View places the scene on screen: object points are scaled, rotated
// about x, then y, then z (degrees), then translated.
type View struct {
	Translate v3.Vec
	Rotate    v3.Vec
	Scale     float64
}

// DefaultView is the identity view.
func DefaultView() View {
	return View{Scale: 1}
}

// Matrix returns the object-to-screen transform.
func (v View) Matrix() sdf.M44 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	m := sdf.Scale3d(v3.Vec{X: v.Scale, Y: v.Scale, Z: v.Scale})
	m = sdf.RotateX(rad(v.Rotate.X)).Mul(m)
	m = sdf.RotateY(rad(v.Rotate.Y)).Mul(m)
	m = sdf.RotateZ(rad(v.Rotate.Z)).Mul(m)
	return sdf.Translate3d(v.Translate).Mul(m)
}

// ScreenToObject returns the inverse of Matrix.
func (v View) ScreenToObject() sdf.M44 {
	return v.Matrix().Inverse()
}
