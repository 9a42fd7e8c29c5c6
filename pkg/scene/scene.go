// Package scene defines the scene model for surftrim: named surface
// definitions, the trims between pairs of them, and the view that maps
// object space onto the screen.
package scene

import (
	"fmt"

	"github.com/chazu/surftrim/pkg/kernel"
	"github.com/chazu/surftrim/pkg/kernel/bezier"
	"github.com/chazu/surftrim/pkg/kernel/bspline"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Layout selects how a surface's control net is produced.
type Layout int

const (
	LayoutPlane    Layout = iota // flat net from Origin, UAxis, VAxis
	LayoutCylinder               // open cylinder around z from Origin
	LayoutNet                    // explicit control net
)

func (l Layout) String() string {
	switch l {
	case LayoutPlane:
		return "plane"
	case LayoutCylinder:
		return "cylinder"
	case LayoutNet:
		return "net"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// SurfaceDef describes one surface. Which fields are read depends on
// Layout: Rows and Cols size plane and cylinder grids, Origin/UAxis/VAxis
// span planes, Origin/Radius/Height place cylinders, and Net is used as is.
type SurfaceDef struct {
	Name       string
	Continuity kernel.Continuity
	Layout     Layout

	Rows, Cols int

	Origin, UAxis, VAxis v3.Vec
	Radius, Height       float64

	Net kernel.Net
}

// ControlNet returns the surface's control net.
func (d *SurfaceDef) ControlNet() (kernel.Net, error) {
	switch d.Layout {
	case LayoutPlane:
		return kernel.PlaneNet(d.Origin, d.UAxis, d.VAxis, d.Rows, d.Cols, d.Continuity)
	case LayoutCylinder:
		return kernel.CylinderNet(d.Origin, d.Radius, d.Height, d.Rows, d.Cols, d.Continuity)
	case LayoutNet:
		return d.Net, nil
	default:
		return nil, fmt.Errorf("scene: surface %q has unknown layout %v", d.Name, d.Layout)
	}
}

// Build constructs the surface.
func (d *SurfaceDef) Build() (kernel.Surface, error) {
	net, err := d.ControlNet()
	if err != nil {
		return nil, fmt.Errorf("surface %q: %w", d.Name, err)
	}
	var s kernel.Surface
	switch d.Continuity {
	case kernel.C0:
		s, err = bezier.New(net)
	case kernel.C2:
		s, err = bspline.New(net)
	default:
		err = fmt.Errorf("unknown continuity %v", d.Continuity)
	}
	if err != nil {
		return nil, fmt.Errorf("surface %q: %w", d.Name, err)
	}
	return s, nil
}

// TrimDef asks for the trimming curve between surfaces A and B, traced
// from each screen-space seed.
type TrimDef struct {
	Name  string
	A, B  string
	Seeds []v2.Vec
}

// Scene is a complete scene description.
type Scene struct {
	Surfaces map[string]*SurfaceDef
	Order    []string // surface names in declaration order
	Trims    []*TrimDef
	View     View
}

// New returns an empty scene with the identity view.
func New() *Scene {
	return &Scene{
		Surfaces: make(map[string]*SurfaceDef),
		View:     DefaultView(),
	}
}

// AddSurface registers def. Names must be unique.
func (s *Scene) AddSurface(def *SurfaceDef) error {
	if _, exists := s.Surfaces[def.Name]; exists {
		return fmt.Errorf("scene: duplicate surface %q", def.Name)
	}
	s.Surfaces[def.Name] = def
	s.Order = append(s.Order, def.Name)
	return nil
}

// Surface looks up a surface by name.
func (s *Scene) Surface(name string) (*SurfaceDef, bool) {
	def, ok := s.Surfaces[name]
	return def, ok
}

// AddTrim appends a trim definition.
func (s *Scene) AddTrim(t *TrimDef) {
	s.Trims = append(s.Trims, t)
}
