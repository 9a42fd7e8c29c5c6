package kernel

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// NetDims returns the control net size a surface of the given continuity
// needs for a rows × cols patch grid.
func NetDims(c Continuity, rows, cols int) (netRows, netCols int) {
	if c == C2 {
		return rows + 3, cols + 3
	}
	return 3*rows + 1, 3*cols + 1
}

func checkExtents(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("kernel: patch grid %dx%d must be at least 1x1", rows, cols)
	}
	return nil
}

// PlaneNet lays out a flat control net spanning origin + [0,1]·uAxis +
// [0,1]·vAxis. Both continuities reproduce the plane exactly with a linear
// parametrization, so each patch covers uAxis/rows × vAxis/cols.
func PlaneNet(origin, uAxis, vAxis v3.Vec, rows, cols int, c Continuity) (Net, error) {
	if err := checkExtents(rows, cols); err != nil {
		return nil, err
	}
	nr, nc := NetDims(c, rows, cols)
	net := make(Net, nr)
	for a := range nr {
		net[a] = make([]v3.Vec, nc)
		for b := range nc {
			fu, fv := planeFraction(c, a, rows), planeFraction(c, b, cols)
			net[a][b] = origin.Add(uAxis.MulScalar(fu)).Add(vAxis.MulScalar(fv))
		}
	}
	return net, nil
}

// planeFraction maps net index k to its fraction of the axis.
func planeFraction(c Continuity, k, patches int) float64 {
	if c == C2 {
		// de Boor points k-1 reproduce a linear function on uniform knots
		return float64(k-1) / float64(patches)
	}
	return float64(k) / float64(3*patches)
}

// CylinderNet lays out an open cylinder around the z axis through base.
// Rows run along the height, columns around the circumference starting at
// angle 0. The seam column is duplicated; the net is not periodic.
func CylinderNet(base v3.Vec, radius, height float64, rows, cols int, c Continuity) (Net, error) {
	if err := checkExtents(rows, cols); err != nil {
		return nil, err
	}
	if radius <= 0 || height <= 0 {
		return nil, fmt.Errorf("kernel: cylinder radius %g and height %g must be positive", radius, height)
	}
	nr, nc := NetDims(c, rows, cols)
	theta := 2 * math.Pi / float64(cols)

	ring := make([]v3.Vec, nc)
	if c == C2 {
		// node points of a uniform periodic B-spline sit at R(2+cosθ)/3
		r := 3 * radius / (2 + math.Cos(theta))
		for b := range nc {
			a := float64(b-1) * theta
			ring[b] = v3.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
		}
	} else {
		k := 4.0 / 3.0 * math.Tan(theta/4) * radius
		for b := range nc {
			seg, m := b/3, b%3
			a0 := float64(seg) * theta
			a1 := a0 + theta
			switch m {
			case 0:
				ring[b] = v3.Vec{X: radius * math.Cos(a0), Y: radius * math.Sin(a0)}
			case 1:
				ring[b] = v3.Vec{
					X: radius*math.Cos(a0) - k*math.Sin(a0),
					Y: radius*math.Sin(a0) + k*math.Cos(a0),
				}
			case 2:
				ring[b] = v3.Vec{
					X: radius*math.Cos(a1) + k*math.Sin(a1),
					Y: radius*math.Sin(a1) - k*math.Cos(a1),
				}
			}
		}
	}

	net := make(Net, nr)
	for a := range nr {
		z := height * planeFraction(c, a, rows)
		net[a] = make([]v3.Vec, nc)
		for b := range nc {
			net[a][b] = base.Add(ring[b]).Add(v3.Vec{Z: z})
		}
	}
	return net, nil
}
