package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"gonomo/domain/core"
)

// LowessFrac is the share of points in each local regression window
const LowessFrac = 2.0 / 3.0

// Point is one (x, y) pair
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OLS fits y = a + b·x by least squares and returns the line's end points over
// the observed x range
func OLS(points []Point) ([]Point, error) {
	if len(points) < 2 {
		return nil, core.NewInsufficientDataError("%d points, a trend line needs at least 2", len(points))
	}
	xs, ys := split(points)
	minX, maxX := xs[0], xs[0]
	for _, x := range xs {
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
	}
	if minX == maxX {
		return nil, core.NewInsufficientDataError("x has no spread")
	}

	a, b := stat.LinearRegression(xs, ys, nil, false)
	return []Point{{X: minX, Y: a + b*minX}, {X: maxX, Y: a + b*maxX}}, nil
}

// Lowess smooths the points with locally weighted linear regression: each
// distinct x is fitted from its nearest frac·n neighbours weighted by the
// tricube kernel. No robustness iterations are applied.
func Lowess(points []Point, frac float64) ([]Point, error) {
	n := len(points)
	if n < 2 {
		return nil, core.NewInsufficientDataError("%d points, a trend line needs at least 2", n)
	}
	if frac <= 0 || frac > 1 {
		frac = LowessFrac
	}

	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	xs, ys := split(sorted)
	if xs[0] == xs[n-1] {
		return nil, core.NewInsufficientDataError("x has no spread")
	}

	k := int(math.Ceil(frac * float64(n)))
	if k < 2 {
		k = 2
	}

	var out []Point
	weights := make([]float64, n)
	dist := make([]float64, n)
	for i, x0 := range xs {
		if i > 0 && x0 == xs[i-1] {
			continue
		}

		for j, x := range xs {
			dist[j] = math.Abs(x - x0)
		}
		h := kthSmallest(dist, k)

		for j, d := range dist {
			weights[j] = tricube(d, h)
		}

		out = append(out, Point{X: x0, Y: localFit(xs, ys, weights, x0)})
	}
	return out, nil
}

// localFit evaluates the weighted regression at x0, falling back to the
// weighted mean when the window has no x spread
func localFit(xs, ys, weights []float64, x0 float64) float64 {
	a, b := stat.LinearRegression(xs, ys, weights, false)
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(b, 0) {
		return stat.Mean(ys, weights)
	}
	return a + b*x0
}

// tricube is (1-(d/h)³)³ inside the window and 0 outside. A zero-width window
// keeps only exact matches.
func tricube(d, h float64) float64 {
	if h == 0 {
		if d == 0 {
			return 1
		}
		return 0
	}
	u := d / h
	if u >= 1 {
		return 0
	}
	v := 1 - u*u*u
	return v * v * v
}

func kthSmallest(values []float64, k int) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[k-1]
}

func split(points []Point) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}
