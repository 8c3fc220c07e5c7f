package drawing

import "github.com/raykavin/chartcore/pkg/core"

// Simplify reduces a polyline with the Ramer-Douglas-Peucker algorithm. The
// first and last points are always kept.
func Simplify(points []core.Pixel, epsilon float64) []core.Pixel {
	if len(points) < 3 {
		return append([]core.Pixel(nil), points...)
	}

	keep := make([]bool, len(points))
	keep[0], keep[len(points)-1] = true, true
	markKept(points, 0, len(points)-1, epsilon*epsilon, keep)

	out := make([]core.Pixel, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

func markKept(points []core.Pixel, first, last int, epsilonSq float64, keep []bool) {
	if last-first < 2 {
		return
	}

	index, maxDist := -1, 0.0
	for i := first + 1; i < last; i++ {
		if d := segmentDistanceSq(points[i], points[first], points[last]); d > maxDist {
			index, maxDist = i, d
		}
	}
	if index < 0 || maxDist <= epsilonSq {
		return
	}

	keep[index] = true
	markKept(points, first, index, epsilonSq, keep)
	markKept(points, index, last, epsilonSq, keep)
}
