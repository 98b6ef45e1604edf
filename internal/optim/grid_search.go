// Package optim searches rig configurations for the best run metric.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/vehiclerig/internal/sim"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
}

// Search runs a simulation for every point of the grid and returns the
// point minimizing metricName. Points whose build or run fails are
// skipped; an error is returned only when none succeed.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	cfg sim.Config,
	metricName string,
) (Point, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Point{}, nil, fmt.Errorf("grid: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := Point{Value: math.Inf(1)}
	var all []Point
	var lastErr error

	g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) {
		s, err := build(params)
		if err != nil {
			lastErr = err
			return
		}
		result, err := s.Run(ctx, cfg)
		if err != nil {
			lastErr = err
			return
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			lastErr = fmt.Errorf("grid: no metric %q", metricName)
			return
		}

		p := Point{Params: params, Value: val}
		all = append(all, p)
		if val < best.Value {
			best = p
		}
	})

	if err := ctx.Err(); err != nil {
		return best, all, err
	}
	if best.Params == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("grid: empty search space")
		}
		return best, all, lastErr
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64)) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		eval(current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, eval)
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}
