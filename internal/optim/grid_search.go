// Package optim sweeps model parameters over a grid and runs an experiment
// at every grid point.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/san-kum/bubblesim/internal/experiment"
)

var ErrBadAxis = errors.New("optim: invalid sweep axis")

// Point is the outcome of one grid point.
type Point struct {
	Params map[string]float64
	Runs   []experiment.Run
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d names for %d ranges", ErrBadAxis, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: %s has no values", ErrBadAxis, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search visits the grid with the last axis varying fastest. It stops at the
// first experiment that fails to build or run and returns the points
// collected so far.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
) ([]Point, error) {
	points := make([]Point, 0, g.Size())
	err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, &points)
	return points, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(maps.Clone(current))
		if err != nil {
			return fmt.Errorf("%s: %w", formatParams(g.paramNames, current), err)
		}
		runs, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", formatParams(g.paramNames, current), err)
		}
		*points = append(*points, Point{Params: maps.Clone(current), Runs: runs})
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, buildExperiment, points); err != nil {
			return err
		}
	}
	return nil
}

func formatParams(names []string, params map[string]float64) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%g", n, params[n])
	}
	return strings.Join(parts, " ")
}

// ParseAxis parses "name=v1,v2,..." or "name=lo:hi:n" (n evenly spaced
// values including both ends).
func ParseAxis(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(spec) == "" {
		return "", nil, fmt.Errorf("%w: %q, want name=v1,v2 or name=lo:hi:n", ErrBadAxis, s)
	}

	if lo, rest, ok := strings.Cut(spec, ":"); ok {
		hi, count, ok := strings.Cut(rest, ":")
		if !ok {
			return "", nil, fmt.Errorf("%w: %q, want lo:hi:n", ErrBadAxis, s)
		}
		a, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		b, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		n, err3 := strconv.Atoi(strings.TrimSpace(count))
		if err := errors.Join(err1, err2, err3); err != nil {
			return "", nil, fmt.Errorf("%w: %q: %w", ErrBadAxis, s, err)
		}
		if n < 1 {
			return "", nil, fmt.Errorf("%w: %q needs at least one value", ErrBadAxis, s)
		}
		if n == 1 {
			return name, []float64{a}, nil
		}
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = a + (b-a)*float64(i)/float64(n-1)
		}
		return name, vals, nil
	}

	fields := strings.Split(spec, ",")
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %q: %w", ErrBadAxis, s, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}
