// Package compare reruns the evaluation pipeline across alternative
// affordability periods and AMI thresholds.
package compare

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
	"fasttrack-engine/internal/scenario"
)

// DefaultPeriods is the affordability period grid used when none is given.
var DefaultPeriods = []int{5, 15, 20, 30, 50}

// Grid lists the values to try for each varied field, in evaluation order.
type Grid struct {
	Periods       []int
	AMIThresholds []model.AMIThreshold
}

// DefaultGrid returns the standard grid for a project type.
func DefaultGrid(projectType model.ProjectType) Grid {
	g := Grid{Periods: append([]int(nil), DefaultPeriods...)}
	if projectType == model.ProjectOwnership {
		g.AMIThresholds = append([]model.AMIThreshold(nil), model.OwnershipAMIThresholds...)
	} else {
		g.AMIThresholds = append([]model.AMIThreshold(nil), model.RentalAMIThresholds...)
	}
	return g
}

// WithDefaults fills any empty dimension from DefaultGrid.
func (g Grid) WithDefaults(projectType model.ProjectType) Grid {
	d := DefaultGrid(projectType)
	if len(g.Periods) == 0 {
		g.Periods = d.Periods
	}
	if len(g.AMIThresholds) == 0 {
		g.AMIThresholds = d.AMIThresholds
	}
	return g
}

// Comparator evaluates grids. With Parallel set the grid points run
// concurrently; each writes only its own row, so the output is the same
// either way.
type Comparator struct {
	Parallel bool
}

type point struct {
	dimension model.ComparisonDimension
	value     int
	label     string
	policy    model.PolicyConfiguration
	current   bool
}

// Compare returns one row per grid value: the period rows first, then the
// AMI rows, each in the order given. Within a dimension the row matching the
// caller's own value is marked current.
func (c Comparator) Compare(tables *refdata.Tables, policy model.PolicyConfiguration, project model.ProjectParameters, grid Grid) ([]model.ComparisonRow, error) {
	points := make([]point, 0, len(grid.Periods)+len(grid.AMIThresholds))
	currentPeriod, currentAMI := false, false
	for _, years := range grid.Periods {
		isCurrent := !currentPeriod && years == policy.AffordabilityPeriodYears
		currentPeriod = currentPeriod || isCurrent
		points = append(points, point{
			dimension: model.DimensionPeriod,
			value:     years,
			label:     model.PeriodLabel(years),
			policy:    policy.WithPeriod(years),
			current:   isCurrent,
		})
	}
	for _, ami := range grid.AMIThresholds {
		isCurrent := !currentAMI && ami == policy.ActiveAMIThreshold()
		currentAMI = currentAMI || isCurrent
		points = append(points, point{
			dimension: model.DimensionAMI,
			value:     int(ami),
			label:     ami.String(),
			policy:    policy.WithAMIThreshold(ami),
			current:   isCurrent,
		})
	}

	rows := make([]model.ComparisonRow, len(points))
	evaluate := func(i int) error {
		p := points[i]
		eval, err := scenario.Evaluate(tables, p.policy, project)
		if err != nil {
			return fmt.Errorf("%s %s: %w", p.dimension, p.label, err)
		}
		rows[i] = model.ComparisonRow{
			Dimension: p.dimension,
			Value:     p.value,
			Label:     p.label,
			ProForma:  eval.ProForma,
			Impact:    eval.Impact,
			IsCurrent: p.current,
		}
		return nil
	}

	if !c.Parallel {
		for i := range points {
			if err := evaluate(i); err != nil {
				return nil, err
			}
		}
		return rows, nil
	}

	var g errgroup.Group
	for i := range points {
		g.Go(func() error { return evaluate(i) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// SortByCostPerUnitYear orders rows for display, cheapest first. Rows whose
// cost per unit-year is undefined go last; ties keep their grid order.
func SortByCostPerUnitYear(rows []model.ComparisonRow) {
	sort.SliceStable(rows, func(a, b int) bool {
		ra, rb := rows[a].Impact.CostPerUnitYear, rows[b].Impact.CostPerUnitYear
		if ra.Defined != rb.Defined {
			return ra.Defined
		}
		return ra.Defined && ra.Value.LessThan(rb.Value)
	})
}
