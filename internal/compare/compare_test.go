package compare

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
)

var d = decimal.RequireFromString

func baseline() (model.PolicyConfiguration, model.ProjectParameters) {
	return model.PolicyConfiguration{
			AffordabilityPeriodYears: 30,
			ProjectType:              model.ProjectRental,
			RentalAMIThreshold:       80,
			OwnershipAMIThreshold:    100,
			MinAffordableFraction:    d("0.25"),
			DensityBonusFraction:     d("0.20"),
			BonusAffordableFraction:  d("0.50"),
			FeeWaivers: model.FeeWaivers{
				Planning:       true,
				BuildingPermit: true,
				TapReduction:   d("0.60"),
				UseTaxRebate:   d("0.50"),
			},
		}, model.ProjectParameters{
			BaseUnits:               20,
			ConstructionCostPerUnit: d("200000"),
			LandValuePerUnit:        d("35000"),
			MarketRentPerMonth:      d("1425"),
			MarketPrice:             d("334000"),
			ConstructionValuation:   d("9600000"),
		}
}

func TestCompareDefaultGrid(t *testing.T) {
	policy, project := baseline()
	grid := DefaultGrid(policy.ProjectType)

	rows, err := Comparator{}.Compare(refdata.Default(), policy, project, grid)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	want := []struct {
		dim     model.ComparisonDimension
		value   int
		current bool
	}{
		{model.DimensionPeriod, 5, false},
		{model.DimensionPeriod, 15, false},
		{model.DimensionPeriod, 20, false},
		{model.DimensionPeriod, 30, true},
		{model.DimensionPeriod, 50, false},
		{model.DimensionAMI, 60, false},
		{model.DimensionAMI, 80, true},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, w := range want {
		r := rows[i]
		if r.Dimension != w.dim || r.Value != w.value || r.IsCurrent != w.current {
			t.Fatalf("row %d: expected %s=%d current=%v, got %s=%d current=%v",
				i, w.dim, w.value, w.current, r.Dimension, r.Value, r.IsCurrent)
		}
	}
	if rows[3].Label != "30 yrs" || rows[6].Label != "80% AMI" {
		t.Fatalf("unexpected labels %q / %q", rows[3].Label, rows[6].Label)
	}
	if rows[3].Impact.AffordabilityPeriodYears != 30 {
		t.Fatalf("period row evaluated with wrong period")
	}
	if !rows[5].ProForma.Costs.AffordableRent.Equal(d("975.75")) {
		t.Fatalf("60%% AMI row evaluated with rent %s", rows[5].ProForma.Costs.AffordableRent)
	}
	if rows[5].Impact.AffordabilityPeriodYears != 30 {
		t.Fatalf("AMI rows keep the caller's period")
	}
}

func TestCompareOwnershipGrid(t *testing.T) {
	policy, project := baseline()
	policy.ProjectType = model.ProjectOwnership
	policy.OwnershipAMIThreshold = 110

	rows, err := Comparator{}.Compare(refdata.Default(), policy, project, Grid{}.WithDefaults(policy.ProjectType))
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	ami := rows[len(DefaultPeriods):]
	if len(ami) != 3 {
		t.Fatalf("expected 3 AMI rows, got %d", len(ami))
	}
	for i, r := range ami {
		if r.IsCurrent != (r.Value == 110) {
			t.Fatalf("row %d (%d): unexpected current flag %v", i, r.Value, r.IsCurrent)
		}
	}
}

func TestCompareCurrentValueOutsideGrid(t *testing.T) {
	policy, project := baseline()
	policy.AffordabilityPeriodYears = 10

	rows, err := Comparator{}.Compare(refdata.Default(), policy, project, DefaultGrid(policy.ProjectType))
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, r := range rows {
		if r.Dimension == model.DimensionPeriod && r.IsCurrent {
			t.Fatalf("no period row should be current, got %d", r.Value)
		}
	}
}

func TestCompareIndependentOfGridOrder(t *testing.T) {
	policy, project := baseline()
	tables := refdata.Default()

	forward, err := Comparator{}.Compare(tables, policy, project, Grid{Periods: []int{5, 20, 50}, AMIThresholds: []model.AMIThreshold{60, 80}})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	reversed, err := Comparator{}.Compare(tables, policy, project, Grid{Periods: []int{50, 20, 5}, AMIThresholds: []model.AMIThreshold{80, 60}})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}

	byKey := make(map[[2]any]model.ComparisonRow, len(forward))
	for _, r := range forward {
		byKey[[2]any{r.Dimension, r.Value}] = r
	}
	for _, r := range reversed {
		f, ok := byKey[[2]any{r.Dimension, r.Value}]
		if !ok {
			t.Fatalf("row %s=%d missing from forward run", r.Dimension, r.Value)
		}
		if !reflect.DeepEqual(f, r) {
			t.Fatalf("row %s=%d differs between grid orders", r.Dimension, r.Value)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	policy, project := baseline()
	tables := refdata.Default()
	grid := Grid{Periods: model.AffordabilityPeriods, AMIThresholds: model.RentalAMIThresholds}

	seq, err := Comparator{}.Compare(tables, policy, project, grid)
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := Comparator{Parallel: true}.Compare(tables, policy, project, grid)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Fatalf("parallel rows differ from sequential rows")
	}
}

func TestCompareFailsWholeGrid(t *testing.T) {
	policy, project := baseline()

	for _, c := range []Comparator{{}, {Parallel: true}} {
		rows, err := c.Compare(refdata.Default(), policy, project, Grid{Periods: []int{5, 7}})
		if err == nil {
			t.Fatalf("expected an error for an unrecognized period")
		}
		if rows != nil {
			t.Fatalf("expected no partial rows, got %d", len(rows))
		}
	}
}

func TestSortByCostPerUnitYear(t *testing.T) {
	row := func(value int, r model.Ratio) model.ComparisonRow {
		return model.ComparisonRow{Value: value, Impact: model.CommunityImpactResult{CostPerUnitYear: r}}
	}
	rows := []model.ComparisonRow{
		row(1, model.DefinedRatio(d("300"))),
		row(2, model.UndefinedRatio("affordability period is zero")),
		row(3, model.DefinedRatio(d("100"))),
		row(4, model.DefinedRatio(d("300"))),
		row(5, model.DefinedRatio(d("200"))),
	}

	SortByCostPerUnitYear(rows)

	want := []int{3, 5, 1, 4, 2}
	for i, v := range want {
		if rows[i].Value != v {
			t.Fatalf("position %d: expected row %d, got %d", i, v, rows[i].Value)
		}
	}
}
