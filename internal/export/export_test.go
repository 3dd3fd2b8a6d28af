package export

import (
	"testing"

	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
	"fasttrack-engine/internal/scenario"
)

var d = decimal.RequireFromString

func formatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter("en-US")
	if err != nil {
		t.Fatalf("formatter: %v", err)
	}
	return f
}

func TestFormatter(t *testing.T) {
	f := formatter(t)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"money", f.Money(d("1008400.75")), "$1,008,401"},
		{"negative money", f.Money(d("-2500")), "-$2,500"},
		{"count", f.Count(12345), "12,345"},
		{"percent", f.Percent(d("0.25")), "25%"},
		{"number", f.Number(d("10.5")), "10.5"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, tt.got)
		}
	}
}

func TestNewFormatterRejectsBadLocale(t *testing.T) {
	if _, err := NewFormatter("not a locale!"); err == nil {
		t.Fatalf("expected an error")
	}
}

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
			ConstructionValuation:   d("9600000"),
		}
}

func find(rows []model.ExportRow, section, metric string) (model.ExportRow, bool) {
	for _, r := range rows {
		if r.Section == section && r.Metric == metric {
			return r, true
		}
	}
	return model.ExportRow{}, false
}

func TestRowsReadFromResults(t *testing.T) {
	policy, project := baseline()
	eval, err := scenario.Evaluate(refdata.Default(), policy, project)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	rows := formatter(t).Rows(policy, eval)

	tests := []struct {
		section, metric, value, display string
	}{
		{SectionPolicy, "Affordability Period", "30", "30 yrs"},
		{SectionPolicy, "Rental AMI Threshold", "80", "80% AMI"},
		{SectionPolicy, "Tap Fee Reduction", "0.6", "60%"},
		{SectionUnits, "Total Units", "24", "24"},
		{SectionUnits, "Affordable 2BR", "4", "4"},
		{SectionFees, "Planning Waived", "1230", "$1,230"},
		{SectionFees, "Water Tap Charged", "53808", "$53,808"},
		{SectionFees, "Water Tap Waived", "80712", "$80,712"},
		{SectionFees, "Use Tax Waived", "86400", "$86,400"},
		{SectionFees, "Total Fee Waivers", "330880.75", "$330,881"},
		{SectionDeveloper, "Net Position", "1008400.75", "$1,008,401"},
		{SectionDeveloper, "Feasible?", "true", "Yes"},
		{SectionCommunity, "City Investment", "330880.75", "$330,881"},
		{SectionCommunity, "Unit-Years", "720", "720"},
		{SectionCommunity, "Subsidized Workers", "10.5", "10.5"},
	}
	for _, tt := range tests {
		r, ok := find(rows, tt.section, tt.metric)
		if !ok {
			t.Fatalf("missing row %s / %s", tt.section, tt.metric)
		}
		if r.Value != tt.value || r.Display != tt.display {
			t.Fatalf("%s / %s: expected %q (%q), got %q (%q)", tt.section, tt.metric, tt.value, tt.display, r.Value, r.Display)
		}
	}

	if rows[0].Section != SectionPolicy || rows[len(rows)-1].Section != SectionCommunity {
		t.Fatalf("sections out of order")
	}
}

func TestRowsUndefinedRatio(t *testing.T) {
	policy, project := baseline()
	eval, err := scenario.Evaluate(refdata.Default(), policy, project)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	eval.Impact.CostPerUnitYear = model.UndefinedRatio("affordability period is zero")

	r, ok := find(formatter(t).Rows(policy, eval), SectionCommunity, "Cost per Unit-Year")
	if !ok {
		t.Fatalf("missing cost per unit-year row")
	}
	if r.Value != "" || r.Display != "undefined (affordability period is zero)" {
		t.Fatalf("unexpected row %+v", r)
	}
}

func TestFeeMetricsUseDisplayNames(t *testing.T) {
	for _, c := range model.FeeCategories {
		if name := feeName(c); name == string(c) {
			t.Fatalf("category %s has no display name", c)
		}
	}
}
