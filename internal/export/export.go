// Package export flattens an evaluation into section/metric/value rows.
// Rows are read straight off the result objects; nothing is recomputed.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fasttrack-engine/internal/model"
)

const (
	SectionPolicy    = "Policy Settings"
	SectionUnits     = "Units"
	SectionFees      = "Fee Breakdown"
	SectionDeveloper = "Developer Results"
	SectionCommunity = "Community Results"
)

// Formatter renders display values for one locale.
type Formatter struct {
	printer *message.Printer
}

func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse export locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag)}, nil
}

func (f *Formatter) Money(v decimal.Decimal) string {
	whole := v.Round(0).IntPart()
	if whole < 0 {
		return f.printer.Sprintf("-$%d", -whole)
	}
	return f.printer.Sprintf("$%d", whole)
}

func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// Percent renders a fraction such as 0.25 as "25%".
func (f *Formatter) Percent(fraction decimal.Decimal) string {
	return f.printer.Sprintf("%d%%", fraction.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func (f *Formatter) Number(v decimal.Decimal) string {
	x, _ := v.Round(1).Float64()
	return f.printer.Sprintf("%.1f", x)
}

var feeNames = map[model.FeeCategory]string{
	model.FeePlanning:       "Planning",
	model.FeeBuildingPermit: "Building Permit",
	model.FeeWaterTap:       "Water Tap",
	model.FeeSewerTap:       "Sewer Tap",
	model.FeeUseTax:         "Use Tax",
}

func feeName(c model.FeeCategory) string {
	if name, ok := feeNames[c]; ok {
		return name
	}
	return string(c)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

type rows struct {
	f   *Formatter
	out []model.ExportRow
}

func (r *rows) add(section, metric, value, display string) {
	r.out = append(r.out, model.ExportRow{Section: section, Metric: metric, Value: value, Display: display})
}

func (r *rows) money(section, metric string, v decimal.Decimal) {
	r.add(section, metric, v.String(), r.f.Money(v))
}

func (r *rows) count(section, metric string, n int) {
	r.add(section, metric, fmt.Sprint(n), r.f.Count(n))
}

func (r *rows) ratio(section, metric string, v model.Ratio, display func(decimal.Decimal) string) {
	if !v.Defined {
		r.add(section, metric, "", "undefined ("+v.Reason+")")
		return
	}
	r.add(section, metric, v.Value.String(), display(v.Value))
}

// Rows flattens the policy and its evaluation.
func (f *Formatter) Rows(policy model.PolicyConfiguration, eval model.Evaluation) []model.ExportRow {
	r := &rows{f: f}
	pf, im := eval.ProForma, eval.Impact

	r.add(SectionPolicy, "Affordability Period", fmt.Sprint(policy.AffordabilityPeriodYears),
		model.PeriodLabel(policy.AffordabilityPeriodYears))
	r.add(SectionPolicy, "Project Type", string(policy.ProjectType), string(policy.ProjectType))
	r.add(SectionPolicy, "Rental AMI Threshold", fmt.Sprint(int(policy.RentalAMIThreshold)),
		policy.RentalAMIThreshold.String())
	r.add(SectionPolicy, "Ownership AMI Threshold", fmt.Sprint(int(policy.OwnershipAMIThreshold)),
		policy.OwnershipAMIThreshold.String())
	r.add(SectionPolicy, "Minimum Affordable %", policy.MinAffordableFraction.String(), f.Percent(policy.MinAffordableFraction))
	r.add(SectionPolicy, "Density Bonus %", policy.DensityBonusFraction.String(), f.Percent(policy.DensityBonusFraction))
	r.add(SectionPolicy, "Bonus Units Affordable %", policy.BonusAffordableFraction.String(), f.Percent(policy.BonusAffordableFraction))
	r.add(SectionPolicy, "Waive Planning Fees", fmt.Sprint(policy.FeeWaivers.Planning), yesNo(policy.FeeWaivers.Planning))
	r.add(SectionPolicy, "Waive Building Permit", fmt.Sprint(policy.FeeWaivers.BuildingPermit), yesNo(policy.FeeWaivers.BuildingPermit))
	r.add(SectionPolicy, "Tap Fee Reduction", policy.FeeWaivers.TapReduction.String(), f.Percent(policy.FeeWaivers.TapReduction))
	r.add(SectionPolicy, "Use Tax Rebate", policy.FeeWaivers.UseTaxRebate.String(), f.Percent(policy.FeeWaivers.UseTaxRebate))

	r.count(SectionUnits, "Base Units", pf.Units.BaseUnits)
	r.count(SectionUnits, "Bonus Units", pf.Units.BonusUnits)
	r.count(SectionUnits, "Total Units", pf.Units.TotalUnits)
	r.count(SectionUnits, "Affordable Units", pf.Units.AffordableUnits)
	r.count(SectionUnits, "Market-Rate Units", pf.Units.MarketRateUnits)
	for _, b := range pf.Units.AffordableByBedroom {
		r.count(SectionUnits, fmt.Sprintf("Affordable %dBR", b.Bedrooms), b.Units)
	}

	for _, line := range eval.Fees.Lines {
		r.money(SectionFees, feeName(line.Category)+" Charged", line.Charged)
		r.money(SectionFees, feeName(line.Category)+" Waived", line.Waived)
	}
	r.money(SectionFees, "Total Fees Charged", eval.Fees.TotalFeesCharged)
	r.money(SectionFees, "Total Fee Waivers", eval.Fees.TotalFeeWaivers)

	r.money(SectionDeveloper, "Density Bonus Value", pf.Benefits.DensityBonusValue)
	r.money(SectionDeveloper, "Time Savings", pf.Benefits.TimeSavings)
	r.money(SectionDeveloper, "Total Benefits", pf.Benefits.Total)
	r.money(SectionDeveloper, "Total Costs", pf.Costs.Total)
	r.money(SectionDeveloper, "Net Position", pf.NetPosition)
	r.ratio(SectionDeveloper, "ROI %", pf.ROIPercent, func(v decimal.Decimal) string { return f.Number(v) + "%" })
	r.add(SectionDeveloper, "Feasible?", fmt.Sprint(pf.IsValuePositive), yesNo(pf.IsValuePositive))

	r.money(SectionCommunity, "City Investment", im.CityInvestment)
	r.count(SectionCommunity, "Unit-Years", im.UnitYears)
	r.ratio(SectionCommunity, "Cost per Unit-Year", im.CostPerUnitYear, f.Money)
	r.ratio(SectionCommunity, "20-Year Cost", im.TwentyYearEquivalentCost, f.Money)
	r.add(SectionCommunity, "Subsidized Workers", im.SubsidizedWorkers.String(), f.Number(im.SubsidizedWorkers))
	r.add(SectionCommunity, "Population Served", im.PopulationServed.String(), f.Number(im.PopulationServed))
	r.add(SectionCommunity, "Construction Jobs", im.ConstructionJobs.String(), f.Number(im.ConstructionJobs))
	r.add(SectionCommunity, "Permanent Jobs", im.PermanentJobs.String(), f.Number(im.PermanentJobs))

	return r.out
}
