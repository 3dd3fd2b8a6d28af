package refdata

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
)

// document is the on-disk and on-the-wire shape of the reference tables.
// The same struct is read from YAML files and JSON endpoints.
type document struct {
	Version         string         `yaml:"version" json:"version"`
	HouseholdSize   int            `yaml:"household_size" json:"household_size"`
	RentBurden      float64        `yaml:"rent_burden" json:"rent_burden"`
	TimeSavings     float64        `yaml:"time_savings" json:"time_savings"`
	MaxDensityBonus float64        `yaml:"max_density_bonus" json:"max_density_bonus"`
	IncomeLimits    []incomeRowDoc `yaml:"income_limits" json:"income_limits"`
	Fees            feeScheduleDoc `yaml:"fees" json:"fees"`
	Impact          impactDoc      `yaml:"impact" json:"impact"`
}

type incomeRowDoc struct {
	AMI              int     `yaml:"ami" json:"ami"`
	HouseholdSize    int     `yaml:"household_size" json:"household_size"`
	AnnualIncome     float64 `yaml:"annual_income" json:"annual_income"`
	MaxMonthlyRent   float64 `yaml:"max_monthly_rent" json:"max_monthly_rent"`
	MaxPurchasePrice float64 `yaml:"max_purchase_price" json:"max_purchase_price"`
}

type tierDoc struct {
	Threshold    float64 `yaml:"threshold" json:"threshold"`
	BaseCharge   float64 `yaml:"base_charge" json:"base_charge"`
	MarginalRate float64 `yaml:"marginal_rate" json:"marginal_rate"`
}

type feeScheduleDoc struct {
	PlanningBase        float64   `yaml:"planning_base" json:"planning_base"`
	PlanningPerUnit     float64   `yaml:"planning_per_unit" json:"planning_per_unit"`
	FinalPlat           float64   `yaml:"final_plat" json:"final_plat"`
	BuildingPermitTiers []tierDoc `yaml:"building_permit_tiers" json:"building_permit_tiers"`
	WaterBase           float64   `yaml:"water_base" json:"water_base"`
	WaterPerUnit        float64   `yaml:"water_per_unit" json:"water_per_unit"`
	WaterTapFlat        float64   `yaml:"water_tap_flat" json:"water_tap_flat"`
	SewerBase           float64   `yaml:"sewer_base" json:"sewer_base"`
	SewerPerUnit        float64   `yaml:"sewer_per_unit" json:"sewer_per_unit"`
	UseTaxRate          float64   `yaml:"use_tax_rate" json:"use_tax_rate"`
	MaterialsFraction   float64   `yaml:"materials_fraction" json:"materials_fraction"`
}

type impactDoc struct {
	WorkersPerAffordableUnit float64 `yaml:"workers_per_affordable_unit" json:"workers_per_affordable_unit"`
	PersonsPerUnit           float64 `yaml:"persons_per_unit" json:"persons_per_unit"`
	ConstructionJobsPerUnit  float64 `yaml:"construction_jobs_per_unit" json:"construction_jobs_per_unit"`
	PermanentJobsPerUnit     float64 `yaml:"permanent_jobs_per_unit" json:"permanent_jobs_per_unit"`
	EquivalenceHorizonYears  int     `yaml:"equivalence_horizon_years" json:"equivalence_horizon_years"`
}

var twelve = decimal.NewFromInt(12)

// tables converts and validates a document. A document that fails any
// check never becomes a snapshot.
func (d document) tables() (*Tables, error) {
	d2 := decimal.NewFromFloat
	t := &Tables{
		Version:         d.Version,
		HouseholdSize:   d.HouseholdSize,
		RentBurden:      d2(d.RentBurden),
		TimeSavings:     d2(d.TimeSavings),
		MaxDensityBonus: d2(d.MaxDensityBonus),
		Fees: FeeSchedule{
			PlanningBase:      d2(d.Fees.PlanningBase),
			PlanningPerUnit:   d2(d.Fees.PlanningPerUnit),
			FinalPlat:         d2(d.Fees.FinalPlat),
			WaterBase:         d2(d.Fees.WaterBase),
			WaterPerUnit:      d2(d.Fees.WaterPerUnit),
			WaterTapFlat:      d2(d.Fees.WaterTapFlat),
			SewerBase:         d2(d.Fees.SewerBase),
			SewerPerUnit:      d2(d.Fees.SewerPerUnit),
			UseTaxRate:        d2(d.Fees.UseTaxRate),
			MaterialsFraction: d2(d.Fees.MaterialsFraction),
		},
		Impact: ImpactRatios{
			WorkersPerAffordableUnit: d2(d.Impact.WorkersPerAffordableUnit),
			PersonsPerUnit:           d2(d.Impact.PersonsPerUnit),
			ConstructionJobsPerUnit:  d2(d.Impact.ConstructionJobsPerUnit),
			PermanentJobsPerUnit:     d2(d.Impact.PermanentJobsPerUnit),
			EquivalenceHorizonYears:  d.Impact.EquivalenceHorizonYears,
		},
	}
	for _, tier := range d.Fees.BuildingPermitTiers {
		t.Fees.BuildingPermitTiers = append(t.Fees.BuildingPermitTiers, Tier{
			Threshold:    d2(tier.Threshold),
			BaseCharge:   d2(tier.BaseCharge),
			MarginalRate: d2(tier.MarginalRate),
		})
	}
	for _, row := range d.IncomeLimits {
		income := d2(row.AnnualIncome)
		rent := d2(row.MaxMonthlyRent)
		if rent.IsZero() {
			rent = income.Mul(t.RentBurden).Div(twelve)
		}
		t.IncomeLimits = append(t.IncomeLimits, IncomeRow{
			AMI:              model.AMIThreshold(row.AMI),
			HouseholdSize:    row.HouseholdSize,
			AnnualIncome:     income,
			MaxMonthlyRent:   rent,
			MaxPurchasePrice: d2(row.MaxPurchasePrice),
		})
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("reference data %q: %w", d.Version, err)
	}
	t.buildIndex()
	return t, nil
}

func (t *Tables) validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	one := decimal.NewFromInt(1)

	if t.Version == "" {
		fail("version is required")
	}
	if t.HouseholdSize <= 0 {
		fail("household_size must be positive")
	}
	if !t.RentBurden.IsPositive() || t.RentBurden.GreaterThan(one) {
		fail("rent_burden must be in (0, 1]")
	}
	if t.MaxDensityBonus.IsNegative() || t.MaxDensityBonus.GreaterThan(one) {
		fail("max_density_bonus must be in [0, 1]")
	}
	if t.TimeSavings.IsNegative() {
		fail("time_savings must not be negative")
	}

	seen := make(map[incomeKey]bool, len(t.IncomeLimits))
	for _, row := range t.IncomeLimits {
		k := incomeKey{row.AMI, row.HouseholdSize}
		if seen[k] {
			fail("duplicate income limit for %d%% AMI, household of %d", int(row.AMI), row.HouseholdSize)
		}
		seen[k] = true
		if !row.AnnualIncome.IsPositive() || row.MaxPurchasePrice.IsNegative() {
			fail("income limit for %d%% AMI, household of %d has invalid amounts", int(row.AMI), row.HouseholdSize)
		}
	}
	required := append(append([]model.AMIThreshold{}, model.RentalAMIThresholds...), model.OwnershipAMIThresholds...)
	for _, ami := range required {
		if !seen[incomeKey{ami, t.HouseholdSize}] {
			fail("missing income limit for %d%% AMI, household of %d", int(ami), t.HouseholdSize)
		}
	}

	tiers := t.Fees.BuildingPermitTiers
	if len(tiers) == 0 {
		fail("building_permit_tiers must not be empty")
	} else if !tiers[0].Threshold.IsZero() {
		fail("first building permit tier must start at 0")
	}
	for i, tier := range tiers {
		if i > 0 && !tier.Threshold.GreaterThan(tiers[i-1].Threshold) {
			fail("building permit tier %d threshold is not ascending", i)
		}
		if tier.BaseCharge.IsNegative() || tier.MarginalRate.IsNegative() {
			fail("building permit tier %d has a negative charge", i)
		}
	}

	for name, v := range map[string]decimal.Decimal{
		"planning_base":     t.Fees.PlanningBase,
		"planning_per_unit": t.Fees.PlanningPerUnit,
		"final_plat":        t.Fees.FinalPlat,
		"water_base":        t.Fees.WaterBase,
		"water_per_unit":    t.Fees.WaterPerUnit,
		"water_tap_flat":    t.Fees.WaterTapFlat,
		"sewer_base":        t.Fees.SewerBase,
		"sewer_per_unit":    t.Fees.SewerPerUnit,
		"workers_per_unit":  t.Impact.WorkersPerAffordableUnit,
		"persons_per_unit":  t.Impact.PersonsPerUnit,
		"construction_jobs": t.Impact.ConstructionJobsPerUnit,
		"permanent_jobs":    t.Impact.PermanentJobsPerUnit,
	} {
		if v.IsNegative() {
			fail("%s must not be negative", name)
		}
	}
	for name, v := range map[string]decimal.Decimal{
		"use_tax_rate":       t.Fees.UseTaxRate,
		"materials_fraction": t.Fees.MaterialsFraction,
	} {
		if v.IsNegative() || v.GreaterThan(one) {
			fail("%s must be in [0, 1]", name)
		}
	}
	if t.Impact.EquivalenceHorizonYears <= 0 {
		fail("equivalence_horizon_years must be positive")
	}

	return errors.Join(errs...)
}

// document converts a snapshot back to its wire shape, so one instance's
// GET /reference-data can be another's reference data URL.
func (t *Tables) document() document {
	f := func(v decimal.Decimal) float64 { return v.InexactFloat64() }
	doc := document{
		Version:         t.Version,
		HouseholdSize:   t.HouseholdSize,
		RentBurden:      f(t.RentBurden),
		TimeSavings:     f(t.TimeSavings),
		MaxDensityBonus: f(t.MaxDensityBonus),
		Fees: feeScheduleDoc{
			PlanningBase:      f(t.Fees.PlanningBase),
			PlanningPerUnit:   f(t.Fees.PlanningPerUnit),
			FinalPlat:         f(t.Fees.FinalPlat),
			WaterBase:         f(t.Fees.WaterBase),
			WaterPerUnit:      f(t.Fees.WaterPerUnit),
			WaterTapFlat:      f(t.Fees.WaterTapFlat),
			SewerBase:         f(t.Fees.SewerBase),
			SewerPerUnit:      f(t.Fees.SewerPerUnit),
			UseTaxRate:        f(t.Fees.UseTaxRate),
			MaterialsFraction: f(t.Fees.MaterialsFraction),
		},
		Impact: impactDoc{
			WorkersPerAffordableUnit: f(t.Impact.WorkersPerAffordableUnit),
			PersonsPerUnit:           f(t.Impact.PersonsPerUnit),
			ConstructionJobsPerUnit:  f(t.Impact.ConstructionJobsPerUnit),
			PermanentJobsPerUnit:     f(t.Impact.PermanentJobsPerUnit),
			EquivalenceHorizonYears:  t.Impact.EquivalenceHorizonYears,
		},
	}
	for _, tier := range t.Fees.BuildingPermitTiers {
		doc.Fees.BuildingPermitTiers = append(doc.Fees.BuildingPermitTiers, tierDoc{
			Threshold:    f(tier.Threshold),
			BaseCharge:   f(tier.BaseCharge),
			MarginalRate: f(tier.MarginalRate),
		})
	}
	for _, row := range t.IncomeLimits {
		doc.IncomeLimits = append(doc.IncomeLimits, incomeRowDoc{
			AMI:              int(row.AMI),
			HouseholdSize:    row.HouseholdSize,
			AnnualIncome:     f(row.AnnualIncome),
			MaxMonthlyRent:   f(row.MaxMonthlyRent),
			MaxPurchasePrice: f(row.MaxPurchasePrice),
		})
	}
	return doc
}
