package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Validate checks a policy/project pair before any computation runs. It
// reports every offending field at once and never clamps a value.
func Validate(policy PolicyConfiguration, project ProjectParameters, maxDensityBonus decimal.Decimal) error {
	var errs ValidationErrors
	policy.validate(&errs, maxDensityBonus)
	project.validate(&errs, policy.ProjectType)
	return errs.Err()
}

func (p PolicyConfiguration) validate(errs *ValidationErrors, maxDensityBonus decimal.Decimal) {
	if !slices.Contains(AffordabilityPeriods, p.AffordabilityPeriodYears) {
		errs.add("affordability_period_years", CodeUnrecognizedValue,
			"%d is not one of %v", p.AffordabilityPeriodYears, AffordabilityPeriods)
	}

	switch p.ProjectType {
	case ProjectRental:
		if !slices.Contains(RentalAMIThresholds, p.RentalAMIThreshold) {
			errs.add("rental_ami_threshold", CodeUnrecognizedValue,
				"%d is not one of %v", int(p.RentalAMIThreshold), RentalAMIThresholds)
		}
	case ProjectOwnership:
		if !slices.Contains(OwnershipAMIThresholds, p.OwnershipAMIThreshold) {
			errs.add("ownership_ami_threshold", CodeUnrecognizedValue,
				"%d is not one of %v", int(p.OwnershipAMIThreshold), OwnershipAMIThresholds)
		}
	default:
		errs.add("project_type", CodeUnrecognizedValue, "%q is not RENTAL or OWNERSHIP", string(p.ProjectType))
	}

	checkFraction(errs, "min_affordable_fraction", p.MinAffordableFraction, one)
	checkFraction(errs, "density_bonus_fraction", p.DensityBonusFraction, maxDensityBonus)
	checkFraction(errs, "bonus_affordable_fraction", p.BonusAffordableFraction, one)
	checkFraction(errs, "fee_waivers.tap_reduction", p.FeeWaivers.TapReduction, one)
	checkFraction(errs, "fee_waivers.use_tax_rebate", p.FeeWaivers.UseTaxRebate, one)
}

func (p ProjectParameters) validate(errs *ValidationErrors, projectType ProjectType) {
	if p.BaseUnits <= 0 {
		errs.add("base_units", CodeInvalidUnitCount, "must be positive, got %d", p.BaseUnits)
	}

	checkAmount(errs, "construction_cost_per_unit", p.ConstructionCostPerUnit)
	checkAmount(errs, "land_value_per_unit", p.LandValuePerUnit)
	checkAmount(errs, "construction_valuation", p.ConstructionValuation)
	switch projectType {
	case ProjectRental:
		checkAmount(errs, "market_rent_per_month", p.MarketRentPerMonth)
	case ProjectOwnership:
		checkAmount(errs, "market_price", p.MarketPrice)
	}

	if len(p.UnitMix) == 0 {
		return
	}
	sum := decimal.Zero
	seen := make(map[int]bool, len(p.UnitMix))
	for _, m := range p.UnitMix {
		if m.Bedrooms < 0 || seen[m.Bedrooms] {
			errs.add("unit_mix", CodeInvalidUnitMix, "bedroom count %d is negative or repeated", m.Bedrooms)
		}
		seen[m.Bedrooms] = true
		checkFraction(errs, "unit_mix.fraction", m.Fraction, one)
		sum = sum.Add(m.Fraction)
	}
	if !sum.Equal(one) {
		errs.add("unit_mix", CodeInvalidUnitMix, "fractions must sum to 1, got %s", sum.String())
	}
}

func checkFraction(errs *ValidationErrors, field string, v, upper decimal.Decimal) {
	if v.IsNegative() || v.GreaterThan(upper) {
		errs.add(field, CodeFractionOutOfRange, "%s is outside [0, %s]", v.String(), upper.String())
	}
}

func checkAmount(errs *ValidationErrors, field string, v decimal.Decimal) {
	if v.IsNegative() {
		errs.add(field, CodeNegativeAmount, "must not be negative, got %s", v.String())
	}
}
