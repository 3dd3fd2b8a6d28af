// Package impact measures what a fast track policy costs the city and what
// the community gets for it.
package impact

import (
	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
)

// Evaluate computes the community impact of one evaluated configuration.
//
// City investment is the waived fee revenue and nothing else. Density bonus
// value and time savings benefit the developer without any cash outlay by
// the city, so they never enter this figure.
func Evaluate(tables *refdata.Tables, policy model.PolicyConfiguration, fees model.FeeBreakdown, alloc model.UnitAllocation) model.CommunityImpactResult {
	investment := fees.TotalFeeWaivers
	period := policy.AffordabilityPeriodYears
	ratios := tables.Impact

	total := decimal.NewFromInt(int64(alloc.TotalUnits))
	affordable := decimal.NewFromInt(int64(alloc.AffordableUnits))
	years := decimal.NewFromInt(int64(period))
	horizon := decimal.NewFromInt(int64(ratios.EquivalenceHorizonYears))

	var perUnitYear model.Ratio
	switch {
	case alloc.TotalUnits == 0:
		perUnitYear = model.UndefinedRatio("total units is zero")
	case period == 0:
		perUnitYear = model.UndefinedRatio("affordability period is zero")
	default:
		perUnitYear = model.DefinedRatio(investment.Div(total.Mul(years)))
	}

	return model.CommunityImpactResult{
		CityInvestment:           investment,
		TotalUnits:               alloc.TotalUnits,
		AffordableUnits:          alloc.AffordableUnits,
		AffordabilityPeriodYears: period,
		UnitYears:                alloc.TotalUnits * period,
		AffordableUnitYears:      alloc.AffordableUnits * period,
		CostPerUnitYear:          perUnitYear,
		CostPerAffordableUnit:    model.Divide(investment, affordable, "affordable units is zero"),
		CyclesInHorizon:          model.Divide(horizon, years, "affordability period is zero"),
		TwentyYearEquivalentCost: horizonEquivalent(investment, horizon, years),
		SubsidizedWorkers:        affordable.Mul(ratios.WorkersPerAffordableUnit),
		PopulationServed:         total.Mul(ratios.PersonsPerUnit),
		ConstructionJobs:         total.Mul(ratios.ConstructionJobsPerUnit),
		PermanentJobs:            total.Mul(ratios.PermanentJobsPerUnit),
	}
}

// horizonEquivalent scales the investment to the equivalence horizon. When
// horizon/years is exact (always the case at years == horizon) the result
// is exact; otherwise the quotient is rounded to decimal.DivisionPrecision.
func horizonEquivalent(investment, horizon, years decimal.Decimal) model.Ratio {
	if years.IsZero() {
		return model.UndefinedRatio("affordability period is zero")
	}
	if years.Equal(horizon) {
		return model.DefinedRatio(investment)
	}
	if factor := horizon.Div(years); factor.Mul(years).Equal(horizon) {
		return model.DefinedRatio(investment.Mul(factor))
	}
	return model.DefinedRatio(investment.Mul(horizon).Div(years))
}
