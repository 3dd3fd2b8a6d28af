// Package proforma projects the developer's benefits and costs under a
// fast track policy.
package proforma

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
	"fasttrack-engine/internal/units"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// Evaluate builds the developer pro forma from an already evaluated fee breakdown.
func Evaluate(tables *refdata.Tables, policy model.PolicyConfiguration, project model.ProjectParameters, fees model.FeeBreakdown) (model.ProFormaResult, error) {
	alloc := units.Allocate(policy, project)

	ami := policy.ActiveAMIThreshold()
	if offered := offeredThresholds(policy.ProjectType); offered != nil && !slices.Contains(offered, ami) {
		return model.ProFormaResult{}, model.ConfigurationError{
			Field:   policy.ActiveAMIField(),
			Message: fmt.Sprintf("%s is not offered for %s projects", ami, policy.ProjectType),
		}
	}

	income, ok := tables.IncomeLimit(ami, tables.HouseholdSize)
	if !ok {
		return model.ProFormaResult{}, model.ConfigurationError{
			Field: policy.ActiveAMIField(),
			Message: fmt.Sprintf("no income limit for %s at household size %d in reference data %s",
				ami, tables.HouseholdSize, tables.Version),
		}
	}

	perUnit := project.DevelopmentCostPerUnit()
	benefits := model.BenefitBreakdown{
		DensityBonusValue: perUnit.Mul(decimal.NewFromInt(int64(alloc.BonusUnits))),
		FeeWaivers:        fees.TotalFeeWaivers,
		TimeSavings:       tables.TimeSavings,
	}
	benefits.Total = benefits.DensityBonusValue.Add(benefits.FeeWaivers).Add(benefits.TimeSavings)

	costs := model.CostBreakdown{
		ProjectType:     policy.ProjectType,
		AMIThreshold:    policy.ActiveAMIThreshold(),
		HouseholdSize:   tables.HouseholdSize,
		IncomeLimit:     income.AnnualIncome,
		AffordableUnits: alloc.AffordableUnits,
		PeriodYears:     policy.AffordabilityPeriodYears,
	}
	affordable := decimal.NewFromInt(int64(alloc.AffordableUnits))
	var atOrAboveMarket bool

	switch policy.ProjectType {
	case model.ProjectRental:
		costs.MarketRent = project.MarketRentPerMonth
		costs.AffordableRent = income.MaxMonthlyRent
		costs.MonthlyRentGap = decimal.Max(decimal.Zero, costs.MarketRent.Sub(costs.AffordableRent))
		costs.Total = costs.MonthlyRentGap.
			Mul(affordable).
			Mul(monthsPerYear).
			Mul(decimal.NewFromInt(int64(policy.AffordabilityPeriodYears)))
		atOrAboveMarket = !costs.AffordableRent.LessThan(costs.MarketRent)
	case model.ProjectOwnership:
		// The price gap is realized once at sale; the affordability period
		// is enforced by deed restriction and does not multiply the cost.
		costs.MarketPrice = project.MarketPrice
		costs.AffordablePrice = income.MaxPurchasePrice
		costs.PriceGap = decimal.Max(decimal.Zero, costs.MarketPrice.Sub(costs.AffordablePrice))
		costs.Total = costs.PriceGap.Mul(affordable)
		atOrAboveMarket = !costs.AffordablePrice.LessThan(costs.MarketPrice)
	default:
		return model.ProFormaResult{}, model.ValidationErrors{{
			Field:   "project_type",
			Code:    model.CodeUnrecognizedValue,
			Message: fmt.Sprintf("%q is not RENTAL or OWNERSHIP", string(policy.ProjectType)),
		}}
	}

	net := benefits.Total.Sub(costs.Total)
	projectCost := perUnit.Mul(decimal.NewFromInt(int64(alloc.TotalUnits)))

	roi := model.Divide(net, projectCost, "total project cost is zero")
	if roi.Defined {
		roi.Value = roi.Value.Mul(hundred)
	}

	return model.ProFormaResult{
		Units:            alloc,
		Benefits:         benefits,
		Costs:            costs,
		NetPosition:      net,
		IsValuePositive:  !net.IsNegative(),
		TotalProjectCost: projectCost,
		ROIPercent:       roi,
		AtOrAboveMarket:  atOrAboveMarket,
	}, nil
}

// offeredThresholds returns nil for an unknown project type, which is
// reported by the cost switch instead.
func offeredThresholds(projectType model.ProjectType) []model.AMIThreshold {
	switch projectType {
	case model.ProjectRental:
		return model.RentalAMIThresholds
	case model.ProjectOwnership:
		return model.OwnershipAMIThresholds
	}
	return nil
}
