// Package units derives bonus and affordable unit counts from a policy.
package units

import (
	"sort"

	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
)

// Allocate computes the unit allocation for a validated policy and project.
//
// Bonus units round half away from zero. Affordable units round up, so a
// fractional requirement is never under-delivered.
func Allocate(policy model.PolicyConfiguration, project model.ProjectParameters) model.UnitAllocation {
	base := decimal.NewFromInt(int64(project.BaseUnits))
	bonus := int(base.Mul(policy.DensityBonusFraction).Round(0).IntPart())

	affordableBase := int(base.Mul(policy.MinAffordableFraction).Ceil().IntPart())
	affordableBonus := int(decimal.NewFromInt(int64(bonus)).Mul(policy.BonusAffordableFraction).Ceil().IntPart())

	total := project.BaseUnits + bonus
	affordable := affordableBase + affordableBonus

	return model.UnitAllocation{
		BaseUnits:            project.BaseUnits,
		BonusUnits:           bonus,
		TotalUnits:           total,
		AffordableBaseUnits:  affordableBase,
		AffordableBonusUnits: affordableBonus,
		AffordableUnits:      affordable,
		MarketRateUnits:      total - affordable,
		AffordableByBedroom:  byBedroom(affordable, project.Mix()),
	}
}

// byBedroom spreads the affordable units over the unit mix by largest
// remainder. Ties go to the entry listed first.
func byBedroom(affordable int, mix []model.UnitMixEntry) []model.BedroomCount {
	counts := make([]model.BedroomCount, len(mix))
	remainders := make([]decimal.Decimal, len(mix))
	order := make([]int, len(mix))

	n := decimal.NewFromInt(int64(affordable))
	assigned := 0
	for i, m := range mix {
		share := n.Mul(m.Fraction)
		whole := share.Floor()
		counts[i] = model.BedroomCount{Bedrooms: m.Bedrooms, Units: int(whole.IntPart())}
		remainders[i] = share.Sub(whole)
		order[i] = i
		assigned += counts[i].Units
	}

	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for _, i := range order {
		if assigned >= affordable {
			break
		}
		counts[i].Units++
		assigned++
	}
	return counts
}
