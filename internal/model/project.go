package model

import "github.com/shopspring/decimal"

// UnitMixEntry is the share of units with a given bedroom count.
type UnitMixEntry struct {
	Bedrooms int             `json:"bedrooms"`
	Fraction decimal.Decimal `json:"fraction"`
}

type ProjectParameters struct {
	BaseUnits               int             `json:"base_units"`
	ConstructionCostPerUnit decimal.Decimal `json:"construction_cost_per_unit"`
	LandValuePerUnit        decimal.Decimal `json:"land_value_per_unit"`
	MarketRentPerMonth      decimal.Decimal `json:"market_rent_per_month"`
	MarketPrice             decimal.Decimal `json:"market_price"`
	// ConstructionValuation drives the building permit and use tax. Zero
	// means total units at the per-unit construction cost.
	ConstructionValuation decimal.Decimal `json:"construction_valuation"`
	UnitMix               []UnitMixEntry  `json:"unit_mix,omitempty"`
}

// DefaultUnitMix is the typical multi-family split of 20/60/20 across 1-3 bedrooms.
func DefaultUnitMix() []UnitMixEntry {
	return []UnitMixEntry{
		{Bedrooms: 1, Fraction: decimal.New(20, -2)},
		{Bedrooms: 2, Fraction: decimal.New(60, -2)},
		{Bedrooms: 3, Fraction: decimal.New(20, -2)},
	}
}

// Mix returns the configured unit mix or the default one when none is given.
func (p ProjectParameters) Mix() []UnitMixEntry {
	if len(p.UnitMix) == 0 {
		return DefaultUnitMix()
	}
	return p.UnitMix
}

// Valuation returns the construction valuation used for fee assessment.
func (p ProjectParameters) Valuation(totalUnits int) decimal.Decimal {
	if p.ConstructionValuation.IsPositive() {
		return p.ConstructionValuation
	}
	return p.ConstructionCostPerUnit.Mul(decimal.NewFromInt(int64(totalUnits)))
}

// DevelopmentCostPerUnit is construction plus land value for one unit.
func (p ProjectParameters) DevelopmentCostPerUnit() decimal.Decimal {
	return p.ConstructionCostPerUnit.Add(p.LandValuePerUnit)
}
