package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type planningFee struct{}

func (planningFee) Assess(in *Input) (decimal.Decimal, string) {
	s := in.Schedule
	units := decimal.NewFromInt(int64(in.Units.TotalUnits))
	fee := s.PlanningBase.Add(s.PlanningPerUnit.Mul(units)).Add(s.FinalPlat)
	return fee, fmt.Sprintf("%s base + %s x %d units + %s final plat",
		s.PlanningBase, s.PlanningPerUnit, in.Units.TotalUnits, s.FinalPlat)
}

func (planningFee) Waived(in *Input, nominal decimal.Decimal) decimal.Decimal {
	if in.Waivers.Planning {
		return nominal
	}
	return decimal.Zero
}

type buildingPermitFee struct{}

func (buildingPermitFee) Assess(in *Input) (decimal.Decimal, string) {
	tier := in.Schedule.BuildingPermitTier(in.Valuation)
	fee := tier.BaseCharge.Add(tier.MarginalRate.Mul(in.Valuation.Sub(tier.Threshold)))
	return fee, fmt.Sprintf("%s base + %s x (%s - %s) valuation",
		tier.BaseCharge, tier.MarginalRate, in.Valuation, tier.Threshold)
}

func (buildingPermitFee) Waived(in *Input, nominal decimal.Decimal) decimal.Decimal {
	if in.Waivers.BuildingPermit {
		return nominal
	}
	return decimal.Zero
}

type waterTapFee struct{}

func (waterTapFee) Assess(in *Input) (decimal.Decimal, string) {
	s := in.Schedule
	units := decimal.NewFromInt(int64(in.Units.TotalUnits))
	fee := s.WaterBase.Add(s.WaterPerUnit.Mul(units)).Add(s.WaterTapFlat)
	return fee, fmt.Sprintf("%s system base + %s x %d units + %s tapping",
		s.WaterBase, s.WaterPerUnit, in.Units.TotalUnits, s.WaterTapFlat)
}

func (waterTapFee) Waived(in *Input, nominal decimal.Decimal) decimal.Decimal {
	return nominal.Mul(in.Waivers.TapReduction)
}

type sewerTapFee struct{}

func (sewerTapFee) Assess(in *Input) (decimal.Decimal, string) {
	s := in.Schedule
	units := decimal.NewFromInt(int64(in.Units.TotalUnits))
	fee := s.SewerBase.Add(s.SewerPerUnit.Mul(units))
	return fee, fmt.Sprintf("%s system base + %s x %d units",
		s.SewerBase, s.SewerPerUnit, in.Units.TotalUnits)
}

func (sewerTapFee) Waived(in *Input, nominal decimal.Decimal) decimal.Decimal {
	return nominal.Mul(in.Waivers.TapReduction)
}

type useTax struct{}

func (useTax) Assess(in *Input) (decimal.Decimal, string) {
	s := in.Schedule
	materials := in.Valuation.Mul(s.MaterialsFraction)
	return s.UseTaxRate.Mul(materials), fmt.Sprintf("%s x materials %s (%s of valuation)",
		s.UseTaxRate, materials, s.MaterialsFraction)
}

func (useTax) Waived(in *Input, nominal decimal.Decimal) decimal.Decimal {
	return nominal.Mul(in.Waivers.UseTaxRebate)
}
