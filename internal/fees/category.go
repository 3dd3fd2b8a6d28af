package fees

import (
	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
)

// Input is everything a fee category needs to price itself.
type Input struct {
	Waivers   model.FeeWaivers
	Units     model.UnitAllocation
	Valuation decimal.Decimal
	Schedule  refdata.FeeSchedule
}

// Category defines the contract for one line of the fee schedule.
// Assess prices the nominal charge; Waived returns the share of it the
// city gives up under the configured waivers.
type Category interface {
	Assess(in *Input) (nominal decimal.Decimal, basis string)
	Waived(in *Input, nominal decimal.Decimal) decimal.Decimal
}

var registry = map[model.FeeCategory]Category{
	model.FeePlanning:       planningFee{},
	model.FeeBuildingPermit: buildingPermitFee{},
	model.FeeWaterTap:       waterTapFee{},
	model.FeeSewerTap:       sewerTapFee{},
	model.FeeUseTax:         useTax{},
}

func Get(name model.FeeCategory) (Category, bool) {
	c, ok := registry[name]
	return c, ok
}
