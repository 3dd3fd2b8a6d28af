package refdata

import (
	"sort"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
)

// IncomeRow is one entry of the income-limit schedule.
type IncomeRow struct {
	AMI              model.AMIThreshold
	HouseholdSize    int
	AnnualIncome     decimal.Decimal
	MaxMonthlyRent   decimal.Decimal
	MaxPurchasePrice decimal.Decimal
}

// Tier is one row of the building-permit valuation table. The fee for a
// valuation v in this tier is BaseCharge + MarginalRate*(v-Threshold).
type Tier struct {
	Threshold    decimal.Decimal
	BaseCharge   decimal.Decimal
	MarginalRate decimal.Decimal
}

type FeeSchedule struct {
	PlanningBase        decimal.Decimal
	PlanningPerUnit     decimal.Decimal
	FinalPlat           decimal.Decimal
	BuildingPermitTiers []Tier
	WaterBase           decimal.Decimal
	WaterPerUnit        decimal.Decimal
	WaterTapFlat        decimal.Decimal
	SewerBase           decimal.Decimal
	SewerPerUnit        decimal.Decimal
	UseTaxRate          decimal.Decimal
	MaterialsFraction   decimal.Decimal
}

// BuildingPermitTier returns the last tier whose threshold is at or below
// the valuation. Tiers are validated to start at zero, so one always applies
// to a non-negative valuation.
func (f FeeSchedule) BuildingPermitTier(valuation decimal.Decimal) Tier {
	i := sort.Search(len(f.BuildingPermitTiers), func(i int) bool {
		return f.BuildingPermitTiers[i].Threshold.GreaterThan(valuation)
	})
	if i == 0 {
		return f.BuildingPermitTiers[0]
	}
	return f.BuildingPermitTiers[i-1]
}

type ImpactRatios struct {
	WorkersPerAffordableUnit decimal.Decimal
	PersonsPerUnit           decimal.Decimal
	ConstructionJobsPerUnit  decimal.Decimal
	PermanentJobsPerUnit     decimal.Decimal
	EquivalenceHorizonYears  int
}

// Tables is an immutable snapshot of every constant the engine reads.
// Snapshots are never modified after construction.
type Tables struct {
	Version         string
	HouseholdSize   int
	RentBurden      decimal.Decimal
	TimeSavings     decimal.Decimal
	MaxDensityBonus decimal.Decimal
	IncomeLimits    []IncomeRow
	Fees            FeeSchedule
	Impact          ImpactRatios

	index map[incomeKey]IncomeRow
}

type incomeKey struct {
	ami  model.AMIThreshold
	size int
}

func (t *Tables) buildIndex() {
	t.index = make(map[incomeKey]IncomeRow, len(t.IncomeLimits))
	for _, row := range t.IncomeLimits {
		t.index[incomeKey{row.AMI, row.HouseholdSize}] = row
	}
}

// IncomeLimit looks up the schedule row for a threshold and household size.
func (t *Tables) IncomeLimit(ami model.AMIThreshold, householdSize int) (IncomeRow, bool) {
	row, ok := t.index[incomeKey{ami, householdSize}]
	return row, ok
}

// MarshalJSON writes the same document shape ParseJSON reads.
func (t Tables) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.document())
}

// UnmarshalJSON parses and validates a reference document.
func (t *Tables) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}
