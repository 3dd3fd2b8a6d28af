package refdata

// DefaultVersion identifies the built-in schedule.
const DefaultVersion = "delta-2025.1"

// Two-person income limits and affordable purchase prices per AMI threshold.
var defaultIncomeLimits = []struct {
	ami    int
	income float64
	price  float64
}{
	{60, 39030, 153600},
	{80, 52040, 204800},
	{100, 65050, 256000},
	{110, 71555, 281000},
	{120, 78060, 307000},
}

// Household-size adjustments relative to the two-person limit.
var householdFactors = []struct {
	size   int
	factor float64
}{
	{1, 0.875},
	{2, 1},
	{3, 1.125},
	{4, 1.25},
}

func defaultDocument() document {
	doc := document{
		Version:         DefaultVersion,
		HouseholdSize:   2,
		RentBurden:      0.30,
		TimeSavings:     50000,
		MaxDensityBonus: 0.5,
		Fees: feeScheduleDoc{
			PlanningBase:    500,
			PlanningPerUnit: 20,
			FinalPlat:       250,
			BuildingPermitTiers: []tierDoc{
				{Threshold: 0, BaseCharge: 23.50, MarginalRate: 0},
				{Threshold: 500, BaseCharge: 23.50, MarginalRate: 0.0305},
				{Threshold: 2000, BaseCharge: 69.25, MarginalRate: 0.014},
				{Threshold: 25000, BaseCharge: 391.25, MarginalRate: 0.0101},
				{Threshold: 50000, BaseCharge: 643.75, MarginalRate: 0.007},
				{Threshold: 100000, BaseCharge: 993.75, MarginalRate: 0.0056},
				{Threshold: 500000, BaseCharge: 3233.75, MarginalRate: 0.00475},
				{Threshold: 1000000, BaseCharge: 5608.75, MarginalRate: 0.00315},
			},
			WaterBase:         86100,
			WaterPerUnit:      1500,
			WaterTapFlat:      12420,
			SewerBase:         154000,
			SewerPerUnit:      2600,
			UseTaxRate:        0.03,
			MaterialsFraction: 0.60,
		},
		Impact: impactDoc{
			WorkersPerAffordableUnit: 1.5,
			PersonsPerUnit:           2.3,
			ConstructionJobsPerUnit:  0.5,
			PermanentJobsPerUnit:     0.1,
			EquivalenceHorizonYears:  20,
		},
	}
	for _, limit := range defaultIncomeLimits {
		for _, hh := range householdFactors {
			doc.IncomeLimits = append(doc.IncomeLimits, incomeRowDoc{
				AMI:              limit.ami,
				HouseholdSize:    hh.size,
				AnnualIncome:     limit.income * hh.factor,
				MaxPurchasePrice: limit.price * hh.factor,
			})
		}
	}
	return doc
}

// Default returns the built-in 2025 fee schedule and income limits.
func Default() *Tables {
	t, err := defaultDocument().tables()
	if err != nil {
		panic(err)
	}
	return t
}
