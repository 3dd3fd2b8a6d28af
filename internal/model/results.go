package model

import "github.com/shopspring/decimal"

type BedroomCount struct {
	Bedrooms int `json:"bedrooms"`
	Units    int `json:"units"`
}

type UnitAllocation struct {
	BaseUnits            int            `json:"base_units"`
	BonusUnits           int            `json:"bonus_units"`
	TotalUnits           int            `json:"total_units"`
	AffordableBaseUnits  int            `json:"affordable_base_units"`
	AffordableBonusUnits int            `json:"affordable_bonus_units"`
	AffordableUnits      int            `json:"affordable_units"`
	MarketRateUnits      int            `json:"market_rate_units"`
	AffordableByBedroom  []BedroomCount `json:"affordable_by_bedroom"`
}

type FeeCategory string

const (
	FeePlanning       FeeCategory = "planning"
	FeeBuildingPermit FeeCategory = "building_permit"
	FeeWaterTap       FeeCategory = "water_tap"
	FeeSewerTap       FeeCategory = "sewer_tap"
	FeeUseTax         FeeCategory = "use_tax"
)

// FeeCategories is the order fee lines are assessed and reported in.
var FeeCategories = []FeeCategory{FeePlanning, FeeBuildingPermit, FeeWaterTap, FeeSewerTap, FeeUseTax}

// FeeLine splits one category's nominal charge into what is still charged
// and what the city gives up.
type FeeLine struct {
	Category FeeCategory     `json:"category"`
	Nominal  decimal.Decimal `json:"nominal"`
	Charged  decimal.Decimal `json:"charged"`
	Waived   decimal.Decimal `json:"waived"`
	Basis    string          `json:"basis"`
}

type FeeBreakdown struct {
	ConstructionValuation decimal.Decimal `json:"construction_valuation"`
	Lines                 []FeeLine       `json:"lines"`
	TotalNominal          decimal.Decimal `json:"total_nominal"`
	TotalFeesCharged      decimal.Decimal `json:"total_fees_charged"`
	// TotalFeeWaivers is the only figure that represents revenue the city
	// actually foregoes.
	TotalFeeWaivers decimal.Decimal `json:"total_fee_waivers"`
}

// Line returns the line for a category.
func (f FeeBreakdown) Line(c FeeCategory) (FeeLine, bool) {
	for _, l := range f.Lines {
		if l.Category == c {
			return l, true
		}
	}
	return FeeLine{}, false
}

type BenefitBreakdown struct {
	DensityBonusValue decimal.Decimal `json:"density_bonus_value"`
	FeeWaivers        decimal.Decimal `json:"fee_waivers"`
	TimeSavings       decimal.Decimal `json:"time_savings"`
	Total             decimal.Decimal `json:"total"`
}

// CostBreakdown holds the developer's cost of the affordability commitment.
// Rental fields are set for RENTAL projects, price fields for OWNERSHIP.
type CostBreakdown struct {
	ProjectType     ProjectType     `json:"project_type"`
	AMIThreshold    AMIThreshold    `json:"ami_threshold"`
	HouseholdSize   int             `json:"household_size"`
	IncomeLimit     decimal.Decimal `json:"income_limit"`
	AffordableUnits int             `json:"affordable_units"`
	PeriodYears     int             `json:"period_years"`

	MarketRent     decimal.Decimal `json:"market_rent"`
	AffordableRent decimal.Decimal `json:"affordable_rent"`
	MonthlyRentGap decimal.Decimal `json:"monthly_rent_gap"`

	MarketPrice     decimal.Decimal `json:"market_price"`
	AffordablePrice decimal.Decimal `json:"affordable_price"`
	PriceGap        decimal.Decimal `json:"price_gap"`

	Total decimal.Decimal `json:"total"`
}

type ProFormaResult struct {
	Units            UnitAllocation   `json:"units"`
	Benefits         BenefitBreakdown `json:"benefits"`
	Costs            CostBreakdown    `json:"costs"`
	NetPosition      decimal.Decimal  `json:"net_position"`
	IsValuePositive  bool             `json:"is_value_positive"`
	TotalProjectCost decimal.Decimal  `json:"total_project_cost"`
	ROIPercent       Ratio            `json:"roi_percent"`
	// AtOrAboveMarket is set when the affordable rent or price meets the
	// market, so the commitment costs the developer nothing.
	AtOrAboveMarket bool `json:"at_or_above_market"`
}

type CommunityImpactResult struct {
	CityInvestment           decimal.Decimal `json:"city_investment"`
	TotalUnits               int             `json:"total_units"`
	AffordableUnits          int             `json:"affordable_units"`
	AffordabilityPeriodYears int             `json:"affordability_period_years"`
	UnitYears                int             `json:"unit_years"`
	AffordableUnitYears      int             `json:"affordable_unit_years"`
	CostPerUnitYear          Ratio           `json:"cost_per_unit_year"`
	CostPerAffordableUnit    Ratio           `json:"cost_per_affordable_unit"`
	CyclesInHorizon          Ratio           `json:"cycles_in_horizon"`
	TwentyYearEquivalentCost Ratio           `json:"twenty_year_equivalent_cost"`
	SubsidizedWorkers        decimal.Decimal `json:"subsidized_workers"`
	PopulationServed         decimal.Decimal `json:"population_served"`
	ConstructionJobs         decimal.Decimal `json:"construction_jobs"`
	PermanentJobs            decimal.Decimal `json:"permanent_jobs"`
}

// Evaluation is one full pass of the pipeline over a single configuration.
type Evaluation struct {
	Fees     FeeBreakdown          `json:"fees"`
	ProForma ProFormaResult        `json:"pro_forma"`
	Impact   CommunityImpactResult `json:"impact"`
}

type ComparisonDimension string

const (
	DimensionPeriod ComparisonDimension = "affordability_period"
	DimensionAMI    ComparisonDimension = "ami_threshold"
)

type ComparisonRow struct {
	Dimension ComparisonDimension   `json:"dimension"`
	Value     int                   `json:"value"`
	Label     string                `json:"label"`
	ProForma  ProFormaResult        `json:"pro_forma"`
	Impact    CommunityImpactResult `json:"impact"`
	IsCurrent bool                  `json:"is_current"`
}

// ExportRow is one flat metric of an evaluation.
type ExportRow struct {
	Section string `json:"section"`
	Metric  string `json:"metric"`
	Value   string `json:"value"`
	Display string `json:"display"`
}
