package model

type CalculationRequest struct {
	TenantID   string              `json:"tenant_id"`
	Policy     PolicyConfiguration `json:"policy"`
	Project    ProjectParameters   `json:"project"`
	Comparison *ComparisonGrid     `json:"comparison,omitempty"`
}

// ComparisonGrid lists the alternative values to evaluate. Empty lists fall
// back to the default grid for the project type.
type ComparisonGrid struct {
	PeriodGrid []int          `json:"period_grid"`
	AMIGrid    []AMIThreshold `json:"ami_grid"`
}
