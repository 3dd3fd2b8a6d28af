package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

// Warning codes raised on otherwise successful calculations.
const (
	CodeRentAtOrAboveMarket  = "RENT_AT_OR_ABOVE_MARKET"
	CodePriceAtOrAboveMarket = "PRICE_AT_OR_ABOVE_MARKET"
	CodeDivisionUndefined    = "DIVISION_UNDEFINED"
	CodeCalculationFailed    = "CALCULATION_FAILED"
)
