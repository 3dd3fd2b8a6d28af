package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"fasttrack-engine/internal/compare"
	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
	"fasttrack-engine/internal/scenario"
)

// Engine turns calculation requests into responses. It keeps no state of
// its own between calls; the registry only supplies reference snapshots.
type Engine struct {
	registry   *refdata.Registry
	comparator compare.Comparator
}

func New(registry *refdata.Registry, comparator compare.Comparator) *Engine {
	return &Engine{registry: registry, comparator: comparator}
}

// Process evaluates the request against one reference snapshot. A request
// that fails validation or evaluation yields a FAILURE response carrying
// only messages.
func (e *Engine) Process(req *model.CalculationRequest) *model.CalculationResponse {
	start := time.Now()
	tables := e.registry.Current()

	var messages []model.CalculationMessage
	outcome := model.OutcomeSuccess

	eval, err := scenario.Evaluate(tables, req.Policy, req.Project)
	var rows []model.ComparisonRow
	if err == nil && req.Comparison != nil {
		grid := compare.Grid{
			Periods:       req.Comparison.PeriodGrid,
			AMIThresholds: req.Comparison.AMIGrid,
		}.WithDefaults(req.Policy.ProjectType)
		rows, err = e.comparator.Compare(tables, req.Policy, req.Project, grid)
	}

	result := model.CalculationResult{}
	if err != nil {
		messages = appendError(messages, err)
		outcome = model.OutcomeFailure
	} else {
		messages = appendWarnings(messages, eval)
		result.Evaluation = &eval
		result.Comparison = rows
	}

	if messages == nil {
		messages = []model.CalculationMessage{}
	}
	result.Messages = messages

	elapsed := time.Since(start)
	now := time.Now().UTC()

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			TenantID:               req.TenantID,
			ReferenceDataVersion:   tables.Version,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: result,
	}
}

func appendMessage(msgs []model.CalculationMessage, m model.CalculationMessage) []model.CalculationMessage {
	m.ID = len(msgs)
	return append(msgs, m)
}

func appendError(msgs []model.CalculationMessage, err error) []model.CalculationMessage {
	var verrs model.ValidationErrors
	var cerr model.ConfigurationError
	switch {
	case errors.As(err, &verrs):
		for _, v := range verrs {
			msgs = appendMessage(msgs, model.CalculationMessage{
				Level:   model.LevelCritical,
				Code:    string(v.Code),
				Field:   v.Field,
				Message: v.Message,
			})
		}
	case errors.As(err, &cerr):
		msgs = appendMessage(msgs, model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    string(model.CodeUnknownAMIThreshold),
			Field:   cerr.Field,
			Message: cerr.Message,
		})
	default:
		msgs = appendMessage(msgs, model.CalculationMessage{
			Level:   model.LevelCritical,
			Code:    model.CodeCalculationFailed,
			Message: err.Error(),
		})
	}
	return msgs
}

func appendWarnings(msgs []model.CalculationMessage, eval model.Evaluation) []model.CalculationMessage {
	pf := eval.ProForma
	if pf.AtOrAboveMarket {
		switch pf.Costs.ProjectType {
		case model.ProjectRental:
			msgs = appendMessage(msgs, model.CalculationMessage{
				Level: model.LevelWarning,
				Code:  model.CodeRentAtOrAboveMarket,
				Field: "rental_ami_threshold",
				Message: "Affordable rent " + pf.Costs.AffordableRent.StringFixed(2) +
					" meets or exceeds market rent " + pf.Costs.MarketRent.StringFixed(2) +
					"; the affordability requirement costs the developer nothing",
			})
		case model.ProjectOwnership:
			msgs = appendMessage(msgs, model.CalculationMessage{
				Level: model.LevelWarning,
				Code:  model.CodePriceAtOrAboveMarket,
				Field: "ownership_ami_threshold",
				Message: "Affordable price " + pf.Costs.AffordablePrice.StringFixed(0) +
					" meets or exceeds market price " + pf.Costs.MarketPrice.StringFixed(0),
			})
		}
	}

	undefined := []struct {
		field string
		ratio model.Ratio
	}{
		{"roi_percent", pf.ROIPercent},
		{"cost_per_unit_year", eval.Impact.CostPerUnitYear},
		{"cost_per_affordable_unit", eval.Impact.CostPerAffordableUnit},
		{"twenty_year_equivalent_cost", eval.Impact.TwentyYearEquivalentCost},
	}
	for _, u := range undefined {
		if u.ratio.Defined {
			continue
		}
		msgs = appendMessage(msgs, model.CalculationMessage{
			Level:   model.LevelWarning,
			Code:    model.CodeDivisionUndefined,
			Field:   u.field,
			Message: u.ratio.Reason,
		})
	}
	return msgs
}
