// Package scenario runs the fee, pro forma and impact evaluations over one
// policy/project pair.
package scenario

import (
	"fasttrack-engine/internal/fees"
	"fasttrack-engine/internal/impact"
	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/proforma"
	"fasttrack-engine/internal/refdata"
)

// Evaluate validates the inputs and runs the full pipeline. Either every
// stage succeeds or nothing is returned.
func Evaluate(tables *refdata.Tables, policy model.PolicyConfiguration, project model.ProjectParameters) (model.Evaluation, error) {
	if err := model.Validate(policy, project, tables.MaxDensityBonus); err != nil {
		return model.Evaluation{}, err
	}

	breakdown, err := fees.Evaluate(tables, policy, project)
	if err != nil {
		return model.Evaluation{}, err
	}
	pf, err := proforma.Evaluate(tables, policy, project, breakdown)
	if err != nil {
		return model.Evaluation{}, err
	}

	return model.Evaluation{
		Fees:     breakdown,
		ProForma: pf,
		Impact:   impact.Evaluate(tables, policy, breakdown, pf.Units),
	}, nil
}
