// Package fees prices the municipal fee schedule for a project and splits
// every charge into what is still collected and what is waived.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
	"fasttrack-engine/internal/units"
)

var one = decimal.NewFromInt(1)

// Evaluate itemizes every fee category for the project under the policy.
func Evaluate(tables *refdata.Tables, policy model.PolicyConfiguration, project model.ProjectParameters) (model.FeeBreakdown, error) {
	alloc := units.Allocate(policy, project)

	var errs model.ValidationErrors
	if alloc.TotalUnits <= 0 {
		errs = append(errs, model.ValidationError{
			Field:   "base_units",
			Code:    model.CodeInvalidUnitCount,
			Message: fmt.Sprintf("total units must be positive, got %d", alloc.TotalUnits),
		})
	}
	fractions := []struct {
		field string
		value decimal.Decimal
	}{
		{"fee_waivers.tap_reduction", policy.FeeWaivers.TapReduction},
		{"fee_waivers.use_tax_rebate", policy.FeeWaivers.UseTaxRebate},
	}
	for _, f := range fractions {
		if f.value.IsNegative() || f.value.GreaterThan(one) {
			errs = append(errs, model.ValidationError{
				Field:   f.field,
				Code:    model.CodeFractionOutOfRange,
				Message: fmt.Sprintf("%s is outside [0, 1]", f.value),
			})
		}
	}
	if err := errs.Err(); err != nil {
		return model.FeeBreakdown{}, err
	}

	in := &Input{
		Waivers:   policy.FeeWaivers,
		Units:     alloc,
		Valuation: project.Valuation(alloc.TotalUnits),
		Schedule:  tables.Fees,
	}

	out := model.FeeBreakdown{
		ConstructionValuation: in.Valuation,
		Lines:                 make([]model.FeeLine, 0, len(model.FeeCategories)),
	}
	for _, name := range model.FeeCategories {
		category, ok := Get(name)
		if !ok {
			return model.FeeBreakdown{}, fmt.Errorf("fee category %q has no calculator", name)
		}
		nominal, basis := category.Assess(in)
		waived := category.Waived(in, nominal)
		line := model.FeeLine{
			Category: name,
			Nominal:  nominal,
			Charged:  nominal.Sub(waived),
			Waived:   waived,
			Basis:    basis,
		}
		out.Lines = append(out.Lines, line)
		out.TotalNominal = out.TotalNominal.Add(line.Nominal)
		out.TotalFeesCharged = out.TotalFeesCharged.Add(line.Charged)
		out.TotalFeeWaivers = out.TotalFeeWaivers.Add(line.Waived)
	}
	return out, nil
}
