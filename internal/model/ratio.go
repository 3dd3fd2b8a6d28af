package model

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Ratio is a derived metric that may be undefined because its denominator
// is zero. Undefined ratios carry the reason instead of NaN, Inf or zero.
type Ratio struct {
	Value   decimal.Decimal
	Defined bool
	Reason  string
}

func DefinedRatio(v decimal.Decimal) Ratio {
	return Ratio{Value: v, Defined: true}
}

func UndefinedRatio(reason string) Ratio {
	return Ratio{Reason: reason}
}

// Divide returns num/den, or an undefined ratio when den is zero.
func Divide(num, den decimal.Decimal, reason string) Ratio {
	if den.IsZero() {
		return UndefinedRatio(reason)
	}
	return DefinedRatio(num.Div(den))
}

// Get returns the value or an error wrapping ErrDivisionUndefined.
func (r Ratio) Get() (decimal.Decimal, error) {
	if !r.Defined {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrDivisionUndefined, r.Reason)
	}
	return r.Value, nil
}

type ratioJSON struct {
	Value   *decimal.Decimal `json:"value"`
	Defined bool             `json:"defined"`
	Reason  string           `json:"reason,omitempty"`
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	out := ratioJSON{Defined: r.Defined, Reason: r.Reason}
	if r.Defined {
		v := r.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	var in ratioJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = Ratio{Defined: in.Defined, Reason: in.Reason}
	if in.Value != nil {
		r.Value = *in.Value
	}
	return nil
}
