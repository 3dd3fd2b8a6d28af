package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ProjectType string

const (
	ProjectRental    ProjectType = "RENTAL"
	ProjectOwnership ProjectType = "OWNERSHIP"
)

// AMIThreshold is an income ceiling expressed as a percentage of area median income.
type AMIThreshold int

func (a AMIThreshold) String() string {
	return fmt.Sprintf("%d%% AMI", int(a))
}

// Fraction returns the threshold as a share of AMI, e.g. 80 -> 0.8.
func (a AMIThreshold) Fraction() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Enumerations accepted by PolicyConfiguration. Anything else is rejected.
var (
	AffordabilityPeriods   = []int{5, 10, 15, 20, 30, 50, 99}
	RentalAMIThresholds    = []AMIThreshold{60, 80}
	OwnershipAMIThresholds = []AMIThreshold{100, 110, 120}
)

// PermanentPeriodYears is the period used to model permanent affordability.
const PermanentPeriodYears = 99

// FeeWaivers lists every waiver the fast track program can grant.
// Planning and building permit waivers are all-or-nothing; tap fees and
// use tax take a continuous fraction.
type FeeWaivers struct {
	Planning       bool            `json:"planning"`
	BuildingPermit bool            `json:"building_permit"`
	TapReduction   decimal.Decimal `json:"tap_reduction"`
	UseTaxRebate   decimal.Decimal `json:"use_tax_rebate"`
}

type PolicyConfiguration struct {
	AffordabilityPeriodYears int             `json:"affordability_period_years"`
	ProjectType              ProjectType     `json:"project_type"`
	RentalAMIThreshold       AMIThreshold    `json:"rental_ami_threshold"`
	OwnershipAMIThreshold    AMIThreshold    `json:"ownership_ami_threshold"`
	MinAffordableFraction    decimal.Decimal `json:"min_affordable_fraction"`
	DensityBonusFraction     decimal.Decimal `json:"density_bonus_fraction"`
	BonusAffordableFraction  decimal.Decimal `json:"bonus_affordable_fraction"`
	FeeWaivers               FeeWaivers      `json:"fee_waivers"`
}

// ActiveAMIThreshold returns the threshold that governs the configured project type.
func (p PolicyConfiguration) ActiveAMIThreshold() AMIThreshold {
	if p.ProjectType == ProjectOwnership {
		return p.OwnershipAMIThreshold
	}
	return p.RentalAMIThreshold
}

// ActiveAMIField names the field behind ActiveAMIThreshold.
func (p PolicyConfiguration) ActiveAMIField() string {
	if p.ProjectType == ProjectOwnership {
		return "ownership_ami_threshold"
	}
	return "rental_ami_threshold"
}

// WithPeriod returns a copy with only the affordability period changed.
func (p PolicyConfiguration) WithPeriod(years int) PolicyConfiguration {
	p.AffordabilityPeriodYears = years
	return p
}

// WithAMIThreshold returns a copy with only the active AMI threshold changed.
func (p PolicyConfiguration) WithAMIThreshold(t AMIThreshold) PolicyConfiguration {
	if p.ProjectType == ProjectOwnership {
		p.OwnershipAMIThreshold = t
	} else {
		p.RentalAMIThreshold = t
	}
	return p
}

// PeriodLabel renders an affordability period for display.
func PeriodLabel(years int) string {
	if years == PermanentPeriodYears {
		return "Permanent (99 yrs)"
	}
	return fmt.Sprintf("%d yrs", years)
}
