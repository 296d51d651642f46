/*
rules.go - Reimbursement percentage and carency per incapacity type

PURPOSE:
  Maps each incapacity type to its reimbursement percentage and carency
  policy. Carency days are an initial span of a sickness leave the subsidy
  does not cover; they are charged once, in the month the leave began.

RULE TABLE (regulatory defaults):
  Illness              75%   3 carency days, first settlement month only
  Maternity            90%   no carency
  Occupational injury  90%   no carency (reporting deadline instead,
                             see vigency.go)

An unrecognized type is a configuration error. The engine never settles a
claim on a default percentage.
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// TYPE RULES
// =============================================================================

// TypeRule is the reimbursement terms for one incapacity type.
type TypeRule struct {
	// Percentage of the prorated wage that is reimbursed (0-100).
	Percentage decimal.Decimal

	// CarencyDays are subtracted from the settled day count in the leave's
	// first settlement month.
	CarencyDays int
}

// RuleSet holds the rule for every known incapacity type. The zero value
// is unusable; start from DefaultRules or the factory package.
type RuleSet struct {
	Illness            TypeRule
	Maternity          TypeRule
	OccupationalInjury TypeRule
}

// DefaultRules returns the regulatory rule table.
func DefaultRules() RuleSet {
	return RuleSet{
		Illness:            TypeRule{Percentage: decimal.NewFromInt(75), CarencyDays: 3},
		Maternity:          TypeRule{Percentage: decimal.NewFromInt(90)},
		OccupationalInjury: TypeRule{Percentage: decimal.NewFromInt(90)},
	}
}

// For returns the rule for the given incapacity type. firstMonth reports
// whether the target month is the leave's first settlement month (its start
// date does not fall strictly before the month); for a continuation month
// the carency was already charged where the leave began, so it is zeroed.
//
// Returns ConfigurationError for an unrecognized type.
func (rs RuleSet) For(t IncapacityType, firstMonth bool) (TypeRule, error) {
	var rule TypeRule
	switch t {
	case Illness:
		rule = rs.Illness
	case Maternity:
		rule = rs.Maternity
	case OccupationalInjury:
		rule = rs.OccupationalInjury
	default:
		return TypeRule{}, &ConfigurationError{Type: t}
	}

	if !firstMonth {
		rule.CarencyDays = 0
	}
	return rule, nil
}
