/*
Package factory builds a configured computation engine from JSON.

PURPOSE:
  The regulatory parameters - reimbursement percentages, carency days,
  vigency deadlines, and the public-holiday list - change by decree, not
  by release. The factory parses a JSON rule document into an
  engine.Engine so the fund can tune them without code changes.

JSON SCHEMA:
  {
    "types": {
      "illness":             {"percentage": 75, "carency_days": 3},
      "maternity":           {"percentage": 90},
      "occupational_injury": {"percentage": 90}
    },
    "vigency": {
      "urban_limit_days": 5,
      "rural_limit_days": 10
    },
    "holidays": ["2025-01-01", "2025-05-01"]
  }

  Omitted type entries keep their regulatory defaults. An entry for an
  unknown type is an error: a typo must not silently configure nothing.

USAGE:
  data, _ := os.ReadFile("rules.json")
  eng, err := factory.ParseRules(data)
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/previsio/subsidy-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RulesJSON is the JSON representation of the engine configuration.
type RulesJSON struct {
	Types    map[string]TypeRuleJSON `json:"types"`
	Vigency  *VigencyJSON            `json:"vigency,omitempty"`
	Holidays []string                `json:"holidays,omitempty"`
}

type TypeRuleJSON struct {
	Percentage  float64 `json:"percentage"`
	CarencyDays int     `json:"carency_days,omitempty"`
}

type VigencyJSON struct {
	UrbanLimitDays int `json:"urban_limit_days"`
	RuralLimitDays int `json:"rural_limit_days"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseRules builds an engine from a JSON rule document. Anything the
// document does not mention keeps its regulatory default.
func ParseRules(data []byte) (*engine.Engine, error) {
	var doc RulesJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	eng := engine.New()

	for name, tr := range doc.Types {
		if tr.Percentage <= 0 || tr.Percentage > 100 {
			return nil, fmt.Errorf("rules: type %q: percentage must be in (0, 100], got %v", name, tr.Percentage)
		}
		if tr.CarencyDays < 0 {
			return nil, fmt.Errorf("rules: type %q: carency_days must not be negative", name)
		}

		rule := engine.TypeRule{
			Percentage:  decimal.NewFromFloat(tr.Percentage),
			CarencyDays: tr.CarencyDays,
		}
		switch engine.IncapacityType(name) {
		case engine.Illness:
			eng.Rules.Illness = rule
		case engine.Maternity:
			eng.Rules.Maternity = rule
		case engine.OccupationalInjury:
			eng.Rules.OccupationalInjury = rule
		default:
			return nil, fmt.Errorf("rules: unknown incapacity type %q", name)
		}
	}

	if doc.Vigency != nil {
		if doc.Vigency.UrbanLimitDays <= 0 || doc.Vigency.RuralLimitDays <= 0 {
			return nil, fmt.Errorf("rules: vigency limits must be positive")
		}
		eng.Vigency.UrbanLimitDays = doc.Vigency.UrbanLimitDays
		eng.Vigency.RuralLimitDays = doc.Vigency.RuralLimitDays
	}

	if len(doc.Holidays) > 0 {
		days := make([]engine.Date, 0, len(doc.Holidays))
		for _, h := range doc.Holidays {
			d, err := engine.ParseDate(h)
			if err != nil {
				return nil, fmt.Errorf("rules: holiday %q: %w", h, err)
			}
			days = append(days, d)
		}
		eng.Vigency.Calendar = engine.NewFixedHolidayCalendar(days...)
	}

	return eng, nil
}
