package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/previsio/subsidy-engine/engine"
)

func TestRuleSet_For(t *testing.T) {
	rules := engine.DefaultRules()

	cases := []struct {
		name        string
		typ         engine.IncapacityType
		firstMonth  bool
		percentage  int64
		carencyDays int
	}{
		{"illness first month", engine.Illness, true, 75, 3},
		{"illness continuation", engine.Illness, false, 75, 0},
		{"maternity first month", engine.Maternity, true, 90, 0},
		{"maternity continuation", engine.Maternity, false, 90, 0},
		{"occupational injury first month", engine.OccupationalInjury, true, 90, 0},
		{"occupational injury continuation", engine.OccupationalInjury, false, 90, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := rules.For(tc.typ, tc.firstMonth)
			require.NoError(t, err)
			assert.True(t, rule.Percentage.Equal(decimal.NewFromInt(tc.percentage)),
				"percentage: want %d, got %s", tc.percentage, rule.Percentage)
			assert.Equal(t, tc.carencyDays, rule.CarencyDays)
		})
	}
}

func TestRuleSet_For_UnknownType_ConfigurationError(t *testing.T) {
	// GIVEN: An incapacity type with no configured rule
	// THEN: A configuration error, never a default percentage

	_, err := engine.DefaultRules().For(engine.IncapacityType("vacation"), true)

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrUnknownIncapacityType)
	var cfgErr *engine.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, engine.IncapacityType("vacation"), cfgErr.Type)
}

func TestIncapacityType_Valid(t *testing.T) {
	assert.True(t, engine.Illness.Valid())
	assert.True(t, engine.Maternity.Valid())
	assert.True(t, engine.OccupationalInjury.Valid())
	assert.False(t, engine.IncapacityType("").Valid())
	assert.False(t, engine.IncapacityType("ENFERMEDAD").Valid())
}
