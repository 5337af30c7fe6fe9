package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportTables(t *testing.T) {
	d, ok := ImportDuration("Really Long")
	require.True(t, ok)
	assert.Equal(t, DurationReallyLong, d)
	_, ok = ImportDuration("really long")
	assert.False(t, ok)

	m, ok := ImportMeasurement("c.")
	require.True(t, ok)
	assert.Equal(t, MeasurementCups, m)
	_, ok = ImportMeasurement("")
	assert.False(t, ok)
}

func TestEnumNamesRoundTrip(t *testing.T) {
	for _, d := range Durations() {
		got, err := ParseDuration(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	for _, m := range append(Measurements(), MeasurementNone) {
		got, err := ParseMeasurement(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	assert.Equal(t, "Duration(9)", Duration(9).String())
	_, err := ParseMeasurement("pinch")
	assert.EqualError(t, err, `unknown measurement "pinch"`)
}

func TestIngredientJSON(t *testing.T) {
	out, err := json.Marshal(Ingredient{Name: "eggs", Quantity: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"eggs","quantity":2}`, string(out))

	var in Recipe
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Cake","duration":"really long"}`), &in))
	assert.Equal(t, DurationReallyLong, in.Duration)
}
