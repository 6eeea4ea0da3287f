package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBySKU(t *testing.T) {
	rows := []Variation{
		{ID: 1, ProductID: 5, SKU: "TS-RED-M", AttributeType: "color", AttributeValue: "red", PriceModifier: 2},
		{ID: 2, ProductID: 5, SKU: "TS-BLU-M", AttributeType: "color", AttributeValue: "blue", PriceModifier: 0},
		{ID: 3, ProductID: 5, SKU: "TS-RED-M", AttributeType: "size", AttributeValue: "M", PriceModifier: 2},
	}

	groups := GroupBySKU(rows)
	require.Len(t, groups, 2)

	red := groups[0]
	assert.Equal(t, "TS-RED-M", red.SKU)
	assert.Equal(t, []int64{1, 3}, red.RowIDs())
	require.NotNil(t, red.PriceModifier)
	assert.Equal(t, 2.0, *red.PriceModifier)
	assert.False(t, red.ModifierConflict)

	assert.Equal(t, "TS-BLU-M", groups[1].SKU)
}

func TestGroupBySKU_FlagsModifierConflict(t *testing.T) {
	rows := []Variation{
		{ID: 1, SKU: "A", AttributeType: "color", AttributeValue: "red", PriceModifier: 1},
		{ID: 2, SKU: "A", AttributeType: "size", AttributeValue: "L", PriceModifier: 3},
	}

	groups := GroupBySKU(rows)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].ModifierConflict)
	assert.Nil(t, groups[0].PriceModifier)
	assert.ElementsMatch(t, []float64{1, 3}, groups[0].Modifiers)
}
