package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_UnmarshalPrice(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"number", `{"id":1,"price":12.5}`, 12.5},
		{"decimal string", `{"id":1,"price":"12.345"}`, 12.345},
		{"base_price alias", `{"id":1,"base_price":"9.99"}`, 9.99},
		{"price wins over alias", `{"id":1,"price":3,"base_price":4}`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Product
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.InDelta(t, tt.want, p.Price, 1e-9)
		})
	}
}

func TestProduct_RejectsGarbageNumbers(t *testing.T) {
	var p Product
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"price":"abc"}`), &p))
}

func TestFormatDecimal_KeepsPrecision(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"price":"12.345"}`), &p))

	assert.Equal(t, "12.345", FormatDecimal(p.Price))
	assert.Equal(t, "12.35", FormatPrice(12.345+1e-9))
	assert.Equal(t, "10", FormatDecimal(10))
}

func TestInventoryRecord_IsLow(t *testing.T) {
	assert.True(t, InventoryRecord{QuantityInStock: 4, ReorderPoint: 5}.IsLow())
	assert.False(t, InventoryRecord{QuantityInStock: 5, ReorderPoint: 5}.IsLow())
	assert.False(t, InventoryRecord{QuantityInStock: 6, ReorderPoint: 5}.IsLow())
}

func TestUser_HasRole(t *testing.T) {
	assert.True(t, User{Role: RoleAdmin}.HasRole(RoleAdmin))
	assert.True(t, User{Role: RoleSuperAdmin}.HasRole(RoleAdmin))
	assert.False(t, User{Role: "viewer"}.HasRole(RoleAdmin))
}

func TestUser_UnmarshalNumericID(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"email":"x@y.z","role":"admin"}`), &u))
	assert.Equal(t, "42", u.ID)
}
