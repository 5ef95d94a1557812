package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
)

// ──────────────────────────────────────────────────────────────────────────────
// OptionalID
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStockRowRequest_CompanyIDDistingueAusenteDeNull(t *testing.T) {
	var absent dto.UpdateStockRowRequest
	require.NoError(t, json.Unmarshal([]byte(`{"cantidad": 3}`), &absent))
	assert.False(t, absent.CompanyID.Set, "sin company_id el campo no se toca")

	var null dto.UpdateStockRowRequest
	require.NoError(t, json.Unmarshal([]byte(`{"company_id": null}`), &null))
	assert.True(t, null.CompanyID.Set, "null explícito cuenta como presente")
	assert.Nil(t, null.CompanyID.Value)

	var set dto.UpdateStockRowRequest
	require.NoError(t, json.Unmarshal([]byte(`{"company_id": "c1"}`), &set))
	assert.True(t, set.CompanyID.Set)
	require.NotNil(t, set.CompanyID.Value)
	assert.Equal(t, "c1", *set.CompanyID.Value)

	var bad dto.UpdateStockRowRequest
	assert.Error(t, json.Unmarshal([]byte(`{"company_id": 7}`), &bad), "company_id debe ser texto o null")
}

func TestOptionalID_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(dto.NullID())
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(out))

	out, err = json.Marshal(dto.SomeID("c1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"c1"`, string(out))
}
