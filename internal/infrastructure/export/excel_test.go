package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelExporter_StockRows(t *testing.T) {
	at := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	rows := []*entity.StockRowView{
		{
			StockRow:    entity.StockRow{ID: "r1", Quantity: 12, CompanyID: entity.Ptr("c1"), UpdatedAt: at},
			ProductName: "Tornillo", ProductSKU: "T-1", LocationName: "Bodega A", CompanyName: "Acme",
		},
		{
			StockRow:    entity.StockRow{ID: "r2", Quantity: 3, UpdatedAt: at},
			ProductName: "Tuerca", ProductSKU: "N-2", LocationName: "Bodega B",
		},
	}

	out, err := NewExcelExporter().StockRows(rows, at)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, []string{"Producto", "SKU", "Ubicación", "Empresa", "Cantidad", "Actualizado"}, got[0])
	assert.Equal(t, "Tornillo", got[1][0])
	assert.Equal(t, "Acme", got[1][3])
	assert.Equal(t, "12", got[1][4])
	assert.Equal(t, entity.NoCompanyLabel, got[2][3], "un registro sin empresa se muestra como 'Sin Empresa'")
}

func TestExcelExporter_SinRegistros(t *testing.T) {
	out, err := NewExcelExporter().StockRows(nil, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "Producto", got[0][0])
}
