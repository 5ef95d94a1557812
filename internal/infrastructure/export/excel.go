// Package export genera la hoja de cálculo del inventario con excelize.
package export

import (
	"fmt"
	"time"

	"github.com/jhoicas/Bodegaje-api/internal/application/inventory"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

var _ inventory.SpreadsheetExporter = (*ExcelExporter)(nil)

// SheetName hoja con los registros de inventario.
const SheetName = "Inventario"

var headers = []any{"Producto", "SKU", "Ubicación", "Empresa", "Cantidad", "Actualizado"}

// ExcelExporter implementa inventory.SpreadsheetExporter.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// StockRows escribe una fila por registro, con encabezado en negrita y una nota con la fecha de generación.
func (e *ExcelExporter) StockRows(rows []*entity.StockRowView, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("export: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("export: encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", bold); err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}

	for i, r := range rows {
		company := r.CompanyName
		if r.CompanyID == nil || company == "" {
			company = entity.NoCompanyLabel
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{r.ProductName, r.ProductSKU, r.LocationName, company, r.Quantity, r.UpdatedAt.Format("2006-01-02 15:04")}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+2, err)
		}
	}

	footer, err := excelize.CoordinatesToCellName(1, len(rows)+3)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, footer, "Generado: "+generatedAt.Format("2006-01-02 15:04")); err != nil {
		return nil, fmt.Errorf("export: pie: %w", err)
	}
	_ = f.SetColWidth(SheetName, "A", "A", 30)
	_ = f.SetColWidth(SheetName, "C", "D", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
