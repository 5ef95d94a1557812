package inventory

import (
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
)

func toStockRowResponse(row *entity.StockRow, refs *resolved) *dto.StockRowResponse {
	out := &dto.StockRowResponse{
		ID:         row.ID,
		ProductID:  row.ProductID,
		LocationID: row.LocationID,
		CompanyID:  row.CompanyID,
		Cantidad:   row.Quantity,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if refs != nil {
		out.ProductName = refs.product.Name
		out.ProductSKU = refs.product.SKU
		out.LocationName = refs.location.Name
		out.CompanyName = refs.companyName()
	}
	return out
}

func toStockRowViewResponse(v *entity.StockRowView) dto.StockRowResponse {
	company := v.CompanyName
	if v.CompanyID == nil {
		company = entity.NoCompanyLabel
	}
	return dto.StockRowResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		ProductName:  v.ProductName,
		ProductSKU:   v.ProductSKU,
		LocationID:   v.LocationID,
		LocationName: v.LocationName,
		CompanyID:    v.CompanyID,
		CompanyName:  company,
		Cantidad:     v.Quantity,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toMovementResponse(rec *entity.MovementRecord, refs *resolved) *dto.MovementResponse {
	out := &dto.MovementResponse{
		ID:             rec.ID,
		Kind:           string(rec.Kind),
		KindLabel:      rec.Kind.Label(),
		StockRowID:     rec.StockRowID,
		ProductID:      rec.ProductID,
		LocationID:     rec.LocationID,
		CompanyID:      rec.CompanyID,
		QuantityBefore: rec.QuantityBefore,
		QuantityAfter:  rec.QuantityAfter,
		QuantityDelta:  rec.QuantityDelta,
		UserID:         rec.UserID,
		Reason:         rec.Reason,
		CreatedAt:      rec.CreatedAt,
	}
	if refs != nil {
		out.ProductName = refs.product.Name
		out.LocationName = refs.location.Name
		if refs.company != nil {
			out.CompanyName = refs.company.Name
		}
	}
	return out
}

func toMovementViewResponse(v *entity.MovementView) dto.MovementResponse {
	out := toMovementResponse(&v.MovementRecord, nil)
	out.ProductName = v.ProductName
	out.LocationName = v.LocationName
	out.CompanyName = v.CompanyName
	out.UserName = v.UserName
	return *out
}
