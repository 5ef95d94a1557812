package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Bodegaje-api/internal/application/dto"
	"github.com/jhoicas/Bodegaje-api/internal/domain"
	"github.com/jhoicas/Bodegaje-api/internal/domain/access"
	"github.com/jhoicas/Bodegaje-api/internal/domain/entity"
	"github.com/jhoicas/Bodegaje-api/internal/domain/repository"
	"github.com/jhoicas/Bodegaje-api/pkg/logger"
)

// ProductUseCase CRUD de productos con notificación a los observadores del catálogo.
type ProductUseCase struct {
	repo      repository.ProductRepository
	listeners *Listeners
	log       *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, listeners *Listeners, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, listeners: listeners, log: log.Component("catalog.products")}
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := access.Require(actor, access.CapCatalogManage); err != nil {
		return nil, err
	}
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toProductResponse(p)
	out.AuditWarning = uc.notify(ctx, Event{Kind: EventCreated, Actor: actor, Product: p})
	return out, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.ProductResponse, error) {
	if err := access.Require(actor, access.CapCatalogView); err != nil {
		return nil, err
	}
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos filtrando por nombre o SKU.
func (uc *ProductUseCase) List(ctx context.Context, actor access.Actor, search string, limit, offset int) (*dto.ProductListResponse, error) {
	if err := access.Require(actor, access.CapCatalogView); err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Update modifica nombre y descripción.
func (uc *ProductUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := access.Require(actor, access.CapCatalogManage); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	out := toProductResponse(p)
	out.AuditWarning = uc.notify(ctx, Event{Kind: EventModified, Actor: actor, Product: p})
	return out, nil
}

// Delete elimina el producto; sus registros de inventario se eliminan en cascada y el historial conserva sus movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, actor access.Actor, id string) (string, error) {
	if err := access.Require(actor, access.CapCatalogManage); err != nil {
		return "", err
	}
	p, err := uc.find(ctx, id)
	if err != nil {
		return "", err
	}
	if err := uc.repo.Delete(ctx, p.ID); err != nil {
		return "", err
	}
	return uc.notify(ctx, Event{Kind: EventDeleted, Actor: actor, Product: p}), nil
}

func (uc *ProductUseCase) find(ctx context.Context, id string) (*entity.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return p, nil
}

func (uc *ProductUseCase) notify(ctx context.Context, ev Event) string {
	return notifyListeners(ctx, uc.listeners, uc.log, ev)
}

// notifyListeners avisa a los observadores y devuelve el texto de advertencia si falló el historial.
func notifyListeners(ctx context.Context, listeners *Listeners, log *logger.Logger, ev Event) string {
	err := listeners.Notify(ctx, ev)
	if err == nil {
		return ""
	}
	log.Warn().Err(err).Str("event", ev.Kind.String()).Msg("observador del catálogo falló")
	if errors.Is(err, domain.ErrAuditWrite) {
		return domain.ErrAuditWrite.Error()
	}
	return ""
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
