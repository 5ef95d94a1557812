package catalog

import (
	"context"
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

// LocationUseCase CRUD de ubicaciones.
type LocationUseCase struct {
	repo      repository.LocationRepository
	listeners *Listeners
	log       *logger.Logger
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, listeners *Listeners, log *logger.Logger) *LocationUseCase {
	return &LocationUseCase{repo: repo, listeners: listeners, log: log.Component("catalog.locations")}
}

// Create crea una ubicación.
func (uc *LocationUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := access.Require(actor, access.CapCatalogManage); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l := &entity.Location{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	out := toLocationResponse(l)
	out.AuditWarning = notifyListeners(ctx, uc.listeners, uc.log, Event{Kind: EventCreated, Actor: actor, Location: l})
	return out, nil
}

// GetByID obtiene una ubicación.
func (uc *LocationUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.LocationResponse, error) {
	if err := access.Require(actor, access.CapCatalogView); err != nil {
		return nil, err
	}
	l, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(l), nil
}

// List lista ubicaciones filtrando por nombre.
func (uc *LocationUseCase) List(ctx context.Context, actor access.Actor, search string, limit, offset int) (*dto.LocationListResponse, error) {
	if err := access.Require(actor, access.CapCatalogView); err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Update modifica nombre y descripción.
func (uc *LocationUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if err := access.Require(actor, access.CapCatalogManage); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	l, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		l.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	l.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	out := toLocationResponse(l)
	out.AuditWarning = notifyListeners(ctx, uc.listeners, uc.log, Event{Kind: EventModified, Actor: actor, Location: l})
	return out, nil
}

// Delete elimina la ubicación y en cascada su inventario.
func (uc *LocationUseCase) Delete(ctx context.Context, actor access.Actor, id string) (string, error) {
	if err := access.Require(actor, access.CapCatalogManage); err != nil {
		return "", err
	}
	l, err := uc.find(ctx, id)
	if err != nil {
		return "", err
	}
	if err := uc.repo.Delete(ctx, l.ID); err != nil {
		return "", err
	}
	return notifyListeners(ctx, uc.listeners, uc.log, Event{Kind: EventDeleted, Actor: actor, Location: l}), nil
}

func (uc *LocationUseCase) find(ctx context.Context, id string) (*entity.Location, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{Resource: "ubicación", ID: id}
	}
	l, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &domain.NotFoundError{Resource: "ubicación", ID: id}
	}
	return l, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
