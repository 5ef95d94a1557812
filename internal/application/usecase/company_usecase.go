package usecase

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
	"github.com/jhoicas/Bodegaje-api/pkg/nit"
)

// CompanyUseCase alta y consulta de empresas cliente.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create crea una empresa. El NIT se guarda con dígito de verificación.
// Devuelve domain.ErrDuplicate si el NIT ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := access.Require(actor, access.CapCompanyManage); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.NIT = strings.TrimSpace(in.NIT)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.NIT != "" {
		normalized, err := nit.Normalize(in.NIT)
		if err != nil {
			verr := &domain.ValidationError{}
			verr.Add("nit", "debe tener 9 dígitos o 10 con dígito de verificación válido")
			return nil, verr
		}
		in.NIT = normalized
		existing, err := uc.repo.GetByNIT(ctx, in.NIT)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		NIT:       in.NIT,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa. Un cliente sólo puede consultar la suya.
func (uc *CompanyUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.CompanyResponse, error) {
	if !actor.Role.Privileged() && (actor.CompanyID == nil || *actor.CompanyID != id) {
		return nil, &domain.NotFoundError{Resource: "empresa", ID: id}
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.NotFoundError{Resource: "empresa", ID: id}
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, &domain.NotFoundError{Resource: "empresa", ID: id}
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, actor access.Actor, limit, offset int) (*dto.CompanyListResponse, error) {
	if err := access.Require(actor, access.CapCompanyManage); err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		NIT:       c.NIT,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
