package auth

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
	"github.com/jhoicas/Bodegaje-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y alta del administrador inicial.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email (o cédula) y password, y devuelve un JWT con rol y empresa del usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.FindByLogin(ctx, strings.TrimSpace(in.Login))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, companyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// AdminInput datos del administrador inicial.
type AdminInput struct {
	Email      string
	DocumentID string
	Password   string
	Name       string
}

// EnsureAdmin crea el administrador si no existe un usuario con ese email o cédula.
// Devuelve created=false cuando ya existía.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, in AdminInput) (*dto.UserResponse, bool, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Email) == "" {
		verr.Add("ADMIN_EMAIL", "es requerido")
	}
	if strings.TrimSpace(in.DocumentID) == "" {
		verr.Add("ADMIN_DOCUMENT_ID", "es requerido")
	}
	if in.Password == "" {
		verr.Add("ADMIN_PASSWORD", "es requerido")
	}
	if err := verr.OrNil(); err != nil {
		return nil, false, err
	}
	for _, login := range []string{in.Email, in.DocumentID} {
		existing, err := uc.userRepo.FindByLogin(ctx, strings.TrimSpace(login))
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return toUserResponse(existing), false, nil
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(in.Email),
		DocumentID:   strings.TrimSpace(in.DocumentID),
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         string(access.RoleAdmin),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return toUserResponse(user), true, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         u.ID,
		CompanyID:  u.CompanyID,
		Email:      u.Email,
		DocumentID: u.DocumentID,
		Name:       u.Name,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
	}
}
