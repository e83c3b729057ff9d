package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/application/provisioning"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	store       ports.Store
	provisioner *provisioning.Provisioner
	provision   *provisioning.ProvisionUseCase
	resolver    *access.RoleResolver
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	store ports.Store,
	provisioner *provisioning.Provisioner,
	provision *provisioning.ProvisionUseCase,
	resolver *access.RoleResolver,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{store: store, provisioner: provisioner, provision: provision, resolver: resolver, jwtCfg: jwtCfg}
}

// Register crea la identidad (password con bcrypt) y la provisiona en la misma transacción.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, ip string) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.store.Repos().Identities.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	identity := &entity.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	err = uc.store.Run(ctx, func(r ports.Repos) error {
		if err := r.Identities.Create(ctx, identity); err != nil {
			return err
		}
		_, err := uc.provisioner.Provision(ctx, r, identity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.session(ctx, identity, ip)
}

// Login verifica email/password, repara el provisioning si faltan filas y genera JWT.
// Email desconocido y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, ip string) (*dto.LoginResponse, error) {
	identity, err := uc.store.Repos().Identities.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if _, err := uc.provision.Provision(ctx, identity); err != nil {
		return nil, err
	}
	return uc.session(ctx, identity, ip)
}

func (uc *AuthUseCase) session(ctx context.Context, identity *entity.Identity, ip string) (*dto.LoginResponse, error) {
	actor, err := uc.resolver.Actor(ctx, identity.ID, identity.Email, ip)
	if err != nil {
		return nil, err
	}
	profile, err := uc.store.Repos().Profiles.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.New("perfil no provisionado")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, identity.ID, identity.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	caps := authz.CapabilitiesOf(actor)
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User: dto.MeResponse{
			Profile: dto.ProfileResponse{
				ID:         profile.ID,
				FullName:   profile.FullName,
				Email:      profile.Email,
				Department: profile.Department,
				Phone:      profile.Phone,
				CreatedAt:  profile.CreatedAt,
				UpdatedAt:  profile.UpdatedAt,
			},
			Capabilities: dto.CapabilitiesResponse{Role: string(caps.Role), CanEdit: caps.CanEdit, IsAdmin: caps.IsAdmin},
		},
	}, nil
}
