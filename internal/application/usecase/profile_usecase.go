package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// ProfileUseCase perfiles de usuario y sesión actual.
type ProfileUseCase struct {
	store ports.Store
	guard *access.Guard
	audit *AuditRecorder
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(store ports.Store, guard *access.Guard, audit *AuditRecorder) *ProfileUseCase {
	return &ProfileUseCase{store: store, guard: guard, audit: audit}
}

// Me perfil del actor con su rol y capacidades.
func (uc *ProfileUseCase) Me(ctx context.Context, actor authz.Actor) (*dto.MeResponse, error) {
	if err := uc.guard.Check(actor, entity.TableProfiles, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	p, err := uc.store.Repos().Profiles.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.MeResponse{
		Profile:      *entityToProfileResponse(p),
		Capabilities: capabilitiesResponse(actor),
	}, nil
}

// Permissions matriz de permisos evaluada para el rol del actor.
func (uc *ProfileUseCase) Permissions(actor authz.Actor) (*dto.PermissionsResponse, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	matrix := make(map[string]map[string]bool, len(entity.Tables))
	for table, ops := range uc.guard.Matrix(actor.Role) {
		row := make(map[string]bool, len(ops))
		for op, ok := range ops {
			row[string(op)] = ok
		}
		matrix[string(table)] = row
	}
	return &dto.PermissionsResponse{CapabilitiesResponse: capabilitiesResponse(actor), Matrix: matrix}, nil
}

// List directorio de perfiles.
func (uc *ProfileUseCase) List(ctx context.Context, actor authz.Actor) ([]dto.ProfileResponse, error) {
	if err := uc.guard.Check(actor, entity.TableProfiles, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	list, err := uc.store.Repos().Profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *entityToProfileResponse(p))
	}
	return out, nil
}

// GetByID obtiene un perfil.
func (uc *ProfileUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.ProfileResponse, error) {
	if err := uc.guard.Check(actor, entity.TableProfiles, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	p, err := uc.store.Repos().Profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return entityToProfileResponse(p), nil
}

// Update actualiza un perfil; solo su dueño puede hacerlo.
func (uc *ProfileUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := uc.guard.Check(actor, entity.TableProfiles, authz.OpUpdate, id); err != nil {
		return nil, err
	}
	var out *dto.ProfileResponse
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		p, err := r.Profiles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		before := entityToProfileResponse(p)
		if in.FullName != nil {
			name := strings.TrimSpace(*in.FullName)
			if name == "" {
				return invalid("el nombre no puede quedar vacío")
			}
			p.FullName = name
		}
		if in.Department != nil {
			p.Department = strings.TrimSpace(*in.Department)
		}
		if in.Phone != nil {
			p.Phone = strings.TrimSpace(*in.Phone)
		}
		p.UpdatedAt = time.Now().UTC()
		if err := r.Profiles.Update(ctx, p); err != nil {
			return err
		}
		out = entityToProfileResponse(p)
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditUpdate, entity.TableProfiles, p.ID, before, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func capabilitiesResponse(actor authz.Actor) dto.CapabilitiesResponse {
	c := authz.CapabilitiesOf(actor)
	return dto.CapabilitiesResponse{Role: string(c.Role), CanEdit: c.CanEdit, IsAdmin: c.IsAdmin}
}

func entityToProfileResponse(p *entity.Profile) *dto.ProfileResponse {
	if p == nil {
		return nil
	}
	return &dto.ProfileResponse{
		ID:         p.ID,
		FullName:   p.FullName,
		Email:      p.Email,
		Department: p.Department,
		Phone:      p.Phone,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
