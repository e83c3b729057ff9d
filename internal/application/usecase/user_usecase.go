package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// UserRoleUseCase administración de roles de usuario.
type UserRoleUseCase struct {
	store    ports.Store
	guard    *access.Guard
	resolver *access.RoleResolver
	audit    *AuditRecorder
}

// NewUserRoleUseCase construye el caso de uso.
func NewUserRoleUseCase(store ports.Store, guard *access.Guard, resolver *access.RoleResolver, audit *AuditRecorder) *UserRoleUseCase {
	return &UserRoleUseCase{store: store, guard: guard, resolver: resolver, audit: audit}
}

// ListUsers perfiles con su rol; sin fila en user_roles se informa el rol por defecto.
func (uc *UserRoleUseCase) ListUsers(ctx context.Context, actor authz.Actor) ([]dto.UserResponse, error) {
	if err := uc.guard.Check(actor, entity.TableProfiles, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	if err := uc.guard.Check(actor, entity.TableUserRoles, authz.OpSelect, ""); err != nil {
		return nil, err
	}
	repos := uc.store.Repos()
	profiles, err := repos.Profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := repos.Roles.List(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]entity.Role, len(roles))
	for _, r := range roles {
		byUser[r.UserID] = r.Role
	}
	out := make([]dto.UserResponse, 0, len(profiles))
	for _, p := range profiles {
		role, ok := byUser[p.ID]
		if !ok {
			role = entity.DefaultRole
		}
		out = append(out, dto.UserResponse{ProfileResponse: *entityToProfileResponse(p), Role: string(role)})
	}
	return out, nil
}

// ChangeRole fija el rol de otro usuario (solo admin). Nadie puede cambiar su propio rol.
func (uc *UserRoleUseCase) ChangeRole(ctx context.Context, actor authz.Actor, targetUserID, role string) (*dto.UserRoleResponse, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if targetUserID == actor.UserID {
		return nil, domain.ErrSelfRoleChange
	}
	newRole, ok := entity.ParseRole(role)
	if !ok {
		return nil, invalid("rol desconocido")
	}
	if err := uc.guard.Check(actor, entity.TableUserRoles, authz.OpUpdate, ""); err != nil {
		return nil, err
	}
	var out *dto.UserRoleResponse
	err := uc.store.Run(ctx, func(r ports.Repos) error {
		p, err := r.Profiles.GetByID(ctx, targetUserID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrUserNotFound
		}
		current, err := r.Roles.GetByUserID(ctx, targetUserID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		row := &entity.UserRole{ID: uuid.New().String(), UserID: targetUserID, Role: newRole, CreatedAt: now, UpdatedAt: now}
		action := entity.AuditInsert
		var before *dto.UserRoleResponse
		if current != nil {
			before = entityToUserRoleResponse(current)
			row.ID = current.ID
			row.CreatedAt = current.CreatedAt
			action = entity.AuditUpdate
		}
		if err := r.Roles.Upsert(ctx, row); err != nil {
			return err
		}
		out = entityToUserRoleResponse(row)
		return uc.audit.Record(ctx, r.Audit, actor, action, entity.TableUserRoles, row.ID, before, out)
	})
	if err != nil {
		return nil, err
	}
	uc.resolver.Invalidate(targetUserID)
	return out, nil
}

func entityToUserRoleResponse(r *entity.UserRole) *dto.UserRoleResponse {
	return &dto.UserRoleResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Role:      string(r.Role),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
