package repository

import (
	"context"

	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// IdentityRepository puerto de persistencia de identidades (auth).
type IdentityRepository interface {
	Create(ctx context.Context, identity *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
}

// ProfileRepository puerto de persistencia de perfiles.
type ProfileRepository interface {
	// CreateIfAbsent inserta el perfil si no existe; created=false si ya existía.
	CreateIfAbsent(ctx context.Context, profile *entity.Profile) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	List(ctx context.Context) ([]*entity.Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
}

// UserRoleRepository puerto de persistencia de roles (una fila por usuario).
type UserRoleRepository interface {
	CreateIfAbsent(ctx context.Context, role *entity.UserRole) (created bool, err error)
	GetByUserID(ctx context.Context, userID string) (*entity.UserRole, error)
	// Upsert fija el rol único del usuario (last-write-wins).
	Upsert(ctx context.Context, role *entity.UserRole) error
	List(ctx context.Context) ([]*entity.UserRole, error)
}

// NotificationSettingsRepository puerto de persistencia de preferencias de aviso.
type NotificationSettingsRepository interface {
	CreateIfAbsent(ctx context.Context, settings *entity.NotificationSettings) (created bool, err error)
	GetByUserID(ctx context.Context, userID string) (*entity.NotificationSettings, error)
	Update(ctx context.Context, settings *entity.NotificationSettings) error
}
