// Package provisioning crea las filas dependientes de una identidad nueva:
// perfil, rol por defecto y preferencias de aviso.
package provisioning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// Result indica qué filas se crearon en esta ejecución.
type Result struct {
	ProfileCreated  bool
	RoleCreated     bool
	SettingsCreated bool
}

// Any informa si se creó al menos una fila.
func (r Result) Any() bool { return r.ProfileCreated || r.RoleCreated || r.SettingsCreated }

// Provisioner inserta las filas dependientes con semántica insert-if-absent.
// Las entradas de auditoría quedan sin actor (System).
type Provisioner struct {
	audit *usecase.AuditRecorder
	now   func() time.Time
}

// NewProvisioner construye el provisioner.
func NewProvisioner(audit *usecase.AuditRecorder) *Provisioner {
	return &Provisioner{audit: audit, now: time.Now}
}

// Provision ejecuta el alta sobre repos (normalmente los de una transacción en curso).
func (p *Provisioner) Provision(ctx context.Context, repos ports.Repos, identity *entity.Identity) (Result, error) {
	var res Result
	if identity == nil || identity.ID == "" {
		return res, fmt.Errorf("%w: identidad vacía", domain.ErrInvalidInput)
	}
	now := p.now().UTC()
	system := authz.Actor{}

	profile := &entity.Profile{
		ID:        identity.ID,
		FullName:  displayName(identity),
		Email:     strings.ToLower(identity.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := repos.Profiles.CreateIfAbsent(ctx, profile)
	if err != nil {
		return res, fmt.Errorf("provisionar perfil: %w", err)
	}
	if created {
		res.ProfileCreated = true
		snap := dto.ProfileResponse{ID: profile.ID, FullName: profile.FullName, Email: profile.Email, CreatedAt: now, UpdatedAt: now}
		if err := p.audit.Record(ctx, repos.Audit, system, entity.AuditInsert, entity.TableProfiles, profile.ID, nil, snap); err != nil {
			return res, err
		}
	}

	role := &entity.UserRole{ID: uuid.New().String(), UserID: identity.ID, Role: entity.DefaultRole, CreatedAt: now, UpdatedAt: now}
	created, err = repos.Roles.CreateIfAbsent(ctx, role)
	if err != nil {
		return res, fmt.Errorf("provisionar rol: %w", err)
	}
	if created {
		res.RoleCreated = true
		snap := dto.UserRoleResponse{ID: role.ID, UserID: role.UserID, Role: string(role.Role), CreatedAt: now, UpdatedAt: now}
		if err := p.audit.Record(ctx, repos.Audit, system, entity.AuditInsert, entity.TableUserRoles, role.ID, nil, snap); err != nil {
			return res, err
		}
	}

	settings := usecase.DefaultNotificationSettings(identity.ID, now)
	created, err = repos.Settings.CreateIfAbsent(ctx, settings)
	if err != nil {
		return res, fmt.Errorf("provisionar preferencias: %w", err)
	}
	if created {
		res.SettingsCreated = true
		snap := dto.NotificationSettingsResponse{
			ID:               settings.ID,
			UserID:           settings.UserID,
			EmailEnabled:     settings.EmailEnabled,
			DaysBeforeExpiry: settings.DaysBeforeExpiry,
			WeeklySummary:    settings.WeeklySummary,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := p.audit.Record(ctx, repos.Audit, system, entity.AuditInsert, entity.TableNotificationSettings, settings.ID, nil, snap); err != nil {
			return res, err
		}
	}
	return res, nil
}

func displayName(identity *entity.Identity) string {
	if name := strings.TrimSpace(identity.FullName); name != "" {
		return name
	}
	return strings.ToLower(identity.Email)
}

// ProvisionUseCase ejecuta el alta en su propia transacción.
type ProvisionUseCase struct {
	tx   ports.TxRunner
	prov *Provisioner
	log  zerolog.Logger
}

// NewProvisionUseCase construye el caso de uso.
func NewProvisionUseCase(tx ports.TxRunner, prov *Provisioner, log zerolog.Logger) *ProvisionUseCase {
	return &ProvisionUseCase{tx: tx, prov: prov, log: log}
}

// Provision es idempotente: una segunda ejecución no crea filas.
func (uc *ProvisionUseCase) Provision(ctx context.Context, identity *entity.Identity) (Result, error) {
	var res Result
	err := uc.tx.Run(ctx, func(r ports.Repos) error {
		var err error
		res, err = uc.prov.Provision(ctx, r, identity)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	if res.Any() {
		uc.log.Info().
			Str("user_id", identity.ID).
			Bool("profile", res.ProfileCreated).
			Bool("role", res.RoleCreated).
			Bool("settings", res.SettingsCreated).
			Msg("provisioning completado")
	}
	return res, nil
}
