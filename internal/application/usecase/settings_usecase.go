package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// SettingsUseCase preferencias de aviso del usuario autenticado.
type SettingsUseCase struct {
	store ports.Store
	guard *access.Guard
	audit *AuditRecorder
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(store ports.Store, guard *access.Guard, audit *AuditRecorder) *SettingsUseCase {
	return &SettingsUseCase{store: store, guard: guard, audit: audit}
}

// Get devuelve las preferencias del actor; si faltan se crean con valores por defecto.
func (uc *SettingsUseCase) Get(ctx context.Context, actor authz.Actor) (*dto.NotificationSettingsResponse, error) {
	if err := uc.guard.Check(actor, entity.TableNotificationSettings, authz.OpSelect, actor.UserID); err != nil {
		return nil, err
	}
	s, err := uc.store.Repos().Settings.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return entityToSettingsResponse(s), nil
	}
	if err := uc.guard.Check(actor, entity.TableNotificationSettings, authz.OpInsert, actor.UserID); err != nil {
		return nil, err
	}
	var out *dto.NotificationSettingsResponse
	err = uc.store.Run(ctx, func(r ports.Repos) error {
		defaults := DefaultNotificationSettings(actor.UserID, time.Now().UTC())
		created, err := r.Settings.CreateIfAbsent(ctx, defaults)
		if err != nil {
			return err
		}
		current, err := r.Settings.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if current == nil {
			current = defaults
		}
		out = entityToSettingsResponse(current)
		if !created {
			return nil
		}
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditInsert, entity.TableNotificationSettings, current.ID, nil, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifica las preferencias del actor.
func (uc *SettingsUseCase) Update(ctx context.Context, actor authz.Actor, in dto.UpdateNotificationSettingsRequest) (*dto.NotificationSettingsResponse, error) {
	if err := uc.guard.Check(actor, entity.TableNotificationSettings, authz.OpUpdate, actor.UserID); err != nil {
		return nil, err
	}
	days, err := normalizeDays(in.DaysBeforeExpiry)
	if err != nil {
		return nil, err
	}
	var out *dto.NotificationSettingsResponse
	err = uc.store.Run(ctx, func(r ports.Repos) error {
		now := time.Now().UTC()
		if _, err := r.Settings.CreateIfAbsent(ctx, DefaultNotificationSettings(actor.UserID, now)); err != nil {
			return err
		}
		s, err := r.Settings.GetByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if s == nil {
			return invalid("preferencias no disponibles")
		}
		before := entityToSettingsResponse(s)
		if in.EmailEnabled != nil {
			s.EmailEnabled = *in.EmailEnabled
		}
		if in.DaysBeforeExpiry != nil {
			s.DaysBeforeExpiry = days
		}
		if in.WeeklySummary != nil {
			s.WeeklySummary = *in.WeeklySummary
		}
		s.UpdatedAt = now
		if err := r.Settings.Update(ctx, s); err != nil {
			return err
		}
		out = entityToSettingsResponse(s)
		return uc.audit.Record(ctx, r.Audit, actor, entity.AuditUpdate, entity.TableNotificationSettings, s.ID, before, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultNotificationSettings preferencias iniciales de un usuario.
func DefaultNotificationSettings(userID string, now time.Time) *entity.NotificationSettings {
	return &entity.NotificationSettings{
		ID:               uuid.New().String(),
		UserID:           userID,
		EmailEnabled:     true,
		DaysBeforeExpiry: entity.DefaultDaysBeforeExpiry(),
		WeeklySummary:    true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// normalizeDays elimina duplicados y ordena; cada valor debe estar en 1..365.
func normalizeDays(days []int) ([]int, error) {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 1 || d > MaxExpiringDays {
			return nil, invalid("days_before_expiry debe estar entre 1 y 365")
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}

func entityToSettingsResponse(s *entity.NotificationSettings) *dto.NotificationSettingsResponse {
	days := s.DaysBeforeExpiry
	if days == nil {
		days = []int{}
	}
	return &dto.NotificationSettingsResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		EmailEnabled:     s.EmailEnabled,
		DaysBeforeExpiry: days,
		WeeklySummary:    s.WeeklySummary,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
