package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

var (
	_ repository.IdentityRepository             = (*IdentityRepo)(nil)
	_ repository.ProfileRepository              = (*ProfileRepo)(nil)
	_ repository.UserRoleRepository             = (*UserRoleRepo)(nil)
	_ repository.NotificationSettingsRepository = (*NotificationSettingsRepo)(nil)
)

// IdentityRepo implementación del puerto IdentityRepository sobre PostgreSQL.
type IdentityRepo struct {
	q Querier
}

// NewIdentityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIdentityRepository(q Querier) *IdentityRepo {
	return &IdentityRepo{q: q}
}

// Create persiste una nueva identidad; el email se guarda en minúsculas.
func (r *IdentityRepo) Create(ctx context.Context, identity *entity.Identity) error {
	query := `
		INSERT INTO identities (id, email, full_name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		identity.ID, strings.ToLower(identity.Email), identity.FullName, identity.PasswordHash, identity.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return classify("insert identity", err)
	}
	return nil
}

// GetByID obtiene una identidad por ID; (nil, nil) si no existe.
func (r *IdentityRepo) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail obtiene una identidad por email sin distinguir mayúsculas.
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return r.findOne(ctx, `WHERE email = $1`, strings.ToLower(email))
}

func (r *IdentityRepo) findOne(ctx context.Context, where string, arg any) (*entity.Identity, error) {
	query := `SELECT id, email, full_name, password_hash, created_at FROM identities ` + where
	var i entity.Identity
	err := r.q.QueryRow(ctx, query, arg).Scan(&i.ID, &i.Email, &i.FullName, &i.PasswordHash, &i.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get identity", err)
	}
	return &i, nil
}

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, full_name, email, department, phone, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*entity.Profile, error) {
	var p entity.Profile
	if err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Department, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateIfAbsent inserta el perfil; ON CONFLICT DO NOTHING lo hace idempotente.
func (r *ProfileRepo) CreateIfAbsent(ctx context.Context, p *entity.Profile) (bool, error) {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, p.ID, p.FullName, p.Email, p.Department, p.Phone, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return false, classify("insert profile", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene un perfil; (nil, nil) si no existe.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get profile", err)
	}
	return p, nil
}

// List lista todos los perfiles por nombre.
func (r *ProfileRepo) List(ctx context.Context) ([]*entity.Profile, error) {
	return r.list(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY full_name, id`)
}

// ListByIDs perfiles cuyo id está en ids (para etiquetar actores de auditoría).
func (r *ProfileRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1::uuid[])`, ids)
}

func (r *ProfileRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Profile, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list profiles", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, classify("list profiles", rows.Err())
}

// Update actualiza los campos editables por el dueño.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	query := `
		UPDATE profiles SET full_name = $2, department = $3, phone = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.FullName, p.Department, p.Phone, p.UpdatedAt)
	if err != nil {
		return classify("update profile", err)
	}
	return notFoundIfNone(tag)
}

// UserRoleRepo implementación del puerto UserRoleRepository sobre PostgreSQL.
type UserRoleRepo struct {
	q Querier
}

// NewUserRoleRepository construye el adaptador.
func NewUserRoleRepository(q Querier) *UserRoleRepo {
	return &UserRoleRepo{q: q}
}

// CreateIfAbsent inserta el rol si el usuario aún no tiene fila (UNIQUE user_id).
func (r *UserRoleRepo) CreateIfAbsent(ctx context.Context, ur *entity.UserRole) (bool, error) {
	if ur.ID == "" {
		ur.ID = uuid.New().String()
	}
	query := `
		INSERT INTO user_roles (id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3::app_role, $4, $5)
		ON CONFLICT (user_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, ur.ID, ur.UserID, string(ur.Role), ur.CreatedAt, ur.UpdatedAt)
	if err != nil {
		return false, classify("insert user role", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByUserID rol del usuario; (nil, nil) si no tiene fila.
func (r *UserRoleRepo) GetByUserID(ctx context.Context, userID string) (*entity.UserRole, error) {
	query := `SELECT id, user_id, role::text, created_at, updated_at FROM user_roles WHERE user_id = $1`
	ur, err := scanUserRole(r.q.QueryRow(ctx, query, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get user role", err)
	}
	return ur, nil
}

func scanUserRole(row interface{ Scan(...any) error }) (*entity.UserRole, error) {
	var ur entity.UserRole
	var role string
	if err := row.Scan(&ur.ID, &ur.UserID, &role, &ur.CreatedAt, &ur.UpdatedAt); err != nil {
		return nil, err
	}
	ur.Role = entity.Role(role)
	return &ur, nil
}

// Upsert fija el rol único del usuario; conserva id y created_at de la fila existente.
func (r *UserRoleRepo) Upsert(ctx context.Context, ur *entity.UserRole) error {
	if ur.ID == "" {
		ur.ID = uuid.New().String()
	}
	query := `
		INSERT INTO user_roles (id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3::app_role, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, ur.ID, ur.UserID, string(ur.Role), ur.CreatedAt, ur.UpdatedAt).
		Scan(&ur.ID, &ur.CreatedAt)
	if err != nil {
		return classify("upsert user role", err)
	}
	return nil
}

// List todas las filas de user_roles.
func (r *UserRoleRepo) List(ctx context.Context) ([]*entity.UserRole, error) {
	rows, err := r.q.Query(ctx, `SELECT id, user_id, role::text, created_at, updated_at FROM user_roles ORDER BY user_id`)
	if err != nil {
		return nil, classify("list user roles", err)
	}
	defer rows.Close()
	var list []*entity.UserRole
	for rows.Next() {
		ur, err := scanUserRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		list = append(list, ur)
	}
	return list, classify("list user roles", rows.Err())
}

// NotificationSettingsRepo implementación del puerto NotificationSettingsRepository.
type NotificationSettingsRepo struct {
	q Querier
}

// NewNotificationSettingsRepository construye el adaptador.
func NewNotificationSettingsRepository(q Querier) *NotificationSettingsRepo {
	return &NotificationSettingsRepo{q: q}
}

func toInt32s(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

// CreateIfAbsent inserta las preferencias por defecto si el usuario no tiene fila.
func (r *NotificationSettingsRepo) CreateIfAbsent(ctx context.Context, s *entity.NotificationSettings) (bool, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO notification_settings (id, user_id, email_enabled, days_before_expiry, weekly_summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.EmailEnabled, toInt32s(s.DaysBeforeExpiry), s.WeeklySummary, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return false, classify("insert notification settings", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByUserID preferencias del usuario; (nil, nil) si no existen.
func (r *NotificationSettingsRepo) GetByUserID(ctx context.Context, userID string) (*entity.NotificationSettings, error) {
	query := `
		SELECT id, user_id, email_enabled, days_before_expiry, weekly_summary, created_at, updated_at
		FROM notification_settings WHERE user_id = $1`
	var s entity.NotificationSettings
	var days []int32
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.EmailEnabled, &days, &s.WeeklySummary, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, classify("get notification settings", err)
	}
	s.DaysBeforeExpiry = make([]int, len(days))
	for i, d := range days {
		s.DaysBeforeExpiry[i] = int(d)
	}
	return &s, nil
}

// Update actualiza las preferencias del usuario.
func (r *NotificationSettingsRepo) Update(ctx context.Context, s *entity.NotificationSettings) error {
	query := `
		UPDATE notification_settings
		SET email_enabled = $2, days_before_expiry = $3, weekly_summary = $4, updated_at = $5
		WHERE user_id = $1`
	tag, err := r.q.Exec(ctx, query, s.UserID, s.EmailEnabled, toInt32s(s.DaysBeforeExpiry), s.WeeklySummary, s.UpdatedAt)
	if err != nil {
		return classify("update notification settings", err)
	}
	return notFoundIfNone(tag)
}
