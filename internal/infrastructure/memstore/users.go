package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

type identityRepo struct{ d *db }

func (r *identityRepo) Create(_ context.Context, identity *entity.Identity) error {
	return r.d.write(func(st *state) error {
		for _, existing := range st.identities {
			if strings.EqualFold(existing.Email, identity.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		if _, ok := st.identities[identity.ID]; ok {
			return domain.ErrDuplicate
		}
		st.identities[identity.ID] = *identity
		return nil
	})
}

func (r *identityRepo) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	var out *entity.Identity
	r.d.read(func(st *state) {
		if v, ok := st.identities[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *identityRepo) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	var out *entity.Identity
	r.d.read(func(st *state) {
		for _, v := range st.identities {
			if strings.EqualFold(v.Email, email) {
				v := v
				out = &v
				return
			}
		}
	})
	return out, nil
}

type profileRepo struct{ d *db }

func (r *profileRepo) CreateIfAbsent(_ context.Context, profile *entity.Profile) (bool, error) {
	created := false
	err := r.d.write(func(st *state) error {
		if _, ok := st.profiles[profile.ID]; ok {
			return nil
		}
		st.profiles[profile.ID] = *profile
		created = true
		return nil
	})
	return created, err
}

func (r *profileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	var out *entity.Profile
	r.d.read(func(st *state) {
		if v, ok := st.profiles[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *profileRepo) List(_ context.Context) ([]*entity.Profile, error) {
	var out []*entity.Profile
	r.d.read(func(st *state) {
		for _, v := range st.profiles {
			v := v
			out = append(out, &v)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *profileRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Profile, error) {
	var out []*entity.Profile
	r.d.read(func(st *state) {
		for _, id := range ids {
			if v, ok := st.profiles[id]; ok {
				out = append(out, &v)
			}
		}
	})
	return out, nil
}

func (r *profileRepo) Update(_ context.Context, profile *entity.Profile) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.profiles[profile.ID]; !ok {
			return domain.ErrNotFound
		}
		st.profiles[profile.ID] = *profile
		return nil
	})
}

type roleRepo struct{ d *db }

func (r *roleRepo) CreateIfAbsent(_ context.Context, role *entity.UserRole) (bool, error) {
	created := false
	err := r.d.write(func(st *state) error {
		if _, ok := st.roles[role.UserID]; ok {
			return nil
		}
		if role.ID == "" {
			role.ID = uuid.New().String()
		}
		st.roles[role.UserID] = *role
		created = true
		return nil
	})
	return created, err
}

func (r *roleRepo) GetByUserID(_ context.Context, userID string) (*entity.UserRole, error) {
	var out *entity.UserRole
	r.d.read(func(st *state) {
		if v, ok := st.roles[userID]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *roleRepo) Upsert(_ context.Context, role *entity.UserRole) error {
	return r.d.write(func(st *state) error {
		if existing, ok := st.roles[role.UserID]; ok {
			role.ID = existing.ID
			role.CreatedAt = existing.CreatedAt
		} else if role.ID == "" {
			role.ID = uuid.New().String()
		}
		st.roles[role.UserID] = *role
		return nil
	})
}

func (r *roleRepo) List(_ context.Context) ([]*entity.UserRole, error) {
	var out []*entity.UserRole
	r.d.read(func(st *state) {
		for _, v := range st.roles {
			v := v
			out = append(out, &v)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type settingsRepo struct{ d *db }

func (r *settingsRepo) CreateIfAbsent(_ context.Context, s *entity.NotificationSettings) (bool, error) {
	created := false
	err := r.d.write(func(st *state) error {
		if _, ok := st.settings[s.UserID]; ok {
			return nil
		}
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		v := *s
		v.DaysBeforeExpiry = append([]int(nil), s.DaysBeforeExpiry...)
		st.settings[s.UserID] = v
		created = true
		return nil
	})
	return created, err
}

func (r *settingsRepo) GetByUserID(_ context.Context, userID string) (*entity.NotificationSettings, error) {
	var out *entity.NotificationSettings
	r.d.read(func(st *state) {
		if v, ok := st.settings[userID]; ok {
			v.DaysBeforeExpiry = append([]int(nil), v.DaysBeforeExpiry...)
			out = &v
		}
	})
	return out, nil
}

func (r *settingsRepo) Update(_ context.Context, s *entity.NotificationSettings) error {
	return r.d.write(func(st *state) error {
		if _, ok := st.settings[s.UserID]; !ok {
			return domain.ErrNotFound
		}
		v := *s
		v.DaysBeforeExpiry = append([]int(nil), s.DaysBeforeExpiry...)
		st.settings[s.UserID] = v
		return nil
	})
}
