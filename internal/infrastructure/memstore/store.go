// Package memstore implementa todos los puertos de persistencia en memoria,
// con transacciones por copia de estado. Se usa en tests y en APP_ENV=development
// sin base de datos (DB_DRIVER=memory).
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

var _ ports.Store = (*Store)(nil)

type state struct {
	identities  map[string]entity.Identity
	profiles    map[string]entity.Profile
	roles       map[string]entity.UserRole // clave: user_id
	settings    map[string]entity.NotificationSettings
	suppliers   map[string]entity.Supplier
	contracts   map[string]entity.Contract
	obligations map[string]entity.Obligation
	payments    map[string]entity.Payment
	documents   map[string]entity.Document
	audit       []entity.AuditLogEntry
	objects     map[string]entity.StoredObject // clave: bucket/key
}

func newState() *state {
	return &state{
		identities:  map[string]entity.Identity{},
		profiles:    map[string]entity.Profile{},
		roles:       map[string]entity.UserRole{},
		settings:    map[string]entity.NotificationSettings{},
		suppliers:   map[string]entity.Supplier{},
		contracts:   map[string]entity.Contract{},
		obligations: map[string]entity.Obligation{},
		payments:    map[string]entity.Payment{},
		documents:   map[string]entity.Document{},
		objects:     map[string]entity.StoredObject{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		identities:  cloneMap(s.identities),
		profiles:    cloneMap(s.profiles),
		roles:       cloneMap(s.roles),
		settings:    cloneMap(s.settings),
		suppliers:   cloneMap(s.suppliers),
		contracts:   cloneMap(s.contracts),
		obligations: cloneMap(s.obligations),
		payments:    cloneMap(s.payments),
		documents:   cloneMap(s.documents),
		audit:       append([]entity.AuditLogEntry(nil), s.audit...),
		objects:     cloneMap(s.objects),
	}
}

// db estado protegido por su propio lock. Las transacciones trabajan sobre un db privado.
type db struct {
	mu sync.RWMutex
	st *state
}

func (d *db) read(fn func(st *state)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.st)
}

func (d *db) write(fn func(st *state) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.st)
}

// Store backend en memoria.
type Store struct {
	live *db
	now  func() time.Time
}

// New crea un store vacío.
func New() *Store {
	return &Store{live: &db{st: newState()}, now: time.Now}
}

// Repos repos fuera de transacción.
func (s *Store) Repos() ports.Repos {
	return s.live.repos()
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
// Las transacciones se serializan; las escrituras fuera de transacción esperan.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.live.mu.Lock()
	defer s.live.mu.Unlock()

	tx := &db{st: s.live.st.clone()}
	if err := fn(tx.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.live.st = tx.st
	return nil
}

func (d *db) repos() ports.Repos {
	return ports.Repos{
		Identities:  &identityRepo{d},
		Profiles:    &profileRepo{d},
		Roles:       &roleRepo{d},
		Settings:    &settingsRepo{d},
		Suppliers:   &supplierRepo{d},
		Contracts:   &contractRepo{d},
		Obligations: &obligationRepo{d},
		Payments:    &paymentRepo{d},
		Documents:   &documentRepo{d},
		Audit:       &auditRepo{d},
		Storage:     &objectStorage{d},
	}
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
