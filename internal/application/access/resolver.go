// Package access resuelve el rol de la sesión en servidor y hace cumplir la
// matriz de permisos antes de cualquier acceso a datos.
package access

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/domain/repository"
)

// Resultados de consulta a la caché.
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// RoleResolver obtiene el rol de un usuario desde user_roles con caché en proceso.
// Sin fila => visualizador. Con error de lectura => RoleUnknown y el error (fail closed).
type RoleResolver struct {
	roles repository.UserRoleRepository
	cache *cache.Cache // nil = sin caché
	obs   ports.Observer
	log   zerolog.Logger

	// gens cuenta las invalidaciones por usuario. Una lectura iniciada antes
	// de un Invalidate no puede volver a poblar la caché.
	mu   sync.Mutex
	gens map[string]uint64
}

// NewRoleResolver construye el resolver. ttl <= 0 desactiva la caché.
func NewRoleResolver(roles repository.UserRoleRepository, ttl time.Duration, obs ports.Observer, log zerolog.Logger) *RoleResolver {
	if obs == nil {
		obs = ports.NopObserver{}
	}
	r := &RoleResolver{roles: roles, obs: obs, log: log, gens: make(map[string]uint64)}
	if ttl > 0 {
		r.cache = cache.New(ttl, 2*ttl)
	}
	return r
}

// Resolve devuelve el rol vigente del usuario.
func (r *RoleResolver) Resolve(ctx context.Context, userID string) (entity.Role, error) {
	if userID == "" {
		return entity.RoleUnknown, domain.ErrUnauthorized
	}
	if r.cache != nil {
		if v, ok := r.cache.Get(userID); ok {
			r.obs.RoleCacheLookup(cacheHit)
			return v.(entity.Role), nil
		}
	}

	gen := r.generation(userID)
	ur, err := r.roles.GetByUserID(ctx, userID)
	if err != nil {
		r.obs.RoleCacheLookup(cacheError)
		r.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo resolver el rol; se deniegan capacidades")
		return entity.RoleUnknown, fmt.Errorf("resolver rol: %w", err)
	}
	r.obs.RoleCacheLookup(cacheMiss)

	role := entity.DefaultRole
	if ur != nil {
		if !ur.Role.Valid() {
			r.log.Error().Str("user_id", userID).Str("role", string(ur.Role)).Msg("rol almacenado inválido")
			return entity.RoleUnknown, fmt.Errorf("resolver rol: %w: rol %q", domain.ErrInvalidInput, ur.Role)
		}
		role = ur.Role
	}
	r.store(userID, role, gen)
	return role, nil
}

// Invalidate descarta el rol cacheado; la próxima resolución vuelve a leer user_roles.
// Las lecturas en curso para ese usuario ya no se guardan en la caché.
func (r *RoleResolver) Invalidate(userID string) {
	if r.cache == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[userID]++
	r.cache.Delete(userID)
}

func (r *RoleResolver) generation(userID string) uint64 {
	if r.cache == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gens[userID]
}

// store cachea el rol solo si no hubo Invalidate desde que empezó la lectura.
func (r *RoleResolver) store(userID string, role entity.Role, gen uint64) {
	if r.cache == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gens[userID] != gen {
		return
	}
	r.cache.SetDefault(userID, role)
}

// Actor construye la sesión de la petición. Si la resolución falla devuelve el
// actor con RoleUnknown junto con el error: el llamador decide si continuar
// con capacidades mínimas o abortar.
func (r *RoleResolver) Actor(ctx context.Context, userID, email, ip string) (authz.Actor, error) {
	role, err := r.Resolve(ctx, userID)
	return authz.Actor{UserID: userID, Email: email, Role: role, IPAddress: ip}, err
}
