package access

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// Guard punto de aplicación de la matriz. Los casos de uso lo consultan antes
// de tocar un repositorio; cada decisión se cuenta y las denegaciones se registran.
type Guard struct {
	policy *authz.Policy
	obs    ports.Observer
	log    zerolog.Logger
}

// NewGuard construye el guard. policy nil usa authz.DefaultPolicy().
func NewGuard(policy *authz.Policy, obs ports.Observer, log zerolog.Logger) *Guard {
	if policy == nil {
		policy = authz.DefaultPolicy()
	}
	if obs == nil {
		obs = ports.NopObserver{}
	}
	return &Guard{policy: policy, obs: obs, log: log}
}

// Check autoriza la operación; ownerID solo importa en reglas de dueño.
func (g *Guard) Check(actor authz.Actor, table entity.Table, op authz.Operation, ownerID string) error {
	err := g.policy.Authorize(actor, table, op, ownerID)
	g.obs.AuthzDecision(string(table), string(op), err == nil)
	if err != nil {
		g.log.Warn().
			Str("user_id", actor.UserID).
			Str("role", string(actor.Role)).
			Str("table", string(table)).
			Str("operation", string(op)).
			Msg("acceso denegado")
	}
	return err
}

// Allows predicado puro por rol (espejo de capacidades, sin efectos).
func (g *Guard) Allows(role entity.Role, table entity.Table, op authz.Operation) bool {
	return g.policy.Allows(role, table, op)
}

// Matrix matriz evaluada para un rol.
func (g *Guard) Matrix(role entity.Role) map[entity.Table]map[authz.Operation]bool {
	return g.policy.Matrix(role)
}
