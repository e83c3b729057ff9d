package ports

// Observer recibe los eventos que la capa de aplicación cuenta en métricas.
type Observer interface {
	AuthzDecision(table, operation string, allowed bool)
	RoleCacheLookup(result string)
	AuditEntry(table, action string)
}

// NopObserver descarta los eventos.
type NopObserver struct{}

func (NopObserver) AuthzDecision(string, string, bool) {}
func (NopObserver) RoleCacheLookup(string)             {}
func (NopObserver) AuditEntry(string, string)          {}
