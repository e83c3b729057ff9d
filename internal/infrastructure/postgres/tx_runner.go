package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
)

var _ ports.Store = (*Store)(nil)

// Store backend PostgreSQL: repos sobre el pool y runner transaccional.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore construye el store con el pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NewRepos construye el conjunto completo de repos sobre q (pool o tx).
func NewRepos(q Querier) ports.Repos {
	return ports.Repos{
		Identities:  NewIdentityRepository(q),
		Profiles:    NewProfileRepository(q),
		Roles:       NewUserRoleRepository(q),
		Settings:    NewNotificationSettingsRepository(q),
		Suppliers:   NewSupplierRepository(q),
		Contracts:   NewContractRepository(q),
		Obligations: NewObligationRepository(q),
		Payments:    NewPaymentRepository(q),
		Documents:   NewDocumentRepository(q),
		Audit:       NewAuditLogRepository(q),
		Storage:     NewObjectStorage(q),
	}
}

// Repos repos fuera de transacción.
func (s *Store) Repos() ports.Repos {
	return NewRepos(s.pool)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", classify("commit", err))
	}
	return nil
}
