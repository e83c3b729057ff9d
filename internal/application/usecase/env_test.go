package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/memstore"
	"github.com/jhoicas/Contratos-api/pkg/config"
)

const (
	adminID  = "00000000-0000-0000-0000-0000000000a1"
	gestorID = "00000000-0000-0000-0000-0000000000b2"
	viewerID = "00000000-0000-0000-0000-0000000000c3"
)

var (
	admin  = authz.Actor{UserID: adminID, Email: "admin@example.com", Role: entity.RoleAdmin, IPAddress: "10.0.0.1"}
	gestor = authz.Actor{UserID: gestorID, Email: "gestor@example.com", Role: entity.RoleGestor}
	viewer = authz.Actor{UserID: viewerID, Email: "viewer@example.com", Role: entity.RoleVisualizador}
)

// samplePDF contenido mínimo que se detecta como application/pdf.
var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// env casos de uso sobre un store en memoria con tres usuarios (admin, gestor, visualizador).
type env struct {
	store       *memstore.Store
	guard       *access.Guard
	resolver    *access.RoleResolver
	recorder    *usecase.AuditRecorder
	suppliers   *usecase.SupplierUseCase
	contracts   *usecase.ContractUseCase
	obligations *usecase.ObligationUseCase
	documents   *usecase.DocumentUseCase
	profiles    *usecase.ProfileUseCase
	settings    *usecase.SettingsUseCase
	users       *usecase.UserRoleUseCase
	audit       *usecase.AuditUseCase
	dashboard   *usecase.DashboardUseCase
	renderer    *fakeRenderer
}

type fakeRenderer struct {
	last ports.AuditReport
}

func (f *fakeRenderer) RenderAuditReport(_ context.Context, report ports.AuditReport) ([]byte, error) {
	f.last = report
	return []byte("%PDF-fake"), nil
}

// spyStore cuenta los accesos al backend.
type spyStore struct {
	inner ports.Store
	repos int
	runs  int
}

func (s *spyStore) Repos() ports.Repos {
	s.repos++
	return s.inner.Repos()
}

func (s *spyStore) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	s.runs++
	return s.inner.Run(ctx, fn)
}

func (s *spyStore) calls() int { return s.repos + s.runs }

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memstore.New()
	guard := access.NewGuard(nil, nil, zerolog.Nop())
	resolver := access.NewRoleResolver(store.Repos().Roles, time.Minute, nil, zerolog.Nop())
	recorder := usecase.NewAuditRecorder(nil)
	renderer := &fakeRenderer{}
	storage := config.StorageConfig{
		Bucket:        entity.DocumentsBucket,
		MaxUploadMB:   1,
		SignedURLTTL:  time.Minute,
		SigningSecret: "secreto-de-pruebas",
	}

	e := &env{
		store:       store,
		guard:       guard,
		resolver:    resolver,
		recorder:    recorder,
		suppliers:   usecase.NewSupplierUseCase(store, guard, recorder),
		contracts:   usecase.NewContractUseCase(store, guard, recorder),
		obligations: usecase.NewObligationUseCase(store, guard, recorder),
		documents:   usecase.NewDocumentUseCase(store, guard, recorder, storage),
		profiles:    usecase.NewProfileUseCase(store, guard, recorder),
		settings:    usecase.NewSettingsUseCase(store, guard, recorder),
		users:       usecase.NewUserRoleUseCase(store, guard, resolver, recorder),
		audit:       usecase.NewAuditUseCase(store, guard, recorder, renderer, 0),
		dashboard:   usecase.NewDashboardUseCase(store, guard),
		renderer:    renderer,
	}
	e.seedUser(t, adminID, "Ana Admin", entity.RoleAdmin)
	e.seedUser(t, gestorID, "Gabriel Gestor", entity.RoleGestor)
	e.seedUser(t, viewerID, "", entity.RoleVisualizador)
	return e
}

func (e *env) seedUser(t *testing.T, id, name string, role entity.Role) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	repos := e.store.Repos()
	_, err := repos.Profiles.CreateIfAbsent(ctx, &entity.Profile{ID: id, FullName: name, Email: id + "@example.com", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	_, err = repos.Roles.CreateIfAbsent(ctx, &entity.UserRole{UserID: id, Role: role, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
}

// auditFor entradas del log de una tabla y acción.
func (e *env) auditFor(t *testing.T, table entity.Table, action entity.AuditAction) []*entity.AuditLogEntry {
	t.Helper()
	list, err := e.store.Repos().Audit.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	var out []*entity.AuditLogEntry
	for _, entry := range list {
		if entry.TableName == string(table) && entry.Action == action {
			out = append(out, entry)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
