package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/auth"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/provisioning"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/memstore"
	pkgjwt "github.com/jhoicas/Contratos-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth() (*memstore.Store, *auth.AuthUseCase) {
	store := memstore.New()
	recorder := usecase.NewAuditRecorder(nil)
	prov := provisioning.NewProvisioner(recorder)
	resolver := access.NewRoleResolver(store.Repos().Roles, time.Minute, nil, zerolog.Nop())
	uc := auth.NewAuthUseCase(
		store,
		prov,
		provisioning.NewProvisionUseCase(store, prov, zerolog.Nop()),
		resolver,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "contratos-test"},
	)
	return store, uc
}

func TestRegister_ProvisionaYDevuelveSesion(t *testing.T) {
	ctx := context.Background()
	store, uc := newAuth()

	out, err := uc.Register(ctx, dto.RegisterRequest{Email: " Ana@Empresa.com ", Password: "s3creta-larga", FullName: "Ana Souza"}, "10.0.0.7")
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@empresa.com", out.User.Profile.Email)
	assert.Equal(t, "Ana Souza", out.User.Profile.FullName)
	assert.Equal(t, string(entity.RoleVisualizador), out.User.Capabilities.Role)
	assert.False(t, out.User.Capabilities.CanEdit)
	assert.True(t, out.ExpiresAt.After(time.Now()))

	userID, email, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.Profile.ID, userID)
	assert.Equal(t, "ana@empresa.com", email)

	identity, err := store.Repos().Identities.GetByEmail(ctx, "ana@empresa.com")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.NotEqual(t, "s3creta-larga", identity.PasswordHash, "nunca en claro")

	settings, err := store.Repos().Settings.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, settings)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	_, uc := newAuth()

	_, err := uc.Register(ctx, dto.RegisterRequest{Email: "ana@empresa.com", Password: "s3creta-larga"}, "")
	require.NoError(t, err)
	_, err = uc.Register(ctx, dto.RegisterRequest{Email: "ANA@empresa.com", Password: "otra-clave-1"}, "")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_PasswordCorta(t *testing.T) {
	_, uc := newAuth()

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ana@empresa.com", Password: "corta"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store, uc := newAuth()
	reg, err := uc.Register(ctx, dto.RegisterRequest{Email: "ana@empresa.com", Password: "s3creta-larga"}, "")
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@empresa.com", Password: "s3creta-larga"}, "")
	require.NoError(t, err)
	assert.Equal(t, reg.User.Profile.ID, out.User.Profile.ID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@empresa.com", Password: "incorrecta"}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@empresa.com", Password: "s3creta-larga"}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "mismo error para email desconocido")

	entries, err := store.Repos().Audit.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "el login no vuelve a provisionar filas existentes")
}
