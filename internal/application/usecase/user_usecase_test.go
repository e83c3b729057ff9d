package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
)

// ─── Roles ───────────────────────────────────────────────────────────────────

func TestChangeRole_AdminNoCambiaSuPropioRol(t *testing.T) {
	e := newEnv(t)
	spy := &spyStore{inner: e.store}
	users := usecase.NewUserRoleUseCase(spy, e.guard, e.resolver, e.recorder)

	_, err := users.ChangeRole(context.Background(), admin, adminID, string(entity.RoleVisualizador))
	assert.ErrorIs(t, err, domain.ErrSelfRoleChange)
	assert.Zero(t, spy.calls(), "se rechaza antes de tocar el backend")

	// También con un rol inválido: el propio usuario se comprueba primero.
	_, err = users.ChangeRole(context.Background(), admin, adminID, "superusuario")
	assert.ErrorIs(t, err, domain.ErrSelfRoleChange)
	assert.Zero(t, spy.calls())

	assert.Empty(t, e.auditFor(t, entity.TableUserRoles, entity.AuditUpdate))
	role, err := e.resolver.Resolve(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
}

// Con otro destino el mismo caso de uso sí llega al backend.
func TestChangeRole_OtroUsuarioUsaElBackend(t *testing.T) {
	e := newEnv(t)
	spy := &spyStore{inner: e.store}
	users := usecase.NewUserRoleUseCase(spy, e.guard, e.resolver, e.recorder)

	_, err := users.ChangeRole(context.Background(), admin, viewerID, string(entity.RoleGestor))
	require.NoError(t, err)
	assert.Equal(t, 1, spy.runs)
}

func TestChangeRole_SoloAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.users.ChangeRole(ctx, gestor, viewerID, string(entity.RoleAdmin))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	role, err := e.resolver.Resolve(ctx, viewerID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVisualizador, role)
}

func TestChangeRole_InvalidaCacheYAudita(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Calienta la caché con el rol anterior.
	role, err := e.resolver.Resolve(ctx, viewerID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleVisualizador, role)

	out, err := e.users.ChangeRole(ctx, admin, viewerID, string(entity.RoleGestor))
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleGestor), out.Role)

	role, err = e.resolver.Resolve(ctx, viewerID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGestor, role, "la sesión siguiente ve el rol nuevo")

	entries := e.auditFor(t, entity.TableUserRoles, entity.AuditUpdate)
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0].OldData)
	assert.NotNil(t, entries[0].NewData)
}

func TestChangeRole_Errores(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.users.ChangeRole(ctx, admin, viewerID, "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.users.ChangeRole(ctx, admin, "00000000-0000-0000-0000-000000000404", string(entity.RoleGestor))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = e.users.ChangeRole(ctx, authz.Actor{}, viewerID, string(entity.RoleGestor))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListUsers_RolPorDefectoSinFila(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.store.Repos().Profiles.CreateIfAbsent(ctx, &entity.Profile{ID: "sin-rol", Email: "nuevo@example.com"})
	require.NoError(t, err)

	list, err := e.users.ListUsers(ctx, viewer)
	require.NoError(t, err)
	roles := map[string]string{}
	for _, u := range list {
		roles[u.ID] = u.Role
	}
	assert.Equal(t, string(entity.RoleAdmin), roles[adminID])
	assert.Equal(t, string(entity.RoleVisualizador), roles["sin-rol"])
}

// ─── Perfiles ────────────────────────────────────────────────────────────────

func TestProfiles_MeYCapacidades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	me, err := e.profiles.Me(ctx, gestor)
	require.NoError(t, err)
	assert.Equal(t, "Gabriel Gestor", me.Profile.FullName)
	assert.Equal(t, string(entity.RoleGestor), me.Capabilities.Role)
	assert.True(t, me.Capabilities.CanEdit)
	assert.False(t, me.Capabilities.IsAdmin)

	perms, err := e.profiles.Permissions(viewer)
	require.NoError(t, err)
	assert.False(t, perms.CanEdit)
	assert.True(t, perms.Matrix["contracts"]["select"])
	assert.False(t, perms.Matrix["contracts"]["insert"])
	assert.False(t, perms.Matrix["audit_logs"]["select"])

	_, err = e.profiles.Permissions(authz.Actor{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProfiles_SoloElDuenoEdita(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.profiles.Update(ctx, admin, viewerID, dto.UpdateProfileRequest{FullName: strPtr("Hackeado")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := e.profiles.Update(ctx, viewer, viewerID, dto.UpdateProfileRequest{
		FullName:   strPtr("  Vera Visual "),
		Department: strPtr("Jurídico"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Vera Visual", out.FullName)
	assert.Equal(t, "Jurídico", out.Department)

	_, err = e.profiles.Update(ctx, viewer, viewerID, dto.UpdateProfileRequest{FullName: strPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, e.auditFor(t, entity.TableProfiles, entity.AuditUpdate), 1)
}

// ─── Preferencias ────────────────────────────────────────────────────────────

func TestSettings_CreaValoresPorDefecto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s, err := e.settings.Get(ctx, gestor)
	require.NoError(t, err)
	assert.True(t, s.EmailEnabled)
	assert.Equal(t, []int{7, 15, 30}, s.DaysBeforeExpiry)
	assert.True(t, s.WeeklySummary)
	assert.Len(t, e.auditFor(t, entity.TableNotificationSettings, entity.AuditInsert), 1)

	again, err := e.settings.Get(ctx, gestor)
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
	assert.Len(t, e.auditFor(t, entity.TableNotificationSettings, entity.AuditInsert), 1, "la segunda lectura no crea nada")
}

func TestSettings_UpdateNormalizaDias(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out, err := e.settings.Update(ctx, gestor, dto.UpdateNotificationSettingsRequest{
		DaysBeforeExpiry: []int{30, 7, 30, 1},
		WeeklySummary:    boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 7, 30}, out.DaysBeforeExpiry)
	assert.False(t, out.WeeklySummary)
	assert.True(t, out.EmailEnabled, "campos omitidos no cambian")

	_, err = e.settings.Update(ctx, gestor, dto.UpdateNotificationSettingsRequest{DaysBeforeExpiry: []int{0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.settings.Update(ctx, gestor, dto.UpdateNotificationSettingsRequest{DaysBeforeExpiry: []int{400}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
