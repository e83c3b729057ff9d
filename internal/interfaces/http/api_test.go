package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/application/access"
	"github.com/jhoicas/Contratos-api/internal/application/auth"
	"github.com/jhoicas/Contratos-api/internal/application/dto"
	"github.com/jhoicas/Contratos-api/internal/application/provisioning"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/memstore"
	apphttp "github.com/jhoicas/Contratos-api/internal/interfaces/http"
	"github.com/jhoicas/Contratos-api/pkg/config"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiEnv struct {
	app   *fiber.App
	store *memstore.Store
}

// session usuario registrado por la API.
type session struct {
	userID string
	token  string
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	store := memstore.New()
	log := zerolog.Nop()
	// Sin caché: los cambios de rol del test se ven en la petición siguiente.
	resolver := access.NewRoleResolver(store.Repos().Roles, 0, nil, log)
	guard := access.NewGuard(nil, nil, log)
	recorder := usecase.NewAuditRecorder(nil)
	prov := provisioning.NewProvisioner(recorder)
	storage := config.StorageConfig{Bucket: entity.DocumentsBucket, MaxUploadMB: 1, SignedURLTTL: time.Minute, SigningSecret: testJWTSecret}

	authUC := auth.NewAuthUseCase(store, prov, provisioning.NewProvisionUseCase(store, prov, log), resolver,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New(apphttp.AppConfig("contratos-test", storage.MaxUploadBytes()))
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		ProfileUC:     usecase.NewProfileUseCase(store, guard, recorder),
		SettingsUC:    usecase.NewSettingsUseCase(store, guard, recorder),
		UserRoleUC:    usecase.NewUserRoleUseCase(store, guard, resolver, recorder),
		SupplierUC:    usecase.NewSupplierUseCase(store, guard, recorder),
		ContractUC:    usecase.NewContractUseCase(store, guard, recorder),
		ObligationUC:  usecase.NewObligationUseCase(store, guard, recorder),
		DocumentUC:    usecase.NewDocumentUseCase(store, guard, recorder, storage),
		AuditUC:       usecase.NewAuditUseCase(store, guard, recorder, nil, 0),
		DashboardUC:   usecase.NewDashboardUseCase(store, guard),
		Resolver:      resolver,
		Guard:         guard,
		JWTSecret:     testJWTSecret,
		MaxUploadSize: storage.MaxUploadBytes(),
	})
	return &apiEnv{app: app, store: store}
}

// register da de alta un usuario por la API y le asigna el rol indicado.
func (e *apiEnv) register(t *testing.T, email string, role entity.Role) session {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: email, Password: "s3creta-larga"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.LoginResponse
	decode(t, resp, &out)
	require.Equal(t, "visualizador", out.User.Capabilities.Role, "todo alta empieza como visualizador")

	if role != entity.RoleVisualizador {
		require.NoError(t, e.store.Repos().Roles.Upsert(context.Background(), &entity.UserRole{UserID: out.User.Profile.ID, Role: role}))
	}
	return session{userID: out.User.Profile.ID, token: out.Token}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *apiEnv) upload(t *testing.T, token, contractID, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/"+contractID+"/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	decode(t, resp, &body)
	return body.Code
}

func newContractBody(number string) dto.CreateContractRequest {
	today := time.Now().UTC()
	return dto.CreateContractRequest{
		Number:    number,
		Title:     "Mantenimiento " + number,
		StartDate: today.Format(dto.DateLayout),
		EndDate:   today.AddDate(0, 0, 20).Format(dto.DateLayout),
		Status:    "ativo",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_SinToken_Retorna401(t *testing.T) {
	e := newAPI(t)
	resp := e.do(t, http.MethodGet, "/api/contracts", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_RegistroDuplicado_Retorna409(t *testing.T) {
	e := newAPI(t)
	e.register(t, "ana@empresa.com", entity.RoleVisualizador)

	resp := e.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "ana@empresa.com", Password: "otra-clave-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, resp))
}

func TestAPI_LoginYMe(t *testing.T) {
	e := newAPI(t)
	s := e.register(t, "ana@empresa.com", entity.RoleGestor)

	resp := e.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@empresa.com", Password: "mal"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/api/me", s.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.MeResponse
	decode(t, resp, &me)
	assert.Equal(t, s.userID, me.Profile.ID)
	assert.Equal(t, "gestor", me.Capabilities.Role, "el rol vigente se lee en cada petición")
	assert.True(t, me.Capabilities.CanEdit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_VisualizadorNoInserta_GestorSi(t *testing.T) {
	e := newAPI(t)
	viewer := e.register(t, "vera@empresa.com", entity.RoleVisualizador)
	gestor := e.register(t, "gabi@empresa.com", entity.RoleGestor)

	resp := e.do(t, http.MethodPost, "/api/suppliers", viewer.token, dto.CreateSupplierRequest{Name: "ACME"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	resp = e.do(t, http.MethodPost, "/api/suppliers", gestor.token, dto.CreateSupplierRequest{Name: "ACME"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.SupplierResponse
	decode(t, resp, &created)

	resp = e.do(t, http.MethodGet, "/api/suppliers", viewer.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ListResponse[dto.SupplierResponse]
	decode(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Items[0].ID)

	resp = e.do(t, http.MethodDelete, "/api/suppliers/"+created.ID, gestor.token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "delete es solo admin")
	resp.Body.Close()
}

func TestAPI_ValidacionRetorna422(t *testing.T) {
	e := newAPI(t)
	gestor := e.register(t, "gabi@empresa.com", entity.RoleGestor)

	body := newContractBody("CT-001")
	body.Title = ""
	body.EndDate = "20/01/2026"
	resp := e.do(t, http.MethodPost, "/api/contracts", gestor.token, body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Fields, "title")
	assert.Contains(t, out.Fields, "end_date")
}

func TestAPI_CambioDeRolPropio_Retorna409(t *testing.T) {
	e := newAPI(t)
	admin := e.register(t, "root@empresa.com", entity.RoleAdmin)
	other := e.register(t, "vera@empresa.com", entity.RoleVisualizador)

	resp := e.do(t, http.MethodPut, "/api/users/"+admin.userID+"/role", admin.token, dto.ChangeRoleRequest{Role: "visualizador"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SELF_ROLE_CHANGE", errorCode(t, resp))

	resp = e.do(t, http.MethodPut, "/api/users/"+admin.userID+"/role", other.token, dto.ChangeRoleRequest{Role: "admin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodPut, "/api/users/"+other.userID+"/role", admin.token, dto.ChangeRoleRequest{Role: "gestor"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/api/me/permissions", other.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var perms dto.PermissionsResponse
	decode(t, resp, &perms)
	assert.Equal(t, "gestor", perms.Role)
	assert.True(t, perms.Matrix["contracts"]["insert"])
	assert.False(t, perms.Matrix["contracts"]["delete"])
}

func TestAppConfig_Inmutable(t *testing.T) {
	cfg := apphttp.AppConfig("contratos-test", 1<<20)
	assert.True(t, cfg.Immutable)
	assert.Greater(t, cfg.BodyLimit, 1<<20, "margen para el multipart")
}

// El id de la ruta se guarda como clave del rol: peticiones posteriores
// no deben alterarlo.
func TestAPI_CambioDeRolSobreviveAPeticionesPosteriores(t *testing.T) {
	e := newAPI(t)
	admin := e.register(t, "root@empresa.com", entity.RoleAdmin)
	other := e.register(t, "vera@empresa.com", entity.RoleVisualizador)

	resp := e.do(t, http.MethodPut, "/api/users/"+other.userID+"/role", admin.token, dto.ChangeRoleRequest{Role: "gestor"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Rutas con parámetros de otra longitud y contenido.
	for _, path := range []string{
		"/api/profiles/" + admin.userID,
		"/api/suppliers/00000000-0000-0000-0000-00000000ffff",
		"/api/contracts?status=ativo",
	} {
		resp = e.do(t, http.MethodGet, path, admin.token, nil)
		resp.Body.Close()
	}

	for i := 0; i < 3; i++ {
		resp = e.do(t, http.MethodGet, "/api/me", other.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var me dto.MeResponse
		decode(t, resp, &me)
		assert.Equal(t, "gestor", me.Capabilities.Role)
	}

	resp = e.do(t, http.MethodPost, "/api/suppliers", other.token, dto.CreateSupplierRequest{Name: "ACME"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_AuditLogsSoloAdmin(t *testing.T) {
	e := newAPI(t)
	admin := e.register(t, "root@empresa.com", entity.RoleAdmin)
	gestor := e.register(t, "gabi@empresa.com", entity.RoleGestor)

	resp := e.do(t, http.MethodGet, "/api/audit-logs", gestor.token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/api/audit-logs?table=user_roles", admin.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ListResponse[dto.AuditLogResponse]
	decode(t, resp, &list)
	require.Equal(t, 2, list.Total, "una fila de rol por alta")
	for _, entry := range list.Items {
		assert.Equal(t, "System", entry.UserName, "el provisioning no tiene actor")
	}

	resp = e.do(t, http.MethodGet, "/api/audit-logs?action=TRUNCATE", admin.token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_DocumentosYURLFirmada(t *testing.T) {
	e := newAPI(t)
	gestor := e.register(t, "gabi@empresa.com", entity.RoleGestor)
	viewer := e.register(t, "vera@empresa.com", entity.RoleVisualizador)

	resp := e.do(t, http.MethodPost, "/api/contracts", gestor.token, newContractBody("CT-001"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var contract dto.ContractResponse
	decode(t, resp, &contract)

	resp = e.upload(t, gestor.token, contract.ID, "notas.txt", []byte("texto plano"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	resp.Body.Close()

	resp = e.upload(t, viewer.token, contract.ID, "acta.pdf", samplePDF)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = e.upload(t, gestor.token, contract.ID, "acta.pdf", samplePDF)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var doc dto.DocumentResponse
	decode(t, resp, &doc)

	resp = e.do(t, http.MethodPost, "/api/documents/"+doc.ID+"/signed-url", viewer.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var signed dto.SignedURLResponse
	decode(t, resp, &signed)
	require.True(t, strings.HasPrefix(signed.URL, "/api/storage/signed/"))

	// La URL firmada no requiere sesión.
	resp = e.do(t, http.MethodGet, signed.URL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, samplePDF, got)

	resp = e.do(t, http.MethodGet, signed.URL+"alterado", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
