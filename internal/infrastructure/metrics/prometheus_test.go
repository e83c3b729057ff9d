package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contratos-api/internal/infrastructure/metrics"
)

func TestAuthzDecision_CuentaPorResultado(t *testing.T) {
	m := metrics.New()
	m.AuthzDecision("contracts", "insert", false)
	m.AuthzDecision("contracts", "insert", false)
	m.AuthzDecision("contracts", "select", true)

	expected := `
# HELP contratos_authz_decisions_total Decisiones de autorización por tabla, operación y resultado
# TYPE contratos_authz_decisions_total counter
contratos_authz_decisions_total{operation="insert",result="deny",table="contracts"} 2
contratos_authz_decisions_total{operation="select",result="allow",table="contracts"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "contratos_authz_decisions_total"))
}

func TestInstanciasIndependientes(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.RoleCacheLookup("hit")

	n, err := testutil.GatherAndCount(b.Registry(), "contratos_role_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := metrics.New()
	m.RequestStarted()
	m.RequestCompleted("/api/contracts", "GET", "200", 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `contratos_http_requests_total{method="GET",path="/api/contracts",status="200"} 1`)
}
