package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly-backend-go/internal/handler/http/response"
	"github.com/attendly/attendly-backend-go/internal/pkg/jwt"
)

const routerTestSecret = "test-secret-key-for-jwt"

type stubHandler struct{}

func (stubHandler) ok(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}

func (h stubHandler) PunchIn(w http.ResponseWriter, r *http.Request)       { h.ok(w, r) }
func (h stubHandler) PunchOut(w http.ResponseWriter, r *http.Request)      { h.ok(w, r) }
func (h stubHandler) AdminPunchOut(w http.ResponseWriter, r *http.Request) { h.ok(w, r) }
func (h stubHandler) RecordIdle(w http.ResponseWriter, r *http.Request)    { h.ok(w, r) }
func (h stubHandler) GetMyHistory(w http.ResponseWriter, r *http.Request)  { h.ok(w, r) }
func (h stubHandler) GetHistory(w http.ResponseWriter, r *http.Request)    { h.ok(w, r) }
func (h stubHandler) Upsert(w http.ResponseWriter, r *http.Request)        { h.ok(w, r) }
func (h stubHandler) GetByEmployee(w http.ResponseWriter, r *http.Request) { h.ok(w, r) }
func (h stubHandler) List(w http.ResponseWriter, r *http.Request)          { h.ok(w, r) }
func (h stubHandler) Delete(w http.ResponseWriter, r *http.Request)        { h.ok(w, r) }
func (h stubHandler) Submit(w http.ResponseWriter, r *http.Request)        { h.ok(w, r) }
func (h stubHandler) Approve(w http.ResponseWriter, r *http.Request)       { h.ok(w, r) }
func (h stubHandler) Reject(w http.ResponseWriter, r *http.Request)        { h.ok(w, r) }
func (h stubHandler) Cancel(w http.ResponseWriter, r *http.Request)        { h.ok(w, r) }
func (h stubHandler) GetMyBalance(w http.ResponseWriter, r *http.Request)  { h.ok(w, r) }
func (h stubHandler) Generate(w http.ResponseWriter, r *http.Request)      { h.ok(w, r) }
func (h stubHandler) GetSettings(w http.ResponseWriter, r *http.Request)   { h.ok(w, r) }
func (h stubHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	h.ok(w, r)
}

func newTestRouter() (http.Handler, jwt.Service) {
	jwtService := jwt.NewJWTService(routerTestSecret, "1h")
	h := stubHandler{}
	return NewRouter(jwtService, h, h, h, h), jwtService
}

func mintToken(t *testing.T, jwtService jwt.Service, role string) string {
	t.Helper()
	employeeID := "emp-1"
	token, _, err := jwtService.GenerateAccessToken("user-1", &employeeID, "company-1", role)
	require.NoError(t, err)
	return token
}

func doRequest(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RequiresToken(t *testing.T) {
	router, _ := newTestRouter()

	rec := doRequest(router, http.MethodGet, "/api/v1/attendance/my/history", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RejectsForgedToken(t *testing.T) {
	router, _ := newTestRouter()
	forged := mintTokenWithSecret(t, "some-other-secret")

	rec := doRequest(router, http.MethodGet, "/api/v1/attendance/my/history", forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func mintTokenWithSecret(t *testing.T, secret string) string {
	t.Helper()
	other := jwt.NewJWTService(secret, "1h")
	employeeID := "emp-1"
	token, _, err := other.GenerateAccessToken("user-1", &employeeID, "company-1", "employee")
	require.NoError(t, err)
	return token
}

func TestRouter_EmployeeCanReachOwnRoutes(t *testing.T) {
	router, jwtService := newTestRouter()
	token := mintToken(t, jwtService, "employee")

	rec := doRequest(router, http.MethodGet, "/api/v1/attendance/my/history", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/leaves/my/balance", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_EmployeeCannotReachAdminRoutes(t *testing.T) {
	router, jwtService := newTestRouter()
	token := mintToken(t, jwtService, "employee")

	for _, path := range []string{
		"/api/v1/payroll/settings",
		"/api/v1/attendance/history",
		"/api/v1/shifts",
		"/api/v1/leaves",
	} {
		rec := doRequest(router, http.MethodGet, path, token)
		assert.Equal(t, http.StatusForbidden, rec.Code, "path %s", path)
	}
}

func TestRouter_AdminCanReachAdminRoutes(t *testing.T) {
	router, jwtService := newTestRouter()
	token := mintToken(t, jwtService, "admin")

	rec := doRequest(router, http.MethodGet, "/api/v1/payroll/settings", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/attendance/history", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
