package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nobilis/config"
	"nobilis/controllers"
	"nobilis/db"
	"nobilis/models"
	"nobilis/realtime"
	"nobilis/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.SeedAdmin(database, "admin@nobilis.local", "admin123"))

	hash, err := tools.HashPassword("senha123")
	require.NoError(t, err)
	require.NoError(t, database.Create(&models.User{Nome: "Ten. Comum", Email: "comum@nobilis.local", Password: hash}).Error)
	require.NoError(t, database.Create(&models.User{Nome: "Sd. Bloqueado", Email: "bloq@nobilis.local", Password: hash, Status: models.USER_STATUS_BLOQUEADO}).Error)

	var cfg config.Configuration
	cfg.RateLimit.RequestsPerSecond = 1
	cfg.RateLimit.Burst = 2

	services := &controllers.Services{
		AI:     tools.NewOpenAIClient(tools.OpenAIConfig{}),
		Broker: realtime.NewBroker(8),
		Stats:  controllers.NewStatsGuard(time.Second),
		Auth:   controllers.AuthSettings{JwtSecret: "router-test", AccessTTL: time.Hour, RefreshTTL: time.Hour},
	}

	r := gin.New()
	require.NotNil(t, Initialize(r, cfg, database, services))
	return r, database
}

func request(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	w := request(r, http.MethodPost, "/api/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Token
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)

	w := request(r, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "ok", out["database"])
	assert.NotEmpty(t, out["timestamp"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	request(r, http.MethodGet, "/api/health", "", "")

	w := request(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nobilis_http_requests_total")
}

func TestRotasProtegidas(t *testing.T) {
	r, _ := newTestServer(t)

	w := request(r, http.MethodGet, "/api/processos", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	comum := tokenFor(t, r, "comum@nobilis.local", "senha123")
	w = request(r, http.MethodGet, "/api/processos", "", comum)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodGet, "/api/users", "", comum)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := tokenFor(t, r, "admin@nobilis.local", "admin123")
	w = request(r, http.MethodGet, "/api/users", "", admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, http.MethodPost, "/api/login", `{"email":"bloq@nobilis.local","password":"senha123"}`, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUsuarioBloqueadoDepoisDoLogin(t *testing.T) {
	r, database := newTestServer(t)
	token := tokenFor(t, r, "comum@nobilis.local", "senha123")

	require.NoError(t, database.Model(&models.User{}).Where("email = ?", "comum@nobilis.local").
		Update("status", models.USER_STATUS_BLOQUEADO).Error)

	w := request(r, http.MethodGet, "/api/me", "", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOpenAI_ValidacaoAntesDaChave(t *testing.T) {
	r, _ := newTestServer(t)
	token := tokenFor(t, r, "comum@nobilis.local", "senha123")

	w := request(r, http.MethodPost, "/api/openai/interpretar-tipificacao", `{}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodPost, "/api/openai/gerar-relatorio", `{"dadosProcesso":{"id":1}}`, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = request(r, http.MethodPost, "/api/openai/gerar-relatorio", `{"dadosProcesso":{"id":1}}`, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestProcessoFluxoCompleto(t *testing.T) {
	r, _ := newTestServer(t)
	token := tokenFor(t, r, "comum@nobilis.local", "senha123")

	w := request(r, http.MethodPost, "/api/processos",
		`{"tipo_processo":"CD","prioridade":"urgente","status":"em_andamento","data_instauracao":"2024-04-02"}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(r, http.MethodGet, "/api/processos/stats", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"CD":1`)

	w = request(r, http.MethodGet, "/api/processos/numero?tipo_processo=CD", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "-002")
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/processos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
