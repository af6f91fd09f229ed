package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	dbpkg "nobilis/db"
	"nobilis/realtime"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	r   *gin.Engine
	db  *gorm.DB
	svc *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, dbpkg.Migrate(database))

	svc := &Services{
		Broker: realtime.NewBroker(32),
		Auth: AuthSettings{
			JwtSecret:  "segredo-de-teste",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		},
	}

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database), SetServicesToContext(svc))
	return &testEnv{r: r, db: database, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type fakeLLM struct {
	configured   bool
	reply        string
	err          error
	calls        int
	instructions string
	input        string
}

func (f *fakeLLM) Configured() bool { return f.configured }

func (f *fakeLLM) Generate(_ context.Context, instructions string, input string) (string, error) {
	f.calls++
	f.instructions = instructions
	f.input = input
	return f.reply, f.err
}

func waitEvent(t *testing.T, ch <-chan realtime.Event) realtime.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("nenhum evento publicado")
		return realtime.Event{}
	}
}
