package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nobilis/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestStreamProcessoEvents(t *testing.T) {
	env := newTestEnv(t)
	env.r.GET("/api/processos/events", StreamProcessoEvents)
	broker := env.svc.Broker

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/processos/events?table=processos", nil).WithContext(ctx)
	w := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}

	go func() {
		for broker.Subscribers() == 0 {
			time.Sleep(time.Millisecond)
		}
		broker.Publish(realtime.Event{Table: "vitimas", Action: realtime.ActionInsert, ID: 5, ProcessoID: 1})
		broker.Publish(realtime.Event{Table: "processos", Action: realtime.ActionUpdate, ID: 1, ProcessoID: 1})
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		env.r.ServeHTTP(w, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream não terminou após cancelar o contexto")
	}

	body := w.Body.String()
	assert.Contains(t, body, "event:change")
	assert.Contains(t, body, `"table":"processos"`)
	assert.NotContains(t, body, `"table":"vitimas"`)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Zero(t, broker.Subscribers())
}

func TestStreamProcessoEvents_SemBroker(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Broker = nil
	env.r.GET("/api/processos/events", StreamProcessoEvents)

	w := env.do(t, http.MethodGet, "/api/processos/events", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMatchesEvent(t *testing.T) {
	ev := realtime.Event{Table: "diligencias", ProcessoID: 3}
	assert.True(t, matchesEvent(ev, "", 0))
	assert.True(t, matchesEvent(ev, "diligencias", 3))
	assert.False(t, matchesEvent(ev, "processos", 0))
	assert.False(t, matchesEvent(ev, "", 4))
}
