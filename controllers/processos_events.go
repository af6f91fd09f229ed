package controllers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"nobilis/realtime"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var sseKeepAlive = 25 * time.Second

// GET /api/processos/events
// Query params: table (opcional) filtra por tabela; processo_id (opcional) filtra por processo.
func StreamProcessoEvents(c *gin.Context) {
	broker := servicesOf(c).Broker
	if broker == nil {
		RespondError(c, "realtime indisponível", http.StatusServiceUnavailable)
		return
	}

	table := strings.TrimSpace(c.Query("table"))
	processoID := int64(queryInt(c, "processo_id", 0))

	events, cancel := broker.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	log.WithField("subscribers", broker.Subscribers()).Debug("realtime: assinante conectado")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			if !matchesEvent(ev, table, processoID) {
				return true
			}
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now()})
			return true
		}
	})
}

func matchesEvent(ev realtime.Event, table string, processoID int64) bool {
	if table != "" && ev.Table != table {
		return false
	}
	if processoID > 0 && ev.ProcessoID != processoID {
		return false
	}
	return true
}
