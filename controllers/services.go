package controllers

import (
	"time"

	"nobilis/realtime"
	"nobilis/tools"

	"github.com/gin-gonic/gin"
)

const servicesKey = "services"

// AuthSettings controla a emissão de tokens.
type AuthSettings struct {
	JwtSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Services agrupa as dependências dos handlers além do banco.
type Services struct {
	AI     tools.LLM
	Broker *realtime.Broker
	Stats  *StatsGuard
	Auth   AuthSettings
}

func SetServicesToContext(s *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(servicesKey, s)
		c.Next()
	}
}

func servicesOf(c *gin.Context) *Services {
	if v, ok := c.Get(servicesKey); ok {
		if s, ok := v.(*Services); ok && s != nil {
			return s
		}
	}
	return &Services{}
}

func authSettings(c *gin.Context) AuthSettings {
	a := servicesOf(c).Auth
	if a.JwtSecret == "" {
		a.JwtSecret = "CHANGE_ME"
	}
	if a.AccessTTL <= 0 {
		a.AccessTTL = 24 * time.Hour
	}
	if a.RefreshTTL <= 0 {
		a.RefreshTTL = 30 * 24 * time.Hour
	}
	return a
}

// publish avisa os assinantes e, para processos, descarta as estatísticas guardadas.
func publish(c *gin.Context, table string, action string, id int64, processoID int64) {
	svc := servicesOf(c)
	if table == "processos" {
		svc.Stats.Reset()
	}
	svc.Broker.Publish(realtime.Event{
		Table:      table,
		Action:     action,
		ID:         id,
		ProcessoID: processoID,
	})
}
