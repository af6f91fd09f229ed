package router

import (
	"nobilis/config"
	"nobilis/controllers"
	dbpkg "nobilis/db"
	"nobilis/metrics"
	"nobilis/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

// Initialize wires all routes and middlewares.
// Public routes + authenticated routes (token + active user) + admin routes.
// Returns the LLM rate limiter so the caller can run its cleanup loop.
func Initialize(r *gin.Engine, cfg config.Configuration, database *gorm.DB, services *controllers.Services) *middleware.RateLimiter {
	controllers.RegisterValidators()

	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CorsOrigins))
	r.Use(middleware.Metrics())
	r.Use(dbpkg.SetDBtoContext(database))
	r.Use(controllers.SetServicesToContext(services))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	// Public (no auth)
	api.GET("/health", controllers.Health)
	api.POST("/login", Logger(), controllers.Login)
	api.POST("/refresh", Logger(), controllers.Refresh)

	// Authenticated routes (token + active user)
	validated := api.Group("")
	validated.Use(controllers.AuthRequired(), Authorizer())

	validated.GET("/me", Logger(), controllers.Me)
	validated.PUT("/me", Logger(), controllers.UpdateCurrentUser)

	// Processos
	validated.GET("/processos", Logger(), controllers.GetProcessos)
	validated.POST("/processos", Logger(), controllers.CreateProcesso)
	validated.GET("/processos/stats", Logger(), controllers.GetProcessosStats)
	validated.GET("/processos/numero", Logger(), controllers.GetProximoNumeroProcesso)
	validated.GET("/processos/events", controllers.StreamProcessoEvents)
	validated.GET("/processos/:id", Logger(), controllers.GetProcessoByID)
	validated.PUT("/processos/:id", Logger(), controllers.UpdateProcesso)
	validated.DELETE("/processos/:id", Logger(), controllers.DeleteProcesso)

	// Investigados
	validated.GET("/processos/:id/investigados", Logger(), controllers.GetInvestigados)
	validated.POST("/processos/:id/investigados", Logger(), controllers.CreateInvestigado)
	validated.PUT("/investigados/:id", Logger(), controllers.UpdateInvestigado)
	validated.DELETE("/investigados/:id", Logger(), controllers.DeleteInvestigado)

	// Vítimas
	validated.GET("/processos/:id/vitimas", Logger(), controllers.GetVitimas)
	validated.POST("/processos/:id/vitimas", Logger(), controllers.CreateVitima)
	validated.PUT("/vitimas/:id", Logger(), controllers.UpdateVitima)
	validated.DELETE("/vitimas/:id", Logger(), controllers.DeleteVitima)

	// Diligências
	validated.GET("/processos/:id/diligencias", Logger(), controllers.GetDiligencias)
	validated.POST("/processos/:id/diligencias", Logger(), controllers.CreateDiligencia)
	validated.PUT("/diligencias/:id", Logger(), controllers.UpdateDiligencia)
	validated.PATCH("/diligencias/:id/toggle", Logger(), controllers.ToggleDiligencia)
	validated.DELETE("/diligencias/:id", Logger(), controllers.DeleteDiligencia)

	// Pareceres
	validated.GET("/pareceres", Logger(), controllers.GetPareceres)
	validated.POST("/pareceres", Logger(), controllers.CreateParecer)
	validated.GET("/pareceres/:id", Logger(), controllers.GetParecerByID)
	validated.PUT("/pareceres/:id", Logger(), controllers.UpdateParecer)
	validated.DELETE("/pareceres/:id", Logger(), controllers.DeleteParecer)

	// LLM proxy (rate limited per IP)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	openai := validated.Group("/openai")
	openai.Use(limiter.Handler())
	openai.POST("/interpretar-tipificacao", Logger(), controllers.InterpretarTipificacao)
	openai.POST("/gerar-relatorio", Logger(), controllers.GerarRelatorio)

	// Admin routes
	admin := validated.Group("")
	admin.Use(Adminizer())

	admin.GET("/users", Logger(), controllers.GetUsers)
	admin.POST("/users", Logger(), controllers.CreateUser)
	admin.PUT("/users/:id", Logger(), controllers.UpdateUser)
	admin.DELETE("/users/:id", Logger(), controllers.DeleteUser)

	log.Info("Routes initialized")
	return limiter
}
