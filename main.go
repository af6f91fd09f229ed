package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"nobilis/config"
	"nobilis/controllers"
	"nobilis/db"
	"nobilis/realtime"
	"nobilis/router"
	"nobilis/tools"
	"nobilis/workers"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", getenv("NOBILIS_CONFIG", "config.json"), "arquivo de configuração JSON")
	flag.Parse()

	cfg := config.Get(*configPath)
	setupLogging(cfg)

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.WithError(err).Fatal("banco indisponível")
	}
	defer database.Close()

	if err := db.SeedAdmin(database, cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
		log.WithError(err).Fatal("seed do administrador")
	}

	broker := realtime.NewBroker(64)
	services := &controllers.Services{
		AI: tools.NewOpenAIClient(tools.OpenAIConfig{
			APIKey:  cfg.OpenAI.ApiKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
		}),
		Broker: broker,
		Stats:  controllers.NewStatsGuard(time.Duration(cfg.StatsMinIntervalSeconds) * time.Second),
		Auth: controllers.AuthSettings{
			JwtSecret:  cfg.Security.JwtSecret,
			AccessTTL:  time.Duration(cfg.Security.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.Security.RefreshCodeMaxValid) * 24 * time.Hour,
		},
	}
	if !services.AI.Configured() {
		log.Warn("OPENAI_API_KEY não configurada: rotas /api/openai responderão 500")
	}
	if cfg.Security.JwtSecret == "CHANGE_ME" {
		log.Warn("JWT_SECRET padrão em uso")
	}

	monitor := workers.NewPrazoMonitor(database, broker)
	if err := monitor.Start(cfg.PrazoCron); err != nil {
		log.WithError(err).Fatal("monitor de prazos")
	}

	if !log.IsLevelEnabled(log.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	limiter := router.Initialize(r, cfg, database, services)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(time.Minute, stopCleanup)

	srv := &http.Server{
		Addr:              ":" + cfg.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Nobilis listening on :%s", cfg.ApiPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("servidor http")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("encerrando...")
	close(stopCleanup)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("shutdown do servidor http")
	}
	select {
	case <-monitor.Stop().Done():
	case <-ctx.Done():
	}
}

func setupLogging(cfg config.Configuration) {
	if cfg.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		log.WithError(err).Warn("não foi possível criar o diretório de logs")
		return
	}
	f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.WithError(err).Warn("não foi possível abrir o arquivo de log")
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
