package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Configuration struct {
	ApiPort  string `json:"api_port"`
	LogPath  string `json:"log_path"`
	LogLevel string `json:"log_level"`
	LogJSON  bool   `json:"log_json"`

	// CorsOrigins vazio libera qualquer origem.
	CorsOrigins []string `json:"cors_origins"`

	Database    string `json:"database"` // "sqlite3" ou "postgres"
	DbHost      string `json:"db_host"`
	DbPort      string `json:"db_port"`
	DbUser      string `json:"db_user"`
	DbName      string `json:"db_name"`
	DbPass      string `json:"db_pass"`
	DbSSLMode   string `json:"db_sslmode"`
	DbPath      string `json:"db_path"` // arquivo do sqlite
	AutoMigrate bool   `json:"automigrate"`

	Security struct {
		JwtSecret           string `json:"jwt_secret"`
		AccessTTLMinutes    int    `json:"access_ttl_minutes"`
		RefreshCodeMaxValid int    `json:"refresh_code_max_valid_days"`
		AdminEmail          string `json:"admin_email"`
		AdminPassword       string `json:"admin_password"`
	} `json:"security"`

	OpenAI struct {
		ApiKey         string `json:"api_key"`
		Model          string `json:"model"`
		BaseURL        string `json:"base_url"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"openai"`

	RateLimit struct {
		RequestsPerSecond float64 `json:"requests_per_second"`
		Burst             int     `json:"burst"`
	} `json:"rate_limit"`

	// StatsMinIntervalSeconds: janela em que /processos/stats devolve o último resultado calculado.
	StatsMinIntervalSeconds int `json:"stats_min_interval_seconds"`

	// PrazoCron: agenda do monitor de prazos (formato cron de 5 campos ou @every).
	PrazoCron string `json:"prazo_cron"`
}

// Get carrega a configuração ou encerra o processo.
func Get(path string) Configuration {
	c, err := Load(path)
	if err != nil {
		log.Fatal(err)
	}
	return c
}

// Load lê o arquivo JSON (opcional), o .env (opcional) e aplica overrides de ambiente.
func Load(path string) (Configuration, error) {
	var c Configuration

	_ = godotenv.Load()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(b, &c); err != nil {
				return c, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			log.Warnf("arquivo de configuração %s não encontrado, usando ambiente", path)
		default:
			return c, fmt.Errorf("config %s: %w", path, err)
		}
	}

	applyEnv(&c)
	applyDefaults(&c)
	return c, nil
}

func applyEnv(c *Configuration) {
	setString(&c.ApiPort, "PORT")
	setString(&c.LogPath, "LOG_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Database, "DATABASE")
	setString(&c.DbHost, "DB_HOST")
	setString(&c.DbPort, "DB_PORT")
	setString(&c.DbUser, "DB_USER")
	setString(&c.DbName, "DB_NAME")
	setString(&c.DbPass, "DB_PASSWORD")
	setString(&c.DbSSLMode, "DB_SSLMODE")
	setString(&c.DbPath, "DB_PATH")
	setString(&c.Security.JwtSecret, "JWT_SECRET")
	setString(&c.Security.AdminEmail, "ADMIN_EMAIL")
	setString(&c.Security.AdminPassword, "ADMIN_PASSWORD")
	setString(&c.OpenAI.ApiKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.PrazoCron, "PRAZO_CRON")

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		c.CorsOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CorsOrigins = append(c.CorsOrigins, o)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("AUTOMIGRATE")); v != "" {
		c.AutoMigrate = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("LOG_JSON")); v != "" {
		c.LogJSON = v == "1" || strings.EqualFold(v, "true")
	}
	if n, ok := envInt("JWT_ACCESS_TTL_MINUTES"); ok {
		c.Security.AccessTTLMinutes = n
	}
	if n, ok := envInt("OPENAI_TIMEOUT_SECONDS"); ok {
		c.OpenAI.TimeoutSeconds = n
	}
	if n, ok := envInt("STATS_MIN_INTERVAL_SECONDS"); ok {
		c.StatsMinIntervalSeconds = n
	}
}

// defaults (pra evitar nil/zero chato)
func applyDefaults(c *Configuration) {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.DbPort == "" {
		c.DbPort = "5432"
	}
	if c.DbSSLMode == "" {
		c.DbSSLMode = "disable"
	}
	if c.DbPath == "" {
		c.DbPath = "db/database.db"
	}
	if c.Security.AccessTTLMinutes <= 0 {
		c.Security.AccessTTLMinutes = 24 * 60
	}
	if c.Security.RefreshCodeMaxValid <= 0 {
		c.Security.RefreshCodeMaxValid = 30
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4.1-mini"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = 60
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 1
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 5
	}
	if c.StatsMinIntervalSeconds <= 0 {
		c.StatsMinIntervalSeconds = 5
	}
	if c.PrazoCron == "" {
		c.PrazoCron = "@every 10m"
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
