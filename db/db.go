package db

import (
	"fmt"
	"os"
	"path/filepath"

	"nobilis/config"
	"nobilis/models"
	"nobilis/tools"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	log "github.com/sirupsen/logrus"
)

var conf config.Configuration

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

// Connect abre conexão com o banco (sqlite3 por padrão) e, se configurado, faz automigrate.
func Connect() (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		log.Info("Utilizando conexão com o postgresql...")
		path := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
			conf.DbHost, conf.DbPort, conf.DbUser, conf.DbName, conf.DbPass, conf.DbSSLMode)
		db, err = gorm.Open("postgres", path)
	} else {
		log.Info("Utilizando conexão com o sqlite3...")
		if dir := filepath.Dir(conf.DbPath); dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		db, err = gorm.Open("sqlite3", conf.DbPath)
	}
	if err != nil {
		log.WithError(err).Error("falha ao conectar no banco")
		return nil, err
	}

	db.LogMode(log.IsLevelEnabled(log.DebugLevel))
	db.SetLogger(log.StandardLogger())

	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate cria/atualiza as tabelas do sistema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Processo{},
		&models.Investigado{},
		&models.Vitima{},
		&models.Diligencia{},
		&models.Parecer{},
	).Error
}

// SeedAdmin cria o primeiro administrador quando a tabela users existe e está vazia.
func SeedAdmin(db *gorm.DB, email string, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if !db.HasTable(&models.User{}) {
		log.Warn("tabela users inexistente: admin inicial não criado (habilite AUTOMIGRATE)")
		return nil
	}

	var count int
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("contar usuários: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := tools.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash da senha do admin: %w", err)
	}
	admin := models.User{
		Nome:     "Administrador",
		Email:    email,
		Password: hash,
		Admin:    true,
		Status:   models.USER_STATUS_ATIVO,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("criar admin: %w", err)
	}
	log.WithField("email", email).Info("usuário administrador inicial criado")
	return nil
}
