package controllers

import (
	"net/http"
	"time"

	dbpkg "nobilis/db"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func Health(c *gin.Context) {
	database := "ok"
	status := http.StatusOK

	db := dbpkg.DBInstance(c)
	if db == nil {
		database = "não configurado"
		status = http.StatusServiceUnavailable
	} else if err := db.DB().PingContext(c.Request.Context()); err != nil {
		database = "erro: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degradado"
	}
	c.JSON(status, gin.H{
		"status":    state,
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
