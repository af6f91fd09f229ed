package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func ParamID(c *gin.Context, name string) (int64, bool) {
	v := c.Param(name)
	if v == "" {
		RespondError(c, name+" é obrigatório", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, name+" inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// requireFields responde 400 com a mensagem padrão quando missing não é vazio.
func requireFields(c *gin.Context, missing string) bool {
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return false
	}
	return true
}

func requireValid(c *gin.Context, invalid string) bool {
	if invalid != "" {
		RespondError(c, "Valor inválido para "+invalid, http.StatusBadRequest)
		return false
	}
	return true
}
