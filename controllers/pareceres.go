package controllers

import (
	"net/http"
	"strings"

	dbpkg "nobilis/db"
	"nobilis/models"
	"nobilis/realtime"

	"github.com/gin-gonic/gin"
)

// GET /api/pareceres
// Query params: status, urgencia, processo_id, q (título), page, limit.
func GetPareceres(c *gin.Context) {
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	q := db.Model(&models.Parecer{})
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		q = q.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.Query("urgencia")); v != "" {
		q = q.Where("urgencia = ?", v)
	}
	if v := queryInt(c, "processo_id", 0); v > 0 {
		q = q.Where("processo_id = ?", v)
	}
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		q = q.Where("LOWER(titulo) LIKE ?", "%"+strings.ToLower(v)+"%")
	}

	var total int
	if err := q.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	page := clampInt(queryInt(c, "page", 1), 1, 1_000_000)
	limit := clampInt(queryInt(c, "limit", 20), 1, 200)

	var pareceres []models.Parecer
	if err := q.Order("created_at desc, id desc").Offset((page - 1) * limit).Limit(limit).Find(&pareceres).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"pareceres": pareceres,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GET /api/pareceres/:id
func GetParecerByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var parecer models.Parecer
	if err := db.First(&parecer, id).Error; err != nil {
		respondNotFoundOr(c, err, "parecer não encontrado")
		return
	}
	RespondSuccess(c, gin.H{"parecer": parecer})
}

// POST /api/pareceres
func CreateParecer(c *gin.Context) {
	var parecer models.Parecer
	if err := c.ShouldBindJSON(&parecer); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if parecer.Status == "" {
		parecer.Status = models.PARECER_STATUS_RASCUNHO
	}
	if parecer.Urgencia == "" {
		parecer.Urgencia = models.PARECER_URGENCIA_NORMAL
	}
	if !requireFields(c, parecer.MissingFields()) || !requireValid(c, parecer.InvalidFields()) {
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}
	if parecer.ProcessoID > 0 && !processoExists(c, db, parecer.ProcessoID) {
		return
	}

	parecer.ID = 0
	if user, ok := GetUserLogged(c); ok {
		parecer.AutorID = user.ID
	}
	if parecer.Servidores == nil {
		parecer.Servidores = models.StringList{}
	}

	if err := db.Create(&parecer).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "pareceres", realtime.ActionInsert, parecer.ID, parecer.ProcessoID)
	RespondCreated(c, gin.H{"parecer": parecer})
}

// PUT /api/pareceres/:id
func UpdateParecer(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var input models.Parecer
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if !requireFields(c, input.MissingFields()) || !requireValid(c, input.InvalidFields()) {
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var parecer models.Parecer
	if err := db.First(&parecer, id).Error; err != nil {
		respondNotFoundOr(c, err, "parecer não encontrado")
		return
	}
	if input.ProcessoID > 0 && input.ProcessoID != parecer.ProcessoID && !processoExists(c, db, input.ProcessoID) {
		return
	}

	parecer.ProcessoID = input.ProcessoID
	parecer.Titulo = input.Titulo
	parecer.Status = input.Status
	parecer.Urgencia = input.Urgencia
	parecer.Conteudo = input.Conteudo
	parecer.Servidores = input.Servidores
	if parecer.Servidores == nil {
		parecer.Servidores = models.StringList{}
	}

	if err := db.Save(&parecer).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "pareceres", realtime.ActionUpdate, parecer.ID, parecer.ProcessoID)
	RespondSuccess(c, gin.H{"parecer": parecer})
}

// DELETE /api/pareceres/:id
func DeleteParecer(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var parecer models.Parecer
	if err := db.First(&parecer, id).Error; err != nil {
		respondNotFoundOr(c, err, "parecer não encontrado")
		return
	}
	if err := db.Delete(&parecer).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "pareceres", realtime.ActionDelete, parecer.ID, parecer.ProcessoID)
	RespondSuccess(c, gin.H{"status": "deleted"})
}
