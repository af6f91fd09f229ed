package controllers

import (
	"net/http"
	"time"

	dbpkg "nobilis/db"
	"nobilis/models"
	"nobilis/realtime"

	"github.com/gin-gonic/gin"
)

// GET /api/processos/:id/diligencias
// Query param: pendentes=true devolve só as não realizadas.
func GetDiligencias(c *gin.Context) {
	processoID, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	q := db.Where("processo_id = ?", processoID)
	if c.Query("pendentes") == "true" {
		q = q.Where("realizada = ?", false)
	}

	var diligencias []models.Diligencia
	if err := q.Order("id asc").Find(&diligencias).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"diligencias": diligencias})
}

// POST /api/processos/:id/diligencias
func CreateDiligencia(c *gin.Context) {
	processoID, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var diligencia models.Diligencia
	if err := c.ShouldBindJSON(&diligencia); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if !requireFields(c, diligencia.MissingFields()) {
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok || !processoExists(c, db, processoID) {
		return
	}

	diligencia.ID = 0
	diligencia.ProcessoID = processoID
	diligencia.RealizadaEm = realizadaEm(diligencia.Realizada, nil)
	if err := db.Create(&diligencia).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "diligencias", realtime.ActionInsert, diligencia.ID, processoID)
	RespondCreated(c, gin.H{"diligencia": diligencia})
}

// PUT /api/diligencias/:id
func UpdateDiligencia(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var input models.Diligencia
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if !requireFields(c, input.MissingFields()) {
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var diligencia models.Diligencia
	if err := db.First(&diligencia, id).Error; err != nil {
		respondNotFoundOr(c, err, "diligência não encontrada")
		return
	}

	diligencia.Descricao = input.Descricao
	diligencia.Responsavel = input.Responsavel
	diligencia.DataPrazo = input.DataPrazo
	diligencia.RealizadaEm = realizadaEm(input.Realizada, diligencia.RealizadaEm)
	diligencia.Realizada = input.Realizada

	if err := db.Save(&diligencia).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "diligencias", realtime.ActionUpdate, diligencia.ID, diligencia.ProcessoID)
	RespondSuccess(c, gin.H{"diligencia": diligencia})
}

// PATCH /api/diligencias/:id/toggle
func ToggleDiligencia(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var diligencia models.Diligencia
	if err := db.First(&diligencia, id).Error; err != nil {
		respondNotFoundOr(c, err, "diligência não encontrada")
		return
	}

	diligencia.Realizada = !diligencia.Realizada
	diligencia.RealizadaEm = realizadaEm(diligencia.Realizada, diligencia.RealizadaEm)

	err := db.Model(&diligencia).Updates(map[string]any{
		"realizada":    diligencia.Realizada,
		"realizada_em": diligencia.RealizadaEm,
	}).Error
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "diligencias", realtime.ActionUpdate, diligencia.ID, diligencia.ProcessoID)
	RespondSuccess(c, gin.H{"diligencia": diligencia})
}

// DELETE /api/diligencias/:id
func DeleteDiligencia(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var diligencia models.Diligencia
	if err := db.First(&diligencia, id).Error; err != nil {
		respondNotFoundOr(c, err, "diligência não encontrada")
		return
	}
	if err := db.Delete(&diligencia).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "diligencias", realtime.ActionDelete, diligencia.ID, diligencia.ProcessoID)
	RespondSuccess(c, gin.H{"status": "deleted"})
}

// realizadaEm mantém o carimbo de quando foi marcada; limpa ao desmarcar.
func realizadaEm(realizada bool, atual *time.Time) *time.Time {
	if !realizada {
		return nil
	}
	if atual != nil {
		return atual
	}
	now := time.Now()
	return &now
}
