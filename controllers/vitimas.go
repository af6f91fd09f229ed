package controllers

import (
	"net/http"

	dbpkg "nobilis/db"
	"nobilis/models"
	"nobilis/realtime"

	"github.com/gin-gonic/gin"
)

// GET /api/processos/:id/vitimas
func GetVitimas(c *gin.Context) {
	processoID, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var vitimas []models.Vitima
	if err := db.Where("processo_id = ?", processoID).Order("id asc").Find(&vitimas).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"vitimas": vitimas})
}

// POST /api/processos/:id/vitimas
func CreateVitima(c *gin.Context) {
	processoID, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var vitima models.Vitima
	if err := c.ShouldBindJSON(&vitima); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if !requireFields(c, vitima.MissingFields()) {
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok || !processoExists(c, db, processoID) {
		return
	}

	vitima.ID = 0
	vitima.ProcessoID = processoID
	if err := db.Create(&vitima).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "vitimas", realtime.ActionInsert, vitima.ID, processoID)
	RespondCreated(c, gin.H{"vitima": vitima})
}

// PUT /api/vitimas/:id
func UpdateVitima(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var input models.Vitima
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

	var vitima models.Vitima
	if err := db.First(&vitima, id).Error; err != nil {
		respondNotFoundOr(c, err, "vítima não encontrada")
		return
	}

	vitima.Nome = input.Nome
	vitima.Contato = input.Contato
	vitima.Observacoes = input.Observacoes

	if err := db.Save(&vitima).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "vitimas", realtime.ActionUpdate, vitima.ID, vitima.ProcessoID)
	RespondSuccess(c, gin.H{"vitima": vitima})
}

// DELETE /api/vitimas/:id
func DeleteVitima(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var vitima models.Vitima
	if err := db.First(&vitima, id).Error; err != nil {
		respondNotFoundOr(c, err, "vítima não encontrada")
		return
	}
	if err := db.Delete(&vitima).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "vitimas", realtime.ActionDelete, vitima.ID, vitima.ProcessoID)
	RespondSuccess(c, gin.H{"status": "deleted"})
}
