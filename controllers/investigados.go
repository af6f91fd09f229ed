package controllers

import (
	"net/http"

	dbpkg "nobilis/db"
	"nobilis/models"
	"nobilis/realtime"

	"github.com/gin-gonic/gin"
)

// GET /api/processos/:id/investigados
func GetInvestigados(c *gin.Context) {
	processoID, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var investigados []models.Investigado
	if err := db.Where("processo_id = ?", processoID).Order("id asc").Find(&investigados).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"investigados": investigados})
}

// POST /api/processos/:id/investigados
func CreateInvestigado(c *gin.Context) {
	processoID, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var investigado models.Investigado
	if err := c.ShouldBindJSON(&investigado); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if !requireFields(c, investigado.MissingFields()) {
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok || !processoExists(c, db, processoID) {
		return
	}

	investigado.ID = 0
	investigado.ProcessoID = processoID
	if err := db.Create(&investigado).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "investigados", realtime.ActionInsert, investigado.ID, processoID)
	RespondCreated(c, gin.H{"investigado": investigado})
}

// PUT /api/investigados/:id
func UpdateInvestigado(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var input models.Investigado
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

	var investigado models.Investigado
	if err := db.First(&investigado, id).Error; err != nil {
		respondNotFoundOr(c, err, "investigado não encontrado")
		return
	}

	investigado.Nome = input.Nome
	investigado.Cargo = input.Cargo
	investigado.Unidade = input.Unidade
	investigado.Matricula = input.Matricula
	investigado.DataAdmissao = input.DataAdmissao

	if err := db.Save(&investigado).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "investigados", realtime.ActionUpdate, investigado.ID, investigado.ProcessoID)
	RespondSuccess(c, gin.H{"investigado": investigado})
}

// DELETE /api/investigados/:id
func DeleteInvestigado(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var investigado models.Investigado
	if err := db.First(&investigado, id).Error; err != nil {
		respondNotFoundOr(c, err, "investigado não encontrado")
		return
	}
	if err := db.Delete(&investigado).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "investigados", realtime.ActionDelete, investigado.ID, investigado.ProcessoID)
	RespondSuccess(c, gin.H{"status": "deleted"})
}
