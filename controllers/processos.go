package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	dbpkg "nobilis/db"
	"nobilis/models"
	"nobilis/realtime"
	"nobilis/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// ProcessoUpdateRequest: campos ausentes (nil) não são alterados.
type ProcessoUpdateRequest struct {
	NumeroProcesso  *string `json:"numero_processo"`
	TipoProcesso    *string `json:"tipo_processo"`
	Prioridade      *string `json:"prioridade"`
	Status          *string `json:"status"`
	DataInstauracao *string `json:"data_instauracao"`
	DataPrazo       *string `json:"data_prazo"`
	DataConclusao   *string `json:"data_conclusao"`
	DescricaoFatos  *string `json:"descricao_fatos"`
	LocalFato       *string `json:"local_fato"`
	Unidade         *string `json:"unidade"`
	ResponsavelID   *int64  `json:"responsavel_id"`
}

func hoje() string {
	return time.Now().Format(tools.DateLayout)
}

// GET /api/processos
// Query params: status, tipo_processo, prioridade, responsavel_id, prazo_vencido=true, q, page, limit,
// sort_by=created_at|data_instauracao|data_prazo|numero_processo|id (default: created_at), order=asc|desc.
func GetProcessos(c *gin.Context) {
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	q := db.Model(&models.Processo{})
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		q = q.Where("status = ?", v)
	}
	if v := strings.TrimSpace(c.Query("tipo_processo")); v != "" {
		q = q.Where("tipo_processo = ?", v)
	}
	if v := strings.TrimSpace(c.Query("prioridade")); v != "" {
		q = q.Where("prioridade = ?", v)
	}
	if v := queryInt(c, "responsavel_id", 0); v > 0 {
		q = q.Where("responsavel_id = ?", v)
	}
	if strings.EqualFold(c.Query("prazo_vencido"), "true") {
		q = q.Where("prazo_vencido = ?", true)
	}
	if v := strings.TrimSpace(c.Query("q")); v != "" {
		like := "%" + strings.ToLower(v) + "%"
		q = q.Where("LOWER(numero_processo) LIKE ? OR LOWER(descricao_fatos) LIKE ?", like, like)
	}

	var total int
	if err := q.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	page := clampInt(queryInt(c, "page", 1), 1, 1_000_000)
	limit := clampInt(queryInt(c, "limit", 20), 1, 200)

	sortBy := strings.TrimSpace(c.DefaultQuery("sort_by", "created_at"))
	switch sortBy {
	case "created_at", "data_instauracao", "data_prazo", "numero_processo", "id":
	default:
		sortBy = "created_at"
	}
	order := "desc"
	if strings.EqualFold(c.Query("order"), "asc") {
		order = "asc"
	}

	var processos []models.Processo
	if err := q.Order(fmt.Sprintf("%s %s, id %s", sortBy, order, order)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&processos).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"processos": processos,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GET /api/processos/:id
func GetProcessoByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var processo models.Processo
	err := db.
		Preload("Investigados", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Vitimas", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Diligencias", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&processo, id).Error
	if err != nil {
		respondNotFoundOr(c, err, "processo não encontrado")
		return
	}
	RespondSuccess(c, gin.H{"processo": processo})
}

// GET /api/processos/numero?tipo_processo=IPM
func GetProximoNumeroProcesso(c *gin.Context) {
	tipo := strings.TrimSpace(c.Query("tipo_processo"))
	if tipo == "" {
		RespondError(c, "tipo_processo é obrigatório", http.StatusBadRequest)
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}
	numero, err := tools.GerarNumeroProcesso(db, tipo, time.Now())
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"numero_processo": numero})
}

// POST /api/processos
// Investigados, vítimas e diligências podem vir aninhados e são criados na mesma transação.
func CreateProcesso(c *gin.Context) {
	var processo models.Processo
	if err := c.ShouldBindJSON(&processo); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	processo.ID = 0
	processo.Tipificacao = ""
	processo.Relatorio = ""

	if !requireFields(c, processo.MissingFields()) || !requireValid(c, processo.InvalidFields()) {
		return
	}
	processo.TipoProcesso = tools.PrefixoProcesso(processo.TipoProcesso)
	for _, i := range processo.Investigados {
		if !requireFields(c, prefixed("investigados.", i.MissingFields())) {
			return
		}
	}
	for _, v := range processo.Vitimas {
		if !requireFields(c, prefixed("vitimas.", v.MissingFields())) {
			return
		}
	}
	for _, d := range processo.Diligencias {
		if !requireFields(c, prefixed("diligencias.", d.MissingFields())) {
			return
		}
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	if processo.NumeroProcesso == "" {
		numero, err := tools.GerarNumeroProcesso(db, processo.TipoProcesso, time.Now())
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		processo.NumeroProcesso = numero
	} else if exists, err := numeroEmUso(db, processo.NumeroProcesso, 0); err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	} else if exists {
		RespondError(c, "numero_processo já cadastrado", http.StatusConflict)
		return
	}

	processo.PrazoVencido = processo.PrazoVencidoEm(hoje())

	tx := db.Begin()
	if err := tx.Create(&processo).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	publish(c, "processos", realtime.ActionInsert, processo.ID, processo.ID)
	RespondCreated(c, gin.H{"processo": processo})
}

// PUT /api/processos/:id
func UpdateProcesso(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req ProcessoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}

	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	var processo models.Processo
	if err := db.First(&processo, id).Error; err != nil {
		respondNotFoundOr(c, err, "processo não encontrado")
		return
	}

	fields := map[string]any{}
	setStr := func(col string, v *string, dst *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
			fields[col] = *dst
		}
	}
	setStr("numero_processo", req.NumeroProcesso, &processo.NumeroProcesso)
	setStr("tipo_processo", req.TipoProcesso, &processo.TipoProcesso)
	setStr("prioridade", req.Prioridade, &processo.Prioridade)
	setStr("status", req.Status, &processo.Status)
	setStr("data_instauracao", req.DataInstauracao, &processo.DataInstauracao)
	setStr("data_prazo", req.DataPrazo, &processo.DataPrazo)
	setStr("data_conclusao", req.DataConclusao, &processo.DataConclusao)
	setStr("descricao_fatos", req.DescricaoFatos, &processo.DescricaoFatos)
	setStr("local_fato", req.LocalFato, &processo.LocalFato)
	setStr("unidade", req.Unidade, &processo.Unidade)
	if req.ResponsavelID != nil {
		processo.ResponsavelID = *req.ResponsavelID
		fields["responsavel_id"] = processo.ResponsavelID
	}

	if !requireFields(c, processo.MissingFields()) || !requireValid(c, processo.InvalidFields()) {
		return
	}
	if processo.NumeroProcesso == "" {
		RespondError(c, "Faltando campo numero_processo", http.StatusBadRequest)
		return
	}
	if req.TipoProcesso != nil {
		processo.TipoProcesso = tools.PrefixoProcesso(processo.TipoProcesso)
		fields["tipo_processo"] = processo.TipoProcesso
	}
	if req.NumeroProcesso != nil {
		if exists, err := numeroEmUso(db, processo.NumeroProcesso, processo.ID); err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		} else if exists {
			RespondError(c, "numero_processo já cadastrado", http.StatusConflict)
			return
		}
	}

	if processo.Status == models.PROCESSO_STATUS_CONCLUIDO && processo.DataConclusao == "" {
		processo.DataConclusao = hoje()
		fields["data_conclusao"] = processo.DataConclusao
	}
	processo.PrazoVencido = processo.PrazoVencidoEm(hoje())
	fields["prazo_vencido"] = processo.PrazoVencido

	if err := db.Model(&processo).Updates(fields).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	publish(c, "processos", realtime.ActionUpdate, processo.ID, processo.ID)
	RespondSuccess(c, gin.H{"processo": processo})
}

// DELETE /api/processos/:id
// Remove investigados, vítimas e diligências; pareceres ficam, apenas desvinculados.
func DeleteProcesso(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	tx := db.Begin()
	for _, child := range []any{&models.Investigado{}, &models.Vitima{}, &models.Diligencia{}} {
		if err := tx.Delete(child, "processo_id = ?", id).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := tx.Model(&models.Parecer{}).Where("processo_id = ?", id).Update("processo_id", 0).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	res := tx.Delete(&models.Processo{}, "id = ?", id)
	if res.Error != nil {
		tx.Rollback()
		RespondError(c, res.Error.Error(), http.StatusBadRequest)
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		RespondError(c, "processo não encontrado", http.StatusNotFound)
		return
	}
	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	publish(c, "processos", realtime.ActionDelete, id, id)
	RespondSuccess(c, gin.H{"status": "deleted"})
}

func numeroEmUso(db *gorm.DB, numero string, exceptID int64) (bool, error) {
	var count int
	err := db.Model(&models.Processo{}).
		Where("numero_processo = ? AND id <> ?", numero, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("verificar numero_processo: %w", err)
	}
	return count > 0, nil
}

// processoExists responde 404 quando o processo pai não existe.
func processoExists(c *gin.Context, db *gorm.DB, id int64) bool {
	var count int
	if err := db.Model(&models.Processo{}).Where("id = ?", id).Count(&count).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return false
	}
	if count == 0 {
		RespondError(c, "processo não encontrado", http.StatusNotFound)
		return false
	}
	return true
}

func respondNotFoundOr(c *gin.Context, err error, notFoundMsg string) {
	if gorm.IsRecordNotFoundError(err) {
		RespondError(c, notFoundMsg, http.StatusNotFound)
		return
	}
	RespondError(c, err.Error(), http.StatusInternalServerError)
}

func prefixed(prefix string, missing string) string {
	if missing == "" {
		return ""
	}
	return prefix + missing
}
