package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	dbpkg "nobilis/db"
	"nobilis/metrics"
	"nobilis/models"
	"nobilis/realtime"
	"nobilis/tools"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type InterpretarTipificacaoRequest struct {
	DescricaoCrime string          `json:"descricaoCrime"`
	Contexto       json.RawMessage `json:"contexto"`
	ProcessoID     int64           `json:"processoId"`
}

type GerarRelatorioRequest struct {
	DadosProcesso json.RawMessage `json:"dadosProcesso"`
	ProcessoID    int64           `json:"processoId"`
}

// POST /api/openai/interpretar-tipificacao
func InterpretarTipificacao(c *gin.Context) {
	var req InterpretarTipificacaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.DescricaoCrime) == "" {
		RespondError(c, "descricaoCrime é obrigatório", http.StatusBadRequest)
		return
	}

	ai := servicesOf(c).AI
	if ai == nil || !ai.Configured() {
		RespondError(c, tools.ErrMissingAPIKey.Error(), http.StatusInternalServerError)
		return
	}

	prompt, err := tools.PromptTipificacao(req.DescricaoCrime, rawToText(req.Contexto))
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	start := time.Now()
	text, err := ai.Generate(c.Request.Context(), tools.InstrucoesTipificacao, prompt)
	if err != nil {
		metrics.RecordLLMCall("tipificacao", "error", time.Since(start))
		respondLLMError(c, err)
		return
	}

	result, ok := tools.ExtractJSONObject(text)
	outcome := "ok"
	if !ok {
		outcome = "fallback"
		result = tools.TipificacaoFallback(text)
	}
	metrics.RecordLLMCall("tipificacao", outcome, time.Since(start))

	if req.ProcessoID > 0 {
		if b, err := json.Marshal(result); err == nil {
			saveOnProcesso(c, req.ProcessoID, "tipificacao", string(b))
		}
	}

	RespondSuccess(c, result)
}

// POST /api/openai/gerar-relatorio
func GerarRelatorio(c *gin.Context) {
	var req GerarRelatorioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondErrorDetails(c, "JSON inválido", err.Error(), http.StatusBadRequest)
		return
	}
	if isEmptyJSON(req.DadosProcesso) {
		RespondError(c, "dadosProcesso é obrigatório", http.StatusBadRequest)
		return
	}

	ai := servicesOf(c).AI
	if ai == nil || !ai.Configured() {
		RespondError(c, tools.ErrMissingAPIKey.Error(), http.StatusInternalServerError)
		return
	}

	prompt, err := tools.PromptRelatorio(req.DadosProcesso)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	start := time.Now()
	text, err := ai.Generate(c.Request.Context(), tools.InstrucoesRelatorio, prompt)
	if err != nil {
		metrics.RecordLLMCall("relatorio", "error", time.Since(start))
		respondLLMError(c, err)
		return
	}

	result, ok := tools.ExtractJSONObject(text)
	outcome := "ok"
	if !ok {
		outcome = "fallback"
		result = tools.RelatorioFallback(text)
	}
	metrics.RecordLLMCall("relatorio", outcome, time.Since(start))

	if req.ProcessoID > 0 {
		stored := text
		if ok {
			if b, err := json.Marshal(result); err == nil {
				stored = string(b)
			}
		}
		saveOnProcesso(c, req.ProcessoID, "relatorio", stored)
	}

	RespondSuccess(c, result)
}

func respondLLMError(c *gin.Context, err error) {
	if errors.Is(err, tools.ErrMissingAPIKey) {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	log.WithError(err).Warn("openai: falha na chamada")
	RespondErrorDetails(c, "Falha ao consultar o modelo de linguagem", err.Error(), http.StatusBadGateway)
}

// saveOnProcesso grava o resultado no processo; falhas só vão pro log.
func saveOnProcesso(c *gin.Context, processoID int64, column string, value string) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		return
	}
	res := db.Model(&models.Processo{}).Where("id = ?", processoID).Update(column, value)
	if res.Error != nil {
		log.WithError(res.Error).WithField("processo_id", processoID).Warnf("openai: não salvou %s", column)
		return
	}
	if res.RowsAffected > 0 {
		publish(c, "processos", realtime.ActionUpdate, processoID, processoID)
	}
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", "{}", "[]", `""`:
		return true
	}
	return false
}

// rawToText aceita string JSON ou qualquer outro valor (impresso indentado).
func rawToText(raw json.RawMessage) string {
	if isEmptyJSON(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}
