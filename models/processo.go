package models

import (
	"time"

	"nobilis/tools"
)

/************************************************
/**** MARK: PROCESSO STATUS ****/
/************************************************/
const PROCESSO_STATUS_EM_ANDAMENTO = "em_andamento"
const PROCESSO_STATUS_CONCLUIDO = "concluido"
const PROCESSO_STATUS_ARQUIVADO = "arquivado"
const PROCESSO_STATUS_SUSPENSO = "suspenso"

/************************************************
/**** MARK: PRIORIDADE ****/
/************************************************/
const PRIORIDADE_BAIXA = "baixa"
const PRIORIDADE_MEDIA = "media"
const PRIORIDADE_ALTA = "alta"
const PRIORIDADE_URGENTE = "urgente"

var ProcessoStatuses = []string{
	PROCESSO_STATUS_EM_ANDAMENTO,
	PROCESSO_STATUS_CONCLUIDO,
	PROCESSO_STATUS_ARQUIVADO,
	PROCESSO_STATUS_SUSPENSO,
}

var Prioridades = []string{PRIORIDADE_BAIXA, PRIORIDADE_MEDIA, PRIORIDADE_ALTA, PRIORIDADE_URGENTE}

// Processo é o registro de um procedimento disciplinar ou criminal.
// Tipificacao e Relatorio guardam a última resposta do modelo para o processo.
type Processo struct {
	ID              int64         `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	NumeroProcesso  string        `gorm:"not null;unique_index" json:"numero_processo" form:"numero_processo" binding:"omitempty,numero_processo"`
	TipoProcesso    string        `gorm:"not null;index" json:"tipo_processo" form:"tipo_processo"`
	Prioridade      string        `gorm:"not null;default:'media';index" json:"prioridade" form:"prioridade"`
	Status          string        `gorm:"not null;default:'em_andamento';index" json:"status" form:"status"`
	DataInstauracao string        `gorm:"not null" json:"data_instauracao" form:"data_instauracao" binding:"omitempty,data"`
	DataPrazo       string        `gorm:"default:'';index" json:"data_prazo" form:"data_prazo" binding:"omitempty,data"`
	DataConclusao   string        `gorm:"default:''" json:"data_conclusao" form:"data_conclusao" binding:"omitempty,data"`
	DescricaoFatos  string        `gorm:"type:text" json:"descricao_fatos" form:"descricao_fatos"`
	LocalFato       string        `gorm:"default:''" json:"local_fato" form:"local_fato"`
	Unidade         string        `gorm:"default:''" json:"unidade" form:"unidade"`
	ResponsavelID   int64         `gorm:"default:0;index" json:"responsavel_id" form:"responsavel_id"`
	Tipificacao     string        `gorm:"type:text" json:"tipificacao"`
	Relatorio       string        `gorm:"type:text" json:"relatorio"`
	PrazoVencido    bool          `gorm:"not null;default:false" json:"prazo_vencido"`
	Investigados    []Investigado `gorm:"foreignkey:ProcessoID" json:"investigados,omitempty" binding:"dive"`
	Vitimas         []Vitima      `gorm:"foreignkey:ProcessoID" json:"vitimas,omitempty" binding:"dive"`
	Diligencias     []Diligencia  `gorm:"foreignkey:ProcessoID" json:"diligencias,omitempty" binding:"dive"`
	CreatedAt       *time.Time    `json:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at"`
}

func (p Processo) MissingFields() string {
	if tools.IsBlank(p.TipoProcesso) {
		return "tipo_processo"
	} else if tools.IsBlank(p.Prioridade) {
		return "prioridade"
	} else if tools.IsBlank(p.Status) {
		return "status"
	} else if tools.IsBlank(p.DataInstauracao) {
		return "data_instauracao"
	}
	return ""
}

// InvalidFields devolve o primeiro campo com valor fora do domínio.
func (p Processo) InvalidFields() string {
	if p.TipoProcesso != "" && !tools.IsTipoProcessoValido(p.TipoProcesso) {
		return "tipo_processo"
	} else if p.Prioridade != "" && !tools.Contains(Prioridades, p.Prioridade) {
		return "prioridade"
	} else if p.Status != "" && !tools.Contains(ProcessoStatuses, p.Status) {
		return "status"
	} else if p.NumeroProcesso != "" && !tools.ValidateNumeroProcesso(p.NumeroProcesso) {
		return "numero_processo"
	}
	for field, v := range map[string]string{
		"data_instauracao": p.DataInstauracao,
		"data_prazo":       p.DataPrazo,
		"data_conclusao":   p.DataConclusao,
	} {
		if v != "" && !tools.ValidateDate(v) {
			return field
		}
	}
	return ""
}

// PrazoVencidoEm informa se o processo está atrasado na data hoje (YYYY-MM-DD).
func (p Processo) PrazoVencidoEm(hoje string) bool {
	return p.Status == PROCESSO_STATUS_EM_ANDAMENTO && p.DataPrazo != "" && p.DataPrazo < hoje
}
