package models

import (
	"time"

	"nobilis/tools"
)

// Diligencia é um item do checklist investigativo de um processo.
type Diligencia struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ProcessoID  int64      `gorm:"not null;index" json:"processo_id"`
	Descricao   string     `gorm:"type:text;not null" json:"descricao" form:"descricao"`
	Responsavel string     `gorm:"default:''" json:"responsavel" form:"responsavel"`
	DataPrazo   string     `gorm:"default:''" json:"data_prazo" form:"data_prazo" binding:"omitempty,data"`
	Realizada   bool       `gorm:"not null;default:false" json:"realizada" form:"realizada"`
	RealizadaEm *time.Time `json:"realizada_em"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (d Diligencia) MissingFields() string {
	if tools.IsBlank(d.Descricao) {
		return "descricao"
	}
	return ""
}
