package models

import (
	"time"

	"nobilis/tools"
)

type Vitima struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ProcessoID  int64      `gorm:"not null;index" json:"processo_id"`
	Nome        string     `gorm:"not null" json:"nome" form:"nome"`
	Contato     string     `gorm:"default:''" json:"contato" form:"contato"`
	Observacoes string     `gorm:"type:text" json:"observacoes" form:"observacoes"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (v Vitima) MissingFields() string {
	if tools.IsBlank(v.Nome) {
		return "nome"
	}
	return ""
}
