package models

import (
	"time"

	"nobilis/tools"
)

// Investigado é a pessoa sob investigação dentro de um processo.
type Investigado struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ProcessoID   int64      `gorm:"not null;index" json:"processo_id"`
	Nome         string     `gorm:"not null" json:"nome" form:"nome"`
	Cargo        string     `gorm:"default:''" json:"cargo" form:"cargo"`
	Unidade      string     `gorm:"default:''" json:"unidade" form:"unidade"`
	Matricula    string     `gorm:"default:''" json:"matricula" form:"matricula"`
	DataAdmissao string     `gorm:"column:data_admissao;default:''" json:"dataAdmissao" form:"dataAdmissao" binding:"omitempty,data"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (i Investigado) MissingFields() string {
	if tools.IsBlank(i.Nome) {
		return "nome"
	}
	return ""
}
