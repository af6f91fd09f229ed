package models

import (
	"time"

	"nobilis/tools"
)

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_ATIVO = 0
const USER_STATUS_BLOQUEADO = 1

// User representa um investigador/servidor com acesso ao sistema (tabela users).
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nome      string     `gorm:"not null" json:"nome" form:"nome"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	Password  string     `gorm:"not null" json:"password,omitempty" form:"password"`
	Cargo     string     `gorm:"default:''" json:"cargo" form:"cargo"`
	Unidade   string     `gorm:"default:''" json:"unidade" form:"unidade"`
	Matricula string     `gorm:"default:''" json:"matricula" form:"matricula"`
	Admin     bool       `gorm:"not null;default:false" json:"admin" form:"admin"`
	Status    int        `gorm:"not null;default:0" json:"status" form:"status"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if tools.IsBlank(user.Nome) {
		return "nome"
	} else if tools.IsBlank(user.Email) {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}

func (user User) IsBlocked() bool {
	return user.Status == USER_STATUS_BLOQUEADO
}
