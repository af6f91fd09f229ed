package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"nobilis/tools"
)

/************************************************
/**** MARK: PARECER ****/
/************************************************/
const PARECER_STATUS_RASCUNHO = "rascunho"
const PARECER_STATUS_EM_REVISAO = "em_revisao"
const PARECER_STATUS_EMITIDO = "emitido"

const PARECER_URGENCIA_NORMAL = "normal"
const PARECER_URGENCIA_URGENTE = "urgente"

var ParecerStatuses = []string{PARECER_STATUS_RASCUNHO, PARECER_STATUS_EM_REVISAO, PARECER_STATUS_EMITIDO}
var ParecerUrgencias = []string{PARECER_URGENCIA_NORMAL, PARECER_URGENCIA_URGENTE}

// StringList é persistida como array JSON numa coluna text (funciona em sqlite e postgres).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringList: tipo não suportado %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	*l = out
	return nil
}

// Parecer é um documento de opinião jurídica, opcionalmente ligado a um processo.
type Parecer struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ProcessoID int64      `gorm:"default:0;index" json:"processo_id" form:"processo_id"`
	Titulo     string     `gorm:"not null" json:"titulo" form:"titulo"`
	Status     string     `gorm:"not null;default:'rascunho';index" json:"status" form:"status"`
	Urgencia   string     `gorm:"not null;default:'normal'" json:"urgencia" form:"urgencia"`
	Conteudo   string     `gorm:"type:text" json:"conteudo" form:"conteudo"`
	Servidores StringList `gorm:"type:text" json:"servidores" form:"servidores"`
	AutorID    int64      `gorm:"default:0" json:"autor_id"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func (p Parecer) MissingFields() string {
	if tools.IsBlank(p.Titulo) {
		return "titulo"
	} else if tools.IsBlank(p.Status) {
		return "status"
	} else if tools.IsBlank(p.Urgencia) {
		return "urgencia"
	}
	return ""
}

func (p Parecer) InvalidFields() string {
	if !tools.Contains(ParecerStatuses, p.Status) {
		return "status"
	} else if !tools.Contains(ParecerUrgencias, p.Urgencia) {
		return "urgencia"
	}
	return ""
}
