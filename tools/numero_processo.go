package tools

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
)

var numeroProcessoRe = regexp.MustCompile(`^[A-Z]{2,4}-\d{4}-\d{3,6}$`)

const prefixoPadrao = "PROC"
const maxSequencial = 999999

// tiposProcesso mapeia o tipo informado pelo usuário para o prefixo do número.
var tiposProcesso = map[string]string{
	"IPM":                 "IPM",
	"IP":                  "IP",
	"INQUERITO_POLICIAL":  "IP",
	"SIND":                "SIND",
	"SINDICANCIA":         "SIND",
	"PAD":                 "PAD",
	"CD":                  "CD",
	"CONSELHO_DISCIPLINA": "CD",
	"APF":                 "APF",
}

var acentos = strings.NewReplacer(
	"Á", "A", "À", "A", "Â", "A", "Ã", "A",
	"É", "E", "Ê", "E",
	"Í", "I",
	"Ó", "O", "Ô", "O", "Õ", "O",
	"Ú", "U",
	"Ç", "C",
)

func normalizarTipo(tipo string) string {
	t := strings.ToUpper(strings.TrimSpace(tipo))
	t = acentos.Replace(t)
	t = strings.ReplaceAll(t, " DE ", "_")
	t = strings.ReplaceAll(t, " ", "_")
	return t
}

func IsTipoProcessoValido(tipo string) bool {
	_, ok := tiposProcesso[normalizarTipo(tipo)]
	return ok
}

// PrefixoProcesso devolve o código de 2 a 4 letras do tipo ("PROC" para tipos desconhecidos).
func PrefixoProcesso(tipo string) string {
	if p, ok := tiposProcesso[normalizarTipo(tipo)]; ok {
		return p
	}
	return prefixoPadrao
}

func ValidateNumeroProcesso(numero string) bool {
	return numeroProcessoRe.MatchString(numero)
}

// FormatNumeroProcesso monta PREFIXO-AAAA-NNN. O sequencial tem no mínimo 3 e no máximo 6 dígitos.
func FormatNumeroProcesso(tipo string, ano int, seq int) string {
	if seq < 1 {
		seq = 1
	}
	if seq > maxSequencial {
		seq = maxSequencial
	}
	if ano < 1000 || ano > 9999 {
		ano = time.Now().Year()
	}
	return fmt.Sprintf("%s-%04d-%03d", PrefixoProcesso(tipo), ano, seq)
}

// GerarNumeroProcesso devolve o próximo número livre para o tipo no ano de now.
func GerarNumeroProcesso(db *gorm.DB, tipo string, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%04d-", PrefixoProcesso(tipo), now.Year())

	var numeros []string
	if err := db.Table("processos").
		Where("numero_processo LIKE ?", prefix+"%").
		Pluck("numero_processo", &numeros).Error; err != nil {
		return "", fmt.Errorf("buscar números existentes: %w", err)
	}

	max := 0
	for _, n := range numeros {
		seq, err := strconv.Atoi(strings.TrimPrefix(n, prefix))
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	if max >= maxSequencial {
		return "", fmt.Errorf("sequencial esgotado para %s", prefix)
	}
	return FormatNumeroProcesso(tipo, now.Year(), max+1), nil
}
