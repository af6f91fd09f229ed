package tools

import (
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumeroProcesso_MatchesPattern(t *testing.T) {
	tipos := []string{"IPM", "ip", "Sindicância", "PAD", "Conselho de Disciplina", "APF", "desconhecido", ""}
	seqs := []int{-5, 0, 1, 7, 42, 999, 1000, 123456, 999999, 5000000}

	for _, tipo := range tipos {
		for _, seq := range seqs {
			n := FormatNumeroProcesso(tipo, 2026, seq)
			assert.Truef(t, ValidateNumeroProcesso(n), "%q (tipo=%q seq=%d) fora do padrão", n, tipo, seq)
		}
	}
}

func TestFormatNumeroProcesso_Prefixos(t *testing.T) {
	assert.Equal(t, "IPM-2026-001", FormatNumeroProcesso("IPM", 2026, 1))
	assert.Equal(t, "SIND-2026-012", FormatNumeroProcesso("sindicancia", 2026, 12))
	assert.Equal(t, "CD-2025-1234", FormatNumeroProcesso("Conselho de Disciplina", 2025, 1234))
	assert.Equal(t, "IP-2024-777", FormatNumeroProcesso("Inquérito Policial", 2024, 777))
	assert.Equal(t, "PAD-2026-999999", FormatNumeroProcesso("PAD", 2026, 5000000))
	assert.Equal(t, "PROC-2026-003", FormatNumeroProcesso("outro", 2026, 3))
}

func TestValidateNumeroProcesso(t *testing.T) {
	assert.True(t, ValidateNumeroProcesso("IPM-2026-001"))
	assert.True(t, ValidateNumeroProcesso("SIND-2026-123456"))
	assert.False(t, ValidateNumeroProcesso("I-2026-001"))
	assert.False(t, ValidateNumeroProcesso("IPMXX-2026-001"))
	assert.False(t, ValidateNumeroProcesso("IPM-26-001"))
	assert.False(t, ValidateNumeroProcesso("IPM-2026-01"))
	assert.False(t, ValidateNumeroProcesso("IPM-2026-1234567"))
	assert.False(t, ValidateNumeroProcesso("ipm-2026-001"))
}

func TestIsTipoProcessoValido(t *testing.T) {
	assert.True(t, IsTipoProcessoValido("IPM"))
	assert.True(t, IsTipoProcessoValido(" pad "))
	assert.True(t, IsTipoProcessoValido("Sindicância"))
	assert.False(t, IsTipoProcessoValido("TCO"))
}

func TestGerarNumeroProcesso_Sequencial(t *testing.T) {
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.DB().SetMaxOpenConns(1)

	require.NoError(t, db.Exec("CREATE TABLE processos (id integer primary key, numero_processo text)").Error)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	n, err := GerarNumeroProcesso(db, "IPM", now)
	require.NoError(t, err)
	assert.Equal(t, "IPM-2026-001", n)

	require.NoError(t, db.Exec("INSERT INTO processos (numero_processo) VALUES (?), (?), (?)",
		"IPM-2026-001", "IPM-2026-007", "PAD-2026-050").Error)

	n, err = GerarNumeroProcesso(db, "IPM", now)
	require.NoError(t, err)
	assert.Equal(t, "IPM-2026-008", n)

	n, err = GerarNumeroProcesso(db, "PAD", now)
	require.NoError(t, err)
	assert.Equal(t, "PAD-2026-051", n)

	n, err = GerarNumeroProcesso(db, "IPM", now.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "IPM-2027-001", n)
	assert.True(t, ValidateNumeroProcesso(n))
}
