package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	cases := map[string]string{
		"puro":      `{"tipificacao_principal":"Furto"}`,
		"cerca":     "```json\n{\"tipificacao_principal\":\"Furto\"}\n```",
		"com texto": "Segue a análise:\n{\"tipificacao_principal\":\"Furto\"}\nAtenciosamente.",
		"cerca nua": "```\n{\"tipificacao_principal\":\"Furto\"}\n```",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out, ok := ExtractJSONObject(in)
			require.True(t, ok)
			assert.Equal(t, "Furto", out["tipificacao_principal"])
		})
	}
}

func TestExtractJSONObject_Falha(t *testing.T) {
	for _, in := range []string{"", "texto livre sem json", "{quebrado", "[1,2,3]", "} ao contrário {"} {
		_, ok := ExtractJSONObject(in)
		assert.Falsef(t, ok, "entrada %q", in)
	}
}

func TestFallbacks(t *testing.T) {
	tip := TipificacaoFallback("resposta crua")
	assert.Equal(t, "resposta crua", tip["fundamentacao"])
	assert.Equal(t, true, tip["parse_error"])

	rel := RelatorioFallback("texto do relatório")
	assert.Equal(t, "texto", rel["formato"])
	assert.Equal(t, "texto do relatório", rel["relatorio"])
}

func TestPromptTipificacao(t *testing.T) {
	p, err := PromptTipificacao("  subtraiu arma da reserva  ", "militar em serviço")
	require.NoError(t, err)
	assert.Contains(t, p, "subtraiu arma da reserva")
	assert.Contains(t, p, "Contexto adicional:")

	p, err = PromptTipificacao("fato", "")
	require.NoError(t, err)
	assert.NotContains(t, p, "Contexto adicional:")
}

func TestPromptRelatorio(t *testing.T) {
	p, err := PromptRelatorio([]byte(`{"numero_processo":"IPM-2026-001"}`))
	require.NoError(t, err)
	assert.Contains(t, p, `"numero_processo": "IPM-2026-001"`)
}
