package tools

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"
)

const InstrucoesTipificacao = `Você é um assistente jurídico especializado em direito penal militar, direito penal comum e direito administrativo disciplinar brasileiro.
Analise o fato descrito e proponha a tipificação.
Responda SOMENTE com um objeto JSON, sem texto adicional, no formato:
{
  "tipificacao_principal": "string",
  "natureza": "crime_militar | crime_comum | transgressao_disciplinar | indeterminada",
  "artigos": [{"dispositivo": "string", "diploma": "string", "descricao": "string"}],
  "tipificacoes_alternativas": ["string"],
  "fundamentacao": "string",
  "observacoes": "string"
}`

const InstrucoesRelatorio = `Você é um assistente de encarregados de procedimentos investigativos militares e policiais.
Com base nos dados do processo, redija o relatório final.
Responda SOMENTE com um objeto JSON, sem texto adicional, no formato:
{
  "titulo": "string",
  "resumo": "string",
  "fatos": "string",
  "diligencias_realizadas": ["string"],
  "analise": "string",
  "conclusao": "string",
  "recomendacoes": ["string"]
}`

var tipificacaoTmpl = template.Must(template.New("tipificacao").Parse(
	`Descrição do fato:
{{.Descricao}}
{{if .Contexto}}
Contexto adicional:
{{.Contexto}}
{{end}}`))

var relatorioTmpl = template.Must(template.New("relatorio").Parse(
	`Dados do processo (JSON):
{{.Dados}}
`))

func PromptTipificacao(descricao string, contexto string) (string, error) {
	var buf bytes.Buffer
	err := tipificacaoTmpl.Execute(&buf, struct {
		Descricao string
		Contexto  string
	}{strings.TrimSpace(descricao), strings.TrimSpace(contexto)})
	return buf.String(), err
}

func PromptRelatorio(dados json.RawMessage) (string, error) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, dados, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(dados)
	}
	var buf bytes.Buffer
	err := relatorioTmpl.Execute(&buf, struct{ Dados string }{pretty.String()})
	return buf.String(), err
}

// TipificacaoFallback é devolvida quando a resposta do modelo não é JSON.
func TipificacaoFallback(raw string) map[string]any {
	return map[string]any{
		"tipificacao_principal":     "Não foi possível interpretar a resposta do modelo",
		"natureza":                  "indeterminada",
		"artigos":                   []any{},
		"tipificacoes_alternativas": []any{},
		"fundamentacao":             raw,
		"observacoes":               "Revise manualmente a tipificação sugerida.",
		"parse_error":               true,
	}
}

// RelatorioFallback devolve o texto bruto quando o modelo não respondeu JSON.
func RelatorioFallback(raw string) map[string]any {
	return map[string]any{
		"formato":   "texto",
		"relatorio": raw,
	}
}
