package tools

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject tenta ler um objeto JSON de uma resposta de modelo.
// Aceita blocos ```json ... ``` e texto antes/depois do objeto.
func ExtractJSONObject(text string) (map[string]any, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, false
	}

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimPrefix(s, "JSON")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err == nil && out != nil {
		return out, true
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	out = nil
	if err := json.Unmarshal([]byte(s[start:end+1]), &out); err != nil || out == nil {
		return nil, false
	}
	return out, true
}
