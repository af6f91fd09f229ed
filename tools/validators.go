package tools

import (
	"regexp"
	"strings"
	"time"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const DateLayout = "2006-01-02"

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// CheckPassword devolve o nome do campo inválido ("" quando ok).
func CheckPassword(password string) string {
	if len(password) < 6 {
		return "password"
	}
	return ""
}

// ValidateDate aceita datas no formato YYYY-MM-DD.
func ValidateDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsBlank trata string só com espaços como vazia.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func Contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
