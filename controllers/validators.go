package controllers

import (
	"sync"

	"nobilis/tools"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

var registerOnce sync.Once

// RegisterValidators registra no engine do gin as tags "numero_processo" e "data" usadas nos models.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Warn("engine de validação do gin não é go-playground/validator; tags customizadas ignoradas")
			return
		}
		_ = v.RegisterValidation("numero_processo", func(fl validator.FieldLevel) bool {
			return tools.ValidateNumeroProcesso(fl.Field().String())
		})
		_ = v.RegisterValidation("data", func(fl validator.FieldLevel) bool {
			return tools.ValidateDate(fl.Field().String())
		})
	})
}
