package appointment

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/equilibrar/core"
)

var (
	modalityTag  = "modality"
	modalityText = "invalid modality"
)

func init() {
	_ = core.Validate.RegisterValidation(modalityTag, modalityValidation)
	core.RegisterCustomTranslation(modalityTag, modalityText)
}

func modalityValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case ModalityTeleconsulta, ModalityPresencial:
		return true
	}
	return false
}
