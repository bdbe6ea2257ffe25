package web

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// msisdnPattern accepts tel-URI style numbers as used by the CAMARA APIs,
// e.g. "tel:+5511123456789". A bare "+<digits>" is also accepted.
var msisdnPattern = regexp.MustCompile(`^(tel:)?\+[1-9][0-9]{4,14}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
			return msisdnPattern.MatchString(fl.Field().String())
		})
	}
}
