package request

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sheba-pos/outlet-gateway/internal/domain/enum"
)

// RegisterValidations installs the voucher form rules on gin's validator
// engine. Must run once before the router serves requests.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine is not *validator.Validate")
	}
	if err := v.RegisterValidation("paymentmode", func(fl validator.FieldLevel) bool {
		return enum.PaymentMode(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("bankname", func(fl validator.FieldLevel) bool {
		return enum.Bank(fl.Field().String()).Valid()
	})
}
