// internal/interfaces/http/handlers/validators.go
package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/your-org/spice-storefront/internal/domain/payment"
)

// RegisterValidators adds the payment_method and payment_status tags to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		_, err := payment.ParseMethod(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	return v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		_, err := payment.ParseStatus(fl.Field().String())
		return err == nil
	})
}
