package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/dto/response"
	"github.com/sheba-pos/outlet-gateway/pkg/apperror"
)

// bindingFieldErrors translates validator failures from gin's binding into
// the response field-error shape. Returns nil for non-validator errors.
func bindingFieldErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperror.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: bindingMessage(fe),
		})
	}
	return fields
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for bank payments"
	case "paymentmode":
		return "must be one of cash, bank, cheque"
	case "bankname":
		return "must be a supported bank"
	case "min":
		return "must be at least " + fe.Param()
	case "datetime":
		return "must be a calendar date (YYYY-MM-DD)"
	}
	return "is invalid"
}

// sessionID parses the :id route parameter. On failure it writes the error
// response and reports false.
func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session id")
		return uuid.Nil, false
	}
	return id, true
}
