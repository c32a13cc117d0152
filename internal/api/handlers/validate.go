package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"EcoUrban/internal/api/models"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds the request with bind, fills `default` tags and runs
// `validate` tags. On failure it writes a 400 envelope and returns false.
func bindAndValidate(c *gin.Context, req interface{}, bind func(interface{}) error) bool {
	if err := bind(req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return false
	}
	if err := defaults.Set(req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewError("INVALID_REQUEST", err.Error()))
		return false
	}
	if err := validate.StructCtx(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, validationError(err))
		return false
	}
	return true
}

func validationError(err error) models.ErrorResponse {
	resp := models.NewError("VALIDATION_ERROR", err.Error())

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return resp
	}
	fields := make([]map[string]interface{}, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msg := fieldMessage(fe)
		messages = append(messages, msg)
		fields = append(fields, map[string]interface{}{
			"field":   fe.Field(),
			"code":    "ERR_" + strings.ToUpper(fe.Tag()),
			"message": msg,
		})
	}
	resp.Error.Message = strings.Join(messages, "; ")
	resp.Error.Details = map[string]interface{}{"fields": fields}
	return resp
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
