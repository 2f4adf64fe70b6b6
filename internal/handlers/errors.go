package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/joshua-takyi/nearwork/internal/helpers"
	"github.com/joshua-takyi/nearwork/internal/models"
)

// respondError maps the store's error taxonomy onto HTTP statuses. Storage
// failures are attached to the context so the error middleware logs them.
func respondError(c *gin.Context, err error) {
	var (
		ve *models.ValidationError
		ce *models.ConflictError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, helpers.FieldErrorResponse(ve.Field, ve.Error()))
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, helpers.ErrorResponse(ce.Error()))
	default:
		_ = c.Error(err)
		requestID, _ := c.Get("request_id")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// respondBindError reports a request body that failed to decode or bind.
func respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Field()
		c.JSON(http.StatusBadRequest, helpers.FieldErrorResponse(field, describeFieldError(field, fe)))
		return
	}
	c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request body: "+err.Error()))
}

var registerOnce sync.Once

// RegisterValidation makes gin's validator report JSON field names, so bind
// errors name the field the client actually sent, and adds the notblank tag.
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

func describeFieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
