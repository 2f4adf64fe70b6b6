package helpers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
	Count   int    `json:"count,omitempty"`
}

func SuccessResponse(data any, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func FieldErrorResponse(field, err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
		Field:   field,
	}
}

// StringTrim strips whitespace and the quotes clients leave around values
// templated into URLs.
func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

// ParseFloatParam parses a finite query value. ok is false when the value is
// absent; NaN and infinities are rejected like any other malformed number.
func ParseFloatParam(raw string) (value float64, ok bool, err error) {
	raw = StringTrim(raw)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, true, fmt.Errorf("%q is not a number", raw)
	}
	return value, true, nil
}
