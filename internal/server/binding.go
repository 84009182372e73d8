package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeValid decodes the request body into dest and runs struct
// validation, writing the 400 response itself on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := readJSON(r.Body, dest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dest); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) || len(invalid) == 0 {
		return "invalid request body"
	}
	parts := make([]string, 0, len(invalid))
	for _, fieldErr := range invalid {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
	}
	return strings.Join(parts, "; ")
}
