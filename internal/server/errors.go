// Package server provides the HTTP REST API for the synthetic data service.
package server

import (
	"errors"
	"net/http"

	"github.com/singularsity/synthd/internal/generator"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validationErr *generator.ValidationError
		unknownErr    *generator.UnknownProviderError
		generationErr *generator.GenerationError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &unknownErr):
		return http.StatusBadRequest
	case errors.As(err, &generationErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
