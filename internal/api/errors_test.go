package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/service"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		badRequest []error
		status     int
	}{
		{"validation", &service.ValidationError{Field: "name", Message: "required"}, nil, http.StatusBadRequest},
		{"not found", service.ErrRecipeNotFound, nil, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", service.ErrTagNotFound), nil, http.StatusNotFound},
		{"payload not found", fmt.Errorf("ingredient 7: %w", service.ErrIngredientNotFound), []error{service.ErrIngredientNotFound}, http.StatusBadRequest},
		{"conflict", service.ErrAlreadyMember, nil, http.StatusBadRequest},
		{"forbidden", service.ErrNotAuthor, nil, http.StatusForbidden},
		{"unauthenticated", service.ErrUnauthenticated, nil, http.StatusUnauthorized},
		{"bad credentials", service.ErrInvalidCredentials, []error{service.ErrInvalidCredentials}, http.StatusBadRequest},
		{"unexpected", errors.New("disk on fire"), nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err, tt.badRequest...)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("password=hunter2"))
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
}
