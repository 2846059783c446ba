package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorStatuses(t *testing.T) {
	cases := []struct {
		err        *Error
		wantCode   string
		wantStatus int
	}{
		{Validation(nil), CodeValidation, http.StatusBadRequest},
		{NotFound("order"), CodeNotFound, http.StatusNotFound},
		{Conflict("email already registered"), CodeConflict, http.StatusConflict},
		{Forbidden("tenant is not active"), CodeForbidden, http.StatusForbidden},
		{Unauthorized("invalid credentials"), CodeUnauthorized, http.StatusUnauthorized},
		{ProductUnavailable(), CodeProductUnavailable, http.StatusBadRequest},
		{InvalidTransition("PENDING", "READY"), CodeInvalidTransition, http.StatusConflict},
		{Provider("payment provider unreachable", nil), CodeProvider, http.StatusBadGateway},
		{Internal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.wantCode, tc.err.Code)
		assert.Equal(t, tc.wantStatus, tc.err.Status, tc.wantCode)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Provider("payment provider unreachable", cause)

	assert.Contains(t, err.Error(), "payment provider unreachable")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))

	assert.Equal(t, "order not found", NotFound("order").Error())
}

func TestAsPassesThroughAppErrors(t *testing.T) {
	orig := NotFound("product")
	assert.Same(t, orig, As(orig))

	wrapped := fmt.Errorf("loading menu: %w", orig)
	assert.Same(t, orig, As(wrapped))
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	err := As(errors.New("driver: bad connection"))
	assert.Equal(t, CodeInternal, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.ErrorContains(t, err, "bad connection")
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition("DELIVERED", "PENDING")
	assert.Equal(t, "cannot transition order from DELIVERED to PENDING", err.Message)
}
