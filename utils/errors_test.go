package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad input"), http.StatusBadRequest},
		{&InvalidGoalError{Goal: -1}, http.StatusBadRequest},
		{UserNotFoundError(), http.StatusNotFound},
		{&AuthError{Msg: "nope"}, http.StatusUnauthorized},
		{&PremiumRequiredError{}, http.StatusForbidden},
		{&UpstreamError{Service: "openai", Err: errors.New("timeout")}, http.StatusBadGateway},
		{errors.New("who knows"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "%v", tc.err)
	}

	// wrapped taxonomy errors still map
	wrapped := fmt.Errorf("outer: %w", UserNotFoundError())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestClientMessage(t *testing.T) {
	// upstream bodies never reach the client
	up := &UpstreamError{Service: "openai", Err: errors.New("secret internal detail")}
	assert.NotContains(t, ClientMessage(up), "secret")

	assert.Equal(t, "internal error", ClientMessage(errors.New("pq: relation gone")))
	assert.Equal(t, "user not found", ClientMessage(UserNotFoundError()))
}
