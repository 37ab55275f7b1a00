package response_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookrental/internal/api/handler/v1/response"
)

func TestErrWrongCredentialsMasksCause(t *testing.T) {
	err := response.ErrWrongCredentials()

	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.Equal(t, "wrong credentials", err.Msg)
}

func TestErrBadRequestCarriesMessage(t *testing.T) {
	err := response.ErrBadRequest(errors.New("days must be one of 3, 5, 7"))

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "days must be one of 3, 5, 7", err.Msg)
}

func TestErrNotFoundNamesResourceAndKey(t *testing.T) {
	err := response.ErrNotFound("rental", "ID", 42)

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "rental with ID (42) not found", err.Msg)
}
