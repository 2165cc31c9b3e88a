package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maturis/maturis/internal/shared"
	_ "github.com/maturis/maturis/testing"
)

func TestProblemCarriesTypeURIAndMediaType(t *testing.T) {
	res := httptest.NewRecorder()
	Problem(res, http.StatusForbidden, "Validation Failed", "nom is required")

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, problemTypeBase+"validation-failed", body.Type)
	assert.Equal(t, "Validation Failed", body.Title)
	assert.Equal(t, http.StatusForbidden, body.Status)
	assert.Equal(t, "nom is required", body.Detail)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{shared.ErrNotFound, http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		res := httptest.NewRecorder()
		RespondError(res, tc.err)
		assert.Equal(t, tc.status, res.Code, "error %v", tc.err)
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nom":"MANAGER"}`))
	var target struct {
		Nom string `json:"nom"`
	}
	require.NoError(t, DecodeJSON(req, &target))
	assert.Equal(t, "MANAGER", target.Nom)
}

func TestDecodeJSONCapsBodySize(t *testing.T) {
	oversized := `{"nom":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(oversized))

	var target struct {
		Nom string `json:"nom"`
	}
	assert.Error(t, DecodeJSON(req, &target))
}
