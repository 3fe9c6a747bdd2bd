package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=1"`
}

func TestValidate_Passes(t *testing.T) {
	err := Validate(signupForm{Email: "abebe@example.com", Password: "long-enough"})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(signupForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])

	assert.Contains(t, valErr.Error(), "field 'Email'")
	assert.Contains(t, valErr.Error(), "field 'Password'")
}

func TestDecodeAndValidate(t *testing.T) {
	body := []byte(`{"email": "abebe@example.com", "password": "long-enough", "quantity": 2}`)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))

	var form signupForm
	require.NoError(t, DecodeAndValidate(req, &form))
	assert.Equal(t, "abebe@example.com", form.Email)
	assert.Equal(t, 2, form.Quantity)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{broken`)))

	var form signupForm
	err := DecodeAndValidate(req, &form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidatesAfterDecode(t *testing.T) {
	body := []byte(`{"email": "abebe@example.com", "password": "long-enough", "quantity": 0}`)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))

	var form signupForm
	// omitempty skips the zero value, so 0 quantity decodes cleanly.
	assert.NoError(t, DecodeAndValidate(req, &form))

	body = []byte(`{"email": "nope", "password": "long-enough"}`)
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	var form2 signupForm
	assert.Error(t, DecodeAndValidate(req, &form2))
}
