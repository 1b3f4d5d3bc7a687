package validator

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func TestFields(t *testing.T) {
	err := validator.New().Struct(loginForm{Email: "not-an-email"})

	assert.Equal(t, map[string]string{
		"email":    "email",
		"password": "required",
	}, Fields(err))
}

func TestFields_NotValidationError(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)

	assert.Nil(t, Fields(err))
	assert.Nil(t, Fields(nil))
}
