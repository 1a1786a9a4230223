package models

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingErrorMessageTranslatesValidation(t *testing.T) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(&LoginRequest{Role: RoleCitizen, Email: "not-an-email", Password: "x"})
	require.Error(t, err)

	msg := BindingErrorMessage(err)
	assert.Contains(t, msg, "Email")
	assert.NotContains(t, msg, "Field validation")
}

func TestBindingErrorMessagePassthrough(t *testing.T) {
	assert.Equal(t, "unexpected EOF", BindingErrorMessage(fmt.Errorf("unexpected EOF")))
}

func TestValidatePasswordBounds(t *testing.T) {
	assert.Error(t, ValidatePassword("abc"))
	assert.Error(t, ValidatePassword("averyveryverylongpassword"))
	assert.NoError(t, ValidatePassword("secret12"))
}
