package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationInput struct {
	Name      string `validate:"required"`
	Company   string `validate:"required"`
	ProductID string `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(&registrationInput{
		Name:      "Acme Widget",
		Company:   "Acme Co",
		ProductID: "SKU-001",
	}))

	assert.Error(t, ValidateStruct(&registrationInput{Name: "Acme Widget"}))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&registrationInput{Name: "Acme Widget"})
	require.Error(t, err)

	fields := GetValidationErrors(err)
	require.Len(t, fields, 2)

	assert.Equal(t, "company", fields[0].Field)
	assert.Equal(t, "required", fields[0].Tag)
	assert.Equal(t, "Company is required", fields[0].Message)

	assert.Equal(t, "productid", fields[1].Field)
	assert.Equal(t, "ProductID is required", fields[1].Message)
}

func TestGetValidationErrorsNonValidatorError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(assert.AnError))
}
