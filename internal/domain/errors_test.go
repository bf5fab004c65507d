package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gst-billing-api/internal/domain"
)

func TestValidationError_UnwrapsToInvalidInput(t *testing.T) {
	err := fmt.Errorf("create customer: %w", domain.NewValidationError("gstin", "has an invalid format"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "gstin", vErr.Field)
	assert.Equal(t, "invalid input: gstin has an invalid format", vErr.Error())
}
