package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionForUnits(t *testing.T) {
	assert.Equal(t, ActionBuy, ActionForUnits(5))
	assert.Equal(t, ActionBuy, ActionForUnits(0.00002))
	assert.Equal(t, ActionSell, ActionForUnits(-3.5))
	assert.Equal(t, ActionSell, ActionForUnits(0))
}

func TestErrorKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("portfolio %s: %w", "p1", ErrNotFound)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "not found")
}

func TestWrapPersistence(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapPersistence("insert portfolio", cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert portfolio")
	assert.NoError(t, WrapPersistence("noop", nil))
}
