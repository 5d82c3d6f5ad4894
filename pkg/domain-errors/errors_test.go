package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	err := New(CodeInvalidInput, "channel is not valid")

	assert.True(t, HasCode(err, CodeInvalidInput))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(nil, CodeInvalidInput))
	assert.False(t, HasCode(errors.New("plain"), CodeInvalidInput))
}

func TestHasCode_WrappedChain(t *testing.T) {
	err := fmt.Errorf("load profile: %w", New(CodeNotFound, "profile not found"))

	assert.True(t, HasCode(err, CodeNotFound))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeUnauthorized, CodeOf(New(CodeUnauthorized, "no token")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")), "uncoded errors map to internal")
}
