package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string  `json:"name" validate:"required,notblank"`
	Nickname *string `json:"nickname" validate:"omitempty,notblank"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestNotBlank(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Name: "Ada"}))

	err := v.Struct(sample{Name: "   "})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, TagNotBlank, verrs[0].Tag())
	assert.Equal(t, "name", verrs[0].Field())

	blank := "\t"
	err = v.Struct(sample{Name: "Ada", Nickname: &blank})
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "nickname", verrs[0].Field())
}

func TestRegisterWithGin(t *testing.T) {
	assert.NoError(t, RegisterWithGin())
}
