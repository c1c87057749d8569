package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsContactEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"jane@example.com", true},
		{"a@b.c", true},
		{"first.last+tag@sub.example.co.uk", true},
		{"notanemail", false},
		{"a@b", false},
		{"a@.com", false},
		{"@example.com", false},
		{"jane@", false},
		{"ja ne@example.com", false},
		{"jane@exa mple.com", false},
		{"jane@@example.com", false},
		{"jane,doe@example.com", false},
		{"jane<x@example.com", false},
		{"Jane<jane@example.com>", false},
		{"jane\u00a0doe@example.com", false},
		{"jane\vdoe@example.com", false},
		{"jane@example.com\u2003", false},
		{"o'brien@example.ie", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsContactEmail(tt.email))
		})
	}
}

type sample struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,contact_email"`
	Phone   string
	Purpose string `validate:"required"`
}

func TestValidatorTags(t *testing.T) {
	v := New()

	t.Run("missing fields", func(t *testing.T) {
		err := v.Struct(sample{Email: "jane@example.com"})
		assert.True(t, HasTag(err, "required"))
		assert.False(t, HasTag(err, "contact_email"))
		assert.ElementsMatch(t, []string{"Name: is required", "Message: is required"}, FormatValidationErrors(err))
	})

	t.Run("bad email", func(t *testing.T) {
		err := v.Struct(sample{Name: "Jane", Email: "a@b", Purpose: "Hi"})
		assert.False(t, HasTag(err, "required"))
		assert.True(t, HasTag(err, "contact_email"))
	})

	t.Run("phone is optional", func(t *testing.T) {
		assert.NoError(t, v.Struct(sample{Name: "Jane", Email: "jane@example.com", Purpose: "Hi"}))
	})

	t.Run("non validation error", func(t *testing.T) {
		assert.False(t, HasTag(assert.AnError, "required"))
		assert.Equal(t, []string{assert.AnError.Error()}, FormatValidationErrors(assert.AnError))
	})
}
