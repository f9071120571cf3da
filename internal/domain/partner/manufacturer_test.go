package partner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnspecifiedName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		unspecified bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"dash", "-", true},
		{"korean none", "없음", true},
		{"korean undecided", "미정", true},
		{"english none", "none", true},
		{"english none uppercase", "NONE", true},
		{"padded placeholder", "  미정  ", true},
		{"real name", "Acme", false},
		{"name containing placeholder", "none industries", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unspecified, IsUnspecifiedName(tt.input))
		})
	}
}

func TestNewManufacturer(t *testing.T) {
	t.Run("creates with normalized key", func(t *testing.T) {
		m, err := NewManufacturer("  Acme Corp  ")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", m.Name)
		assert.Equal(t, "acme corp", m.NameKey)
		assert.NotEqual(t, m.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("rejects placeholder names", func(t *testing.T) {
		for _, name := range []string{"", "-", "없음", "미정", "none", "  "} {
			_, err := NewManufacturer(name)
			assert.Error(t, err, "name %q should be rejected", name)
		}
	})

	t.Run("rejects overlong names", func(t *testing.T) {
		_, err := NewManufacturer(strings.Repeat("a", 201))
		assert.Error(t, err)
	})
}

func TestUpdateContact(t *testing.T) {
	m, err := NewManufacturer("Acme")
	require.NoError(t, err)

	m.UpdateContact(" Kim ", " 010-1234-5678 ", " kim@acme.example ")
	assert.Equal(t, "Kim", m.ContactName)
	assert.Equal(t, "010-1234-5678", m.Phone)
	assert.Equal(t, "kim@acme.example", m.Email)
}
