package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"empty", "", 10, ""},
		{"zero max", "anything", 0, "..."},
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", `{"message":"TF401232: Work item 12 does not exist"}`, 12, `{"message":"...`},
		{"multibyte", "привет мир", 6, "привет..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateForLog(tt.input, tt.maxLen))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "o***@example.com", MaskEmail("olive@example.com"))
	assert.Equal(t, "a***@example.com", MaskEmail("a@example.com"))
	assert.Equal(t, "***@example.com", MaskEmail("@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-address"))
}
