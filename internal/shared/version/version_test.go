package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "v1.2.3", Normalize("1.2.3"))
	assert.Equal(t, "v1.2.3", Normalize(" v1.2.3 "))
	assert.Equal(t, "", Normalize(""))
}

func TestIsRelease(t *testing.T) {
	tests := map[string]bool{
		"v1.4.0":        true,
		"1.4.0":         true,
		"v1.4.0-rc.1":   false,
		"dev":           false,
		"":              false,
		"not-a-version": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsRelease(in), in)
	}
}

func TestGet(t *testing.T) {
	old := Current
	t.Cleanup(func() { Current = old })

	Current = "v2.0.1"
	assert.Equal(t, Info{Version: "v2.0.1", Release: true}, Get())
}
