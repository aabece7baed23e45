package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"ulid session id", "sess_01HZX3M5V6Q8W9E0R1T2Y3U4I5", false},
		{"legacy timestamp id", "1712345678901_9f3a2b", false},
		{"autosave", "autosave", false},
		{"empty", "", true},
		{"spaces", "a b", true},
		{"path traversal", "../etc", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id, "sessionId", true)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNameHint(t *testing.T) {
	assert.Equal(t, "Research", NameHint("  Research "))
	assert.Equal(t, "", NameHint("   "))
	assert.Equal(t, "", NameHint(42))
	assert.Equal(t, "", NameHint(nil))
	assert.Len(t, []rune(NameHint(strings.Repeat("é", MaxNameLength+10))), MaxNameLength)
}
