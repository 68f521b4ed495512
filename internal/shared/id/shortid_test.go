package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequestID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		sid, err := NewServiceRequestID()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sid, "sr_"))
		assert.Len(t, sid, len("sr_")+DefaultLength)
		assert.NoError(t, ValidatePrefix(sid, PrefixServiceRequest))
		assert.False(t, seen[sid], "duplicate id %s", sid)
		seen[sid] = true
	}
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"sr_abc123XYZ", false},
		{"sr_", true},
		{"fa_abc", true},
		{"nounderscore", true},
		{"sr_abc-123", true},
		{"sr_../../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidatePrefix(tt.input, PrefixServiceRequest)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
