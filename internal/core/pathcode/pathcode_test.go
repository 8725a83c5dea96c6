package pathcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "A1023", "A1023"},
		{"slash", "A3422___SLASH___H", "A3422/H"},
		{"space", "A3422___SPACE___GREY", "A3422 GREY"},
		{"both", "A3422___SLASH___H___SPACE___GREY", "A3422/H GREY"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codes := []string{"A3422/H GREY", "A3422/H/GREY", "PO 2024/001", "BIN-01"}
	for _, code := range codes {
		assert.Equal(t, code, Decode(Encode(code)))
	}
}
