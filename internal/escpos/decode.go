package escpos

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Decode unpacks a base64 command buffer into raw device bytes.
func Decode(b64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("escpos: decode command buffer: %w", err)
	}
	return raw, nil
}

// Control bytes given literal markers in previews.
const (
	lf  = 0x0A
	esc = 0x1B
	gs  = 0x1D
)

// ToText converts a raw command buffer into a human-readable approximation
// for on-screen preview: printable ASCII passes through, line feeds become
// newlines, ESC and GS render as literal markers, and every other control
// or parameter byte is dropped.
func ToText(raw []byte) string {
	var b strings.Builder
	for _, c := range raw {
		switch {
		case c >= 32 && c <= 126:
			b.WriteByte(c)
		case c == lf:
			b.WriteByte('\n')
		case c == esc:
			b.WriteString("[ESC]")
		case c == gs:
			b.WriteString("[GS]")
		}
	}
	return b.String()
}
