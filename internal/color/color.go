// Package color converts stored color strings to renderer-native values
// and back. The scene stores colors as "#rrggbb" strings; the renderer
// wants packed 0xRRGGBB integers.
package color

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// HexToValue parses a "#rrggbb" (or "#rgb") string into a packed 0xRRGGBB
// value. An unparsable string returns fallback instead of an error: a bad
// settings value must never abort a gesture.
func HexToValue(hex string, fallback uint32) uint32 {
	c, err := parse(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// ValueToHex formats a packed 0xRRGGBB value as a "#rrggbb" string.
func ValueToHex(v uint32) string {
	return fmt.Sprintf("#%06x", v&0xffffff)
}

// IsValidHex reports whether s parses as a hex color.
func IsValidHex(s string) bool {
	_, err := parse(s)
	return err == nil
}

func parse(s string) (colorful.Color, error) {
	if len(s) == 4 && s[0] == '#' {
		// expand #rgb to #rrggbb, which colorful does not accept
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return colorful.Hex(s)
}
