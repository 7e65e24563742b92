package domain

import (
	"strings"
	"testing"
)

// FuzzParseKnightID checks that parsing never panics and that any accepted
// input round-trips to the same id.
func FuzzParseKnightID(f *testing.F) {
	f.Add("")
	f.Add("507f1f77bcf86cd799439011")
	f.Add("000000000000000000000000")
	f.Add("not-an-object-id")
	f.Add("'; DROP TABLE knights;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("507f1f77bcf86cd799439011\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseKnightID(input)
		if err != nil {
			return
		}
		if id.IsNil() {
			t.Error("accepted id must not be zero")
		}
		if id.String() != strings.ToLower(input) {
			t.Errorf("round-trip changed id: %q -> %q", input, id.String())
		}
	})
}
