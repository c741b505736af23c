package ecdsarecover

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// EncodeHex returns b as lowercase hex, two digits per byte, without a 0x
// prefix.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex decodes hex text. A leading 0x or 0X is stripped first; both
// upper and lower case digits are accepted.
func DecodeHex(text string) ([]byte, error) {
	s := trimHexPrefix(text)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of hex digits (%d)", ErrMalformedHex, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHex, err)
	}
	return b, nil
}

// DecodeHexFixed decodes hex text that must hold exactly size bytes.
func DecodeHexFixed(text string, size int) ([]byte, error) {
	b, err := DecodeHex(text)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedHex, size, len(b))
	}
	return b, nil
}

func trimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
