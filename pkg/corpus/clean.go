package corpus

import (
	"fmt"
	"os"
)

// Clean replaces every non-printable byte in b with a space, in place, and
// returns b. Length is preserved, so offsets into the text stay valid.
// Printable means the ASCII range 0x20..0x7E; CR and LF are therefore
// scrubbed too, which is fine since they are token delimiters anyway.
// Cleaning must happen strictly before tokenization: tokens reference the
// text's memory and the text must never change under them.
func Clean(b []byte) []byte {
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			b[i] = ' '
		}
	}
	return b
}

// CleanString returns a cleaned copy of s.
func CleanString(s string) string {
	return string(Clean([]byte(s)))
}

// Load reads the corpus file at path and returns its cleaned contents.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read corpus file: %w", err)
	}
	return string(Clean(data)), nil
}
