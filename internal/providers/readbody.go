package providers

import (
	"io"
	"strings"
)

const excerptLimit = 512

// Excerpt reads at most a short prefix of a response body for error messages.
func Excerpt(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, excerptLimit))
	return strings.TrimSpace(string(b))
}
