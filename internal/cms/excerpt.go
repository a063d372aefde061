package cms

const (
	excerptLength = 150
	ellipsis      = "..."
)

// Excerpt returns the first 150 characters of s followed by an ellipsis,
// or s itself when it is not longer than that.
func Excerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= excerptLength {
		return s
	}

	return string(runes[:excerptLength]) + ellipsis
}
