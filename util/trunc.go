package util

// TruncateRightWithSuffix keeps the first n runes of text and only appends the suffix if truncation happens.
func TruncateRightWithSuffix(text string, n int, suffix string) string {
	if n <= 0 {
		return suffix
	}

	rs := []rune(text)
	if len(rs) <= n {
		return text
	}

	return string(rs[:n]) + suffix
}
