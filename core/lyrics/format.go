package lyrics

import "strings"

// Format fits text into width characters. Longer text is cut, shorter text
// is centered with spaces, the odd space going to the right. A width of zero
// or less leaves text untouched.
func Format(text string, width int) string {
	if width <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) >= width {
		return string(runes[:width])
	}

	deficit := width - len(runes)
	left := deficit / 2
	right := deficit - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}
