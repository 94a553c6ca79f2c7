package storage

import "strings"

// EscapeFilter escapes the text of a filter for the filters section.
// Every "[" is written as "\[" so that filter lines are never mistaken for section headers.
func EscapeFilter(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	return strings.ReplaceAll(text, "[", `\[`)
}

// UnescapeFilter reverses EscapeFilter by dropping every backslash directly followed by "[".
func UnescapeFilter(line string) string {
	if !strings.Contains(line, `\[`) {
		return line
	}
	return strings.ReplaceAll(line, `\[`, "[")
}
