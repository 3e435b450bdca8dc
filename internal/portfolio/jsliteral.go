package portfolio

import (
	"fmt"
	"regexp"
)

// ExtractObject returns the object literal assigned to `const|let|var <name> = {`.
// Braces inside strings and comments are ignored.
func ExtractObject(src, name string) (string, error) {
	re, err := regexp.Compile(`\b(?:const|let|var)\s+` + regexp.QuoteMeta(name) + `\s*=\s*\{`)
	if err != nil {
		return "", fmt.Errorf("bad variable name %q: %w", name, err)
	}
	loc := re.FindStringIndex(src)
	if loc == nil {
		return "", fmt.Errorf("object literal %q not found", name)
	}

	start := loc[1] - 1 // '{'
	end, err := matchBrace(src, start)
	if err != nil {
		return "", fmt.Errorf("object literal %q: %w", name, err)
	}
	return src[start : end+1], nil
}

// matchBrace returns the index of the '}' closing the '{' at start
func matchBrace(src string, start int) (int, error) {
	depth := 0
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'', '`':
			i = skipString(src, i, c)
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			} else if i+1 < len(src) && src[i+1] == '*' {
				i += 2
				for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
					i++
				}
				i++
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced braces")
}

// skipString returns the index of the closing quote
func skipString(src string, i int, quote byte) int {
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(src)
}
