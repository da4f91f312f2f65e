package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameRunes = 120

// SanitizeFileName flattens path separators and control characters and caps
// the length, keeping the extension. Traversal patterns are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", errors.New("invalid file name")
	}
	if runes := []rune(s); len(runes) > maxFileNameRunes {
		ext := []rune(extension(s))
		if len(ext) >= maxFileNameRunes {
			ext = nil
		}
		s = string(runes[:maxFileNameRunes-len(ext)]) + string(ext)
	}
	return s, nil
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || len(name)-i > 10 {
		return ""
	}
	return name[i:]
}
