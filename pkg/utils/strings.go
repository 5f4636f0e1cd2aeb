// Package utils provides identifier and string helpers shared by the
// naming engine and the emitters.
package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	camelSplit = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	identRe    = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// RemoveAccents converts accented characters to their base forms.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits a string into words, handling camelCase, PascalCase,
// snake_case and kebab-case.
func SplitWords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = RemoveAccents(s)
	s = camelSplit.ReplaceAllString(s, "$1 $2")
	parts := nonAlnum.Split(s, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}
	b := strings.Builder{}
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		if len(p) > 1 {
			b.WriteString(strings.ToLower(p[1:]))
		}
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	p := ToPascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "_")
}

// ToKebabCase converts a string to kebab-case.
func ToKebabCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "-")
}

// IsIdentifier reports whether s is a valid path-variable identifier:
// a letter, underscore or dollar sign followed by letters, digits,
// underscores or dollar signs.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// SanitizePathWords breaks a path template into name-worthy words:
// slashes become separators and variable delimiters ({id}, <id>, :id)
// are stripped so only the bare names remain.
func SanitizePathWords(path string) []string {
	replacer := strings.NewReplacer("{", "", "}", "", "<", "", ">", "", ":", "")
	out := []string{}
	for _, seg := range strings.Split(path, "/") {
		seg = replacer.Replace(seg)
		if seg == "" {
			continue
		}
		out = append(out, SplitWords(seg)...)
	}
	return out
}

// QuoteTSProperty quotes a TypeScript property name when it is not a
// plain identifier.
func QuoteTSProperty(name string) string {
	needsQuoting := len(name) == 0 || (name[0] >= '0' && name[0] <= '9')
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') || char == '_' || char == '$') {
			needsQuoting = true
			break
		}
	}
	if needsQuoting {
		return `"` + name + `"`
	}
	return name
}
