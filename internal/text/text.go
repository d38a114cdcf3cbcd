// Package text implements the text interchange helpers of the arrays: CSV and
// space-separated splitting with quoted phrases, plus the escaping used when
// rendering values.
package text

import (
	"fmt"
	"strings"
	"unicode"
)

// SplitCSV splits comma separated values. Double-quoted fields may contain commas,
// doubled quotes ("") and backslash escapes (\t \n \' \" \\). Every field is trimmed.
// An empty input yields no fields, a single blank yields one empty field.
func SplitCSV(s string) []string {
	var (
		fields []string
		word   strings.Builder
	)
	n := len(s)
	po := 0
	for po < n {
		ch := s[po]
		po++
		switch ch {
		case '"':
			if word.Len() == 0 {
				word.WriteByte(' ')
			}
			start := po
			for po < n {
				ch = s[po]
				po++
				switch {
				case ch == '"' && po < n && s[po] == '"':
					word.WriteString(s[start : po-1])
					start = po
					po++
				case ch == '\\' && po < n:
					word.WriteString(s[start : po-1])
					esc := s[po]
					po++
					switch esc {
					case 't':
						word.WriteByte('\t')
					case 'n':
						word.WriteByte('\n')
					case '\'', '"', '\\':
						word.WriteByte(esc)
					default:
						word.WriteByte('\\')
						word.WriteByte(esc)
					}
					start = po
				case ch == '"':
					word.WriteString(s[start : po-1])
					start = -1
				case po == n:
					word.WriteString(s[start:po])
					start = -1
				}
				if start < 0 {
					break
				}
			}
			if start >= 0 && start < po {
				word.WriteString(s[start:po])
			}
		case ',':
			fields = append(fields, strings.TrimSpace(word.String()))
			word.Reset()
			word.WriteByte(' ')
		default:
			word.WriteByte(ch)
		}
	}
	if word.Len() > 0 {
		fields = append(fields, strings.TrimSpace(word.String()))
	}
	return fields
}

func isWhite(ch byte) bool {
	return ch <= ' ' || unicode.IsSpace(rune(ch))
}

// WordsAndQuotedPhrases splits s at white space and commas, keeping double-quoted
// phrases together. Interior quotes in a phrase are written as "".
func WordsAndQuotedPhrases(s string) []string {
	var words []string
	n := len(s)
	po := 0
	for po < n {
		ch := s[po]
		switch {
		case ch == '"':
			po2 := po + 1
			for po2 < n {
				if s[po2] == '"' {
					if po2+1 < n && s[po2+1] == '"' {
						po2 += 2
						continue
					}
					break
				}
				po2++
			}
			end := min(po2, n)
			words = append(words, strings.ReplaceAll(s[po+1:end], `""`, `"`))
			po = po2 + 1
		case isWhite(ch) || ch == ',':
			po++
		default:
			po2 := po + 1
			for po2 < n && !isWhite(s[po2]) && s[po2] != ',' {
				po2++
			}
			words = append(words, s[po:po2])
			po = po2
		}
	}
	return words
}

// QuoteCSV quotes s for a comma-space separated list when it contains a quote or a comma.
func QuoteCSV(s string) string {
	switch {
	case strings.ContainsRune(s, '"'):
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	case strings.ContainsRune(s, ','):
		return `"` + s + `"`
	default:
		return s
	}
}

// ToJSON returns s as a double-quoted JSON string. Characters below 32 or above 255
// are written as \uXXXX unless they have a short escape.
func ToJSON(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\f':
			sb.WriteString(`\f`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 32 || r > 255:
			writeUnicodeEscape(&sb, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func writeUnicodeEscape(sb *strings.Builder, r rune) {
	if r > 0xFFFF {
		r -= 0x10000
		fmt.Fprintf(sb, `\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF))
		return
	}
	fmt.Fprintf(sb, `\u%04x`, r)
}

// ToDeclaration returns s double-quoted with backslashes and quotes escaped and control
// characters written as \n, \t or \uXXXX, the form used for declaration style headers.
func ToDeclaration(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 32:
			writeUnicodeEscape(&sb, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// TrimStart removes leading white space.
func TrimStart(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// TrimEnd removes trailing white space.
func TrimEnd(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
