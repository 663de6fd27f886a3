// Package stringtest builds expected strings for tests.
package stringtest

import "strings"

// JoinLF joins lines with LF line endings.
//
//	stringtest.JoinLF("a", "b") // "a\nb"
func JoinLF(lines ...string) string {
	return strings.Join(lines, "\n")
}

// JoinCRLF joins lines with CRLF line endings, as written by spreadsheet
// exports.
//
//	stringtest.JoinCRLF("a", "b") // "a\r\nb"
func JoinCRLF(lines ...string) string {
	return strings.Join(lines, "\r\n")
}

// Input dedents a raw string literal so expected output can be indented with
// the surrounding code. One leading and one trailing newline are removed,
// then the indentation shared by every non-blank line. Whitespace-only lines
// become empty.
//
//	want := stringtest.Input(`
//		{
//		  "cv": 8
//		}`)
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	prefix := ""
	first := true

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

		switch {
		case first:
			prefix = indent
			first = false
		default:
			prefix = commonPrefix(prefix, indent)
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))

	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}

	return a[:n]
}
