package sip

import (
	"io"
	"strings"
)

// tokenChars marks bytes allowed in RFC 3261 token:
// alphanum / "-" / "." / "!" / "%" / "*" / "_" / "+" / "`" / "'" / "~"
var tokenChars = func() (t [256]bool) {
	for c := 'a'; c <= 'z'; c++ {
		t[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		t[c] = true
	}
	for _, c := range "-.!%*_+`'~" {
		t[c] = true
	}
	return t
}()

func isTokenChar(c byte) bool {
	return tokenChars[c]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// isValueChar is lenient gen-value character class. It accepts anything visible that
// does not terminate a parameter, so values like <urn:uuid:...> pass unquoted.
func isValueChar(c byte) bool {
	switch c {
	case ';', ',', '"', ' ', '\t', '\r', '\n':
		return false
	}
	return c > 0x20 && c != 0x7f
}

// IsToken reports whether s is a non empty RFC 3261 token.
func IsToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// NeedsQuoting reports whether s must be written as quoted-string.
// Empty text needs quoting as well, since an empty token is not valid.
func NeedsQuoting(s string) bool {
	return !IsToken(s)
}

// IsQuoted reports whether s is wrapped in double quotes.
func IsQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// Escape escapes '"' and '\' with backslash.
func Escape(s string) string {
	if !strings.ContainsAny(s, "\"\\") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Unescape reverses quoted-pair escaping. A trailing lone backslash is kept.
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// QuoteString wraps s into quotes with escaping.
func QuoteString(s string) string {
	return "\"" + Escape(s) + "\""
}

// writeQuoted is QuoteString without intermediate allocation of result
func writeQuoted(w io.StringWriter, s string) {
	w.WriteString("\"")
	w.WriteString(Escape(s))
	w.WriteString("\"")
}

// UnquoteString strips surrounding quotes and unescapes content.
// Text that is not quote wrapped is returned unchanged.
func UnquoteString(s string) string {
	if !IsQuoted(s) {
		return s
	}
	return Unescape(s[1 : len(s)-1])
}

// scanQuoted returns index after the closing quote of quoted-string starting at s[0].
// It returns -1 when string is not terminated.
func scanQuoted(s []byte) int {
	if len(s) == 0 || s[0] != '"' {
		return -1
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		case '\r', '\n':
			return -1
		}
	}
	return -1
}
