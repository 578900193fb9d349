package sip

import "io"

// GenericValue is a parameter value. It is either a token or a quoted string.
//
// Quoted values keep their wire form: when Text starts and ends with '"'
// it is treated as already quoted and written verbatim, escapes included.
// Values parsed from the wire are stored this way, so writing them back gives
// the same bytes. A quoted value with bare Text is quoted and escaped on write.
//
// Token values are never quoted automatically, even if Text holds characters
// outside of the token class. Callers decide quoting by the text they pass in.
type GenericValue struct {
	Quoted bool
	Text   string
}

// Token creates token value. Text is written as is.
func Token(s string) GenericValue {
	return GenericValue{Text: s}
}

// Quoted creates quoted string value from unquoted content.
// Text is stored quoted and escaped, same as value parsed from the wire.
func Quoted(s string) GenericValue {
	return GenericValue{Quoted: true, Text: QuoteString(s)}
}

// GenValueFrom infers value kind from literal quotes.
// "\"abc\"" becomes quoted value kept verbatim, "abc" becomes token.
func GenValueFrom(s string) GenericValue {
	return GenericValue{Quoted: IsQuoted(s), Text: s}
}

// IsZero reports whether value is absent. Flag params like ;lr have zero value.
func (v GenericValue) IsZero() bool {
	return !v.Quoted && v.Text == ""
}

// Unquote returns value content without quotes and escapes.
func (v GenericValue) Unquote() string {
	if v.Quoted {
		return UnquoteString(v.Text)
	}
	return v.Text
}

// String returns value in its wire form.
func (v GenericValue) String() string {
	if v.Quoted && !IsQuoted(v.Text) {
		return QuoteString(v.Text)
	}
	return v.Text
}

// StringWrite writes value in its wire form.
func (v GenericValue) StringWrite(w io.StringWriter) {
	if v.Quoted && !IsQuoted(v.Text) {
		writeQuoted(w, v.Text)
		return
	}
	w.WriteString(v.Text)
}

// parseGenericValue parses token or quoted-string from the start of in.
// Quoted text keeps quotes and escapes, see GenericValue.
func parseGenericValue(in []byte) (GenericValue, []byte, error) {
	if len(in) == 0 {
		return GenericValue{}, in, errExpected(in, "gen-value", ErrMalformedParameter)
	}

	if in[0] == '"' {
		n := scanQuoted(in)
		if n < 0 {
			return GenericValue{}, in, errExpected(in, "quoted-string", ErrMalformedParameter)
		}
		return GenericValue{Quoted: true, Text: string(in[:n])}, in[n:], nil
	}

	n := 0
	for n < len(in) && isValueChar(in[n]) {
		n++
	}
	if n == 0 {
		return GenericValue{}, in, errExpected(in, "gen-value", ErrMalformedParameter)
	}
	return GenericValue{Text: string(in[:n])}, in[n:], nil
}
