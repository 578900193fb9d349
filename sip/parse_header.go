package sip

import (
	"bytes"
	"errors"
)

// ParseNamedHeader parses header value without field name into header of given kind.
// Value must hold exactly one header value, optionally followed by CRLF.
func ParseNamedHeader(kind HeaderKind, value []byte) (Header, error) {
	hdrs, err := ParseNamedHeaderValues(kind, value, false)
	if err != nil {
		return nil, err
	}
	return hdrs[0], nil
}

// ParseNamedHeaderValues is like ParseNamedHeader, but with list set it accepts
// comma separated values and returns header per value.
func ParseNamedHeaderValues(kind HeaderKind, value []byte, list bool) ([]Header, error) {
	if kind.String() == "" {
		return nil, &ParseError{Err: ErrUnknownHeader}
	}
	return parseValues(value, kind, kind.String(), 0, list)
}

// ParseHeader parses single header line "Name: value CRLF".
// Returned rest holds bytes after line end, normally next header line.
// Comma separated lists are rejected, use ParseHeaderValues for them.
func ParseHeader(line []byte) (Header, []byte, error) {
	hdrs, rest, err := parseHeaderLine(line, false)
	if err != nil {
		return nil, line, err
	}
	return hdrs[0], rest, nil
}

// ParseHeaderValues parses header line with one or more comma separated values,
// like "Contact: <sip:a@example.com>, <sip:b@example.com>".
// Line is rejected as whole if any value is broken.
func ParseHeaderValues(line []byte) ([]Header, []byte, error) {
	return parseHeaderLine(line, true)
}

func parseHeaderLine(line []byte, list bool) ([]Header, []byte, error) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx < 0 || bytes.IndexByte(line[:colonIdx], '\n') >= 0 {
		return nil, line, &ParseError{Err: ErrMissingFieldName}
	}

	fieldName := string(bytes.TrimSpace(line[:colonIdx]))
	if !IsToken(fieldName) {
		return nil, line, &ParseError{Header: fieldName, Err: ErrMissingFieldName}
	}

	kind, ok := LookupHeaderKind(fieldName)
	if !ok {
		return nil, line, &ParseError{Header: fieldName, Err: ErrUnknownHeader}
	}

	body, rest := splitLine(line[colonIdx+1:])
	hdrs, err := parseValues(body, kind, fieldName, colonIdx+1, list)
	if err != nil {
		return nil, line, err
	}
	return hdrs, rest, nil
}

func parseValues(body []byte, kind HeaderKind, name string, offset int, list bool) ([]Header, error) {
	var hdrs []Header
	in := body
	for {
		h, r, err := parseNamedValue(in, kind)
		if err != nil {
			return nil, finishError(err, body, name, offset)
		}
		hdrs = append(hdrs, NewHeader(kind, h))

		r = skipLWS(r)
		if list && len(r) > 0 && r[0] == ',' {
			in = r[1:]
			continue
		}
		if err := expectLineEnd(r); err != nil {
			return nil, finishError(err, body, name, offset)
		}
		return hdrs, nil
	}
}

// splitLine returns header body up to the line end and what follows it.
// Folded continuation lines, starting with white space, belong to the body.
func splitLine(s []byte) ([]byte, []byte) {
	from := 0
	for {
		i := bytes.IndexByte(s[from:], '\n')
		if i < 0 {
			return s, s[len(s):]
		}
		i += from
		if i+1 < len(s) && isSpace(s[i+1]) {
			from = i + 1
			continue
		}
		end := i
		if end > 0 && s[end-1] == '\r' {
			end--
		}
		return s[:end], s[i+1:]
	}
}

func expectLineEnd(rest []byte) error {
	rest = skipLWS(rest)
	rest = bytes.TrimPrefix(rest, []byte("\r\n"))
	if len(rest) == 0 {
		return nil
	}
	if rest[0] == ',' {
		return &ParseError{
			Context:   []string{"header value"},
			Err:       ErrTrailingGarbage,
			Cause:     errors.New("comma separated values, use ParseHeaderValues"),
			remaining: len(rest),
		}
	}
	return errExpected(rest, "CRLF", ErrTrailingGarbage)
}
