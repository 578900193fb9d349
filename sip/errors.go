package sip

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedDisplayName is returned for unterminated or broken display name.
	ErrMalformedDisplayName = errors.New("malformed display name")
	// ErrMissingAddress is returned when there is no URI where one is required.
	ErrMissingAddress = errors.New("missing address")
	// ErrMalformedParameter is returned when ';' is not followed by name, or '=' by value.
	ErrMalformedParameter = errors.New("malformed parameter")
	// ErrTrailingGarbage is returned for unexpected bytes before CRLF or end of input.
	ErrTrailingGarbage = errors.New("trailing garbage")
	// ErrUriParse wraps error returned by URI parsing.
	ErrUriParse = errors.New("uri parse error")
	// ErrMissingFieldName is returned for header line without "name:" prefix.
	ErrMissingFieldName = errors.New("missing header field name")
	// ErrUnknownHeader is returned when field name is not in named header family.
	ErrUnknownHeader = errors.New("unknown named header")
)

// ParseError is returned when header line can not be parsed.
// Whole line is rejected, no partial header is returned with it.
type ParseError struct {
	// Header is field name as seen on the wire, may be empty.
	Header string
	// Pos is byte offset in parsed input where parsing failed.
	Pos int
	// Context lists constructs being parsed, innermost first.
	Context []string
	// Err is one of sentinel errors of this package.
	Err error
	// Cause is underlying error, for example from URI parsing.
	Cause error

	// bytes left unparsed at failure, used to compute Pos
	remaining int
}

func (e *ParseError) Error() string {
	var b strings.Builder
	if e.Header != "" {
		b.WriteString(e.Header)
		b.WriteString(" header: ")
	}
	b.WriteString(e.Err.Error())
	fmt.Fprintf(&b, " at offset %d", e.Pos)
	if len(e.Context) > 0 {
		b.WriteString(" (in ")
		b.WriteString(strings.Join(e.Context, " < "))
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// errExpected creates parse error at the start of in.
func errExpected(in []byte, construct string, kind error) *ParseError {
	return &ParseError{
		Context:   []string{construct},
		Err:       kind,
		remaining: len(in),
	}
}

// withContext appends outer construct to parse error context.
func withContext(err error, construct string) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Context = append(perr.Context, construct)
	}
	return err
}

// finishError resolves position relative to full input and sets header name.
// offset is position of input within the header line.
func finishError(err error, input []byte, header string, offset int) error {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return err
	}
	perr.Pos = offset + len(input) - perr.remaining
	if perr.Pos < offset {
		perr.Pos = offset
	}
	if perr.Header == "" {
		perr.Header = header
	}
	return perr
}
