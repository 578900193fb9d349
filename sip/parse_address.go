package sip

import (
	"bytes"
	"errors"
	"strings"
)

// Parsing of name-addr family values. Every parse function consumes prefix
// of input and returns what it built with the rest of input, or *ParseError.
//
// contact-param  =  (name-addr / addr-spec) *(SEMI contact-params)
// name-addr      =  [ display-name ] LAQUOT addr-spec RAQUOT
// addr-spec      =  SIP-URI / SIPS-URI / absoluteURI
// display-name   =  *(token LWS)/ quoted-string
// generic-param  =  token [ EQUAL gen-value ]

// bare addr-spec ends on any of these
const addrSpecTerminators = "; ,\t\r\n"

// lws returns length of linear white space at the start of in.
// LWS  =  [*WSP CRLF] 1*WSP
func lws(in []byte) int {
	n := 0
	for n < len(in) && isSpace(in[n]) {
		n++
	}

	// folded line
	fold := n
	if fold < len(in) && in[fold] == '\r' {
		fold++
	}
	if fold < len(in) && in[fold] == '\n' && fold+1 < len(in) && isSpace(in[fold+1]) {
		n = fold + 1
		for n < len(in) && isSpace(in[n]) {
			n++
		}
	}
	return n
}

func skipLWS(in []byte) []byte {
	return in[lws(in):]
}

// parseNamedValue parses single header value of given kind.
func parseNamedValue(in []byte, kind HeaderKind) (NamedHeader, []byte, error) {
	var h NamedHeader
	in = skipLWS(in)
	if len(in) == 0 {
		return h, in, errExpected(in, "addr-spec", ErrMissingAddress)
	}

	if in[0] == '*' && kind.info().wildcard {
		rest := skipLWS(in[1:])
		if len(rest) > 0 && rest[0] != '\r' && rest[0] != '\n' {
			return h, in, errExpected(rest, "STAR", ErrTrailingGarbage)
		}
		h.Address = Uri{Host: "*", Wildcard: true}
		return h, rest, nil
	}

	name, hasName, rest, err := parseDisplayName(in)
	if err != nil {
		return h, in, withContext(err, "name-addr")
	}
	if hasName {
		h.SetDisplayName(name)
	}

	bracketed := len(rest) > 0 && rest[0] == '<'
	if hasName && !bracketed {
		return h, in, withContext(errExpected(rest, "LAQUOT", ErrMissingAddress), "name-addr")
	}

	rest, err = parseAddrSpec(rest, &h.Address)
	if err != nil {
		return h, in, withContext(err, "contact-param")
	}
	if h.Address.Wildcard {
		// The Wildcard '*' URI is only permitted in Contact headers.
		return h, in, &ParseError{
			Context:   []string{"addr-spec"},
			Err:       ErrUriParse,
			Cause:     errors.New("wildcard uri not permitted"),
			remaining: len(in),
		}
	}

	h.Params, rest, err = parseParamList(rest)
	if err != nil {
		return h, in, withContext(err, "contact-param")
	}
	return h, rest, nil
}

// parseDisplayName reads display name if present. Returned rest starts at '<' when name is found.
// Without display name input is returned untouched.
func parseDisplayName(in []byte) (string, bool, []byte, error) {
	if len(in) == 0 {
		return "", false, in, nil
	}

	switch in[0] {
	case '<':
		return "", false, in, nil
	case '"':
		n := scanQuoted(in)
		if n < 0 {
			return "", false, in, errExpected(in, "quoted-string", ErrMalformedDisplayName)
		}
		rest := skipLWS(in[n:])
		if len(rest) == 0 || rest[0] != '<' {
			return "", false, in, errExpected(rest, "LAQUOT", ErrMissingAddress)
		}
		return Unescape(string(in[1 : n-1])), true, rest, nil
	}

	// *(token LWS) followed by LAQUOT. Bare addr-spec starts with scheme token
	// followed by ':' so it stops the scan without consuming white space.
	var words []string
	sawSpace := false
	pos := 0
	for {
		start := pos
		for pos < len(in) && isTokenChar(in[pos]) {
			pos++
		}
		if pos == start {
			break
		}
		words = append(words, string(in[start:pos]))

		n := lws(in[pos:])
		if n == 0 {
			break
		}
		sawSpace = true
		pos += n
	}

	if len(words) > 0 && pos < len(in) && in[pos] == '<' {
		return strings.Join(words, " "), true, in[pos:], nil
	}

	if sawSpace {
		// Display name followed by bare URI, or garbage
		return "", false, in, errExpected(in[pos:], "LAQUOT", ErrMissingAddress)
	}
	return "", false, in, nil
}

// parseAddrSpec parses URI either in angle brackets or bare.
// Bare URI ends on semicolon, comma or white space, params after it are header params.
func parseAddrSpec(in []byte, uri *Uri) ([]byte, error) {
	if len(in) == 0 {
		return in, errExpected(in, "addr-spec", ErrMissingAddress)
	}

	if in[0] == '<' {
		end := bytes.IndexByte(in, '>')
		if end < 0 {
			return in, errExpected(in, "RAQUOT", ErrMissingAddress)
		}
		body := in[1:end]
		if len(bytes.TrimSpace(body)) == 0 {
			return in, errExpected(in[1:], "addr-spec", ErrMissingAddress)
		}
		if _, err := ConsumeUri(body, ">", uri); err != nil {
			return in, uriError(in[1:], err)
		}
		return in[end+1:], nil
	}

	if strings.IndexByte(addrSpecTerminators, in[0]) >= 0 {
		return in, errExpected(in, "addr-spec", ErrMissingAddress)
	}

	rest, err := ConsumeUri(in, addrSpecTerminators, uri)
	if err != nil {
		return in, uriError(in, err)
	}
	return rest, nil
}

func uriError(in []byte, err error) *ParseError {
	return &ParseError{
		Context:   []string{"addr-spec"},
		Err:       ErrUriParse,
		Cause:     err,
		remaining: len(in),
	}
}

// parseParamList reads *(SEMI generic-param). It stops on first byte that does
// not start a param, leaving it to the caller.
func parseParamList(in []byte) (Params, []byte, error) {
	var params Params
	for {
		rest := skipLWS(in)
		if len(rest) == 0 || rest[0] != ';' {
			return params, in, nil
		}

		p, rest, err := parseParam(rest)
		if err != nil {
			return nil, in, withContext(err, "params")
		}
		if params == nil {
			params = NewParams()
		}
		params.Set(p.Name, p.Value)
		in = rest
	}
}

// parseParam reads SEMI token [ EQUAL gen-value ]
func parseParam(in []byte) (Param, []byte, error) {
	var p Param
	if len(in) == 0 || in[0] != ';' {
		return p, in, errExpected(in, "SEMI", ErrMalformedParameter)
	}

	rest := skipLWS(in[1:])
	n := 0
	for n < len(rest) && isTokenChar(rest[n]) {
		n++
	}
	if n == 0 {
		return p, in, errExpected(rest, "param name", ErrMalformedParameter)
	}
	p.Name = string(rest[:n])
	rest = rest[n:]

	afterName := skipLWS(rest)
	if len(afterName) == 0 || afterName[0] != '=' {
		return p, rest, nil
	}

	val, rest, err := parseGenericValue(skipLWS(afterName[1:]))
	if err != nil {
		return p, in, withContext(err, "generic-param")
	}
	p.Value = val
	return p, rest, nil
}
