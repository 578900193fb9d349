package sip

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type uriFSM func(uri *Uri, s string) (uriFSM, string, error)

// ConsumeUri parses URI from the start of data up to first byte from terminators.
// It returns data left after URI.
func ConsumeUri(data []byte, terminators string, uri *Uri) ([]byte, error) {
	n := bytes.IndexAny(data, terminators)
	if n < 0 {
		n = len(data)
	}
	if err := ParseUri(string(data[:n]), uri); err != nil {
		return data, err
	}
	return data[n:], nil
}

// ParseUri converts a string representation of a URI into a Uri object.
// Following https://datatracker.ietf.org/doc/html/rfc3261#section-19.1.1
// sip:user:password@host:port;uri-parameters?headers
func ParseUri(uriStr string, uri *Uri) (err error) {
	if len(uriStr) == 0 {
		return errors.New("Empty URI")
	}

	state := uriStateStart
	str := uriStr
	for state != nil {
		state, str, err = state(uri, str)
		if err != nil {
			return
		}
	}
	return
}

func uriStateStart(uri *Uri, s string) (uriFSM, string, error) {
	if s == "*" {
		// Normally this goes under url path, but we set on host
		uri.Host = "*"
		uri.Wildcard = true
		return nil, "", nil
	}

	return uriStateScheme(uri, s)
}

func uriStateScheme(uri *Uri, s string) (uriFSM, string, error) {
	minLen := 4
	if len(s) >= minLen {
		if strings.EqualFold(s[:minLen], "sip:") {
			uri.Scheme = SCHEME_SIP
			// Check does uri contain slashes
			// They are valid in uri but normally we cut them
			s, _ = strings.CutPrefix(s[minLen:], "//")
			return uriStateUser, s, nil
		} else if strings.EqualFold(s[:minLen], "tel:") {
			uri.Scheme = SCHEME_TEL
			return uriTelNumber, s[minLen:], nil
		}
	}

	minLen = 5
	if len(s) >= minLen && strings.EqualFold(s[:minLen], "sips:") {
		uri.Scheme = SCHEME_SIPS
		uri.Encrypted = true
		s, _ = strings.CutPrefix(s[minLen:], "//")
		return uriStateUser, s, nil
	}

	return uriStateAbsolute, s, nil
}

// uriStateAbsolute handles absoluteURI = scheme ":" ( hier-part / opaque-part )
// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
func uriStateAbsolute(uri *Uri, s string) (uriFSM, string, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':' && i > 0:
			if i+1 == len(s) {
				return nil, s, fmt.Errorf("empty uri after scheme %q", s[:i])
			}
			uri.Scheme = Scheme(ASCIIToLower(s[:i]))
			uri.Opaque = s[i+1:]
			return nil, "", nil
		case isASCII(rune(c)):
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return nil, s, fmt.Errorf("missing uri scheme in %q", s)
		}
	}
	return nil, s, fmt.Errorf("missing uri scheme in %q", s)
}

func uriStateUser(uri *Uri, s string) (uriFSM, string, error) {
	var userend int = 0
	for i, c := range s {
		if c == ':' && userend == 0 {
			userend = i
		}

		if c == '@' {
			if userend > 0 {
				uri.User = s[:userend]
				uri.Password = s[userend+1 : i]
			} else {
				uri.User = s[:i]
			}
			return uriStateHost, s[i+1:], nil
		}
	}

	return uriStateHost, s, nil
}

func uriStateHost(uri *Uri, s string) (uriFSM, string, error) {
	// IPv6 reference [::1]
	start := 0
	if strings.HasPrefix(s, "[") {
		start = strings.IndexByte(s, ']')
		if start < 0 {
			return nil, s, errors.New("unterminated IPv6 reference")
		}
	}

	for i := start; i < len(s); i++ {
		switch s[i] {
		case ':', ';', '?':
			if i == 0 {
				return nil, s, errors.New("missing host")
			}
		case '@':
			// sip:@@ would be written as sip:@ and never read back
			return nil, s, fmt.Errorf("unexpected '@' in host %q", s)
		}

		switch s[i] {
		case ':':
			uri.Host = s[:i]
			return uriStatePort, s[i+1:], nil
		case ';':
			uri.Host = s[:i]
			return uriStateUriParams, s[i+1:], nil
		case '?':
			uri.Host = s[:i]
			return uriStateHeaders, s[i+1:], nil
		}
	}

	if s == "" {
		return nil, s, errors.New("missing host")
	}
	// If no special chars found, it means we are at end
	uri.Host = s
	return nil, "", nil
}

func uriStatePort(uri *Uri, s string) (uriFSM, string, error) {
	var err error
	for i, c := range s {
		if c == ';' {
			uri.Port, err = parsePort(s[:i])
			return uriStateUriParams, s[i+1:], err
		}

		if c == '?' {
			uri.Port, err = parsePort(s[:i])
			return uriStateHeaders, s[i+1:], err
		}
	}

	uri.Port, err = parsePort(s)
	return nil, s, err
}

// parsePort accepts 1..65535. Zero port is not written, so it can not be parsed either.
func parsePort(s string) (int, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil || port == 0 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return int(port), nil
}

func uriStateUriParams(uri *Uri, s string) (uriFSM, string, error) {
	if len(s) == 0 {
		return nil, s, nil
	}

	uri.UriParams = NewParams()
	n, err := unmarshalUriParams(s, ';', '?', &uri.UriParams)
	if err != nil {
		return nil, s, err
	}

	if n == len(s) {
		return nil, s, nil
	}

	return uriStateHeaders, s[n+1:], nil
}

func uriStateHeaders(uri *Uri, s string) (uriFSM, string, error) {
	uri.Headers = NewParams()
	_, err := unmarshalUriParams(s, '&', 0, &uri.Headers)
	return nil, s, err
}

func uriTelNumber(uri *Uri, s string) (uriFSM, string, error) {
	for i, c := range s {
		if c == ';' {
			uri.Telephone = s[:i]
			return uriStateUriParams, s[i+1:], nil
		}
	}

	if s == "" {
		return nil, s, errors.New("missing telephone number")
	}
	uri.Telephone = s
	return nil, "", nil
}

// unmarshalUriParams reads name[=value] pairs separated by sep until ending.
// It returns index of ending or len(s).
func unmarshalUriParams(s string, sep byte, ending byte, p *Params) (int, error) {
	n := len(s)
	if ending != 0 {
		if i := strings.IndexByte(s, ending); i >= 0 {
			n = i
		}
	}

	for _, kv := range strings.Split(s[:n], string(sep)) {
		if kv == "" {
			// could be just ;
			continue
		}
		name, val, found := strings.Cut(kv, "=")
		if name == "" {
			return n, fmt.Errorf("empty uri param name in %q", kv)
		}
		if found && val == "" {
			return n, fmt.Errorf("empty uri param value for %q", name)
		}
		p.Set(name, GenValueFrom(val))
	}
	return n, nil
}
