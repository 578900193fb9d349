package sip

import (
	"io"
	"strconv"
	"strings"
)

type Scheme string

const (
	SCHEME_SIP  Scheme = "sip"
	SCHEME_SIPS Scheme = "sips"
	SCHEME_TEL  Scheme = "tel"
)

// Uri is parsed form of
// sip:user:password@host:port;uri-parameters?headers
// In case of `sips:` Encrypted is set to true.
// Other schemes (urn:, mailto:, http:) keep everything after the colon in Opaque.
type Uri struct {
	// The scheme part of the URI
	Scheme Scheme

	// True if and only if the URI is a SIPS URI.
	Encrypted bool
	Wildcard  bool

	// The user part of the URI: the 'joe' in sip:joe@bloggs.com
	User string

	// The password field of the URI. This is represented in the URI as joe:hunter2@bloggs.com.
	// Note that if a URI has a password field, it *must* have a user field as well.
	Password string

	// The host part of the URI. This can be a domain, or a string representation of an IP address.
	Host string

	// The port part of the URI. This is optional, and can be empty.
	Port int

	// The telephone-subscriber part of the tel: URI.
	// https://datatracker.ietf.org/doc/html/rfc3966#section-3
	Telephone string

	// Opaque is scheme specific part of URI with scheme other than sip, sips or tel.
	Opaque string

	// Any parameters associated with the URI.
	// These appear as a semicolon-separated list of key=value pairs following the host[:port] part.
	UriParams Params

	// Any headers to be included on requests constructed from this URI.
	// These appear as a '&'-separated list at the end of the URI, introduced by '?'.
	Headers Params
}

// NewSipUri creates sip: URI with given host.
func NewSipUri(host string) Uri {
	return Uri{Scheme: SCHEME_SIP, Host: host}
}

// WithUser returns copy of uri with user part set.
func (uri Uri) WithUser(user string) Uri {
	uri.User = user
	return uri
}

// WithPort returns copy of uri with port set.
func (uri Uri) WithPort(port int) Uri {
	uri.Port = port
	return uri
}

// WithParam returns copy of uri with uri param set.
// Value is interpreted as in GenValueFrom, empty value sets flag param.
func (uri Uri) WithParam(name, value string) Uri {
	uri.UriParams = uri.UriParams.Clone()
	uri.UriParams.Set(name, GenValueFrom(value))
	return uri
}

// Generates the string representation of a SipUri struct.
func (uri *Uri) String() string {
	var buffer strings.Builder
	uri.StringWrite(&buffer)

	return buffer.String()
}

// StringWrite writes uri string to buffer
func (uri *Uri) StringWrite(buffer io.StringWriter) {
	if uri.Wildcard {
		buffer.WriteString("*")
		return
	}

	// Compulsory protocol identifier.
	buffer.WriteString(string(uri.Scheme))
	buffer.WriteString(":")

	switch uri.Scheme {
	case SCHEME_TEL:
		buffer.WriteString(uri.Telephone)
	case SCHEME_SIP, SCHEME_SIPS:
		// Optional userinfo part.
		if uri.User != "" {
			buffer.WriteString(uri.User)
			if uri.Password != "" {
				buffer.WriteString(":")
				buffer.WriteString(uri.Password)
			}
			buffer.WriteString("@")
		}

		// Compulsory hostname.
		buffer.WriteString(uri.Host)

		// Optional port number.
		if uri.Port > 0 {
			buffer.WriteString(":")
			buffer.WriteString(strconv.Itoa(uri.Port))
		}
	default:
		buffer.WriteString(uri.Opaque)
		return
	}

	if uri.UriParams.Length() > 0 {
		buffer.WriteString(";")
		uri.UriParams.ToStringWrite(';', buffer)
	}

	if uri.Headers.Length() > 0 {
		buffer.WriteString("?")
		uri.Headers.ToStringWrite('&', buffer)
	}
}

// Clone
func (uri *Uri) Clone() *Uri {
	c := *uri
	if uri.UriParams != nil {
		c.UriParams = uri.UriParams.Clone()
	}
	if uri.Headers != nil {
		c.Headers = uri.Headers.Clone()
	}
	return &c
}

// IsEncrypted returns true if uri is SIPS uri
func (uri *Uri) IsEncrypted() bool {
	return uri.Encrypted
}

// Endpoint is uri user identifier. user@host[:port]
func (uri *Uri) Endpoint() string {
	if uri.Scheme == SCHEME_TEL {
		return ""
	}
	addr := uri.User + "@" + uri.Host
	if uri.Port > 0 {
		addr += ":" + strconv.Itoa(uri.Port)
	}
	return addr
}
