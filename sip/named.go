package sip

import (
	"io"
	"strconv"
	"strings"
	"time"
)

// NamedHeader is value of a header from name-addr family: Contact, From, To and others.
// It holds optional display name, URI and header parameters.
//
// Display name has three states: absent, present but empty, present.
// Both present states force URI into angle brackets when written.
type NamedHeader struct {
	displayName    string
	hasDisplayName bool

	Address Uri
	// Any parameters present in the header.
	Params Params
}

// NewNamedHeader creates named header without display name.
func NewNamedHeader(uri Uri) NamedHeader {
	return NamedHeader{Address: uri}
}

// NewNamedHeaderWithName creates named header with display name.
func NewNamedHeaderWithName(uri Uri, displayName string) NamedHeader {
	return NamedHeader{Address: uri, displayName: displayName, hasDisplayName: true}
}

// DisplayName returns display name and whether it is present.
func (h *NamedHeader) DisplayName() (string, bool) {
	return h.displayName, h.hasDisplayName
}

// SetDisplayName sets display name. Empty name is still present and keeps brackets.
func (h *NamedHeader) SetDisplayName(name string) {
	h.displayName = name
	h.hasDisplayName = true
}

// ClearDisplayName removes display name.
func (h *NamedHeader) ClearDisplayName() {
	h.displayName = ""
	h.hasDisplayName = false
}

// Uri returns header address.
func (h *NamedHeader) Uri() *Uri {
	return &h.Address
}

// Parameters returns header params for in place changes.
func (h *NamedHeader) Parameters() *Params {
	return &h.Params
}

// SetParam sets header param from raw text.
// Empty value sets param without value. Value wrapped in double quotes is
// stored as quoted string verbatim, anything else is stored as token
// and written as is, even if it holds characters that would need quoting.
func (h *NamedHeader) SetParam(name string, value string) {
	h.Params.Set(name, GenValueFrom(value))
}

// Param returns header param value.
func (h *NamedHeader) Param(name string) (GenericValue, bool) {
	return h.Params.Get(name)
}

// RemoveParam removes header param.
func (h *NamedHeader) RemoveParam(name string) {
	h.Params.Remove(name)
}

// Tag returns tag param value.
func (h *NamedHeader) Tag() (string, bool) {
	v, ok := h.Params.Get("tag")
	return v.Unquote(), ok
}

// Expires returns expires param as duration.
func (h *NamedHeader) Expires() (time.Duration, bool) {
	v, ok := h.Params.Get("expires")
	if !ok {
		return 0, false
	}
	sec, err := strconv.ParseUint(v.Unquote(), 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(sec) * time.Second, true
}

// Q returns contact preference q param.
func (h *NamedHeader) Q() (float64, bool) {
	v, ok := h.Params.Get("q")
	if !ok {
		return 0, false
	}
	q, err := strconv.ParseFloat(v.Unquote(), 64)
	if err != nil || q < 0 || q > 1 {
		return 0, false
	}
	return q, true
}

// Clone returns deep copy of header.
func (h *NamedHeader) Clone() NamedHeader {
	c := *h
	c.Address = *h.Address.Clone()
	if h.Params != nil {
		c.Params = h.Params.Clone()
	}
	return c
}

// Equal compares display name, written URI and params regardless of order.
func (h *NamedHeader) Equal(o *NamedHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	if h.hasDisplayName != o.hasDisplayName || h.displayName != o.displayName {
		return false
	}
	if h.Address.String() != o.Address.String() {
		return false
	}
	return h.Params.Equals(o.Params)
}

// String returns header value.
func (h *NamedHeader) String() string {
	var buffer strings.Builder
	h.StringWrite(&buffer)
	return buffer.String()
}

// StringWrite writes header value.
func (h *NamedHeader) StringWrite(buffer io.StringWriter) {
	h.valueStringWrite(buffer, false)
}

// needsBrackets decides on name-addr vs addr-spec form.
func (h *NamedHeader) needsBrackets(always bool) bool {
	if always || h.hasDisplayName {
		return true
	}
	// https://datatracker.ietf.org/doc/html/rfc3261#section-20
	// URI holding comma, semicolon or question mark must be enclosed,
	// otherwise it is read back cut at that byte. Any part of URI may hold them:
	// user (sip:alice;day=tuesday@atlanta.com), host, telephone, params.
	if strings.ContainsAny(h.Address.String(), addrSpecTerminators+"?") {
		return true
	}
	return h.Params.hasQuoted()
}

// valueStringWrite writes header value. Wildcard address is written as bare "*"
// and display name and params of such header are not written, since
// Contact: * allows neither. Parser never produces such header.
func (h *NamedHeader) valueStringWrite(buffer io.StringWriter, alwaysBrackets bool) {
	if h.Address.Wildcard {
		// Treat the Wildcard URI separately as it must not be contained in < > angle brackets.
		buffer.WriteString("*")
		return
	}

	if h.needsBrackets(alwaysBrackets) {
		if h.displayName != "" {
			if NeedsQuoting(h.displayName) {
				writeQuoted(buffer, h.displayName)
			} else {
				buffer.WriteString(h.displayName)
			}
			buffer.WriteString(" ")
		}
		buffer.WriteString("<")
		h.Address.StringWrite(buffer)
		buffer.WriteString(">")
	} else {
		h.Address.StringWrite(buffer)
	}

	if h.Params.Length() > 0 {
		buffer.WriteString(";")
		h.Params.ToStringWrite(';', buffer)
	}
}
