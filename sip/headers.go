package sip

import (
	"io"
	"strings"
)

// HeaderKind enumerates headers built on NamedHeader.
type HeaderKind uint8

const (
	KindContact HeaderKind = iota + 1
	KindFrom
	KindTo
	KindReplyTo
	KindRoute
	KindRecordRoute
	KindReferTo
	KindReferredBy
)

type headerKindInfo struct {
	name    string
	compact string
	// name-addr form only, addr-spec is never written
	alwaysBrackets bool
	wildcard       bool
}

var headerKinds = [...]headerKindInfo{
	KindContact:     {name: "Contact", compact: "m", wildcard: true},
	KindFrom:        {name: "From", compact: "f"},
	KindTo:          {name: "To", compact: "t"},
	KindReplyTo:     {name: "Reply-To"},
	KindRoute:       {name: "Route", alwaysBrackets: true},
	KindRecordRoute: {name: "Record-Route", alwaysBrackets: true},
	KindReferTo:     {name: "Refer-To", compact: "r"},
	KindReferredBy:  {name: "Referred-By", compact: "b"},
}

func (k HeaderKind) info() headerKindInfo {
	if k == 0 || int(k) >= len(headerKinds) {
		return headerKindInfo{}
	}
	return headerKinds[k]
}

// String returns canonical header field name.
func (k HeaderKind) String() string {
	return k.info().name
}

// CompactName returns compact form of field name or empty string.
// https://www.cs.columbia.edu/sip/compact.html
func (k HeaderKind) CompactName() string {
	return k.info().compact
}

// LookupHeaderKind finds header kind by full or compact field name, ignoring case.
func LookupHeaderKind(name string) (HeaderKind, bool) {
	switch HeaderToLower(name) {
	case "contact", "m":
		return KindContact, true
	case "from", "f":
		return KindFrom, true
	case "to", "t":
		return KindTo, true
	case "reply-to":
		return KindReplyTo, true
	case "route":
		return KindRoute, true
	case "record-route":
		return KindRecordRoute, true
	case "refer-to", "r":
		return KindReferTo, true
	case "referred-by", "b":
		return KindReferredBy, true
	}
	return 0, false
}

// Header is a single SIP header from name-addr family.
// Set of implementations is closed, each one wraps NamedHeader
// and adds its field name.
type Header interface {
	// Name returns underlying header name.
	Name() string
	Kind() HeaderKind
	Value() string
	String() string
	// StringWrite is better way to reuse single buffer
	StringWrite(w io.StringWriter)
	// Named returns shared header model for changes
	Named() *NamedHeader

	headerClone() Header
}

// HeaderClone is generic function for cloning header
func HeaderClone(h Header) Header {
	return h.headerClone()
}

// NewHeader wraps named header into header of given kind.
// It returns nil for unknown kind.
func NewHeader(kind HeaderKind, h NamedHeader) Header {
	switch kind {
	case KindContact:
		return &ContactHeader{h}
	case KindFrom:
		return &FromHeader{h}
	case KindTo:
		return &ToHeader{h}
	case KindReplyTo:
		return &ReplyToHeader{h}
	case KindRoute:
		return &RouteHeader{h}
	case KindRecordRoute:
		return &RecordRouteHeader{h}
	case KindReferTo:
		return &ReferToHeader{h}
	case KindReferredBy:
		return &ReferredByHeader{h}
	}
	return nil
}

func headerString(k HeaderKind, h *NamedHeader) string {
	var buffer strings.Builder
	headerStringWrite(&buffer, k, h)
	return buffer.String()
}

func headerStringWrite(buffer io.StringWriter, k HeaderKind, h *NamedHeader) {
	buffer.WriteString(k.String())
	buffer.WriteString(": ")
	h.valueStringWrite(buffer, k.info().alwaysBrackets)
}

func headerValue(k HeaderKind, h *NamedHeader) string {
	var buffer strings.Builder
	h.valueStringWrite(&buffer, k.info().alwaysBrackets)
	return buffer.String()
}

// ContactHeader is Contact header representation
type ContactHeader struct {
	NamedHeader
}

func (h *ContactHeader) Name() string                  { return "Contact" }
func (h *ContactHeader) Kind() HeaderKind              { return KindContact }
func (h *ContactHeader) Value() string                 { return headerValue(KindContact, &h.NamedHeader) }
func (h *ContactHeader) String() string                { return headerString(KindContact, &h.NamedHeader) }
func (h *ContactHeader) StringWrite(w io.StringWriter) { headerStringWrite(w, KindContact, &h.NamedHeader) }
func (h *ContactHeader) Named() *NamedHeader           { return &h.NamedHeader }
func (h *ContactHeader) headerClone() Header           { return h.Clone() }

func (h *ContactHeader) Clone() *ContactHeader {
	if h == nil {
		return nil
	}
	return &ContactHeader{h.NamedHeader.Clone()}
}

// FromHeader introduces SIP 'From' header
type FromHeader struct {
	NamedHeader
}

func (h *FromHeader) Name() string                  { return "From" }
func (h *FromHeader) Kind() HeaderKind              { return KindFrom }
func (h *FromHeader) Value() string                 { return headerValue(KindFrom, &h.NamedHeader) }
func (h *FromHeader) String() string                { return headerString(KindFrom, &h.NamedHeader) }
func (h *FromHeader) StringWrite(w io.StringWriter) { headerStringWrite(w, KindFrom, &h.NamedHeader) }
func (h *FromHeader) Named() *NamedHeader           { return &h.NamedHeader }
func (h *FromHeader) headerClone() Header           { return h.Clone() }

func (h *FromHeader) Clone() *FromHeader {
	if h == nil {
		return nil
	}
	return &FromHeader{h.NamedHeader.Clone()}
}

// AsTo copies From into To header. Used when building responses and in-dialog requests.
func (h *FromHeader) AsTo() ToHeader {
	return ToHeader{h.NamedHeader.Clone()}
}

// ToHeader introduces SIP 'To' header
type ToHeader struct {
	NamedHeader
}

func (h *ToHeader) Name() string                  { return "To" }
func (h *ToHeader) Kind() HeaderKind              { return KindTo }
func (h *ToHeader) Value() string                 { return headerValue(KindTo, &h.NamedHeader) }
func (h *ToHeader) String() string                { return headerString(KindTo, &h.NamedHeader) }
func (h *ToHeader) StringWrite(w io.StringWriter) { headerStringWrite(w, KindTo, &h.NamedHeader) }
func (h *ToHeader) Named() *NamedHeader           { return &h.NamedHeader }
func (h *ToHeader) headerClone() Header           { return h.Clone() }

func (h *ToHeader) Clone() *ToHeader {
	if h == nil {
		return nil
	}
	return &ToHeader{h.NamedHeader.Clone()}
}

// AsFrom copies To into From header.
func (h *ToHeader) AsFrom() FromHeader {
	return FromHeader{h.NamedHeader.Clone()}
}

// ReplyToHeader is Reply-To header, RFC 3261 20.31
type ReplyToHeader struct {
	NamedHeader
}

func (h *ReplyToHeader) Name() string                  { return "Reply-To" }
func (h *ReplyToHeader) Kind() HeaderKind              { return KindReplyTo }
func (h *ReplyToHeader) Value() string                 { return headerValue(KindReplyTo, &h.NamedHeader) }
func (h *ReplyToHeader) String() string                { return headerString(KindReplyTo, &h.NamedHeader) }
func (h *ReplyToHeader) StringWrite(w io.StringWriter) { headerStringWrite(w, KindReplyTo, &h.NamedHeader) }
func (h *ReplyToHeader) Named() *NamedHeader           { return &h.NamedHeader }
func (h *ReplyToHeader) headerClone() Header           { return h.Clone() }

func (h *ReplyToHeader) Clone() *ReplyToHeader {
	if h == nil {
		return nil
	}
	return &ReplyToHeader{h.NamedHeader.Clone()}
}

// RouteHeader is Route header. Address is always written in angle brackets.
type RouteHeader struct {
	NamedHeader
}

func (h *RouteHeader) Name() string                  { return "Route" }
func (h *RouteHeader) Kind() HeaderKind              { return KindRoute }
func (h *RouteHeader) Value() string                 { return headerValue(KindRoute, &h.NamedHeader) }
func (h *RouteHeader) String() string                { return headerString(KindRoute, &h.NamedHeader) }
func (h *RouteHeader) StringWrite(w io.StringWriter) { headerStringWrite(w, KindRoute, &h.NamedHeader) }
func (h *RouteHeader) Named() *NamedHeader           { return &h.NamedHeader }
func (h *RouteHeader) headerClone() Header           { return h.Clone() }

func (h *RouteHeader) Clone() *RouteHeader {
	if h == nil {
		return nil
	}
	return &RouteHeader{h.NamedHeader.Clone()}
}

// RecordRouteHeader is Record-Route header. Address is always written in angle brackets.
type RecordRouteHeader struct {
	NamedHeader
}

func (h *RecordRouteHeader) Name() string     { return "Record-Route" }
func (h *RecordRouteHeader) Kind() HeaderKind { return KindRecordRoute }
func (h *RecordRouteHeader) Value() string    { return headerValue(KindRecordRoute, &h.NamedHeader) }
func (h *RecordRouteHeader) String() string   { return headerString(KindRecordRoute, &h.NamedHeader) }
func (h *RecordRouteHeader) StringWrite(w io.StringWriter) {
	headerStringWrite(w, KindRecordRoute, &h.NamedHeader)
}
func (h *RecordRouteHeader) Named() *NamedHeader { return &h.NamedHeader }
func (h *RecordRouteHeader) headerClone() Header { return h.Clone() }

func (h *RecordRouteHeader) Clone() *RecordRouteHeader {
	if h == nil {
		return nil
	}
	return &RecordRouteHeader{h.NamedHeader.Clone()}
}

// ReferToHeader is Refer-To header, RFC 3515
type ReferToHeader struct {
	NamedHeader
}

func (h *ReferToHeader) Name() string                  { return "Refer-To" }
func (h *ReferToHeader) Kind() HeaderKind              { return KindReferTo }
func (h *ReferToHeader) Value() string                 { return headerValue(KindReferTo, &h.NamedHeader) }
func (h *ReferToHeader) String() string                { return headerString(KindReferTo, &h.NamedHeader) }
func (h *ReferToHeader) StringWrite(w io.StringWriter) { headerStringWrite(w, KindReferTo, &h.NamedHeader) }
func (h *ReferToHeader) Named() *NamedHeader           { return &h.NamedHeader }
func (h *ReferToHeader) headerClone() Header           { return h.Clone() }

func (h *ReferToHeader) Clone() *ReferToHeader {
	if h == nil {
		return nil
	}
	return &ReferToHeader{h.NamedHeader.Clone()}
}

// ReferredByHeader is Referred-By header, RFC 3892
type ReferredByHeader struct {
	NamedHeader
}

func (h *ReferredByHeader) Name() string     { return "Referred-By" }
func (h *ReferredByHeader) Kind() HeaderKind { return KindReferredBy }
func (h *ReferredByHeader) Value() string    { return headerValue(KindReferredBy, &h.NamedHeader) }
func (h *ReferredByHeader) String() string   { return headerString(KindReferredBy, &h.NamedHeader) }
func (h *ReferredByHeader) StringWrite(w io.StringWriter) {
	headerStringWrite(w, KindReferredBy, &h.NamedHeader)
}
func (h *ReferredByHeader) Named() *NamedHeader { return &h.NamedHeader }
func (h *ReferredByHeader) headerClone() Header { return h.Clone() }

func (h *ReferredByHeader) Clone() *ReferredByHeader {
	if h == nil {
		return nil
	}
	return &ReferredByHeader{h.NamedHeader.Clone()}
}
