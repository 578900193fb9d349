package sip

import (
	"strings"

	"github.com/google/uuid"
)

// ParamSipInstance is Contact header param carrying UA instance URN.
// https://datatracker.ietf.org/doc/html/rfc5626#section-4.1
const ParamSipInstance = "+sip.instance"

// InstanceURN formats id as <urn:uuid:...>
func InstanceURN(id uuid.UUID) string {
	return "<urn:uuid:" + id.String() + ">"
}

// NewInstanceID generates random instance URN.
func NewInstanceID() string {
	return InstanceURN(uuid.New())
}

// SetInstance sets +sip.instance param. RFC 5626 requires quoted form,
// but some UAs send it as token and expect the same back.
func (h *NamedHeader) SetInstance(id uuid.UUID, quoted bool) {
	v := InstanceURN(id)
	if quoted {
		h.Params.Set(ParamSipInstance, Quoted(v))
		return
	}
	h.Params.Set(ParamSipInstance, Token(v))
}

// Instance returns UUID from +sip.instance param in either form.
func (h *NamedHeader) Instance() (uuid.UUID, bool) {
	v, ok := h.Params.Get(ParamSipInstance)
	if !ok {
		return uuid.Nil, false
	}

	s := v.Unquote()
	s, ok = strings.CutPrefix(s, "<")
	if !ok {
		return uuid.Nil, false
	}
	s, ok = strings.CutSuffix(s, ">")
	if !ok {
		return uuid.Nil, false
	}
	if len(s) < 9 || !strings.EqualFold(s[:9], "urn:uuid:") {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(s[9:])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
