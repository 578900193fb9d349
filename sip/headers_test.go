package sip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInstance = "<urn:uuid:1e020c2b-46f6-4867-9d11-65547b8967fa>"

func guyUri() Uri {
	return NewSipUri("example.com").WithUser("guy")
}

func TestContactHeaderWrite(t *testing.T) {
	t.Run("DisplayName", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeaderWithName(guyUri(), "Guy")}
		assert.Equal(t, "Contact: Guy <sip:guy@example.com>", h.String())
	})

	t.Run("DisplayNameQuoted", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeaderWithName(guyUri(), "Guy With Face")}
		assert.Equal(t, "Contact: \"Guy With Face\" <sip:guy@example.com>", h.String())
	})

	t.Run("DisplayNameEscaped", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeaderWithName(guyUri(), `Guy "The" \Face`)}
		assert.Equal(t, `Contact: "Guy \"The\" \\Face" <sip:guy@example.com>`, h.String())
	})

	t.Run("EmptyDisplayName", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeaderWithName(guyUri(), "")}
		assert.Equal(t, "Contact: <sip:guy@example.com>", h.String())
	})

	t.Run("Bare", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeader(guyUri())}
		assert.Equal(t, "Contact: sip:guy@example.com", h.String())
		assert.Equal(t, "sip:guy@example.com", h.Value())
	})

	t.Run("TokenParam", func(t *testing.T) {
		named := NewNamedHeader(guyUri())
		named.SetParam("+sip.instance", testInstance)
		h := &ContactHeader{named}
		assert.Equal(t, "Contact: sip:guy@example.com;+sip.instance="+testInstance, h.String())
	})

	t.Run("QuotedParam", func(t *testing.T) {
		named := NewNamedHeader(guyUri())
		named.SetParam("+sip.instance", `"`+testInstance+`"`)
		h := &ContactHeader{named}
		assert.Equal(t, "Contact: <sip:guy@example.com>;+sip.instance=\""+testInstance+"\"", h.String())
	})

	t.Run("FlagParam", func(t *testing.T) {
		named := NewNamedHeader(guyUri())
		named.SetParam("expires", "3600")
		named.SetParam("reg-id", "")
		h := &ContactHeader{named}
		assert.Equal(t, "Contact: sip:guy@example.com;expires=3600;reg-id", h.String())
	})

	t.Run("UriParamsForceBrackets", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeader(guyUri().WithParam("transport", "tcp"))}
		assert.Equal(t, "Contact: <sip:guy@example.com;transport=tcp>", h.String())
	})

	t.Run("Wildcard", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeader(Uri{Host: "*", Wildcard: true})}
		assert.Equal(t, "Contact: *", h.String())
	})

	t.Run("StringWrite", func(t *testing.T) {
		h := &ContactHeader{NewNamedHeaderWithName(guyUri(), "Guy")}
		var b strings.Builder
		h.StringWrite(&b)
		assert.Equal(t, h.String(), b.String())
	})
}

func TestContactHeaderRead(t *testing.T) {
	t.Run("DisplayName", func(t *testing.T) {
		h, rest, err := ParseHeader([]byte("Contact: Guy <sip:guy@example.com>\r\n"))
		require.NoError(t, err)
		assert.Empty(t, rest)

		expected := &ContactHeader{NewNamedHeaderWithName(guyUri(), "Guy")}
		assert.Equal(t, expected, h)
		assert.Equal(t, "Contact: Guy <sip:guy@example.com>", h.String())
	})

	t.Run("DisplayNameQuoted", func(t *testing.T) {
		h, rest, err := ParseHeader([]byte("Contact: \"Guy with face\" <sip:guy@example.com>\r\n"))
		require.NoError(t, err)
		assert.Empty(t, rest)

		expected := &ContactHeader{NewNamedHeaderWithName(guyUri(), "Guy with face")}
		assert.Equal(t, expected, h)
		assert.Equal(t, "Contact: \"Guy with face\" <sip:guy@example.com>", h.String())
	})

	t.Run("Brackets", func(t *testing.T) {
		h, rest, err := ParseHeader([]byte("Contact: <sip:guy@example.com>\r\n"))
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, &ContactHeader{NewNamedHeader(guyUri())}, h)

		_, ok := h.Named().DisplayName()
		assert.False(t, ok)
	})

	t.Run("TokenParam", func(t *testing.T) {
		named := NewNamedHeader(guyUri())
		named.SetParam("+sip.instance", testInstance)

		v, ok := named.Param("+sip.instance")
		require.True(t, ok)
		assert.Equal(t, Token(testInstance), v)
		assert.Equal(t, testInstance, v.String())

		h, _, err := ParseHeader([]byte("Contact: sip:guy@example.com;+sip.instance=" + testInstance + "\r\n"))
		require.NoError(t, err)
		assert.Equal(t, &ContactHeader{named}, h)
	})

	t.Run("QuotedParam", func(t *testing.T) {
		named := NewNamedHeader(guyUri())
		named.SetParam("+sip.instance", `"`+testInstance+`"`)

		v, ok := named.Param("+sip.instance")
		require.True(t, ok)
		assert.Equal(t, GenValueFrom(`"`+testInstance+`"`), v)
		assert.Equal(t, `"`+testInstance+`"`, v.String())

		h, rest, err := ParseHeader([]byte("Contact: <sip:guy@example.com>;+sip.instance=\"" + testInstance + "\"\r\n"))
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, &ContactHeader{named}, h)
	})

	t.Run("Unterminated", func(t *testing.T) {
		h, _, err := ParseHeader([]byte("Contact: \"unterminated <sip:guy@example.com>\r\n"))
		require.Error(t, err)
		assert.Nil(t, h)
		assert.ErrorIs(t, err, ErrMalformedDisplayName)
	})
}

func TestHeaderVariants(t *testing.T) {
	named := NewNamedHeaderWithName(NewSipUri("atlanta.com").WithUser("alice"), "Alice")
	named.SetParam("tag", "1928301774")

	testCases := []struct {
		kind     HeaderKind
		expected string
	}{
		{KindContact, `Contact: Alice <sip:alice@atlanta.com>;tag=1928301774`},
		{KindFrom, `From: Alice <sip:alice@atlanta.com>;tag=1928301774`},
		{KindTo, `To: Alice <sip:alice@atlanta.com>;tag=1928301774`},
		{KindReplyTo, `Reply-To: Alice <sip:alice@atlanta.com>;tag=1928301774`},
		{KindRoute, `Route: Alice <sip:alice@atlanta.com>;tag=1928301774`},
		{KindRecordRoute, `Record-Route: Alice <sip:alice@atlanta.com>;tag=1928301774`},
		{KindReferTo, `Refer-To: Alice <sip:alice@atlanta.com>;tag=1928301774`},
		{KindReferredBy, `Referred-By: Alice <sip:alice@atlanta.com>;tag=1928301774`},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			h := NewHeader(tc.kind, named.Clone())
			require.NotNil(t, h)
			assert.Equal(t, tc.kind, h.Kind())
			assert.Equal(t, tc.kind.String(), h.Name())
			assert.Equal(t, tc.expected, h.String())

			parsed, _, err := ParseHeader([]byte(tc.expected))
			require.NoError(t, err)
			assert.Equal(t, h, parsed)
		})
	}

	t.Run("RouteAlwaysBrackets", func(t *testing.T) {
		h := &RouteHeader{NewNamedHeader(NewSipUri("p1.example.com"))}
		assert.Equal(t, "Route: <sip:p1.example.com>", h.String())

		c := &ContactHeader{NewNamedHeader(NewSipUri("p1.example.com"))}
		assert.Equal(t, "Contact: sip:p1.example.com", c.String())
	})

	t.Run("Unknown", func(t *testing.T) {
		assert.Nil(t, NewHeader(0, named))
		assert.Equal(t, "", HeaderKind(100).String())
	})
}

func TestLookupHeaderKind(t *testing.T) {
	for name, kind := range map[string]HeaderKind{
		"Contact":      KindContact,
		"contact":      KindContact,
		"CONTACT":      KindContact,
		"m":            KindContact,
		"M":            KindContact,
		"f":            KindFrom,
		"t":            KindTo,
		"Reply-To":     KindReplyTo,
		"record-route": KindRecordRoute,
		"r":            KindReferTo,
		"b":            KindReferredBy,
	} {
		k, ok := LookupHeaderKind(name)
		assert.True(t, ok, name)
		assert.Equal(t, kind, k, name)
	}

	_, ok := LookupHeaderKind("Via")
	assert.False(t, ok)
	assert.Equal(t, "m", KindContact.CompactName())
	assert.Equal(t, "", KindRoute.CompactName())
}

func TestHeaderClone(t *testing.T) {
	named := NewNamedHeaderWithName(guyUri().WithParam("transport", "udp"), "Guy")
	named.SetParam("expires", "60")
	h := &ContactHeader{named}

	c := HeaderClone(h).(*ContactHeader)
	assert.Equal(t, h, c)

	c.SetParam("expires", "120")
	c.Address.UriParams.Set("transport", Token("tcp"))
	c.SetDisplayName("Other")

	assert.Equal(t, "Contact: Guy <sip:guy@example.com;transport=udp>;expires=60", h.String())
	assert.Equal(t, "Contact: Other <sip:guy@example.com;transport=tcp>;expires=120", c.String())

	var nilContact *ContactHeader
	assert.Nil(t, nilContact.Clone())
}

func TestFromToConvert(t *testing.T) {
	from := &FromHeader{NewNamedHeaderWithName(NewSipUri("atlanta.com").WithUser("alice"), "Alice")}
	from.SetParam("tag", "abc")

	to := from.AsTo()
	assert.Equal(t, "To: Alice <sip:alice@atlanta.com>;tag=abc", to.String())

	back := to.AsFrom()
	assert.Equal(t, from.String(), back.String())
}

func BenchmarkContactString(b *testing.B) {
	named := NewNamedHeaderWithName(guyUri(), "Guy with face")
	named.SetParam("+sip.instance", `"`+testInstance+`"`)
	h := &ContactHeader{named}

	var buf strings.Builder
	for i := 0; i < b.N; i++ {
		buf.Reset()
		h.StringWrite(&buf)
	}
}
