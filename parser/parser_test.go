package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emiago/sipaddr/sip"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerStrings(hdrs []sip.Header) []string {
	strs := make([]string, len(hdrs))
	for i, h := range hdrs {
		strs[i] = h.String()
	}
	return strs
}

func TestParseHeaders(t *testing.T) {
	rawHeaders := []string{
		"Via: SIP/2.0/UDP 127.0.0.2:5060;branch=z9hG4bK.VYWrxJJyeEJfngAjKXELr8aPYuX8tR22",
		"From: \"Alice\" <sip:alice@127.0.0.2:5060>;tag=1928301774",
		"To: Bob <sip:bob@127.0.0.1:5060>",
		"m: <sip:alice@127.0.0.2:5060>;expires=3600, sip:alice@10.0.0.1",
		"Route: <sip:p1.example.com;lr>,",
		" <sip:p2.example.com;lr>",
		"Content-Length: 0",
		"",
		"Contact: <sip:body@example.com>",
	}

	hdrs, err := ParseHeaders([]byte(strings.Join(rawHeaders, "\r\n")))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"From: Alice <sip:alice@127.0.0.2:5060>;tag=1928301774",
		"To: Bob <sip:bob@127.0.0.1:5060>",
		"Contact: sip:alice@127.0.0.2:5060;expires=3600",
		"Contact: sip:alice@10.0.0.1",
		"Route: <sip:p1.example.com;lr>",
		"Route: <sip:p2.example.com;lr>",
	}, headerStrings(hdrs))

	from, ok := hdrs[0].(*sip.FromHeader)
	require.True(t, ok)
	tag, _ := from.Tag()
	assert.Equal(t, "1928301774", tag)
	assert.Equal(t, sip.KindContact, hdrs[2].Kind())
}

func TestParseLine(t *testing.T) {
	p := NewParser()

	t.Run("Compact", func(t *testing.T) {
		for _, line := range []string{"m: <sip:guy@example.com>", "CONTACT: <sip:guy@example.com>", "contact:<sip:guy@example.com>\r\n"} {
			hdrs, err := p.ParseLine([]byte(line))
			require.NoError(t, err, line)
			require.Len(t, hdrs, 1)
			assert.Equal(t, "Contact: sip:guy@example.com", hdrs[0].String())
		}
	})

	t.Run("Wildcard", func(t *testing.T) {
		hdrs, err := p.ParseLine([]byte("Contact: *"))
		require.NoError(t, err)
		require.Len(t, hdrs, 1)
		assert.True(t, hdrs[0].Named().Address.Wildcard)
		assert.Equal(t, "Contact: *", hdrs[0].String())

		_, err = p.ParseLine([]byte("To: *"))
		require.Error(t, err)
	})

	t.Run("SingleValue", func(t *testing.T) {
		_, err := p.ParseLine([]byte("To: <sip:a@example.com>, <sip:b@example.com>"))
		require.ErrorIs(t, err, sip.ErrTrailingGarbage)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := p.ParseLine([]byte("Contact <sip:guy@example.com>"))
		require.ErrorIs(t, err, sip.ErrMissingFieldName)

		_, err = p.ParseLine([]byte("Bad Name: <sip:guy@example.com>"))
		require.ErrorIs(t, err, sip.ErrMissingFieldName)

		_, err = p.ParseLine([]byte("Via: SIP/2.0/UDP 127.0.0.1"))
		require.ErrorIs(t, err, sip.ErrUnknownHeader)

		_, err = p.ParseLine([]byte("From: \"Alice <sip:alice@example.com>"))
		require.ErrorIs(t, err, sip.ErrMalformedDisplayName)

		_, err = p.ParseLine([]byte("From: Alice <sip:alice@example.com"))
		require.ErrorIs(t, err, sip.ErrMissingAddress)
	})

	t.Run("Position", func(t *testing.T) {
		_, err := p.ParseLine([]byte("Contact: <sip:guy@example.com> bad"))
		var perr *sip.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "Contact", perr.Header)
		assert.Equal(t, 31, perr.Pos)
		assert.ErrorIs(t, err, sip.ErrTrailingGarbage)
	})
}

func TestParseHeadersStrict(t *testing.T) {
	block := []byte("From: Alice <sip:alice@example.com\r\nTo: <sip:bob@example.com>\r\n\r\n")

	var logs bytes.Buffer
	p := NewParser(WithParserLogger(zerolog.New(&logs)))
	hdrs, err := p.ParseHeaders(block)
	require.NoError(t, err)
	assert.Equal(t, []string{"To: <sip:bob@example.com>"}, headerStrings(hdrs))
	assert.Contains(t, logs.String(), "Skip header due to error")

	p = NewParser(WithStrict())
	hdrs, err = p.ParseHeaders(block)
	require.ErrorIs(t, err, sip.ErrMissingAddress)
	assert.Empty(t, hdrs)
}

func TestParseHeadersLineEndings(t *testing.T) {
	block := []byte("Contact: <sip:a@example.com>\nTo: <sip:b@example.com>")

	hdrs, err := NewParser().ParseHeaders(block)
	require.NoError(t, err)
	assert.Len(t, hdrs, 2)

	_, err = NewParser(WithStrict()).ParseHeaders(block)
	require.ErrorIs(t, err, ErrLineNoCRLF)
}

func TestParseHeadersCustomParsers(t *testing.T) {
	parsers := DefaultHeadersParser()
	delete(parsers, "to")
	delete(parsers, "t")

	block := []byte("To: <sip:b@example.com>\r\nContact: <sip:a@example.com>\r\n\r\n")
	hdrs, err := NewParser(WithHeadersParsers(parsers)).ParseHeaders(block)
	require.NoError(t, err)
	assert.Equal(t, []string{"Contact: sip:a@example.com"}, headerStrings(hdrs))

	// default table is not touched
	_, ok := DefaultHeadersParser()["to"]
	assert.True(t, ok)
}

func TestParserMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	p := NewParser(WithMetrics(m), WithParserLogger(zerolog.Nop()))
	block := strings.Join([]string{
		"Contact: <sip:a@example.com>, <sip:b@example.com>",
		"m: <sip:c@example.com>",
		"From: Alice <sip:alice@example.com",
		"To: <sip:b@example.com>;tag",
		"Route: <sip:p1.example.com;lr> junk",
		"",
	}, "\r\n")
	_, err = p.ParseHeaders([]byte(block))
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.parsed.WithLabelValues("Contact", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.parsed.WithLabelValues("From", "missing_address")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.parsed.WithLabelValues("To", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.parsed.WithLabelValues("Route", "trailing_garbage")))

	// registering twice reuses collector
	m2, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, m.parsed, m2.parsed)
}

func TestParserMetricsConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	// same name, help and labels, but different collector type
	other := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sip_named_headers_parsed_total",
		Help: "Total number of parsed SIP named address headers",
	}, []string{"header", "result"})
	require.NoError(t, reg.Register(other))

	m, err := NewMetrics(reg)
	require.Error(t, err)
	assert.Nil(t, m)
}

func BenchmarkParseHeaders(b *testing.B) {
	block := []byte(strings.Join([]string{
		"From: \"Alice\" <sip:alice@127.0.0.2:5060>;tag=1928301774",
		"To: \"Bob\" <sip:bob@127.0.0.1:5060>",
		"Contact: <sip:alice@127.0.0.2:5060>;expires=3600",
		"",
	}, "\r\n"))
	p := NewParser()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hdrs, err := p.ParseHeaders(block)
		if err != nil {
			b.Fatal(err)
		}
		if len(hdrs) != 3 {
			b.Fatal("missing headers")
		}
	}
}
