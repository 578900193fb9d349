package parser

import (
	"github.com/emiago/sipaddr/sip"
)

// A HeaderParser is any function that turns raw header data into one or more Header objects.
// headerData is header value without field name.
type HeaderParser func(headerName string, headerData []byte) ([]sip.Header, error)

var headersParsers = map[string]HeaderParser{
	"contact":      parseContactHeader,
	"m":            parseContactHeader,
	"from":         parseFromHeader,
	"f":            parseFromHeader,
	"to":           parseToHeader,
	"t":            parseToHeader,
	"reply-to":     parseReplyToHeader,
	"route":        parseRouteHeader,
	"record-route": parseRecordRouteHeader,
	"refer-to":     parseReferToHeader,
	"r":            parseReferToHeader,
	"referred-by":  parseReferredByHeader,
	"b":            parseReferredByHeader,
}

// DefaultHeadersParser returns copy of default header parsers.
// It can be extended or overwritten and passed with WithHeadersParsers
func DefaultHeadersParser() map[string]HeaderParser {
	m := make(map[string]HeaderParser, len(headersParsers))
	for k, v := range headersParsers {
		m[k] = v
	}
	return m
}

// Contact, Route and Record-Route may carry comma separated list
func parseContactHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindContact, headerData, true)
}

func parseRouteHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindRoute, headerData, true)
}

func parseRecordRouteHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindRecordRoute, headerData, true)
}

func parseFromHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindFrom, headerData, false)
}

func parseToHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindTo, headerData, false)
}

func parseReplyToHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindReplyTo, headerData, false)
}

func parseReferToHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindReferTo, headerData, false)
}

func parseReferredByHeader(headerName string, headerData []byte) ([]sip.Header, error) {
	return sip.ParseNamedHeaderValues(sip.KindReferredBy, headerData, false)
}
