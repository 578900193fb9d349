package parser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/emiago/sipaddr/sip"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrLineNoCRLF = errors.New("line has no CRLF")
)

// ParseHeaders parses header block with default parser.
func ParseHeaders(data []byte) ([]sip.Header, error) {
	return NewParser().ParseHeaders(data)
}

// Parser parses named address headers out of header lines or whole header block.
// Headers without registered parser are skipped.
type Parser struct {
	log zerolog.Logger
	// headersParsers maps lower case field name to parser. Compact forms are separate keys
	headersParsers map[string]HeaderParser
	// strict makes bad header fail whole block instead of being skipped
	strict  bool
	metrics *Metrics
}

// ParserOption are addition option for NewParser. Check WithParser...
type ParserOption func(p *Parser)

// Create a new Parser.
func NewParser(options ...ParserOption) *Parser {
	p := &Parser{
		log:            log.Logger,
		headersParsers: headersParsers,
	}

	for _, o := range options {
		o(p)
	}

	return p
}

// WithParserLogger allows customizing parser logger
func WithParserLogger(logger zerolog.Logger) ParserOption {
	return func(p *Parser) {
		p.log = logger
	}
}

// WithHeadersParsers allows customizing parser headers parsers
// Keys must be lower case field names.
//
// Check DefaultHeadersParser as starting point
func WithHeadersParsers(m map[string]HeaderParser) ParserOption {
	return func(p *Parser) {
		p.headersParsers = m
	}
}

// WithStrict makes ParseHeaders return first header error
// instead of logging and skipping broken header.
func WithStrict() ParserOption {
	return func(p *Parser) {
		p.strict = true
	}
}

// WithMetrics counts every parsed header. Check NewMetrics
func WithMetrics(m *Metrics) ParserOption {
	return func(p *Parser) {
		p.metrics = m
	}
}

// ParseLine parses single header line "Name: value". Line may end with CRLF
// and may be folded. Comma separated values are returned as separate headers.
// Field name with no registered parser returns sip.ErrUnknownHeader.
func (p *Parser) ParseLine(line []byte) ([]sip.Header, error) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return nil, fmt.Errorf("field name with no value in header %q: %w", line, sip.ErrMissingFieldName)
	}

	fieldName := string(bytes.TrimSpace(line[:colonIdx]))
	if !sip.IsToken(fieldName) {
		return nil, &sip.ParseError{Header: fieldName, Err: sip.ErrMissingFieldName}
	}
	lowerFieldName := sip.HeaderToLower(fieldName)
	headerParser, ok := p.headersParsers[lowerFieldName]
	if !ok {
		return nil, &sip.ParseError{Header: fieldName, Err: sip.ErrUnknownHeader}
	}

	fieldText := bytes.TrimSpace(line[colonIdx+1:])
	hdrs, err := headerParser(lowerFieldName, fieldText)
	if err != nil {
		var perr *sip.ParseError
		if errors.As(err, &perr) {
			perr.Header = fieldName
			// Position is reported against whole line
			perr.Pos += colonIdx + 1 + leadingSpace(line[colonIdx+1:])
		}
		p.metrics.observe(lowerFieldName, err)
		return nil, err
	}
	p.metrics.observe(lowerFieldName, nil)
	return hdrs, nil
}

// ParseHeaders parses header block until empty line or end of data.
// Lines are CRLF terminated, bare LF is tolerated and folded lines are joined.
// Headers not registered in parser are skipped.
func (p *Parser) ParseHeaders(data []byte) ([]sip.Header, error) {
	var hdrs []sip.Header
	for len(data) > 0 {
		line, rest, err := nextLine(data)
		if err != nil && p.strict {
			return hdrs, err
		}
		data = rest

		if len(line) == 0 {
			// Empty line ends header block
			break
		}

		parsed, err := p.ParseLine(line)
		if err != nil {
			if errors.Is(err, sip.ErrUnknownHeader) {
				p.log.Debug().Bytes("line", line).Msg("No parser for header, skipping")
				continue
			}
			if p.strict {
				return hdrs, err
			}
			p.log.Info().Err(err).Bytes("line", line).Msg("Skip header due to error")
			continue
		}
		hdrs = append(hdrs, parsed...)
	}
	return hdrs, nil
}

// nextLine returns logical header line without line end.
// Continuation lines starting with space or tab are joined into line
// keeping fold as is, header parsers handle LWS themselves.
func nextLine(data []byte) (line []byte, rest []byte, err error) {
	from := 0
	for {
		i := bytes.IndexByte(data[from:], '\n')
		if i < 0 {
			// https://www.rfc-editor.org/rfc/rfc3261.html#section-7
			// Each message-header line MUST be terminated by CRLF
			return data, nil, ErrLineNoCRLF
		}
		i += from

		end := i
		if end > 0 && data[end-1] == '\r' {
			end--
		} else {
			err = ErrLineNoCRLF
		}

		// Empty line is never folded
		if end > 0 && i+1 < len(data) && (data[i+1] == ' ' || data[i+1] == '\t') {
			from = i + 1
			continue
		}
		return data[:end], data[i+1:], err
	}
}

func leadingSpace(b []byte) int {
	return len(b) - len(bytes.TrimLeft(b, " \t\r\n"))
}
