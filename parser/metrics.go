package parser

import (
	"errors"
	"fmt"

	"github.com/emiago/sipaddr/sip"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts parsed headers by lower case field name and result.
type Metrics struct {
	parsed *prometheus.CounterVec
}

// NewMetrics creates and registers parser metrics on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		parsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sip_named_headers_parsed_total",
				Help: "Total number of parsed SIP named address headers",
			},
			[]string{"header", "result"},
		),
	}

	if err := reg.Register(m.parsed); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector %T already registered as parser metrics: %w", are.ExistingCollector, err)
		}
		m.parsed = existing
	}
	return m, nil
}

func (m *Metrics) observe(header string, err error) {
	if m == nil {
		return
	}
	// compact forms are counted under full name
	if kind, ok := sip.LookupHeaderKind(header); ok {
		header = kind.String()
	}
	m.parsed.WithLabelValues(header, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, sip.ErrMalformedDisplayName):
		return "malformed_display_name"
	case errors.Is(err, sip.ErrMissingAddress):
		return "missing_address"
	case errors.Is(err, sip.ErrMalformedParameter):
		return "malformed_parameter"
	case errors.Is(err, sip.ErrTrailingGarbage):
		return "trailing_garbage"
	case errors.Is(err, sip.ErrUriParse):
		return "uri_parse"
	}
	return "error"
}
