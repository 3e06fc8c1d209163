package clock

import (
	"context"
	"time"

	"github.com/beevik/ntp"
)

// Skew probe defaults.
const (
	DefaultSkewServer   = "pool.ntp.org"
	DefaultProbeTimeout = 5 * time.Second

	// maxStratum is the highest NTP stratum accepted as authoritative.
	maxStratum = 15
)

// NTPClient abstracts the SNTP query so tests can script responses.
type NTPClient interface {
	QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error)
}

// defaultNTPClient queries real NTP servers.
type defaultNTPClient struct{}

func (defaultNTPClient) QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error) {
	return ntp.QueryWithOptions(host, options)
}

// SkewProbe measures the offset between the local wall clock and NTP.
// It fires once at startup; it never adjusts anything, it only reports.
type SkewProbe struct {
	server  string
	timeout time.Duration
	client  NTPClient
}

// SkewOption configures a SkewProbe.
type SkewOption func(*SkewProbe)

// WithServer overrides the NTP server.
func WithServer(server string) SkewOption {
	return func(p *SkewProbe) {
		if server != "" {
			p.server = server
		}
	}
}

// WithTimeout overrides the query timeout.
func WithTimeout(timeout time.Duration) SkewOption {
	return func(p *SkewProbe) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithNTPClient injects the query implementation.
func WithNTPClient(client NTPClient) SkewOption {
	return func(p *SkewProbe) {
		if client != nil {
			p.client = client
		}
	}
}

// NewSkewProbe builds a probe against the default pool server.
func NewSkewProbe(opts ...SkewOption) *SkewProbe {
	p := &SkewProbe{
		server:  DefaultSkewServer,
		timeout: DefaultProbeTimeout,
		client:  defaultNTPClient{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Measure queries the server once and returns the local clock offset.
// A positive offset means the local clock is behind NTP time. The
// context only bounds scheduling; the query itself is bounded by the
// configured timeout.
func (p *SkewProbe) Measure(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	resp, err := p.client.QueryWithOptions(p.server, ntp.QueryOptions{Timeout: p.timeout})
	if err != nil {
		return 0, err
	}
	if err := validateResponse(resp); err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// validateResponse rejects responses from unsynchronized or bogus
// servers before trusting their offset.
func validateResponse(resp *ntp.Response) error {
	if resp.Leap == ntp.LeapNotInSync {
		return errNotInSync
	}
	if resp.Stratum == 0 || resp.Stratum > maxStratum {
		return errBadStratum
	}
	if resp.Time.IsZero() {
		return errZeroTime
	}
	if resp.RTT < 0 {
		return errNegativeRTT
	}
	return nil
}

type probeError string

func (e probeError) Error() string { return string(e) }

const (
	errNotInSync   = probeError("ntp server clock not synchronized")
	errBadStratum  = probeError("ntp stratum out of range")
	errZeroTime    = probeError("ntp returned zero time")
	errNegativeRTT = probeError("ntp round trip time negative")
)
