package probe

import (
	"context"
	"net/url"
)

// DNSDiagnostics annotates transport failures with a DNS classification of
// the target host, e.g. "dial tcp: lookup x: no such host (dns: NXDOMAIN)".
type DNSDiagnostics struct {
	Inner Checker
	// Classify defaults to CheckDNS(...).Class.
	Classify func(ctx context.Context, host string) string
}

func NewDNSDiagnostics(inner Checker) *DNSDiagnostics {
	return &DNSDiagnostics{Inner: inner}
}

func (d *DNSDiagnostics) Check(ctx context.Context, target string) CheckResult {
	res := d.Inner.Check(ctx, target)
	if res.StatusCode != 0 || res.Error == "" {
		return res
	}
	classify := d.Classify
	if classify == nil {
		classify = func(ctx context.Context, host string) string { return CheckDNS(ctx, host).Class }
	}
	if class := classify(ctx, extractHost(target)); class != "" && class != ClassResolves {
		res.Error += " (dns: " + class + ")"
	}
	return res
}

func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
