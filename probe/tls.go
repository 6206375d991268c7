package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"strconv"
	"time"
)

const DefaultTLSPort = 443

// TLSProber performs a verified TLS handshake with a host and reports the
// certificates it presented.
type TLSProber struct {
	timeout time.Duration
	port    int
	roots   *x509.CertPool
}

type TLSProberOption func(*TLSProber)

func WithTLSPort(port int) TLSProberOption {
	return func(p *TLSProber) {
		if port > 0 {
			p.port = port
		}
	}
}

// WithRootCAs replaces the system trust store used to verify peers.
func WithRootCAs(pool *x509.CertPool) TLSProberOption {
	return func(p *TLSProber) {
		if pool != nil {
			p.roots = pool
		}
	}
}

func NewTLSProber(timeout time.Duration, opts ...TLSProberOption) *TLSProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	prober := &TLSProber{timeout: timeout, port: DefaultTLSPort}

	for _, opt := range opts {
		opt(prober)
	}

	return prober
}

func (p *TLSProber) PeerCertificates(ctx context.Context, host string) ([]*x509.Certificate, error) {
	if len(host) == 0 {
		return nil, ErrEmptyHost
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.timeout},
		Config: &tls.Config{
			ServerName: host,
			RootCAs:    p.roots,
			MinVersion: tls.VersionTLS12,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(p.port)))
	if err != nil {
		return nil, fmt.Errorf("tls handshake with %s: %w", host, err)
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates // nolint: forcetypeassert
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCertificate, host)
	}

	return certs, nil
}
