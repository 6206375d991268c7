package probe

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Resolver looks up host addresses, either through the system resolver or a
// fixed nameserver.
type Resolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewResolver returns a resolver bounded by timeout. If nameserver is given
// (host:port), every query is sent there over UDP.
func NewResolver(timeout time.Duration, nameserver string) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	resolver := net.DefaultResolver
	if len(nameserver) != 0 {
		resolver = &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
				d := net.Dialer{Timeout: timeout}

				return d.DialContext(ctx, "udp", nameserver)
			},
		}
	}

	return &Resolver{resolver: resolver, timeout: timeout}
}

func (r *Resolver) Resolve(ctx context.Context, host string) ([]string, error) {
	if len(host) == 0 {
		return nil, ErrEmptyHost
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}

	return addrs, nil
}
