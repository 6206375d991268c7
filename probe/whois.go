package probe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	whois "github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"
	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

const DefaultWhoisCacheTTL = time.Hour

// Registration holds the registry dates of a domain. Zero times mean the
// registry did not report the date or it could not be parsed.
type Registration struct {
	Domain  string
	Created time.Time
	Expires time.Time
}

type whoisQuerier interface {
	Whois(domain string, servers ...string) (string, error)
}

// WhoisClient looks up domain registrations. Results are cached per
// registrable domain and concurrent lookups of the same domain are merged.
// Close releases the cache janitor.
type WhoisClient struct {
	querier  whoisQuerier
	cache    *ttlcache.Cache[string, *Registration]
	inflight singleflight.Group
	stop     sync.Once
}

func NewWhoisClient(timeout, cacheTTL time.Duration) *WhoisClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return newWhoisClient(whois.NewClient().SetTimeout(timeout), cacheTTL)
}

func newWhoisClient(querier whoisQuerier, cacheTTL time.Duration) *WhoisClient {
	if cacheTTL <= 0 {
		cacheTTL = DefaultWhoisCacheTTL
	}

	cache := ttlcache.New[string, *Registration](
		ttlcache.WithTTL[string, *Registration](cacheTTL),
		ttlcache.WithDisableTouchOnHit[string, *Registration](),
	)

	go cache.Start()

	return &WhoisClient{querier: querier, cache: cache}
}

// Close stops the eviction of expired registrations. It is safe to call
// more than once.
func (c *WhoisClient) Close() {
	c.stop.Do(c.cache.Stop)
}

// Lookup returns the registration of the domain host belongs to. The query
// itself is shared by all callers asking for the same domain and is not
// cancelled when one of them gives up; every caller only waits as long as
// its own context allows.
func (c *WhoisClient) Lookup(ctx context.Context, host string) (*Registration, error) {
	domain := RegistrableDomain(host)
	if len(domain) == 0 {
		return nil, ErrEmptyHost
	}

	if item := c.cache.Get(domain); item != nil && !item.IsExpired() {
		return item.Value(), nil
	}

	detached := context.WithoutCancel(ctx)

	// the whois client has no context support, it is bounded by its own timeout
	ch := c.inflight.DoChan(domain, func() (any, error) {
		reg, err := c.lookup(detached, domain)
		if err != nil {
			return nil, err
		}

		c.cache.Set(domain, reg, ttlcache.DefaultTTL)

		return reg, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*Registration), nil // nolint: forcetypeassert
	case <-ctx.Done():
		return nil, fmt.Errorf("whois %s: %w", domain, ctx.Err())
	}
}

// lookup queries the registrable domain only, never one of its parents.
func (c *WhoisClient) lookup(ctx context.Context, domain string) (*Registration, error) {
	raw, err := c.querier.Whois(domain)
	if err != nil {
		return nil, fmt.Errorf("whois %s: %w", domain, err)
	}

	info, err := parser.Parse(raw)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("_domain", domain).Msg("Unparsable whois answer")

		return nil, fmt.Errorf("%w: parse whois response for %s: %w", ErrNoRegistration, domain, err)
	}

	if info.Domain == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRegistration, domain)
	}

	return &Registration{
		Domain:  domain,
		Created: registryDate(info.Domain.CreatedDateInTime, info.Domain.CreatedDate),
		Expires: registryDate(info.Domain.ExpirationDateInTime, info.Domain.ExpirationDate),
	}, nil
}

// registryDate prefers the date the whois parser already decoded and falls
// back to the raw value.
func registryDate(parsed *time.Time, raw string) time.Time {
	if parsed != nil && !parsed.IsZero() {
		return *parsed
	}

	return ParseRegistryDate(raw)
}

// RegistrableDomain reduces a host to the domain a registry knows about,
// e.g. login.accounts.example.co.uk -> example.co.uk. Hosts without a known
// public suffix are returned as they are.
func RegistrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if len(host) == 0 {
		return ""
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}

	return domain
}

// nolint: gochecknoglobals
var registryDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
	"02-Jan-2006",
	"02-Jan-2006 15:04:05",
	"2006.01.02",
	"2006/01/02",
	"02.01.2006",
	"January 2 2006",
	time.UnixDate,
}

// ParseRegistryDate parses the date formats registries commonly answer with.
// It backs up the whois parser for raw values it could not decode. Unknown
// formats yield the zero time.
func ParseRegistryDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return time.Time{}
	}

	for _, layout := range registryDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}
