package heuristics

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"urlfeatures/probe"
)

var ErrMissingDependency = errors.New("missing dependency")

// PageFetcher returns the parsed page behind a URL, or nil if there is none.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) *goquery.Document
}

type CertificateProber interface {
	PeerCertificates(ctx context.Context, host string) ([]*x509.Certificate, error)
}

type HostResolver interface {
	Resolve(ctx context.Context, host string) ([]string, error)
}

type RegistrationLookup interface {
	Lookup(ctx context.Context, host string) (*probe.Registration, error)
}

// Dependencies are the collaborators the network bound rules talk to.
type Dependencies struct {
	Pages         PageFetcher
	Certificates  CertificateProber
	Hosts         HostResolver
	Registrations RegistrationLookup

	// Now is the clock used by the registration date rules. Defaults to time.Now.
	Now func() time.Time
	// Shorteners lists the hosts of URL shortening services. Defaults to
	// DefaultShorteners.
	Shorteners []string
}

// nolint: gochecknoglobals
var DefaultShorteners = []string{"tinyurl.com", "bit.ly", "goo.gl", "t.co", "ow.ly"}

func (d Dependencies) withDefaults() Dependencies {
	if d.Now == nil {
		d.Now = time.Now
	}

	if len(d.Shorteners) == 0 {
		d.Shorteners = DefaultShorteners
	}

	return d
}

func (d Dependencies) validate(extended bool) error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingDependency, name)
	}

	switch {
	case d.Pages == nil:
		return missing("page fetcher")
	case d.Certificates == nil:
		return missing("certificate prober")
	case d.Registrations == nil:
		return missing("registration lookup")
	case extended && d.Hosts == nil:
		return missing("host resolver")
	}

	return nil
}
