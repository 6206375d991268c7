package heuristics

import (
	"context"
	"time"

	"urlfeatures/features"
)

const (
	minimumDomainAge      = 6 * 30 * 24 * time.Hour
	minimumRemainingLease = 120 * 24 * time.Hour
)

type sslState struct {
	certificates CertificateProber
}

func (r sslState) Evaluate(ctx context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	host := u.Hostname()
	if len(host) == 0 {
		return features.Phishing, nil
	}

	certs, err := r.certificates.PeerCertificates(ctx, host)
	if err != nil {
		return features.Phishing, err
	}

	if len(certs) == 0 {
		return features.Phishing, nil
	}

	return features.Legitimate, nil
}

// registrationLength flags domains whose registration runs out within the
// next 120 days. A registry that does not report the expiry is not held
// against the domain.
type registrationLength struct {
	registrations RegistrationLookup
	now           func() time.Time
}

func (r registrationLength) Evaluate(ctx context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	reg, err := r.registrations.Lookup(ctx, u.Hostname())
	if err != nil {
		return features.Phishing, err
	}

	if !reg.Expires.IsZero() && !reg.Expires.After(r.now().Add(minimumRemainingLease)) {
		return features.Phishing, nil
	}

	return features.Legitimate, nil
}

// domainAge accepts only domains registered for more than six months.
type domainAge struct {
	registrations RegistrationLookup
	now           func() time.Time
}

func (r domainAge) Evaluate(ctx context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	reg, err := r.registrations.Lookup(ctx, u.Hostname())
	if err != nil {
		return features.Phishing, err
	}

	if !reg.Created.IsZero() && reg.Created.Before(r.now().Add(-minimumDomainAge)) {
		return features.Legitimate, nil
	}

	return features.Phishing, nil
}

type dnsRecord struct {
	hosts HostResolver
}

func (r dnsRecord) Evaluate(ctx context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	if _, err := r.hosts.Resolve(ctx, u.Hostname()); err != nil {
		return features.Phishing, err
	}

	return features.Legitimate, nil
}
