package heuristics

import (
	"context"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlfeatures/features"
)

func offlineDependencies() Dependencies {
	return Dependencies{
		Pages:         staticPages(""),
		Certificates:  stubCertificates{err: errProbe},
		Hosts:         stubHosts{err: errProbe},
		Registrations: stubRegistrations{err: errProbe},
		Now:           clock,
	}
}

// nolint: gochecknoglobals
var referenceColumns = []string{
	"having_IP_Address",
	"SSLfinal_State",
	"URL_of_Anchor",
	"Links_in_tags",
	"having_Sub_Domain",
	"Request_URL",
	"Prefix_Suffix",
	"Domain_registeration_length",
	"SFH",
	"HTTPS_token",
	"having_At_Symbol",
	"URL_Length",
	"Shortining_Service",
}

func TestReference(t *testing.T) {
	t.Parallel()

	rules, err := Reference(offlineDependencies())

	require.NoError(t, err)
	assert.Equal(t, referenceColumns, rules.Names())
}

func TestExtended(t *testing.T) {
	t.Parallel()

	rules, err := Extended(offlineDependencies())

	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, referenceColumns...), "age_of_domain", "DNSRecord"), rules.Names())
}

func TestWithLegacyNames(t *testing.T) {
	t.Parallel()

	rules, err := Reference(offlineDependencies(), WithLegacyNames())

	require.NoError(t, err)

	names := rules.Names()
	assert.Len(t, names, len(referenceColumns))
	assert.Equal(t, "having_IPhaving_IP_Address", names[0])
	assert.Equal(t, "URLURL_Length", names[11])
	assert.Equal(t, referenceColumns[1:11], names[1:11])
}

func TestMissingDependencies(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc       string
		modify   func(d *Dependencies)
		extended bool
		missing  string
	}{
		{uc: "pages", modify: func(d *Dependencies) { d.Pages = nil }, missing: "page fetcher"},
		{uc: "certificates", modify: func(d *Dependencies) { d.Certificates = nil }, missing: "certificate prober"},
		{uc: "registrations", modify: func(d *Dependencies) { d.Registrations = nil }, missing: "registration lookup"},
		{uc: "hosts for extended set", modify: func(d *Dependencies) { d.Hosts = nil }, extended: true, missing: "host resolver"},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			deps := offlineDependencies()
			tc.modify(&deps)

			build := Reference
			if tc.extended {
				build = Extended
			}

			_, err := build(deps)

			require.ErrorIs(t, err, ErrMissingDependency)
			assert.Contains(t, err.Error(), tc.missing)
		})
	}

	t.Run("case=hosts not needed for reference set", func(t *testing.T) {
		t.Parallel()

		deps := offlineDependencies()
		deps.Hosts = nil

		_, err := Reference(deps)

		require.NoError(t, err)
	})
}

func TestReferenceVector(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		uc     string
		url    string
		assert func(t *testing.T, vec features.Vector)
	}{
		{
			uc:  "degenerate input",
			url: "not a url",
			assert: func(t *testing.T, vec features.Vector) {
				t.Helper()

				assert.Equal(t, referenceColumns, vec.Columns())

				for _, value := range vec.Values() {
					assert.Equal(t, features.Phishing, value)
				}
			},
		},
		{
			uc:  "ip literal host",
			url: "http://192.168.0.1/page",
			assert: func(t *testing.T, vec features.Vector) {
				t.Helper()

				value, ok := vec.Get(HavingIPAddress)
				require.True(t, ok)
				assert.Equal(t, features.Phishing, value)

				value, _ = vec.Get(HavingAtSymbol)
				assert.Equal(t, features.Legitimate, value)
			},
		},
		{
			uc:  "at symbol",
			url: "http://a@b.com/x",
			assert: func(t *testing.T, vec features.Vector) {
				t.Helper()

				value, _ := vec.Get(HavingAtSymbol)
				assert.Equal(t, features.Phishing, value)

				value, _ = vec.Get(HavingIPAddress)
				assert.Equal(t, features.Legitimate, value)
			},
		},
		{
			uc:  "unreachable host only affects network columns",
			url: "https://example.com/",
			assert: func(t *testing.T, vec features.Vector) {
				t.Helper()

				expected := map[string]features.Value{
					HavingIPAddress:          features.Legitimate,
					SSLFinalState:            features.Phishing,
					URLOfAnchor:              features.Suspicious,
					LinksInTags:              features.Suspicious,
					HavingSubDomain:          features.Legitimate,
					RequestURL:               features.Legitimate,
					PrefixSuffix:             features.Legitimate,
					DomainRegistrationLength: features.Phishing,
					SFH:                      features.Phishing,
					HTTPSToken:               features.Legitimate,
					HavingAtSymbol:           features.Legitimate,
					URLLength:                features.Legitimate,
					ShorteningService:        features.Legitimate,
				}

				for name, want := range expected {
					value, ok := vec.Get(name)
					require.True(t, ok, name)
					assert.Equal(t, want, value, name)
				}
			},
		},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			t.Parallel()

			rules, err := Reference(offlineDependencies())
			require.NoError(t, err)

			for _, executor := range []features.Executor{features.NewSequentialExecutor(), features.NewConcurrentExecutor()} {
				vec := features.NewExtractor(rules, features.WithExecutor(executor)).Extract(context.Background(), tc.url)

				tc.assert(t, vec)
			}
		})
	}
}

func TestReferenceVectorWithReachableHost(t *testing.T) {
	t.Parallel()

	deps := offlineDependencies()
	deps.Pages = body(`<a href="/a"></a><p></p><p></p><p></p><p></p><p></p><p></p><form action="/login"></form>`)
	deps.Certificates = stubCertificates{certs: []*x509.Certificate{{}}}
	deps.Registrations = stubRegistrations{}

	rules, err := Extended(deps)
	require.NoError(t, err)

	vec := features.NewExtractor(rules).Extract(context.Background(), "https://example.com/")

	for _, name := range []string{SSLFinalState, URLOfAnchor, LinksInTags, DomainRegistrationLength, SFH} {
		value, ok := vec.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, features.Legitimate, value, name)
	}

	value, _ := vec.Get(AgeOfDomain)
	assert.Equal(t, features.Phishing, value)

	value, _ = vec.Get(DNSRecord)
	assert.Equal(t, features.Phishing, value)
}
