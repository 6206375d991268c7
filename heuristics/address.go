package heuristics

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"urlfeatures/features"
)

// Rules in this file look at the URL string only and never do any I/O.

func parse(rawURL string) (*url.URL, error) {
	return url.Parse(rawURL)
}

// authority is the user info and host part of the URL as it was written,
// e.g. "user@host:8080".
func authority(u *url.URL) string {
	if u.User == nil {
		return u.Host
	}

	return u.User.String() + "@" + u.Host
}

func hasIPAddress(_ context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	if isIPAddress(u.Hostname()) {
		return features.Phishing, nil
	}

	return features.Legitimate, nil
}

// isIPAddress accepts everything an IP stack accepts as an address literal,
// including the legacy IPv4 forms like 0x58.0xCC.0xCA.0x62, 127.1 or 3232235521.
func isIPAddress(host string) bool {
	if len(host) == 0 {
		return false
	}

	if net.ParseIP(host) != nil {
		return true
	}

	parts := strings.Split(host, ".")
	if len(parts) > 4 { // nolint: mnd
		return false
	}

	numbers := make([]uint64, len(parts))

	for idx, part := range parts {
		number, ok := parseIPv4Part(part)
		if !ok {
			return false
		}

		numbers[idx] = number
	}

	// all but the last part are single bytes, the last one fills the rest
	for _, number := range numbers[:len(numbers)-1] {
		if number > 0xff {
			return false
		}
	}

	limit := uint64(1)<<(8*(5-len(numbers))) - 1 // nolint: mnd

	return numbers[len(numbers)-1] <= limit
}

func parseIPv4Part(part string) (uint64, bool) {
	base := 10

	switch {
	case len(part) > 2 && (strings.HasPrefix(part, "0x") || strings.HasPrefix(part, "0X")):
		base, part = 16, part[2:] // nolint: mnd
	case len(part) > 1 && part[0] == '0':
		base, part = 8, part[1:] // nolint: mnd
	}

	if len(part) == 0 {
		return 0, false
	}

	number, err := strconv.ParseUint(part, base, 32)

	return number, err == nil
}

func classifyURLLength(_ context.Context, rawURL string) (features.Value, error) {
	switch length := utf8.RuneCountInString(rawURL); {
	case length < 54: // nolint: mnd
		return features.Legitimate, nil
	case length <= 75: // nolint: mnd
		return features.Suspicious, nil
	default:
		return features.Phishing, nil
	}
}

func classifySubDomain(_ context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	switch strings.Count(host, ".") {
	case 1:
		return features.Legitimate, nil
	case 2: // nolint: mnd
		return features.Suspicious, nil
	default:
		return features.Phishing, nil
	}
}

// classifyRequestURL relates the length of path, query and fragment to the
// length of the whole URL.
func classifyRequestURL(_ context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	request := utf8.RuneCountInString(requestPart(u, rawURL))

	switch share := percentage(request, utf8.RuneCountInString(rawURL)); {
	case share < 22: // nolint: mnd
		return features.Legitimate, nil
	case share <= 61: // nolint: mnd
		return features.Suspicious, nil
	default:
		return features.Phishing, nil
	}
}

// requestPart is the path, query and fragment of rawURL as written, without
// the "?" and "#" separators.
func requestPart(u *url.URL, rawURL string) string {
	rest := rawURL
	if u.Scheme != "" {
		_, rest, _ = strings.Cut(rest, ":")
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		if i := strings.IndexAny(rest, "/?#"); i >= 0 {
			rest = rest[i:]
		} else {
			rest = ""
		}
	}

	path, fragment, _ := strings.Cut(rest, "#")
	path, query, _ := strings.Cut(path, "?")

	return path + query + fragment
}

func checkPrefixSuffix(_ context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	if strings.Contains(authority(u), "-") {
		return features.Phishing, nil
	}

	return features.Legitimate, nil
}

// checkHTTPToken looks for a lower case "http" in the authority. The match
// is case-sensitive.
func checkHTTPToken(_ context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	if strings.Contains(authority(u), "http") {
		return features.Phishing, nil
	}

	return features.Legitimate, nil
}

func checkAtSymbol(_ context.Context, rawURL string) (features.Value, error) {
	if strings.Contains(rawURL, "@") {
		return features.Phishing, nil
	}

	return features.Legitimate, nil
}

type shorteningService struct {
	hosts map[string]struct{}
}

func newShorteningService(hosts []string) *shorteningService {
	set := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		set[strings.ToLower(strings.TrimSpace(host))] = struct{}{}
	}

	return &shorteningService{hosts: set}
}

func (s *shorteningService) Evaluate(_ context.Context, rawURL string) (features.Value, error) {
	u, err := parse(rawURL)
	if err != nil {
		return features.Phishing, err
	}

	if _, found := s.hosts[strings.ToLower(u.Hostname())]; found {
		return features.Phishing, nil
	}

	return features.Legitimate, nil
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(part) / float64(total) * 100 // nolint: mnd
}
