package features

import "net/url"

// IsValidURL reports whether raw is an absolute URL with both a scheme and a
// host. Input that fails to parse is invalid.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return len(u.Scheme) != 0 && len(u.Host) != 0
}
