package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlfeatures/config"
)

// nolint: gochecknoglobals
var referenceColumns = []string{
	"having_IP_Address", "SSLfinal_State", "URL_of_Anchor", "Links_in_tags",
	"having_Sub_Domain", "Request_URL", "Prefix_Suffix", "Domain_registeration_length",
	"SFH", "HTTPS_token", "having_At_Symbol", "URL_Length", "Shortining_Service",
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}

	root := NewRootCommand()
	root.SetOut(buf)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()

	return buf.String(), err
}

func lines(out string) []string {
	return strings.Split(strings.TrimRight(out, "\n"), "\n")
}

func TestExtractDegenerateURL(t *testing.T) {
	for _, tc := range []struct {
		uc     string
		args   []string
		assert func(t *testing.T, out string)
	}{
		{
			uc:   "csv with header",
			args: []string{"extract", "not a url"},
			assert: func(t *testing.T, out string) {
				t.Helper()

				rows := lines(out)
				require.Len(t, rows, 2)
				assert.Equal(t, strings.Join(referenceColumns, ","), rows[0])
				assert.Equal(t, strings.TrimSuffix(strings.Repeat("-1,", len(referenceColumns)), ","), rows[1])
			},
		},
		{
			uc:   "csv without header",
			args: []string{"extract", "--no-header", "not a url"},
			assert: func(t *testing.T, out string) {
				t.Helper()

				rows := lines(out)
				require.Len(t, rows, 1)
				assert.Equal(t, strings.TrimSuffix(strings.Repeat("-1,", len(referenceColumns)), ","), rows[0])
			},
		},
		{
			uc:   "json",
			args: []string{"extract", "--format", "json", "not a url"},
			assert: func(t *testing.T, out string) {
				t.Helper()

				var record map[string]int

				require.NoError(t, json.Unmarshal([]byte(out), &record))
				assert.Len(t, record, len(referenceColumns))

				for _, column := range referenceColumns {
					assert.Equal(t, -1, record[column], column)
				}

				assert.True(t, strings.HasPrefix(out, `{"having_IP_Address":-1,`))
			},
		},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			out, err := run(t, tc.args...)

			require.NoError(t, err)
			tc.assert(t, out)
		})
	}
}

func TestExtractFailures(t *testing.T) {
	for _, tc := range []struct {
		uc     string
		args   []string
		expErr error
	}{
		{uc: "unsupported format", args: []string{"extract", "--format", "xml", "not a url"}, expErr: ErrUnsupportedFormat},
		{uc: "missing config file", args: []string{"extract", "--config", filepath.Join(t.TempDir(), "absent.yaml"), "not a url"}, expErr: config.ErrConfiguration},
	} {
		t.Run("case="+tc.uc, func(t *testing.T) {
			out, err := run(t, tc.args...)

			require.ErrorIs(t, err, tc.expErr)
			assert.Empty(t, out)
		})
	}

	t.Run("case=too many arguments", func(t *testing.T) {
		_, err := run(t, "extract", "http://a.example", "http://b.example")

		require.Error(t, err)
	})
}

func TestRules(t *testing.T) {
	t.Run("case=reference columns", func(t *testing.T) {
		out, err := run(t, "rules")

		require.NoError(t, err)
		assert.Equal(t, referenceColumns, lines(out))
	})

	t.Run("case=extended columns", func(t *testing.T) {
		t.Setenv("URLFEATURES_RULES_EXTENDED", "true")

		out, err := run(t, "rules")

		require.NoError(t, err)
		assert.Equal(t, append(append([]string{}, referenceColumns...), "age_of_domain", "DNSRecord"), lines(out))
	})

	t.Run("case=legacy names", func(t *testing.T) {
		t.Setenv("URLFEATURES_RULES_LEGACY__NAMES", "true")

		out, err := run(t, "rules")

		require.NoError(t, err)

		names := lines(out)
		require.Len(t, names, len(referenceColumns))
		assert.Equal(t, "having_IPhaving_IP_Address", names[0])
		assert.Equal(t, "URLURL_Length", names[11])
	})
}
