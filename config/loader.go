package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// keys. Levels are separated by "_", a literal underscore is written as "__",
// e.g. URLFEATURES_PROBE_USER__AGENT sets probe.user_agent.
const EnvPrefix = "URLFEATURES_"

var ErrConfiguration = errors.New("configuration error")

// nolint: gochecknoglobals
var decodeHooks = []mapstructure.DecodeHookFunc{
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
	logLevelDecodeHookFunc,
	logFormatDecodeHookFunc,
}

// Load builds the configuration from the defaults, the optional YAML file and
// the environment, in this order of precedence from low to high. Variables
// from a .env file in the working directory are added to the environment
// unless already set.
func Load(configFile string) (*Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: failed to load .env file: %w", ErrConfiguration, err)
	}

	conf := defaultConfig()
	parser := koanf.New(".")

	if err := parser.Load(structs.Provider(conf, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to load defaults: %w", ErrConfiguration, err)
	}

	if len(configFile) != 0 {
		raw, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}

		if err := parser.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: failed to load yaml config from %s: %w", ErrConfiguration, configFile, err)
		}
	}

	if err := parser.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("%w: failed to parse environment variables: %w", ErrConfiguration, err)
	}

	var result Configuration

	if err := parser.UnmarshalWithConf("", &result, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(decodeHooks...),
			Result:           &result,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if err := validate(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func envKey(key, val string) (string, any) {
	tmp := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", `\:\`)
	tmp = strings.ReplaceAll(tmp, "_", ".")

	return strings.ReplaceAll(tmp, `\:\`, "_"), val
}
