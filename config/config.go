package config

import (
	"time"

	"github.com/rs/zerolog"

	"urlfeatures/heuristics"
	"urlfeatures/probe"
)

const (
	SequentialMode = "sequential"
	ConcurrentMode = "concurrent"
)

type Configuration struct {
	Log      LoggingConfig  `koanf:"log"`
	Executor ExecutorConfig `koanf:"executor"`
	Probe    ProbeConfig    `koanf:"probe"`
	Rules    RulesConfig    `koanf:"rules"`
}

type LoggingConfig struct {
	Level  zerolog.Level `koanf:"level"`
	Format LogFormat     `koanf:"format"`
}

// ExecutorConfig selects the executor. RuleTimeout bounds a single rule,
// Deadline the whole extraction. Zero disables the respective bound.
type ExecutorConfig struct {
	Mode           string        `koanf:"mode"            validate:"oneof=sequential concurrent"`
	MaxConcurrency int           `koanf:"max_concurrency" validate:"gte=0"`
	RuleTimeout    time.Duration `koanf:"rule_timeout"    validate:"gte=0"`
	Deadline       time.Duration `koanf:"deadline"        validate:"gte=0"`
}

// ProbeConfig configures the network probes. Nameserver is a host:port pair,
// the system resolver is used if it is empty.
type ProbeConfig struct {
	Timeout       time.Duration `koanf:"timeout"         validate:"gt=0"`
	UserAgent     string        `koanf:"user_agent"      validate:"required"`
	MaxBodySize   int64         `koanf:"max_body_size"   validate:"gt=0"`
	Nameserver    string        `koanf:"nameserver"      validate:"omitempty,hostname_port"`
	TLSPort       int           `koanf:"tls_port"        validate:"gt=0,lte=65535"`
	WhoisCacheTTL time.Duration `koanf:"whois_cache_ttl" validate:"gte=0"`
}

type RulesConfig struct {
	Extended    bool     `koanf:"extended"`
	LegacyNames bool     `koanf:"legacy_names"`
	Shorteners  []string `koanf:"shorteners" validate:"dive,hostname_rfc1123"`
}

func defaultConfig() Configuration {
	return Configuration{
		Log: LoggingConfig{
			Level:  zerolog.InfoLevel,
			Format: LogTextFormat,
		},
		Executor: ExecutorConfig{
			Mode:        ConcurrentMode,
			RuleTimeout: 20 * time.Second, // nolint: mnd
			Deadline:    time.Minute,
		},
		Probe: ProbeConfig{
			Timeout:       probe.DefaultTimeout,
			UserAgent:     probe.DefaultUserAgent,
			MaxBodySize:   probe.DefaultMaxBodySize,
			TLSPort:       probe.DefaultTLSPort,
			WhoisCacheTTL: probe.DefaultWhoisCacheTTL,
		},
		Rules: RulesConfig{
			Shorteners: append([]string{}, heuristics.DefaultShorteners...),
		},
	}
}
