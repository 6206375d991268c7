package cmd

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"urlfeatures/config"
	"urlfeatures/features"
	"urlfeatures/heuristics"
	"urlfeatures/logging"
	"urlfeatures/probe"
)

type app struct {
	logger    zerolog.Logger
	extractor *features.Extractor
	whois     *probe.WhoisClient
}

func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString(configFlag)

	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.New(conf.Log, cmd.ErrOrStderr())
	logger.Debug().
		Str("_mode", conf.Executor.Mode).
		Bool("_extended", conf.Rules.Extended).
		Msg("Configuration loaded")

	whois := probe.NewWhoisClient(conf.Probe.Timeout, conf.Probe.WhoisCacheTTL)

	rules, err := ruleSet(conf, whois)
	if err != nil {
		whois.Close()

		return nil, err
	}

	extractor := features.NewExtractor(rules,
		features.WithExecutor(executor(conf.Executor)),
		features.WithDeadline(conf.Executor.Deadline),
	)

	return &app{logger: logger, extractor: extractor, whois: whois}, nil
}

// Close stops the background work of the probes.
func (a *app) Close() {
	a.whois.Close()
}

func (a *app) context(ctx context.Context) context.Context {
	return a.logger.WithContext(ctx)
}

func ruleSet(conf *config.Configuration, registrations heuristics.RegistrationLookup) (*features.RuleSet, error) {
	deps := heuristics.Dependencies{
		Pages: probe.NewFetcher(conf.Probe.Timeout,
			probe.WithUserAgent(conf.Probe.UserAgent),
			probe.WithMaxBodySize(conf.Probe.MaxBodySize),
		),
		Certificates:  probe.NewTLSProber(conf.Probe.Timeout, probe.WithTLSPort(conf.Probe.TLSPort)),
		Hosts:         probe.NewResolver(conf.Probe.Timeout, conf.Probe.Nameserver),
		Registrations: registrations,
		Shorteners:    conf.Rules.Shorteners,
	}

	var opts []heuristics.Option
	if conf.Rules.LegacyNames {
		opts = append(opts, heuristics.WithLegacyNames())
	}

	if conf.Rules.Extended {
		return heuristics.Extended(deps, opts...)
	}

	return heuristics.Reference(deps, opts...)
}

func executor(conf config.ExecutorConfig) features.Executor {
	opts := []features.ExecutorOption{
		features.WithRuleTimeout(conf.RuleTimeout),
		features.WithMaxConcurrency(conf.MaxConcurrency),
	}

	if conf.Mode == config.SequentialMode {
		return features.NewSequentialExecutor(opts...)
	}

	return features.NewConcurrentExecutor(opts...)
}

func writeLine(w io.Writer, line string) error {
	_, err := io.WriteString(w, line+"\n")

	return err
}
