package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/snaketh4x0r/RedditHubble/bls"
	"github.com/snaketh4x0r/RedditHubble/config"
	"github.com/snaketh4x0r/RedditHubble/log"
	"github.com/snaketh4x0r/RedditHubble/metrics"
	"github.com/snaketh4x0r/RedditHubble/registry"
	"github.com/snaketh4x0r/RedditHubble/wire"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	stdout io.Writer

	configPath string
	logLevel   string
	domain     string
	dataDir    string

	cfg      config.Config
	log      *log.Logger
	gatherer *prometheus.Registry
	metrics  *metrics.Metrics
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hubble",
		Short:         "Off-chain BLS rollup core",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			a.reportMetrics()
			if a.log != nil {
				_ = a.log.Sync()
			}
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (yaml, toml or json)")
	flags.StringVar(&a.logLevel, "log-level", "", "log verbosity (debug, info, warn, error)")
	flags.StringVar(&a.domain, "domain", "", "0x-prefixed 32-byte signing domain")
	flags.StringVar(&a.dataDir, "datadir", "", "data directory for the registry journal")

	root.AddCommand(
		a.keygenCommand(),
		a.signCommand(),
		a.verifyCommand(),
		a.registerCommand(),
		a.rootHashCommand(),
		a.txCommand(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger
// and metrics. Commands that need neither skip it.
func (a *app) setup() error {
	cfg, err := config.Read(a.configPath)
	if err != nil {
		return err
	}
	if a.domain != "" {
		cfg.Domain = a.domain
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	l, err := log.NewFormatted(level, cfg.Log.Format)
	if err != nil {
		return err
	}
	log.SetDefault(l)
	a.log = l.Module("cli")

	if cfg.Metrics.Enabled {
		a.gatherer = prometheus.NewRegistry()
		m, err := metrics.New(a.gatherer, cfg.Metrics.Namespace)
		if err != nil {
			return err
		}
		a.metrics = m
	}
	return nil
}

func (a *app) scheme() (*bls.Scheme, error) {
	domain, err := a.cfg.DomainTag()
	if err != nil {
		return nil, err
	}
	return bls.NewScheme(domain,
		bls.WithCache(a.cfg.Cache.MessagePoints),
		bls.WithMetrics(a.metrics),
		bls.WithLogger(log.Default().Module("bls")),
	)
}

// openRegistry restores the registry from its journal. The caller closes
// the returned journal.
func (a *app) openRegistry() (*registry.Registry, *registry.PebbleJournal, error) {
	j, err := registry.OpenPebbleJournal(a.cfg.ResolvePath("registry"), nil)
	if err != nil {
		return nil, nil, err
	}
	r, err := registry.New(a.cfg.RegistryConfig(),
		registry.WithJournal(j),
		registry.WithMetrics(a.metrics),
		registry.WithLogger(log.Default().Module("registry")),
	)
	if err != nil {
		j.Close()
		return nil, nil, err
	}
	return r, j, nil
}

// reportMetrics logs every gathered sample once the command finishes.
func (a *app) reportMetrics() {
	if a.gatherer == nil || a.log == nil {
		return
	}
	families, err := a.gatherer.Gather()
	if err != nil {
		a.log.Warn("gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			a.log.Info("metric", "name", mf.GetName(), "labels", strings.Join(labels, ","), "value", value)
		}
	}
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

func splitWords(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseG1(s string) (wire.G1, error) { return wire.ParseG1Hex(splitWords(s)) }

func parseG2(s string) (wire.G2, error) { return wire.ParseG2Hex(splitWords(s)) }
