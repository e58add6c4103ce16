package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/catalog"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/config"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/enka"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/output"
	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/search"
)

const enkaTimeout = 30 * time.Second

type Options struct {
	// ConfigPath overrides the config file lookup.
	ConfigPath string
	// Flags holds the command line flags overlaid on the config file.
	Flags *pflag.FlagSet
	// Catalog overrides the configured catalog path when non-empty.
	Catalog   string
	AssumeYes bool
	Verbose   bool

	// EnkaBaseURL overrides the Enka host.
	EnkaBaseURL string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// RunWithOptions runs the optimizer and returns the process exit code.
func RunWithOptions(ctx context.Context, opts Options) int {
	opts.setDefaults()
	log := newLogger(opts.Stderr, opts.Verbose)
	return exitCode(opts.Stderr, run(ctx, opts, log))
}

func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	if ee, ok := asExitError(err); ok {
		if ee.Err != nil && ee.Code != 0 {
			fmt.Fprintln(stderr, ee.Err)
		}
		return ee.Code
	}
	fmt.Fprintln(stderr, err)
	return ExitNoResult
}

func loadConfig(opts Options) (config.Config, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		found, err := config.FindConfig()
		if err != nil {
			return config.Config{}, err
		}
		path = found
	}
	cfg, err := config.Load(path, opts.Flags)
	if err != nil {
		return config.Config{}, err
	}
	if c := strings.TrimSpace(opts.Catalog); c != "" {
		cfg.Catalog = c
	}
	if opts.AssumeYes {
		cfg.Confirm = false
	}
	return cfg, nil
}

func run(ctx context.Context, opts Options, log zerolog.Logger) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return ExitWithError(ExitUsage, err)
	}
	if cfg.Path != "" {
		log.Debug().Str("path", cfg.Path).Msg("config loaded")
	}

	strategies, label, err := selectStrategies(cfg.Strategy)
	if err != nil {
		return ExitWithError(ExitUsage, err)
	}

	pools, rep, err := loadPools(ctx, cfg, opts.EnkaBaseURL)
	if err != nil {
		if errors.Is(err, errInvalidUID) {
			return ExitWithError(ExitUsage, err)
		}
		return ExitWithError(ExitNoResult, err)
	}
	logReport(log, rep, &pools)

	if cfg.Confirm && !Confirm(opts.Stdin, opts.Stdout, label) {
		fmt.Fprintln(opts.Stdout, "Search not started")
		return nil
	}

	runs := make([]output.Run, 0, len(strategies))
	for _, s := range strategies {
		log.Debug().Str("strategy", string(s)).Int("combinations", pools.Combinations()).Msg("search started")
		start := time.Now()
		res, err := search.Run(s, &pools, cfg.Weights)
		r := output.Run{Strategy: s, Result: res, Err: err, Elapsed: time.Since(start)}
		log.Debug().Str("strategy", string(s)).Int("evaluated", res.Evaluated).Dur("elapsed", r.Elapsed).Msg("search finished")
		runs = append(runs, r)
	}

	if len(runs) == 1 {
		return report(opts.Stdout, log, runs[0], cfg)
	}
	return compare(opts.Stdout, log, runs, cfg)
}

func selectStrategies(name string) ([]search.Strategy, string, error) {
	if name == config.StrategyAll {
		return search.Strategies, "all strategies", nil
	}
	s, err := search.ParseStrategy(name)
	if err != nil {
		return nil, "", err
	}
	return []search.Strategy{s}, s.Title(), nil
}

var errInvalidUID = errors.New("invalid uid")

func loadPools(ctx context.Context, cfg config.Config, enkaBaseURL string) (domain.Pools, catalog.Report, error) {
	if cfg.UID == "" {
		return catalog.Load(ctx, cfg.Catalog)
	}

	if err := enka.ValidateUID(cfg.UID); err != nil {
		return domain.Pools{}, catalog.Report{}, fmt.Errorf("%w: %v", errInvalidUID, err)
	}
	client := enka.NewClient(cfg.EnkaUserAgent)
	if enkaBaseURL != "" {
		client = client.WithBaseURL(enkaBaseURL)
	}

	ctx, cancel := context.WithTimeout(ctx, enkaTimeout)
	defer cancel()
	avatars, _, err := client.FetchAvatars(ctx, cfg.UID)
	if err != nil {
		return domain.Pools{}, catalog.Report{}, err
	}
	items, warns := enka.ToItems(avatars, cfg.EnkaSetNames)
	pools, rep := catalog.FromItems("enka:"+cfg.UID, items)
	for _, w := range warns {
		var unmapped *enka.UnmappedSetError
		if errors.As(w, &unmapped) {
			rep.Warnings = append(rep.Warnings, w)
			continue
		}
		rep.Skipped = append(rep.Skipped, w)
	}
	return pools, rep, nil
}

func logReport(log zerolog.Logger, rep catalog.Report, pools *domain.Pools) {
	for _, e := range rep.Skipped {
		log.Warn().Err(e).Msg("record skipped")
	}
	for _, e := range rep.Warnings {
		log.Warn().Err(e).Msg("record loaded")
	}
	log.Info().
		Str("source", rep.Source).
		Int("loaded", rep.Loaded).
		Int("skipped", len(rep.Skipped)).
		Ints("pool_sizes", pools.Sizes()).
		Msg("catalog loaded")
}

func report(w io.Writer, log zerolog.Logger, r output.Run, cfg config.Config) error {
	output.PrintResult(w, r, cfg.Weights)
	if r.Err != nil {
		return Exit(ExitNoResult)
	}
	printSimStats(w, log, cfg.Char, r.Result.Best)
	return nil
}

func compare(w io.Writer, log zerolog.Logger, runs []output.Run, cfg config.Config) error {
	agree := output.PrintComparison(w, runs)

	var best *output.Run
	for i := range runs {
		if runs[i].Err == nil {
			best = &runs[i]
			break
		}
	}
	if best == nil {
		fmt.Fprintln(w)
		output.PrintNoResult(w, runs[0].Strategy, runs[0].Err)
		return Exit(ExitNoResult)
	}

	fmt.Fprintln(w)
	output.PrintResult(w, *best, cfg.Weights)
	printSimStats(w, log, cfg.Char, best.Result.Best)
	if !agree {
		return ExitWithError(ExitNoResult, errors.New("strategies returned different combinations"))
	}
	return nil
}

func printSimStats(w io.Writer, log zerolog.Logger, char string, c domain.Combination) {
	text, warns := output.RenderSimStats(char, c)
	for _, e := range warns {
		log.Warn().Err(e).Msg("gcsim export")
	}
	if text != "" {
		fmt.Fprintf(w, "\n%s", text)
	}
}
