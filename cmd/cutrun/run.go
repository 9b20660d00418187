package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srg/cut/internal/demo"
	"github.com/srg/cut/internal/luahost"
	"github.com/srg/cut/pkg/config"
	"github.com/srg/cut/pkg/cut"
)

// loadConfig reads the config file, if any, and applies the flags the user
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command, o *runOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("recap") {
		cfg.Recap = o.recap
	}
	if flags.Changed("slow") {
		cfg.SlowTest = o.slowTest
	}
	if flags.Changed("color") {
		cfg.Color = o.color
	}
	cfg.Scripts = append(cfg.Scripts, o.scripts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTests(cmd *cobra.Command, o *runOptions, args []string) error {
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}

	logger, err := configureLogger(cmd, cfg, "verbose")
	if err != nil {
		return err
	}

	verbosity, err := cfg.Verbosity()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	session := cut.NewSession(
		cut.WithOutput(out),
		cut.WithColor(cfg.ColorEnabled(out)),
		cut.WithLogger(logger),
		cut.WithVerbosity(verbosity),
		cut.WithWrapper(cut.PanicAdapter{}),
		cut.WithSlowTestThreshold(cfg.SlowTest),
		cut.WithRecap(cfg.Recap),
	)
	// Command-line verbosity flags win over the config file.
	session.ParseCommandLine(o.verbosityArgs)

	log := logger.WithField("run", session.RunID())

	opts := demo.DefaultOptions()
	opts.ForceFailure = o.forceFailure
	if o.demo {
		if err := demo.Install(session, opts); err != nil {
			return err
		}
	}

	if o.demo || len(cfg.Scripts) > 0 {
		host, err := luahost.New(session, logger)
		if err != nil {
			return err
		}
		defer host.Close()

		if o.demo {
			if err := demo.InstallLua(host, opts); err != nil {
				return err
			}
		}
		for _, script := range cfg.Scripts {
			log.WithField("script", script).Debug("Loading script")
			if err := host.LoadFile(script); err != nil {
				return err
			}
		}
	}

	for _, substr := range append(cfg.Include, args...) {
		if !session.IncludeTest(substr) {
			return fmt.Errorf("%w '%s'", ErrNoMatch, substr)
		}
	}

	if o.list {
		for _, name := range session.TestNames() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	ctx := cmd.Context()
	o.result = session.Run(ctx, o.summary)
	cut.PrintRecap(out, session.RecentFailures())

	log.WithField("result", o.result).Info("Run complete")
	return ctx.Err()
}
