// Command leakaudit cycles every registered scene through a headless
// runtime and reports whether GPU resource counters return to baseline.
// Synthetic resources stand in for real GPU uploads, so the audit exercises
// the full acquire/release bookkeeping without a device.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duskhall/dusk-go/engine"
	"github.com/duskhall/dusk-go/engine/audit"
	"github.com/duskhall/dusk-go/engine/descriptor"
	"github.com/duskhall/dusk-go/engine/logger"
	"github.com/duskhall/dusk-go/engine/resource"
	"github.com/duskhall/dusk-go/engine/scene"
)

// syntheticResource stands in for a GPU upload during headless audits.
type syntheticResource struct{}

func (s *syntheticResource) Release() {}

func syntheticFetchers() scene.Fetchers {
	return scene.Fetchers{
		Model: func(key string) (resource.Resource, error) {
			return &syntheticResource{}, nil
		},
		Texture: func(key string) (resource.Resource, error) {
			return &syntheticResource{}, nil
		},
	}
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "leakaudit",
		Short:         "Audit scene transitions for GPU resource leaks",
		Long:          "leakaudit loads every scene descriptor in a directory, cycles a headless runtime through them repeatedly, and fails if resource counters grow beyond tolerance.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAudit,
	}

	flags := cmd.Flags()
	flags.String("descriptors", "./scenes", "directory of scene descriptor YAML files")
	flags.Int("cycles", 3, "number of full load cycles")
	flags.Duration("settle", 25*time.Millisecond, "settle delay after each load")
	flags.Int("tolerance-textures", 4, "allowed texture-count growth per cycle index")
	flags.Int("tolerance-geometry", 4, "allowed geometry-count growth per cycle index")
	flags.String("log-level", "info", "log level: debug, info, warn, error")

	viper.SetEnvPrefix("dusk")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	log := logger.New(viper.GetString("log-level"))

	registry := descriptor.NewRegistry(descriptor.WithLogger(log))
	dir := viper.GetString("descriptors")
	if err := registry.LoadDir(dir); err != nil {
		return fmt.Errorf("loading descriptors from %q: %w", dir, err)
	}
	if len(registry.IDs()) == 0 {
		return fmt.Errorf("no scene descriptors found in %q", dir)
	}

	rt := engine.NewRuntime(syntheticFetchers(),
		engine.WithLog(log),
		engine.WithRegistry(registry))

	auditor := audit.NewAuditor(rt.Lifecycle, rt.Cache, registry,
		audit.WithCycles(viper.GetInt("cycles")),
		audit.WithSettleDelay(viper.GetDuration("settle")),
		audit.WithTolerance(resource.KindTexture, viper.GetInt("tolerance-textures")),
		audit.WithTolerance(resource.KindGeometry, viper.GetInt("tolerance-geometry")),
		audit.WithLogger(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := auditor.Run(ctx)
	printReport(cmd, report, len(registry.IDs()))

	if !report.Passed {
		return fmt.Errorf("leak audit failed with %d violation(s)", len(report.Leaks))
	}
	return nil
}

func printReport(cmd *cobra.Command, report audit.Report, sceneCount int) {
	out := cmd.OutOrStdout()

	header := color.New(color.Bold)
	header.Fprintf(out, "leak audit: %d scene(s), %d cycle(s)\n", sceneCount, report.Cycles)

	if len(report.Leaks) > 0 {
		warn := color.New(color.FgRed)
		for _, leak := range report.Leaks {
			warn.Fprintf(out, "  cycle %d: %s grew %d -> %d (delta %d)\n",
				leak.Cycle, leak.Metric, leak.Before, leak.After, leak.Delta)
		}
	}

	if report.Passed {
		color.New(color.FgGreen, color.Bold).Fprintln(out, "PASS")
	} else {
		color.New(color.FgRed, color.Bold).Fprintln(out, "FAIL")
	}
}
