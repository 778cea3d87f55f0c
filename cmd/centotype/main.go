// Command centotype is the terminal typing trainer's CLI entry point
// (spec §6.1): play, drill, endurance, stats and config subcommands over
// one shared event loop and content cache.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/centotype/centotype/internal/cache"
	"github.com/centotype/centotype/internal/centerr"
	"github.com/centotype/centotype/internal/config"
	"github.com/centotype/centotype/internal/engine"
	"github.com/centotype/centotype/internal/session"
	"github.com/centotype/centotype/internal/store"
	"github.com/centotype/centotype/internal/termio"
	"github.com/centotype/centotype/internal/tui"
	"github.com/centotype/centotype/internal/types"
)

// Exit codes per spec §6.1.
const (
	exitComplete = 0
	exitAbort    = 2
	exitUsage    = 64
	exitInternal = 70
)

// version is stamped by the release build; left as a placeholder for
// local builds.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		level    int
		category string
		duration int
	)

	root := &cobra.Command{
		Use:     "centotype",
		Short:   "A terminal typing trainer",
		Version: version,
	}
	root.SetVersionTemplate("centotype {{.Version}}\n")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Arcade session at a chosen level",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(cmd.Context(), session.ModeArcade, level, types.CategoryNone, 0)
		},
	}
	playCmd.Flags().IntVar(&level, "level", 0, "level 1..100 (default: last played, or 1)")

	drillCmd := &cobra.Command{
		Use:   "drill",
		Short: "Category-focused session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validCategory(category) {
				return usageErrorf("unknown --category %q (want symbols|numbers|code|brackets)", category)
			}
			return runGame(cmd.Context(), session.ModeDrill, level, types.Category(category), duration)
		},
	}
	drillCmd.Flags().StringVar(&category, "category", "symbols", "symbols|numbers|code|brackets")
	drillCmd.Flags().IntVar(&duration, "duration", 5, "session duration in minutes")

	enduranceCmd := &cobra.Command{
		Use:   "endurance",
		Short: "Long session; grade penalizes inconsistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(cmd.Context(), session.ModeEndurance, level, types.CategoryNone, duration)
		},
	}
	enduranceCmd.Flags().IntVar(&duration, "duration", 15, "session duration in minutes")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summary of recent results",
		RunE: func(cmd *cobra.Command, args []string) error {
			printStats(sharedResults)
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			fmt.Printf("default_level=%d preload_strategy=%s cache_soft_limit=%d cache_hard_limit=%d color_mode=%s\n",
				cfg.DefaultLevel, cfg.PreloadStrategy, cfg.CacheSoftLimit, cfg.CacheHardLimit, cfg.ColorMode)
			return nil
		},
	}

	root.AddCommand(playCmd, drillCmd, enduranceCmd, statsCmd, configCmd)

	bindEnv()

	if err := root.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return lastExitCode
}

// bindEnv wires CENTOTYPE_-prefixed environment overrides (spec §6.2),
// following the same flags-then-env precedence joestump-claude-ops uses.
func bindEnv() {
	viper.SetEnvPrefix("CENTOTYPE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	viper.SetDefault("default_level", 1)
	viper.SetDefault("preload_strategy", "adaptive")
	viper.SetDefault("cache_soft_limit", cache.DefaultSoftLimit)
	viper.SetDefault("cache_hard_limit", cache.DefaultHardLimit)
	viper.SetDefault("color_mode", "auto")
	viper.SetDefault("keybind_pause", "tab")
	viper.SetDefault("keybind_abort", "ctrl+c")
	viper.SetDefault("last_played_level", 1)
}

func validCategory(c string) bool {
	return types.Category(c) != types.CategoryNone && types.Category(c).Valid()
}

var sharedResults = store.NewMemorySink()

// lastExitCode records the exit code of the most recently run
// subcommand; cobra's RunE only carries an error, so a richer signal
// (abort vs. complete) is threaded through this package variable, set by
// runGame immediately before returning.
var lastExitCode = exitComplete

func runGame(ctx context.Context, mode session.Mode, level int, category types.Category, durationMinutes int) error {
	if level != 0 && !types.LevelId(level).Valid() {
		return usageErrorf("--level must be in 1..100, got %d", level)
	}
	if level == 0 {
		level = config.Load().DefaultLevel
	}

	if !termio.IsInteractive() {
		return usageErrorf("centotype requires an interactive terminal")
	}

	cfg := config.Load()
	c := cache.New(
		cache.WithSoftLimit(cfg.CacheSoftLimit),
		cache.WithHardLimit(cfg.CacheHardLimit),
		cache.WithLogger(tui.NewStdLogger(os.Stderr)),
	)

	seed := types.Seed(rand.Uint64())
	g, err := engine.NewGame(ctx, c, tui.NewStdLogger(os.Stderr), mode, types.LevelId(level), seed, category, cfg.Strategy())
	if err != nil {
		lastExitCode = exitInternal
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	loop := tui.NewRuntimeWithContext(runCtx, g, tui.EnableAltScreen())
	if durationMinutes > 0 {
		timer := time.AfterFunc(time.Duration(durationMinutes)*time.Minute, func() {
			loop.Send(engine.DurationExpired{})
		})
		defer timer.Stop()
	}

	if err := loop.Run(); err != nil {
		lastExitCode = exitInternal
		return fmt.Errorf("session failed: %w", err)
	}

	result, ok := g.Result()
	if !ok {
		lastExitCode = exitInternal
		return fmt.Errorf("session ended without a result")
	}
	_ = sharedResults.Save(result)

	fmt.Printf("grade=%s  skill_index=%d  accuracy=%.1f%%  effective_wpm=%.1f\n",
		result.Grade, result.SkillIndex, result.Metrics.Accuracy, result.Metrics.EffectiveWPM)

	if result.Status == session.StatusAborted {
		lastExitCode = exitAbort
		return nil
	}
	lastExitCode = exitComplete
	return nil
}

func printStats(sink *store.MemorySink) {
	all := sink.All()
	if len(all) == 0 {
		fmt.Println("no sessions recorded yet")
		return
	}
	best, _ := sink.Best()
	fmt.Printf("%d session(s) recorded; best skill index %d (level %d, grade %s)\n",
		len(all), best.SkillIndex, int(best.Level), best.Grade)
}

type usageError string

func (e usageError) Error() string { return string(e) }

func usageErrorf(format string, args ...any) error {
	return usageError(fmt.Sprintf(format, args...))
}

func exitCodeFor(err error) int {
	fmt.Fprintln(os.Stderr, err.Error())

	if _, ok := err.(usageError); ok {
		return exitUsage
	}
	if centerr.Is(err, centerr.KindUsage) {
		return exitUsage
	}
	if lastExitCode != exitComplete {
		return lastExitCode
	}
	return exitInternal
}
