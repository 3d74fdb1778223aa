package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/credprobe/credprobe/internal/config"
	"github.com/credprobe/credprobe/internal/credentials"
	"github.com/credprobe/credprobe/internal/drivers"
	"github.com/credprobe/credprobe/internal/engine"
	"github.com/credprobe/credprobe/internal/status"
	"github.com/credprobe/credprobe/internal/targets"
)

// errNoValidCredentials drives the non-zero exit status for a clean run
// that found nothing.
var errNoValidCredentials = errors.New("no valid credentials found")

var (
	flagConfig     string
	flagDriver     string
	flagTarget     string
	flagTargetFile string
	flagPort       int
	flagCreds      string
	flagWorkers    int
	flagTimeout    int
	flagDelay      float64
	flagOutput     string
	flagLog        string
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "credprobe",
	Short: "Probe network services with candidate credentials",
	Long: `credprobe checks a list of username:password pairs against one or more
network targets and reports which credentials are accepted. Attempts against
the same host:port are strictly serialized, hosts that stop responding are
marked unreachable and skipped for the rest of the run, and valid credentials
are appended to the output file as they are found.

For authorized security assessment only.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagDriver, "driver", "d", "",
		"Service driver: "+strings.Join(drivers.GetRegistry().Names(), ", "))
	flags.StringVarP(&flagTarget, "target", "t", "", "Single target (host or host:port)")
	flags.StringVarP(&flagTargetFile, "target-file", "T", "",
		"File containing targets (host:port, CIDR block, or IP range per line)")
	flags.IntVarP(&flagPort, "port", "p", 0, "Port override (default: driver-specific)")
	flags.StringVarP(&flagCreds, "creds", "c", "", "Credential file (default: credz/<driver>.txt)")
	flags.IntVar(&flagWorkers, "workers", 1, "Number of concurrent workers")
	flags.IntVar(&flagTimeout, "timeout", 5, "Connection timeout in seconds")
	flags.Float64Var(&flagDelay, "delay", 0, "Delay in seconds between attempts per host")
	flags.StringVarP(&flagOutput, "output", "o", "./valid_credz.txt", "Output file for valid credentials")
	flags.StringVarP(&flagLog, "log", "l", "", "Log file for all attempts (optional)")
	flags.StringVar(&flagConfig, "config", "", "Optional YAML config file")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.MarkFlagsMutuallyExclusive("target", "target-file")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	driver, err := drivers.GetRegistry().Get(cfg.Driver)
	if err != nil {
		return err
	}

	logger := initLogger(cfg.LogLevel).With(slog.String("run_id", uuid.New().String()))

	credFile := cfg.CredentialFile
	if credFile == "" {
		credFile = credentials.DefaultFile(driver.Name())
	}
	creds, err := credentials.LoadFile(credFile, logger)
	if err != nil {
		return err
	}
	if len(creds) == 0 {
		return fmt.Errorf("no credentials found in %s", credFile)
	}

	var tgts []targets.Target
	if cfg.TargetFile != "" {
		tgts, err = targets.LoadFile(cfg.TargetFile, driver.DefaultPort(), cfg.Port, logger)
	} else {
		var t targets.Target
		t, err = targets.ParseSpec(cfg.Target, driver.DefaultPort(), cfg.Port)
		tgts = []targets.Target{t}
	}
	if err != nil {
		return err
	}
	if len(tgts) == 0 {
		return fmt.Errorf("no targets specified")
	}

	sink, err := status.OpenSink(cfg.OutputFile, cfg.LogFile)
	if err != nil {
		return err
	}
	defer sink.Close()

	trials := engine.BuildTrials(creds, tgts)

	out := cmd.OutOrStdout()
	printBanner(out, driver, cfg, credFile, len(tgts), len(creds), len(trials))

	tracker := status.NewTracker(len(trials), sink, os.Stdout, status.TerminalWidth(os.Stdout), logger)

	eng := engine.New(driver, tracker, engine.Options{
		Workers: cfg.Workers,
		Timeout: cfg.GetTimeout(),
		Delay:   cfg.GetDelay(),
	}, logger)

	summary := eng.Run(cmd.Context(), trials)
	tracker.Finish()

	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintf(out, "[*] Complete: %d/%d valid credentials found\n", summary.Valid, summary.Total)
	if summary.UnreachableHosts > 0 {
		fmt.Fprintf(out, "[*] Unreachable hosts: %d\n", summary.UnreachableHosts)
	}
	if summary.Valid == 0 {
		return errNoValidCredentials
	}
	fmt.Fprintf(out, "[*] Valid credentials saved to: %s\n", cfg.OutputFile)
	return nil
}

// applyFlags copies explicitly set flags over the loaded config so the
// precedence stays flags > env > file > defaults.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Driver = flagDriver
	}
	if flags.Changed("target") {
		cfg.Target = flagTarget
	}
	if flags.Changed("target-file") {
		cfg.TargetFile = flagTargetFile
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("creds") {
		cfg.CredentialFile = flagCreds
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = flagTimeout
	}
	if flags.Changed("delay") {
		cfg.DelaySeconds = flagDelay
	}
	if flags.Changed("output") {
		cfg.OutputFile = flagOutput
	}
	if flags.Changed("log") {
		cfg.LogFile = flagLog
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

func printBanner(w io.Writer, driver drivers.Driver, cfg *config.Config, credFile string, targetCount, credCount, total int) {
	fmt.Fprintf(w, "[*] Driver: %s\n", strings.ToUpper(driver.Name()))
	fmt.Fprintf(w, "[*] Targets: %d | Credentials: %d (%s) | Total: %d\n",
		targetCount, credCount, filepath.Base(credFile), total)
	fmt.Fprintf(w, "[*] Workers: %d | Output: %s", cfg.Workers, cfg.OutputFile)
	if cfg.LogFile != "" {
		fmt.Fprintf(w, " | Log: %s", cfg.LogFile)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 60))
}

func initLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoValidCredentials) {
			fmt.Fprintf(os.Stderr, "[!] %v\n", err)
		}
		os.Exit(1)
	}
}
