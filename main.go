// Package main provides the readaloud command line entry point.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/readaloud/speech"
	"github.com/dgnsrekt/readaloud/speech/engines"
	"github.com/dgnsrekt/readaloud/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	engineFlag string
	voiceFlag  string
	rateFlag   float64
	headless   bool

	rootCmd = &cobra.Command{
		Use:   "readaloud [FILE]",
		Short: "Read documents aloud in your terminal",
		Long: paragraph(fmt.Sprintf(
			"\nOpen a document and have it %s, segment by segment, with the text highlighted as it plays.",
			keyword("read aloud"))),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.ExactArgs(1),
		RunE:          execute,
	}
)

var (
	keyword = lipgloss.NewStyle().Foreground(lipgloss.Color("105")).Render

	paragraph = func(s string) string {
		return lipgloss.NewStyle().Margin(0, 2).Render(wordwrap.String(s, 76))
	}
)

func execute(_ *cobra.Command, args []string) error {
	path, err := resolveSource(args[0])
	if err != nil {
		return err
	}

	cfg, err := speech.LoadConfigFromViper()
	if err != nil {
		return err
	}

	logger := log.Default()
	if headless || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runHeadless(path, cfg, logger)
	}
	return ui.Run(path, cfg, logger)
}

// resolveSource turns the argument into a readable file path. "-" spools
// stdin to a temporary file so the reader has something to watch and seek.
func resolveSource(arg string) (string, error) {
	if arg != "-" {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", fmt.Errorf("unable to get absolute path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return "", fmt.Errorf("unable to open file: %w", err)
		}
		return abs, nil
	}

	f, err := os.CreateTemp("", "readaloud-*.txt")
	if err != nil {
		return "", fmt.Errorf("unable to spool stdin: %w", err)
	}
	defer f.Close() //nolint:errcheck
	if _, err := io.Copy(f, os.Stdin); err != nil {
		return "", fmt.Errorf("unable to spool stdin: %w", err)
	}
	return f.Name(), nil
}

// runHeadless reads the whole document without a UI, for piping and for
// terminals the TUI cannot use. Progress goes to the logger.
func runHeadless(path string, cfg speech.Config, logger *log.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	engine, err := engines.New(cfg, logger)
	if err != nil {
		return err
	}
	defer engine.Close() //nolint:errcheck

	buf := speech.NewBuffer(string(data), 0)
	manager := speech.NewManager(logger)

	var readErr error
	session, err := manager.Speak(speech.Options{
		View:   buf,
		Engine: engine,
		Config: cfg,
		Logger: logger,
		OnError: func(err error) {
			readErr = err
		},
	})
	if err != nil {
		return err
	}
	<-session.Done()
	return readErr
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

// setupLog sends logging to READALOUD_LOGFILE when set and silences it
// otherwise, so the TUI never shares the terminal with log lines.
func setupLog() (func() error, error) {
	if os.Getenv("READALOUD_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
	path := os.Getenv("READALOUD_LOGFILE")
	if path == "" {
		log.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	return f.Close, nil
}

func init() {
	tryLoadConfigFromDefaultPlaces()

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&engineFlag, "engine", "e", "", "speech engine (mock, piper)")
	rootCmd.Flags().StringVar(&voiceFlag, "voice", "", "voice name")
	rootCmd.Flags().Float64Var(&rateFlag, "rate", 0, "speech rate multiplier")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "read without the TUI")

	_ = viper.BindPFlag("speech.engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("speech.voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("speech.rate", rootCmd.Flags().Lookup("rate"))

	speech.SetDefaults()

	rootCmd.AddCommand(configCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "readaloud")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "readaloud")}, dirs...)
	}
	if c := os.Getenv("READALOUD_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("readaloud")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "readaloud.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
