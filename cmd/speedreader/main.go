// Package main provides the CLI entrypoint for speedreader.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/benjcrowley/bom-speed-reader/internal/config"
	"github.com/benjcrowley/bom-speed-reader/internal/corpus"
	"github.com/benjcrowley/bom-speed-reader/internal/goal"
	"github.com/benjcrowley/bom-speed-reader/internal/logging"
	"github.com/benjcrowley/bom-speed-reader/internal/model"
	"github.com/benjcrowley/bom-speed-reader/internal/prefs"
	"github.com/benjcrowley/bom-speed-reader/internal/scheduler"
	"github.com/benjcrowley/bom-speed-reader/internal/stats"
	"github.com/benjcrowley/bom-speed-reader/internal/store"
	"github.com/benjcrowley/bom-speed-reader/internal/tui"
	"github.com/benjcrowley/bom-speed-reader/internal/wakelock"
)

const (
	defaultGoal     = "none"
	defaultRewind   = 5.0
	defaultLogLevel = "info"
)

var (
	readerCorpus   string
	readerTraining string
	readerWPM      int
	readerGoal     string
	readerRewind   float64
	readerTheme    string
	readerWakeLock bool

	historySince string
	historyLast  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "speedreader",
		Short:         "RSVP speed reader for the Book of Mormon",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReaderCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&readerCorpus, "corpus", config.DefaultCorpusPath(), "path to the scripture text (JSON or XML, optionally .xz)")
	flags.StringVar(&readerTraining, "training-file", "", "plain text file for the training passage")

	rootCmd.Flags().IntVar(&readerWPM, "wpm", 0, "target words per minute (default: last used)")
	rootCmd.Flags().StringVar(&readerGoal, "goal", defaultGoal, "session goal: none, 10m, 20m, 1ch, 3ch")
	rootCmd.Flags().Float64Var(&readerRewind, "rewind", defaultRewind, "seconds to rewind")
	rootCmd.Flags().StringVar(&readerTheme, "theme", "", "color theme: dark or light (default: last used)")
	rootCmd.Flags().BoolVar(&readerWakeLock, "wake-lock", true, "inhibit idle while playing")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newChaptersCmd())
	rootCmd.AddCommand(newPositionCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

// loadSettings merges the config file into any flag the user did not set.
func loadSettings(cmd *cobra.Command) (model.Config, config.LogConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, config.LogConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg.Reader)

	cfg := model.Config{
		CorpusPath:    readerCorpus,
		TrainingFile:  readerTraining,
		TargetWPM:     readerWPM,
		Goal:          readerGoal,
		RewindSeconds: readerRewind,
		Theme:         readerTheme,
		WakeLock:      readerWakeLock,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, config.LogConfig{}, err
	}
	return cfg, fileCfg.Log, nil
}

func applyFileConfig(cmd *cobra.Command, rc config.ReaderConfig) {
	applyStringConfig(cmd, "corpus", &readerCorpus, rc.Corpus)
	applyStringConfig(cmd, "training-file", &readerTraining, rc.TrainingFile)
	applyIntConfig(cmd, "wpm", &readerWPM, rc.WPM)
	applyStringConfig(cmd, "goal", &readerGoal, rc.Goal)
	applyFloatConfig(cmd, "rewind", &readerRewind, rc.Rewind)
	applyStringConfig(cmd, "theme", &readerTheme, rc.Theme)
	applyBoolConfig(cmd, "wake-lock", &readerWakeLock, rc.WakeLock)
}

func openLogger(lc config.LogConfig) (*logging.Logger, error) {
	opts := logging.Options{Level: defaultLogLevel, File: config.DefaultLogPath()}
	if lc.Level != nil {
		opts.Level = *lc.Level
	}
	if lc.File != nil {
		opts.File = *lc.File
	}
	if lc.Journal != nil {
		opts.Journal = *lc.Journal
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// loadCorpus reads the text and the training passage. A broken training file
// falls back to the built-in passage.
func loadCorpus(ctx context.Context, cfg model.Config, gateway *prefs.Gateway, logger *logging.Logger) (*model.Corpus, error) {
	loaded, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.CorpusPath, err)
	}
	training, err := corpus.Training(cfg.TrainingFile)
	if err != nil {
		logger.Warn("failed to load training file, using built-in passage", "path", cfg.TrainingFile, "error", err)
		training, _ = corpus.Training("")
	}
	loaded.Corpus.Training = training

	changed, err := gateway.SyncFingerprint(ctx, loaded.Fingerprint)
	if err != nil {
		logger.Warn("failed to store corpus fingerprint", "error", err)
	}
	if changed {
		logger.Info("corpus changed, resetting position", "path", cfg.CorpusPath)
		if err := gateway.ResetCursor(ctx); err != nil {
			logger.Warn("failed to reset position", "error", err)
		}
	}
	return loaded.Corpus, nil
}

func runReaderCmd(cmd *cobra.Command, _ []string) error {
	cfg, logCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	sessionGoal, err := goal.Parse(cfg.Goal)
	if err != nil {
		return fmt.Errorf("invalid --goal value: %w", err)
	}

	logger, err := openLogger(logCfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logger.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	gateway := prefs.New(st, logger.Logger)

	theme := gateway.Theme(ctx)
	if cfg.Theme != "" {
		theme = prefs.ParseTheme(cfg.Theme)
	}

	text, loadErr := loadCorpus(ctx, cfg, gateway, logger)
	if loadErr != nil {
		logger.Error("corpus unavailable", "error", loadErr)
		reader, ui := loadFailureUI(loadErr, theme, logger.Logger)
		err := runTUI(ui)
		reader.Stop()
		return err
	}

	target := gateway.TargetWPM(ctx)
	if cfg.TargetWPM > 0 {
		target = cfg.TargetWPM
	}
	var lock wakelock.Lock = wakelock.Nop{}
	if cfg.WakeLock {
		lock = wakelock.NewInhibitor()
	}

	bridge := tui.NewBridge()
	reader := scheduler.New(text, scheduler.Options{
		Presenter: bridge,
		Positions: gateway,
		Recorder:  st,
		WakeLock:  lock,
		Logger:    logger.Logger,
		Goal:      sessionGoal,
		TargetWPM: float64(target),
	})
	reader.Restore(gateway.Cursor(ctx, text))
	logger.Info("reader ready", "chapters", text.Len(), "target_wpm", target, "goal", goal.String(sessionGoal))

	ui := tui.NewModel(tui.Options{
		Reader:        reader,
		Bridge:        bridge,
		Corpus:        text,
		Themes:        gateway,
		Theme:         theme,
		Goal:          sessionGoal,
		RewindSeconds: cfg.RewindSeconds,
		Logger:        logger.Logger,
	})
	err = runTUI(ui)
	reader.Stop()
	return err
}

// loadFailureUI pairs the error screen with a stopped reader over an empty
// corpus so every key still reaches a valid engine.
func loadFailureUI(loadErr error, theme model.Theme, logger *slog.Logger) (*scheduler.Scheduler, *tui.Model) {
	bridge := tui.NewBridge()
	reader := scheduler.New(&model.Corpus{}, scheduler.Options{Presenter: bridge, Logger: logger})
	reader.Restore(model.Cursor{})
	ui := tui.NewModel(tui.Options{
		Reader:    reader,
		Bridge:    bridge,
		Corpus:    &model.Corpus{},
		Theme:     theme,
		LoadError: loadErr,
		Logger:    logger,
	})
	return reader, ui
}

func runTUI(m tea.Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List chapters",
		Args:  cobra.NoArgs,
		RunE:  runChaptersCmd,
	}
}

func runChaptersCmd(cmd *cobra.Command, _ []string) error {
	applyReaderPaths(cmd)
	loaded, err := corpus.Load(readerCorpus)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", readerCorpus, err)
	}
	for i, title := range loaded.Corpus.Titles() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", i+1, title); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newPositionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "position",
		Short: "Show saved reading position",
		Args:  cobra.NoArgs,
		RunE:  runPositionCmd,
	}
}

func runPositionCmd(cmd *cobra.Command, _ []string) error {
	applyReaderPaths(cmd)
	loaded, err := corpus.Load(readerCorpus)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", readerCorpus, err)
	}
	training, err := corpus.Training(readerTraining)
	if err != nil {
		training, _ = corpus.Training("")
	}
	loaded.Corpus.Training = training

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	gateway := prefs.New(st, nil)
	return writePosition(cmd, loaded.Corpus, gateway.Cursor(ctx, loaded.Corpus), gateway.TargetWPM(ctx))
}

func writePosition(cmd *cobra.Command, text *model.Corpus, c model.Cursor, target int) error {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\nTarget: %d WPM\n", formatPosition(text, c), target); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func formatPosition(text *model.Corpus, c model.Cursor) string {
	ch, ok := text.Chapter(c.Chapter)
	if !ok {
		return "No saved position"
	}
	if c.IsTraining() {
		return fmt.Sprintf("Chapter: %s\nWord: %d of %d", ch.Title, c.Word, len(ch.Words))
	}
	verse := ""
	if c.Word < len(ch.Words) {
		verse = " (" + ch.Words[c.Word].Verse.Reference + ")"
	}
	return fmt.Sprintf("Chapter: %s [%d of %d]\nWord: %d of %d%s", ch.Title, c.Chapter+1, text.Len(), c.Word, len(ch.Words), verse)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show reading history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(context.Background(), st, model.HistoryConfig{Since: sinceTime, Last: historyLast})
	if err != nil {
		return err
	}

	titles := func(int) string { return "" }
	applyReaderPaths(cmd)
	if loaded, err := corpus.Load(readerCorpus); err == nil {
		titles = func(chapter int) string {
			if chapter == model.TrainingChapter {
				return corpus.TrainingTitle
			}
			ch, ok := loaded.Corpus.Chapter(chapter)
			if !ok {
				return ""
			}
			return ch.Title
		}
	}
	out := cmd.OutOrStdout()
	return report.Render(out, stats.TerminalWidth(out), titles)
}

// applyReaderPaths lets subcommands see the corpus configured in the file.
func applyReaderPaths(cmd *cobra.Command) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		logErrf("ignoring config: %v\n", err)
		return
	}
	applyStringConfig(cmd, "corpus", &readerCorpus, fileCfg.Reader.Corpus)
	applyStringConfig(cmd, "training-file", &readerTraining, fileCfg.Reader.TrainingFile)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# speedreader configuration
# Uncomment a value to enable it. CLI flags override config values.

[reader]
# corpus = %q
# training-file = ""      # Plain text for the training passage
# wpm = %d               # Target words per minute
# goal = %q             # none, 10m, 20m, 1ch or 3ch
# rewind = %.1f            # Seconds to rewind
# theme = "dark"          # dark or light
# wake-lock = true        # Inhibit idle while playing

[log]
# level = %q            # debug, info, warn or error
# file = %q
# journal = false         # Also send records to the systemd journal
`,
		config.DefaultCorpusPath(),
		prefs.DefaultTargetWPM,
		defaultGoal,
		defaultRewind,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.CorpusPath == "" {
		return fmt.Errorf("--corpus must not be empty")
	}
	if cfg.TargetWPM != 0 && (cfg.TargetWPM < prefs.MinTargetWPM || cfg.TargetWPM > prefs.MaxTargetWPM) {
		return fmt.Errorf("--wpm must be between %d and %d", prefs.MinTargetWPM, prefs.MaxTargetWPM)
	}
	if cfg.RewindSeconds <= 0 {
		return fmt.Errorf("--rewind must be > 0")
	}
	switch model.Theme(strings.ToLower(strings.TrimSpace(cfg.Theme))) {
	case "", model.ThemeDark, model.ThemeLight:
	default:
		return fmt.Errorf("--theme must be dark or light")
	}
	if _, err := goal.Parse(cfg.Goal); err != nil {
		return fmt.Errorf("invalid --goal value: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
