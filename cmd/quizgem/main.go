// Package main provides the CLI entrypoint for quizgem.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/quizgem/internal/config"
	"github.com/verte-zerg/quizgem/internal/generator"
	"github.com/verte-zerg/quizgem/internal/logger"
	"github.com/verte-zerg/quizgem/internal/model"
	"github.com/verte-zerg/quizgem/internal/provider"
	"github.com/verte-zerg/quizgem/internal/scores"
	"github.com/verte-zerg/quizgem/internal/store"
	"github.com/verte-zerg/quizgem/internal/tui"
)

const (
	defaultQuestions   = 10
	defaultBackend     = "gemini"
	defaultOllamaModel = "qwen3:0.6b"
	defaultTimeoutSec  = 30
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	apiKeyEnv          = "GEMINI_API_KEY"
)

const (
	backendGemini = "gemini"
	backendOllama = "ollama"
)

var (
	flagQuestions   int
	flagTopics      []string
	flagTopicsFile  string
	flagBackend     string
	flagModel       string
	flagBaseURL     string
	flagTemperature float64
	flagMaxTokens   int
	flagTimeout     int
	flagStorage     string
	flagDBPath      string
	flagRedisAddr   string
	flagRedisDB     int
	flagEncrypt     bool
	flagLogLevel    string

	scoresReset bool
	scoresColor bool
	askTopic    string
)

// settings is the merged result of flags, config file and environment.
type settings struct {
	quiz     model.QuizConfig
	provider model.ProviderConfig
	storage  model.StorageConfig
	log      logger.Options
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quizgem",
		Short:         "AI-generated multiple-choice quiz in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&flagQuestions, "questions", defaultQuestions, "questions per quiz")
	flags.StringSliceVar(&flagTopics, "topics", nil, "comma-separated topic pool (default: built-in French topics)")
	flags.StringVar(&flagTopicsFile, "topics-file", "", "file with one topic per line, added to the pool")
	flags.StringVar(&flagBackend, "backend", defaultBackend, "question backend: gemini or ollama")
	flags.StringVar(&flagModel, "model", "", "model name (default: gemini-pro, or qwen3:0.6b for ollama)")
	flags.StringVar(&flagBaseURL, "base-url", "", "override the backend API base URL")
	flags.Float64Var(&flagTemperature, "temperature", provider.DefaultTemperature, "sampling temperature (0-2)")
	flags.IntVar(&flagMaxTokens, "max-tokens", provider.DefaultMaxTokens, "maximum output tokens per question")
	flags.IntVar(&flagTimeout, "timeout", defaultTimeoutSec, "HTTP timeout per question in seconds")
	flags.StringVar(&flagStorage, "storage", store.BackendSQLite, "score storage: sqlite, redis or memory")
	flags.StringVar(&flagDBPath, "db", "", "sqlite database path (default: XDG data dir)")
	flags.StringVar(&flagRedisAddr, "redis-addr", "localhost:6379", "redis address for --storage redis")
	flags.IntVar(&flagRedisDB, "redis-db", 0, "redis database number")
	flags.BoolVar(&flagEncrypt, "encrypt", true, "encrypt stored scores at rest (--encrypt=false stores plaintext)")
	flags.StringVar(&flagLogLevel, "log-level", defaultLogLevel, "log level: debug, info, warn or error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newAskCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cfg.provider.Backend == backendGemini && cfg.provider.APIKey == "" {
		return missingAPIKeyError()
	}

	log, closeLog, err := logger.New(cfg.log)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeQuietly(closeLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := newProvider(cfg, log)
	if err != nil {
		return err
	}
	kv, err := store.OpenBackend(ctx, cfg.storage)
	if err != nil {
		return err
	}
	defer closeQuietly(kv.Close)

	log.Info("quizgem starting",
		zap.String("backend", cfg.provider.Backend),
		zap.String("model", cfg.provider.Model),
		zap.String("storage", cfg.storage.Backend),
		zap.Int("questions", cfg.quiz.Questions),
	)

	m := tui.NewModel(tui.Options{
		Questions: cfg.quiz.Questions,
		Fetcher:   p,
		Scores:    scores.NewBoard(kv, log),
		Logger:    log,
		Context:   ctx,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
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
	if err := writeDefaultConfig(path); err != nil {
		return err
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

// writeDefaultConfig creates the template at path unless a file already exists.
func writeDefaultConfig(path string) error {
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
	return nil
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the configured topic pool",
		Args:  cobra.NoArgs,
		RunE:  runTopicsCmd,
	}
}

func runTopicsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	for _, topic := range cfg.quiz.Topics {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), topic); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the top scores",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().BoolVar(&scoresReset, "reset", false, "delete all recorded scores")
	cmd.Flags().BoolVar(&scoresColor, "color", false, "force colored output")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	kv, err := store.OpenBackend(ctx, cfg.storage)
	if err != nil {
		return err
	}
	defer closeQuietly(kv.Close)

	board := scores.NewBoard(kv, zap.NewNop())
	if scoresReset {
		if err := board.Reset(ctx); err != nil {
			return err
		}
		logErrln("Scores reset.")
		return nil
	}
	top, err := board.TopScores(ctx)
	if err != nil {
		return err
	}
	return scores.Print(cmd.OutOrStdout(), top, scoresColor)
}

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Generate a single question and print it",
		Args:  cobra.NoArgs,
		RunE:  runAskCmd,
	}
	cmd.Flags().StringVar(&askTopic, "topic", "", "question topic (default: random from the pool)")
	return cmd
}

func runAskCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cfg.provider.Backend == backendGemini && cfg.provider.APIKey == "" {
		return missingAPIKeyError()
	}
	log, closeLog, err := logger.New(cfg.log)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeQuietly(closeLog)

	p, err := newProvider(cfg, log)
	if err != nil {
		return err
	}
	topic := strings.TrimSpace(askTopic)
	if topic == "" {
		topic = generator.New().Pick(p.Topics())
	}
	fetched := p.FetchQuestion(context.Background(), topic)
	if fetched.FellBack() {
		logErrf("Generation failed (%v); showing the fallback question.\n", fetched.Err)
	}
	return printQuestion(cmd, fetched)
}

func printQuestion(cmd *cobra.Command, fetched provider.Fetched) error {
	q := fetched.Question
	lines := []string{
		fmt.Sprintf("[%s] %s", fetched.Topic, q.Prompt()),
	}
	for i, option := range q.Options() {
		letter, _ := model.LetterForIndex(i)
		lines = append(lines, fmt.Sprintf("  %s. %s", letter, option))
	}
	lines = append(lines, fmt.Sprintf("Réponse: %s", q.CorrectAnswer()))
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return resolveSettings(cmd, fileCfg, os.Getenv(apiKeyEnv))
}

func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig, envKey string) (settings, error) {
	questions := flagQuestions
	topics := flagTopics
	topicsFile := flagTopicsFile
	backend := flagBackend
	modelName := flagModel
	baseURL := flagBaseURL
	temperature := flagTemperature
	maxTokens := flagMaxTokens
	timeout := flagTimeout
	storageBackend := flagStorage
	dbPath := flagDBPath
	redisAddr := flagRedisAddr
	redisDB := flagRedisDB
	encrypt := flagEncrypt
	logLevel := flagLogLevel

	applyIntConfig(cmd, "questions", &questions, fileCfg.Quiz.Questions)
	applyStringSliceConfig(cmd, "topics", &topics, fileCfg.Quiz.Topics)
	applyStringConfig(cmd, "topics-file", &topicsFile, fileCfg.Quiz.TopicsFile)
	applyStringConfig(cmd, "backend", &backend, fileCfg.Provider.Backend)
	applyStringConfig(cmd, "model", &modelName, fileCfg.Provider.Model)
	applyStringConfig(cmd, "base-url", &baseURL, fileCfg.Provider.BaseURL)
	applyFloatConfig(cmd, "temperature", &temperature, fileCfg.Provider.Temperature)
	applyIntConfig(cmd, "max-tokens", &maxTokens, fileCfg.Provider.MaxTokens)
	applyIntConfig(cmd, "timeout", &timeout, fileCfg.Provider.Timeout)
	applyStringConfig(cmd, "storage", &storageBackend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Storage.Path)
	applyStringConfig(cmd, "redis-addr", &redisAddr, fileCfg.Storage.RedisAddr)
	applyIntConfig(cmd, "redis-db", &redisDB, fileCfg.Storage.RedisDB)
	applyBoolConfig(cmd, "encrypt", &encrypt, fileCfg.Storage.Encrypt)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	backend = strings.ToLower(strings.TrimSpace(backend))
	if modelName == "" {
		modelName = defaultModelFor(backend)
	}
	if topicsFile != "" {
		fromFile, err := generator.LoadTopics(topicsFile)
		if err != nil {
			return settings{}, err
		}
		topics = append(append([]string{}, topics...), fromFile...)
	}
	topics = generator.NormalizeTopics(topics)
	if len(topics) == 0 {
		topics = generator.DefaultTopics
	}
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	apiKey := strings.TrimSpace(envKey)
	if apiKey == "" && fileCfg.Provider.APIKey != nil {
		apiKey = strings.TrimSpace(*fileCfg.Provider.APIKey)
	}
	redisPassword := ""
	if fileCfg.Storage.RedisPassword != nil {
		redisPassword = *fileCfg.Storage.RedisPassword
	}
	logFormat := defaultLogFormat
	if fileCfg.Log.Format != nil {
		logFormat = *fileCfg.Log.Format
	}
	logPath := config.DefaultLogPath()
	if fileCfg.Log.Path != nil && *fileCfg.Log.Path != "" {
		logPath = *fileCfg.Log.Path
	}

	s := settings{
		quiz: model.QuizConfig{
			Questions: questions,
			Topics:    topics,
		},
		provider: model.ProviderConfig{
			Backend:     backend,
			Model:       modelName,
			BaseURL:     baseURL,
			APIKey:      apiKey,
			Temperature: temperature,
			MaxTokens:   maxTokens,
			TimeoutSec:  timeout,
		},
		storage: model.StorageConfig{
			Backend:       strings.ToLower(strings.TrimSpace(storageBackend)),
			Path:          dbPath,
			KeyPath:       config.DefaultKeyPath(),
			RedisAddr:     redisAddr,
			RedisPassword: redisPassword,
			RedisDB:       redisDB,
			Encrypt:       encrypt,
		},
		log: logger.Options{
			Level:  logLevel,
			Format: logFormat,
			Path:   logPath,
		},
	}
	if err := validateSettings(s); err != nil {
		return settings{}, err
	}
	return s, nil
}

func validateSettings(s settings) error {
	if s.quiz.Questions <= 0 {
		return fmt.Errorf("--questions must be > 0")
	}
	switch s.provider.Backend {
	case backendGemini, backendOllama:
	default:
		return fmt.Errorf("--backend must be %s or %s", backendGemini, backendOllama)
	}
	if s.provider.Temperature < 0 || s.provider.Temperature > 2 {
		return fmt.Errorf("--temperature must be between 0 and 2")
	}
	if s.provider.MaxTokens <= 0 {
		return fmt.Errorf("--max-tokens must be > 0")
	}
	if s.provider.TimeoutSec <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	switch s.storage.Backend {
	case store.BackendSQLite, store.BackendRedis, store.BackendMemory:
	default:
		return fmt.Errorf("--storage must be %s, %s or %s", store.BackendSQLite, store.BackendRedis, store.BackendMemory)
	}
	if s.storage.Backend == store.BackendRedis && strings.TrimSpace(s.storage.RedisAddr) == "" {
		return fmt.Errorf("--redis-addr must not be empty")
	}
	if s.storage.RedisDB < 0 {
		return fmt.Errorf("--redis-db must be >= 0")
	}
	return nil
}

func defaultModelFor(backend string) string {
	if backend == backendOllama {
		return defaultOllamaModel
	}
	return provider.DefaultGeminiModel
}

func newCompleter(cfg model.ProviderConfig) (provider.Completer, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	switch cfg.Backend {
	case backendOllama:
		return provider.NewOllamaCompleter(provider.OllamaOptions{
			ServerURL:   cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		})
	default:
		return provider.NewGeminiClient(provider.GeminiOptions{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     timeout,
		})
	}
}

func newProvider(cfg settings, log *zap.Logger) (*provider.Provider, error) {
	completer, err := newCompleter(cfg.provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.provider.Backend, err)
	}
	p, err := provider.New(completer, cfg.quiz.Topics, generator.New(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create question provider: %w", err)
	}
	return p, nil
}

func missingAPIKeyError() error {
	lines := []string{
		fmt.Sprintf("%s is not set", apiKeyEnv),
		fmt.Sprintf("Export it: export %s=<your key>", apiKeyEnv),
		"Or set provider.api-key in the config file: quizgem config",
		"Or play offline with a local model: quizgem --backend ollama",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
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

func applyStringSliceConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
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
	return fmt.Sprintf(`# quizgem configuration
# Uncomment a value to enable it. CLI flags override config values.

[quiz]
# questions = %d                      # Questions per quiz
# topics = ["histoire", "sport"]      # Topic pool (default: built-in French topics)
# topics-file = ""                    # File with one topic per line, added to the pool

[provider]
# backend = %q                  # gemini or ollama
# model = %q                    # Model name (ollama default: %q)
# base-url = ""                       # Override the API base URL
# api-key = ""                        # Prefer the %s environment variable
# temperature = %.1f                  # Sampling temperature (0-2)
# max-tokens = %d                   # Maximum output tokens per question
# timeout = %d                        # HTTP timeout per question in seconds

[storage]
# backend = %q                  # sqlite, redis or memory
# path = ""                           # sqlite database path
# redis-addr = "localhost:6379"
# redis-password = ""
# redis-db = 0
# encrypt = true                      # Encrypt stored scores at rest

[log]
# level = %q                      # debug, info, warn or error
# format = %q                  # console or json
# path = ""                           # Log file (default: XDG state dir)
`,
		defaultQuestions,
		defaultBackend,
		provider.DefaultGeminiModel,
		defaultOllamaModel,
		apiKeyEnv,
		provider.DefaultTemperature,
		provider.DefaultMaxTokens,
		defaultTimeoutSec,
		store.BackendSQLite,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func closeQuietly(closeFn func() error) {
	if err := closeFn(); err != nil {
		logErrf("failed to close: %v\n", err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
