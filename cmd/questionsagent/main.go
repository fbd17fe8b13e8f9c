package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AiursoftWeb/QuestionsAgent/internal/llm"
	"github.com/AiursoftWeb/QuestionsAgent/internal/parser"
	"github.com/AiursoftWeb/QuestionsAgent/internal/pipeline"
	"github.com/AiursoftWeb/QuestionsAgent/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "questionsagent",
		Short: "Extract structured exam questions from messy documents with an LLM",
	}
	root.AddCommand(processCmd(), convertCmd(), runsCmd())
	return root
}

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a markdown file containing questions and output JSON files",
		RunE:  runProcess,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "The input markdown file to process")
	f.StringP("output", "o", "FinalOutput", "The output directory for JSON files")
	f.String("instance", "", "The inference endpoint base URL to use")
	f.String("model", "", "The inference model to use")
	f.String("token", "", "The inference access token to use")
	f.String("db", "", "SQLite run-ledger path (empty disables the ledger)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("instance")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert exam documents (.docx, .pdf, .md, .txt) into a single process input file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runConvert,
	}
	f := cmd.Flags()
	f.StringP("output", "o", "questions.md", "The bundled markdown output path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past pipeline runs recorded in the ledger",
		RunE:  runRuns,
	}
	f := cmd.Flags()
	f.String("db", "questionsagent.db", "SQLite run-ledger path")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper
// instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("QUESTIONSAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("questionsagent")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/questionsagent")
	v.AddConfigPath("/etc/questionsagent")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runProcess(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	var ledger *store.Store
	if dbPath := v.GetString("db"); dbPath != "" {
		var err error
		ledger, err = store.New(dbPath)
		if err != nil {
			return fmt.Errorf("open run ledger: %w", err)
		}
		defer ledger.Close()
	}

	client := llm.New(llm.Config{
		Instance: v.GetString("instance"),
		Model:    v.GetString("model"),
		Token:    v.GetString("token"),
	})

	proc := pipeline.NewProcessor(client, ledger)
	return proc.Run(cmd.Context(), v.GetString("input"), v.GetString("output"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	outPath := v.GetString("output")
	if outPath == "" || outPath == "-" {
		return parser.WriteBundle(os.Stdout, args)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := parser.WriteBundle(f, args); err != nil {
		return err
	}
	slog.Info("wrote bundle", "path", outPath, "documents", len(args))
	return nil
}

func runRuns(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	ledger, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open run ledger: %w", err)
	}
	defer ledger.Close()

	runs, err := ledger.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tCOMPLETED\tINPUT\tOUTPUT\tITEMS")
	for _, r := range runs {
		completed := "-"
		if r.CompletedAt.Valid {
			completed = r.CompletedAt.Time.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), completed,
			r.InputFile, r.OutputDir, r.TotalItems)
	}
	return w.Flush()
}
