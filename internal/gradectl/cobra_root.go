package gradectl

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gradeassist/pkg/types"
)

// buildRootCmd is a convenience for help-only fallbacks.
func buildRootCmd() *cobra.Command { return buildRootCmdWith(DefaultConfig()) }

// buildRootCmdWith constructs a Cobra command tree wired to the fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "gradectl",
		Short:         "Client for the gradeassist services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	root.PersistentFlags().String("url", cfg.URL, "Service base URL (defaults GRADECTL_URL or http://localhost:5000)")
	root.PersistentFlags().Duration("timeout", cfg.Timeout, "Request timeout (defaults GRADECTL_TIMEOUT seconds)")
	root.PersistentFlags().String("log-level", cfg.LogLvl, "Log level: debug|info|warn|error (defaults GRADECTL_LOG_LEVEL or info)")
	root.PersistentFlags().Bool("compact", cfg.Compact, "Print compact JSON")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		if f := flags.Lookup("url"); f != nil && f.Value.String() != "" {
			cfg.URL = f.Value.String()
		}
		if f := flags.Lookup("timeout"); f != nil {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.Timeout = d
			}
		}
		if f := flags.Lookup("log-level"); f != nil && f.Value.String() != "" {
			cfg.LogLvl = f.Value.String()
		}
		if f := flags.Lookup("compact"); f != nil {
			cfg.Compact, _ = strconv.ParseBool(f.Value.String())
		}
		SetLogLevel(cfg.LogLvl)
	}

	// detection
	detectCmd := &cobra.Command{Use: "detect <text|->", Short: "Classify text as AI or human (deberta, mgt, fallback)", Example: "  gradectl --url http://localhost:8000 detect \"some essay\"\n  cat essay.txt | gradectl detect -", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return fnDetect(cmd.Context(), cfg, args[0])
	}}
	predictCmd := &cobra.Command{Use: "predict <text|->...", Short: "Classify one or more texts with the BERT detector", Args: cobra.MinimumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return fnPredict(cmd.Context(), cfg, args)
	}}
	root.AddCommand(detectCmd, predictCmd)

	// similarity
	var cmp types.ComparisonRequest
	compareCmd := &cobra.Command{Use: "compare", Short: "Compare a student answer with the instructor and RAG answers", Example: "  gradectl --url http://localhost:7000 compare --question \"What is osmosis?\" --doctor \"...\" --student \"...\"", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return fnCompare(cmd.Context(), cfg, cmp)
	}}
	compareCmd.Flags().StringVar(&cmp.Question, "question", "", "Question text")
	compareCmd.Flags().StringVar(&cmp.DoctorAnswer, "doctor", "", "Instructor answer")
	compareCmd.Flags().StringVar(&cmp.StudentAnswer, "student", "", "Student answer")
	root.AddCommand(compareCmd)

	docsCmd := &cobra.Command{Use: "docs", Short: "Manage retrieval documents", Args: func(cmd *cobra.Command, args []string) error { return nil }, RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("docs requires a subcommand: ingest")
	}}
	var source string
	ingestCmd := &cobra.Command{Use: "ingest <file>...", Short: "Chunk, embed and store text files", Args: cobra.MinimumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return fnIngest(cmd.Context(), cfg, source, args)
	}}
	ingestCmd.Flags().StringVar(&source, "source", "", "Source label (defaults to the file name)")
	docsCmd.AddCommand(ingestCmd)
	root.AddCommand(docsCmd)

	// grading
	gradeCmd := &cobra.Command{Use: "grade <request.json|->", Short: "Grade a submission", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return fnGrade(cmd.Context(), cfg, args[0])
	}}
	root.AddCommand(gradeCmd)

	// exams
	examCmd := &cobra.Command{Use: "exam", Short: "Exam photo and storage commands", Args: func(cmd *cobra.Command, args []string) error { return nil }, RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("exam requires a subcommand: photo|extract|answers|get")
	}}
	examPhoto := &cobra.Command{Use: "photo <image>", Short: "Build an exam draft from a photo (grader)", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return fnProcessPhoto(cmd.Context(), cfg, args[0])
	}}
	examExtract := &cobra.Command{Use: "extract <image>", Short: "Extract an exam from a photo (vlm)", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return fnExtractExam(cmd.Context(), cfg, args[0])
	}}
	var examID int64
	examAnswers := &cobra.Command{Use: "answers <image>", Short: "Extract a student's answers from a photo (vlm)", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return fnExtractAnswers(cmd.Context(), cfg, args[0], examID)
	}}
	examAnswers.Flags().Int64Var(&examID, "exam-id", 0, "Stored exam used to pad the answers")
	examGet := &cobra.Command{Use: "get <id>", Short: "Fetch a stored exam (vlm)", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("exam id must be an integer: %q", args[0])
		}
		return fnGetExam(cmd.Context(), cfg, id)
	}}
	examCmd.AddCommand(examPhoto, examExtract, examAnswers, examGet)
	root.AddCommand(examCmd)

	// health
	root.AddCommand(
		&cobra.Command{Use: "status", Short: "Downstream health as seen by the grader", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error { return fnSystemStatus(cmd.Context(), cfg) }},
		&cobra.Command{Use: "health", Short: "GET /health on any service", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error { return fnHealth(cmd.Context(), cfg) }},
	)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}
