package cli

import (
	"context"
	"fmt"
	"time"

	"thracker/internal/ai"
	"thracker/internal/common"
	"thracker/internal/copilot"
	"thracker/internal/types"

	"github.com/spf13/cobra"
)

var copilotCmd = &cobra.Command{
	Use:   "copilot [resume-file] [job-description-file]",
	Short: "Run the full copilot pipeline for a resume and job description",
	Long: `Run the three-stage application copilot over a resume and a job description.
The command takes two arguments: the path to your resume file and the path to
the job description file. Both files should be in plain text format.

The pipeline analyzes resume fit, suggests targeted resume revisions, and
drafts a cover letter. Pass --base-letter to adapt an existing letter instead
of drafting one from scratch.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if copilotConfig.OutputFormat == "" {
			copilotConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(copilotConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runCopilot,
}

var copilotConfig common.CommandConfig

var copilotFlags struct {
	Position       string
	Company        string
	Location       string
	Industry       string
	BaseLetterFile string
	Tone           string
	FocusArea      string
	DetailLevel    string
}

func init() {
	copilotCmd.Flags().StringVarP(&copilotConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	copilotCmd.Flags().StringVar(&copilotConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	copilotCmd.Flags().StringVar(&copilotFlags.Position, "position", "", "Position title of the job")
	copilotCmd.Flags().StringVar(&copilotFlags.Company, "company", "", "Company offering the job")
	copilotCmd.Flags().StringVar(&copilotFlags.Location, "location", "", "Job location")
	copilotCmd.Flags().StringVar(&copilotFlags.Industry, "industry", "", "Company industry")
	copilotCmd.Flags().StringVar(&copilotFlags.BaseLetterFile, "base-letter", "", "Existing cover letter to adapt instead of drafting from scratch")
	copilotCmd.Flags().StringVar(&copilotFlags.Tone, "tone", "", "Agent tone directive (e.g. formal, conversational)")
	copilotCmd.Flags().StringVar(&copilotFlags.FocusArea, "focus-area", "", "Agent focus area directive")
	copilotCmd.Flags().StringVar(&copilotFlags.DetailLevel, "detail-level", "", "Agent detail level directive")

	// Add completion for format flag
	_ = copilotCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runCopilot(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// One AI provider per pipeline stage
	analyzeConfig := cfg.GetAnalyzeConfig()
	suggestConfig := cfg.GetSuggestConfig()
	draftConfig := cfg.GetDraftConfig()

	analyzeService, err := ai.NewService(&analyzeConfig, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create analyze service: %w", err)
	}
	suggestService, err := ai.NewService(&suggestConfig, "suggest", logger)
	if err != nil {
		return fmt.Errorf("failed to create suggest service: %w", err)
	}
	draftService, err := ai.NewService(&draftConfig, "draft", logger)
	if err != nil {
		return fmt.Errorf("failed to create draft service: %w", err)
	}

	baseCoverLetter := ""
	if copilotFlags.BaseLetterFile != "" {
		fileProcessor := common.NewFileProcessor(logger)
		baseCoverLetter, err = fileProcessor.ReadFile(copilotFlags.BaseLetterFile)
		if err != nil {
			return fmt.Errorf("failed to read base cover letter: %w", err)
		}
	}

	runner := copilot.NewRunner(
		copilot.Providers{
			Analyze: analyzeService.Provider,
			Suggest: suggestService.Provider,
			Draft:   draftService.Provider,
		},
		copilot.Timeouts{
			Analyze: derefTimeout(analyzeConfig.Timeout),
			Suggest: derefTimeout(suggestConfig.Timeout),
			Draft:   derefTimeout(draftConfig.Timeout),
		},
		logger,
		nil,
	)

	createInput := func(contents []string) (copilot.RunInput, error) {
		if len(contents) != 2 {
			return copilot.RunInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return copilot.RunInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
			JobDetails: types.JobDetails{
				Position: copilotFlags.Position,
				Company:  copilotFlags.Company,
				Location: copilotFlags.Location,
				Industry: copilotFlags.Industry,
			},
			BaseCoverLetter: baseCoverLetter,
			Settings: types.AgentSettings{
				Tone:        copilotFlags.Tone,
				FocusArea:   copilotFlags.FocusArea,
				DetailLevel: copilotFlags.DetailLevel,
			},
		}, nil
	}

	logDetails := func(input copilot.RunInput, cfg common.CommandConfig) {
		logger.Info("Starting copilot pipeline",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"has_base_cover_letter", input.BaseCoverLetter != "",
			"output_format", cfg.OutputFormat)
	}

	pipeline := func(ctx context.Context, input copilot.RunInput) (types.CopilotResult, string) {
		result := runner.Run(ctx, input)
		return result, result.Error
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		copilotConfig,
		args,
		createInput,
		pipeline,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to run copilot pipeline: %w", err)
	}
	logger.Info("Copilot pipeline completed")
	return nil
}

func derefTimeout(d *time.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return *d
}
