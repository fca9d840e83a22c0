package cli

import (
	"context"
	"fmt"

	"thracker/internal/ai"
	"thracker/internal/common"
	"thracker/internal/types"

	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft [resume-file] [job-description-file]",
	Short: "Run only the cover-letter stage",
	Long: `Draft a cover letter for a resume and job description without running
the full pipeline. Pass --base-letter to adapt an existing letter instead of
writing one from scratch; pass --analysis-file to ground the letter in a
previously saved fit analysis.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if draftConfig.OutputFormat == "" {
			draftConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(draftConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runDraft,
}

var draftConfig common.CommandConfig

var draftFlags struct {
	Position       string
	Company        string
	Location       string
	Industry       string
	BaseLetterFile string
	AnalysisFile   string
	Tone           string
	FocusArea      string
	DetailLevel    string
}

func init() {
	draftCmd.Flags().StringVarP(&draftConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	draftCmd.Flags().StringVar(&draftConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	draftCmd.Flags().StringVar(&draftFlags.Position, "position", "", "Position title of the job")
	draftCmd.Flags().StringVar(&draftFlags.Company, "company", "", "Company offering the job")
	draftCmd.Flags().StringVar(&draftFlags.Location, "location", "", "Job location")
	draftCmd.Flags().StringVar(&draftFlags.Industry, "industry", "", "Company industry")
	draftCmd.Flags().StringVar(&draftFlags.BaseLetterFile, "base-letter", "", "Existing cover letter to adapt instead of drafting from scratch")
	draftCmd.Flags().StringVar(&draftFlags.AnalysisFile, "analysis-file", "", "Fit analysis text to ground the letter in")
	draftCmd.Flags().StringVar(&draftFlags.Tone, "tone", "", "Agent tone directive")
	draftCmd.Flags().StringVar(&draftFlags.FocusArea, "focus-area", "", "Agent focus area directive")
	draftCmd.Flags().StringVar(&draftFlags.DetailLevel, "detail-level", "", "Agent detail level directive")

	_ = draftCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runDraft(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	draftCfg := cfg.GetDraftConfig()
	service, err := ai.NewService(&draftCfg, "draft", logger)
	if err != nil {
		return fmt.Errorf("failed to create draft service: %w", err)
	}

	fileProcessor := common.NewFileProcessor(logger)

	baseCoverLetter := ""
	if draftFlags.BaseLetterFile != "" {
		baseCoverLetter, err = fileProcessor.ReadFile(draftFlags.BaseLetterFile)
		if err != nil {
			return fmt.Errorf("failed to read base cover letter: %w", err)
		}
	}

	analysis := ""
	if draftFlags.AnalysisFile != "" {
		analysis, err = fileProcessor.ReadFile(draftFlags.AnalysisFile)
		if err != nil {
			return fmt.Errorf("failed to read analysis file: %w", err)
		}
	}

	createInput := func(contents []string) (types.DraftInput, error) {
		if len(contents) != 2 {
			return types.DraftInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.DraftInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
			JobDetails: types.JobDetails{
				Position: draftFlags.Position,
				Company:  draftFlags.Company,
				Location: draftFlags.Location,
				Industry: draftFlags.Industry,
			},
			Analysis:        analysis,
			BaseCoverLetter: baseCoverLetter,
			Settings: types.AgentSettings{
				Tone:        draftFlags.Tone,
				FocusArea:   draftFlags.FocusArea,
				DetailLevel: draftFlags.DetailLevel,
			},
		}, nil
	}

	logDetails := func(input types.DraftInput, cfg common.CommandConfig) {
		logger.Info("Starting cover letter draft",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"has_base_cover_letter", input.BaseCoverLetter != "",
			"output_format", cfg.OutputFormat)
	}

	pipeline := func(ctx context.Context, input types.DraftInput) (types.DraftOutput, string) {
		if timeout := derefTimeout(draftCfg.Timeout); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		output, usage, err := service.Provider.DraftCoverLetter(ctx, input)
		if err != nil {
			return types.DraftOutput{}, err.Error()
		}
		if usage != nil {
			logger.Info("Cover letter token usage",
				"input_tokens", usage.InputTokens,
				"output_tokens", usage.OutputTokens,
				"total_tokens", usage.TotalTokens)
		}
		return output, ""
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		draftConfig,
		args,
		createInput,
		pipeline,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to draft cover letter: %w", err)
	}
	logger.Info("Cover letter draft completed")
	return nil
}
