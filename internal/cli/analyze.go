package cli

import (
	"context"
	"fmt"

	"thracker/internal/ai"
	"thracker/internal/common"
	"thracker/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-description-file]",
	Short: "Run only the fit-analysis stage",
	Long: `Analyze how well a resume fits a job description without running the
rest of the pipeline. Produces a compatibility score (0-100) and a textual
analysis of strengths and gaps.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

var analyzeFlags struct {
	Position    string
	Company     string
	Location    string
	Industry    string
	Tone        string
	FocusArea   string
	DetailLevel string
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeFlags.Position, "position", "", "Position title of the job")
	analyzeCmd.Flags().StringVar(&analyzeFlags.Company, "company", "", "Company offering the job")
	analyzeCmd.Flags().StringVar(&analyzeFlags.Location, "location", "", "Job location")
	analyzeCmd.Flags().StringVar(&analyzeFlags.Industry, "industry", "", "Company industry")
	analyzeCmd.Flags().StringVar(&analyzeFlags.Tone, "tone", "", "Agent tone directive")
	analyzeCmd.Flags().StringVar(&analyzeFlags.FocusArea, "focus-area", "", "Agent focus area directive")
	analyzeCmd.Flags().StringVar(&analyzeFlags.DetailLevel, "detail-level", "", "Agent detail level directive")

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	analyzeCfg := cfg.GetAnalyzeConfig()
	service, err := ai.NewService(&analyzeCfg, "analyze", logger)
	if err != nil {
		return fmt.Errorf("failed to create analyze service: %w", err)
	}

	createInput := func(contents []string) (types.AnalyzeFitInput, error) {
		if len(contents) != 2 {
			return types.AnalyzeFitInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.AnalyzeFitInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
			JobDetails: types.JobDetails{
				Position: analyzeFlags.Position,
				Company:  analyzeFlags.Company,
				Location: analyzeFlags.Location,
				Industry: analyzeFlags.Industry,
			},
			Settings: types.AgentSettings{
				Tone:        analyzeFlags.Tone,
				FocusArea:   analyzeFlags.FocusArea,
				DetailLevel: analyzeFlags.DetailLevel,
			},
		}, nil
	}

	logDetails := func(input types.AnalyzeFitInput, cfg common.CommandConfig) {
		logger.Info("Starting fit analysis",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	pipeline := func(ctx context.Context, input types.AnalyzeFitInput) (types.AnalyzeFitOutput, string) {
		if timeout := derefTimeout(analyzeCfg.Timeout); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		output, usage, err := service.Provider.AnalyzeFit(ctx, input)
		if err != nil {
			return types.AnalyzeFitOutput{}, err.Error()
		}
		if usage != nil {
			logger.Info("Fit analysis token usage",
				"input_tokens", usage.InputTokens,
				"output_tokens", usage.OutputTokens,
				"total_tokens", usage.TotalTokens)
		}
		return output, ""
	}

	err = common.RunPipelineCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		pipeline,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to run fit analysis: %w", err)
	}
	logger.Info("Fit analysis completed")
	return nil
}
