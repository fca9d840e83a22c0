package common

import (
	"context"
	"fmt"

	"thracker/internal/errors"
)

// CreateInputFunc defines how to create the specific pipeline input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// PipelineFunc is a generic function signature for a pipeline run. The second
// return value is the partial-result error message, empty on a clean run.
type PipelineFunc[Input, Output any] func(context.Context, Input) (Output, string)

// RunPipelineCommand encapsulates the common logic for file-based CLI commands
// that drive a pipeline run. Partial results are still written to the output;
// their error message is surfaced through the logger.
func RunPipelineCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	pipeline PipelineFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, errMessage := pipeline(ctx, input)
	if errMessage != "" {
		logger.Warn("Pipeline completed with errors, writing partial result",
			"error", errMessage)
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
