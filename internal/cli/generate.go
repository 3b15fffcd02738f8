package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "github.com/dmitriy-dronov-550503/signature/internal/errors"
	"github.com/dmitriy-dronov-550503/signature/internal/engine"
	"github.com/dmitriy-dronov-550503/signature/internal/logging"
)

// generateOptions holds the root command's flag values.
type generateOptions struct {
	input    string
	output   string
	blockKiB int
}

// runGenerate validates opts, builds an Engine, and runs it to
// completion, writing progress to the command's configured output
// stream.
func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	if opts.input == "" || opts.output == "" {
		return fmt.Errorf("--input and --output are required: %w", apperrors.ErrUsage)
	}
	if opts.blockKiB <= 0 {
		return fmt.Errorf("--block must be > 0, got %d: %w", opts.blockKiB, apperrors.ErrInvalidParameter)
	}

	out := cmd.OutOrStdout()

	e, err := engine.New(engine.Options{
		InputPath:  opts.input,
		OutputPath: opts.output,
		BlockSize:  opts.blockKiB * 1024,
		Logger:     logging.New(io.Discard, nil),
		Progress:   out,
	})
	if err != nil {
		return err
	}

	if err := e.Generate(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "wrote %d block digests to %s\n", e.BlockCount(), opts.output)
	return nil
}
