package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitriy-dronov-550503/signature/internal/buildinfo"
)

// newVersionCommand creates the version subcommand.
func newVersionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version information",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(out, buildinfo.Get().String())
			return err
		},
	}
}
