// Package cli implements signature command-line parsing and commands.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the signature root command, wired to out/errOut
// instead of the package-level os.Stdout/os.Stderr so tests can capture
// output without touching process globals. The root command itself runs
// signature generation; "version" is its only subcommand.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &generateOptions{}

	root := &cobra.Command{
		Use:           "signature",
		Short:         "Compute fixed-block SHA-256 digests for a file",
		Long:          "signature partitions a file into fixed-size blocks, hashes each with SHA-256, and writes the concatenated digests to an output file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "path to the input file (required)")
	flags.StringVarP(&opts.output, "output", "o", "", "path to the output signature file (required)")
	flags.IntVarP(&opts.blockKiB, "block", "b", 1024, "block size in kilobytes")

	root.AddCommand(newVersionCommand(out))

	return root
}
