package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lendfi/lendclient/internal/build"
	"github.com/lendfi/lendclient/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Manifest string
	Source   string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check MASM source without writing artifacts",
		Long: `Resolve every contract and note script against the assembler context
and scan for conflicting error constants, without producing any output
files. Exit code 1 means the source would fail to build.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", config.DefaultManifestFile, "build manifest file")
	cmd.Flags().StringVar(&opts.Source, "source", "", "MASM source root (overrides manifest)")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	manifest, err := config.LoadManifest(opts.Manifest)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), err)
	}
	if opts.Source != "" {
		manifest.SourceRoot = opts.Source
	}

	pipeline := &build.Pipeline{
		SourceRoot: manifest.SourceRoot,
		Namespace:  manifest.Namespace,
		Logf:       formatter.VerboseLog,
	}

	result, err := pipeline.Check()
	if err != nil {
		code := classifyBuildError(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if result.Skipped {
		fmt.Fprintln(formatter.Writer, "No MASM source directory found, nothing to validate")
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✓ Validated %d librar%s, %d note script(s)\n",
		len(result.Libraries), pluralY(len(result.Libraries)), len(result.Programs))
	return nil
}
