package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lendfi/lendclient/internal/build"
	"github.com/lendfi/lendclient/internal/config"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Manifest       string
	Source         string // overrides the manifest's source root
	Out            string // overrides the manifest's assets dir
	Work           string // build workspace; a temp dir when empty
	WriteGenerated bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile MASM contracts and note scripts",
		Long: `Compile the MASM source tree into binary artifacts.

Contracts in <source>/contracts become .masl library artifacts, note
scripts in <source>/note_scripts become .masb program artifacts, and
error constants declared in contract source are generated into a typed
Go registry. Libraries are compiled in explicit dependency order; a
reference cycle fails the build.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", config.DefaultManifestFile, "build manifest file")
	cmd.Flags().StringVar(&opts.Source, "source", "", "MASM source root (overrides manifest)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "artifact output directory (overrides manifest)")
	cmd.Flags().StringVar(&opts.Work, "work", "", "build workspace directory (default: temp dir)")
	cmd.Flags().BoolVar(&opts.WriteGenerated, "write-generated", false, "write the generated error registry (overrides manifest)")

	return cmd
}

func runBuild(opts *BuildOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	pipeline, cleanup, err := newPipeline(opts, cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), err)
	}
	defer cleanup()

	result, err := pipeline.Run()
	if err != nil {
		code := classifyBuildError(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()), err)
	}

	return outputBuildResult(formatter, result)
}

// newPipeline assembles a build pipeline from the manifest and flag
// overrides. The returned cleanup removes the workspace when it was a
// temp dir.
func newPipeline(opts *BuildOptions, cmd *cobra.Command) (*build.Pipeline, func(), error) {
	manifest, err := config.LoadManifest(opts.Manifest)
	if err != nil {
		return nil, nil, err
	}

	if opts.Source != "" {
		manifest.SourceRoot = opts.Source
	}
	if opts.Out != "" {
		manifest.AssetsDir = opts.Out
	}
	if cmd.Flags().Changed("write-generated") {
		manifest.WriteGenerated = opts.WriteGenerated
	}

	cleanup := func() {}
	work := opts.Work
	if work == "" {
		tmp, err := os.MkdirTemp("", "lendclient-build-")
		if err != nil {
			return nil, nil, fmt.Errorf("creating build workspace: %w", err)
		}
		work = tmp
		cleanup = func() { os.RemoveAll(tmp) }
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	return &build.Pipeline{
		SourceRoot:     manifest.SourceRoot,
		WorkDir:        work,
		AssetsDir:      manifest.AssetsDir,
		Namespace:      manifest.Namespace,
		ErrorsFile:     manifest.ErrorsFile,
		WriteGenerated: manifest.WriteGenerated,
		Logf:           formatter.VerboseLog,
	}, cleanup, nil
}

// outputBuildResult outputs a successful build.
func outputBuildResult(formatter *OutputFormatter, result *build.Result) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Skipped {
		fmt.Fprintln(formatter.Writer, "No MASM source directory found, nothing to build")
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d librar%s, %d note script(s)\n",
		len(result.Libraries), pluralY(len(result.Libraries)), len(result.Programs))

	if len(result.Libraries) > 0 {
		fmt.Fprintln(formatter.Writer, "\nLibraries:")
		for _, name := range result.Libraries {
			fmt.Fprintf(formatter.Writer, "  %s\n", name)
		}
	}
	if len(result.Programs) > 0 {
		fmt.Fprintln(formatter.Writer, "\nNote scripts:")
		for _, name := range result.Programs {
			fmt.Fprintf(formatter.Writer, "  %s\n", name)
		}
	}
	if result.ErrorsGenerated {
		fmt.Fprintln(formatter.Writer, "\nGenerated error registry")
	}

	return nil
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
