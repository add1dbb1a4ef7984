package main

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
	"golang.org/x/xerrors"

	"github.com/agentflare-ai/export-apidoc/apidoc"
	"github.com/agentflare-ai/export-apidoc/internal/settings"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const rootLongDesc = `
export-apidoc walks a project's urlconf, finds the Go handler behind every route and
renders the handlers' documentation comments as one Markdown API reference.

A documented handler starts its comment with a title followed by three sections:

  // GetUser
  //
  // Args:
  // id:int,user id
  // Return:
  // name:string,user name
  // Example:
  // {"name": "bob"}

Handlers without these sections are left out of the reference. The project is
described by a settings file (` + "`apidoc.toml`" + `) whose root_urlconf names the urlconf to walk.
`

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "export-apidoc [flags]",
		Short:         "Export a Markdown API reference from handler doc comments",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringVarP(&app.opts.output, "output", "o", "output.md", "output document path (- for stdout)")
	flags.StringArrayVarP(&app.opts.apps, "app", "a", nil, "only document handlers of this app (repeatable)")
	flags.StringArrayVarP(&app.opts.settings, "settings", "s", []string{settings.DefaultPath}, "settings file naming the root urlconf (repeatable)")
	flags.BoolVar(&app.opts.traceback, "traceback", false, "print the full error when a urlconf cannot be loaded")
	flags.StringVar(&app.opts.locale, "locale", "", "table heading language: zh or en (default from settings, else zh)")
	flags.BoolVarP(&app.opts.verbose, "verbose", "v", false, "log every skipped route")

	_ = cmd.MarkFlagFilename("settings", "toml")
	_ = cmd.MarkFlagFilename("output", "md")
	_ = cmd.RegisterFlagCompletionFunc("locale", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := lo.Keys(apidoc.Locales)
		sort.Strings(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.execute(ctx)
	}

	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

const completionLongDesc = `
Print a shell completion script for export-apidoc.

Besides flag names, the script completes --settings with *.toml files,
--output with *.md files and --locale with the known heading languages.

  export-apidoc completion bash > /usr/local/etc/bash_completion.d/export-apidoc
  export-apidoc completion zsh > "${fpath[1]}/_export-apidoc"
  export-apidoc completion fish > ~/.config/fish/completions/export-apidoc.fish
  export-apidoc completion powershell >> $PROFILE
`

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	generators := map[string]func(io.Writer) error{
		"bash":       root.GenBashCompletion,
		"zsh":        root.GenZshCompletion,
		"fish":       func(w io.Writer) error { return root.GenFishCompletion(w, true) },
		"powershell": root.GenPowerShellCompletion,
	}
	shells := lo.Keys(generators)
	sort.Strings(shells)
	return &cobra.Command{
		Use:                   "completion [" + strings.Join(shells, "|") + "]",
		Short:                 "Generate shell completion scripts",
		Long:                  strings.TrimSpace(completionLongDesc),
		Args:                  cobra.ExactValidArgs(1),
		ValidArgs:             shells,
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := generators[args[0]]
			if !ok {
				return xerrors.Errorf("unsupported shell %q", args[0])
			}
			return gen(cmd.OutOrStdout())
		},
	}
}

// newDocsCmd writes the reference pages of the CLI itself, one Markdown file
// per command.
func newDocsCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:           "gen-docs <directory>",
		Short:         "Write Markdown reference pages for export-apidoc's commands",
		Example:       "  export-apidoc gen-docs ./docs/cli",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if dir == "" {
				return xerrors.New("gen-docs needs a target directory")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return xerrors.Errorf("creating %s: %w", dir, err)
			}
			return cobradoc.GenMarkdownTree(root, dir)
		},
	}
}
