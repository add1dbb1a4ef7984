package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/pflag"
	"golang.org/x/xerrors"

	"github.com/agentflare-ai/export-apidoc/apidoc"
	"github.com/agentflare-ai/export-apidoc/internal/settings"
	"github.com/agentflare-ai/export-apidoc/internal/source"
	"github.com/agentflare-ai/export-apidoc/internal/urlconf"
	"github.com/agentflare-ai/export-apidoc/routetree"
)

var log = logging.Logger("export-apidoc")

const logSubsystems = `^(export-apidoc|apidoc|routetree|urlconf|source)$`

type options struct {
	output    string
	apps      []string
	settings  []string
	traceback bool
	locale    string
	verbose   bool
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
}

func run(argv []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(normalizeLegacyArgs(cmd.Flags(), argv))
	return cmd.Execute()
}

func (app *cliApp) execute(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level := "warn"
	if app.opts.verbose {
		level = "debug"
	}
	if err := logging.SetLogLevelRegex(logSubsystems, level); err != nil {
		return err
	}

	paths := app.opts.settings
	if len(paths) == 0 {
		paths = []string{settings.DefaultPath}
	}
	doc := &apidoc.Document{}
	for _, path := range paths {
		s, err := settings.Load(path)
		if err != nil {
			return err
		}
		part, err := app.document(ctx, s)
		if err != nil {
			return err
		}
		doc.Append(part)
	}

	if err := writeOutput(app.opts.output, app.stdout, doc); err != nil {
		return err
	}
	if app.opts.output != "-" {
		fmt.Fprintf(app.stdout, "completed: %s\n", app.opts.output)
	}
	return nil
}

// document renders the routes of one settings file. A root urlconf that
// cannot be loaded contributes nothing; a malformed route tree is fatal.
func (app *cliApp) document(ctx context.Context, s *settings.Settings) (*apidoc.Document, error) {
	nodes, err := urlconf.Load(s.URLConfPath())
	if err != nil {
		log.Errorw("cannot load root urlconf", "settings", s.Path(), "error", err)
		if app.opts.traceback {
			fmt.Fprintf(app.stderr, "%+v\n", err)
		}
		return nil, nil
	}
	routes, err := routetree.Walk(nodes)
	if err != nil {
		return nil, xerrors.Errorf("walking %s: %w", s.URLConfPath(), err)
	}

	localeName := app.opts.locale
	if localeName == "" {
		localeName = s.Locale
	}
	locale, err := apidoc.LookupLocale(localeName)
	if err != nil {
		return nil, err
	}
	loader, err := source.NewLoader(s.WorkDir(), source.DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	gen := &apidoc.Generator{
		Source: loader,
		Config: apidoc.Config{
			Apps:   s.MergeApps(app.opts.apps),
			Module: s.Module,
			Locale: locale,
		},
	}
	rep := gen.Generate(ctx, routes)
	log.Infow("documented routes",
		"settings", s.Path(),
		"routes", len(routes),
		"blocks", rep.Document.Len(),
		"filtered", rep.Filtered,
		"undocumented", rep.Undocumented)
	if rep.Errors != nil {
		log.Warnw("some routes could not be documented", "settings", s.Path(), "count", len(rep.Errors.Errors))
	}
	return rep.Document, nil
}

func writeOutput(path string, stdout io.Writer, doc *apidoc.Document) error {
	if path == "" || path == "-" {
		_, err := doc.WriteTo(stdout)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// normalizeLegacyArgs rewrites single-dash spellings of the long flags in
// flags ("-settings x", "-app=users") to their double-dash form. Shorthands,
// unknown names and everything after "--" are left alone.
func normalizeLegacyArgs(flags *pflag.FlagSet, args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, longFlag(flags, arg))
	}
	return out
}

func longFlag(flags *pflag.FlagSet, arg string) string {
	if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' {
		return arg
	}
	name, _, _ := strings.Cut(arg[1:], "=")
	if len(name) < 2 || flags.Lookup(name) == nil {
		return arg
	}
	return "-" + arg
}
