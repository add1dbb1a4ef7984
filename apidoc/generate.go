// Package apidoc renders markdown API references from flattened routes.
package apidoc

import (
	"context"
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/samber/lo"
	"golang.org/x/xerrors"

	"github.com/agentflare-ai/export-apidoc/docstring"
	"github.com/agentflare-ai/export-apidoc/routetree"
)

var log = logging.Logger("apidoc")

// Source loads the Go packages declaring route handlers.
type Source interface {
	Load(ctx context.Context, pattern string) (Package, error)
}

// Package is a loaded handler package.
type Package interface {
	// Path is the package import path.
	Path() string
	// Module is the path of the module containing the package, if known.
	Module() string
	// FuncDoc returns the doc comment of function name, or of method name on
	// type recv when recv is set. Names match case-insensitively.
	FuncDoc(ctx context.Context, recv, name string) (string, bool)
}

// Resolver is implemented by sources that can name a package and the main
// module without parsing the package.
type Resolver interface {
	Resolve(ctx context.Context, pattern string) (path, module string, err error)
}

// Config controls a generation run.
type Config struct {
	// Apps restricts output to handlers of these applications. Empty means all.
	Apps []string
	// Module overrides the main module path used to derive application names.
	Module string
	Locale Locale
}

// Generator turns routes into a Document.
type Generator struct {
	Source Source
	Config Config
}

// Report is the outcome of one Generate call.
type Report struct {
	Document *Document
	// Filtered counts routes dropped by the application allow-list.
	Filtered int
	// Undocumented counts routes whose handler has no structured doc.
	Undocumented int
	// Errors holds the per-route failures; nil when every route succeeded.
	Errors *multierror.Error
}

// Generate documents routes in order. A failing route is logged and recorded
// in the report; the remaining routes are still processed.
func (g *Generator) Generate(ctx context.Context, routes []routetree.Route) *Report {
	rep := &Report{Document: &Document{}}
	for _, r := range routes {
		block, err := g.route(ctx, r, rep)
		if err != nil {
			log.Warnw("failed to document route", "url", r.URL, "handler", r.Handler.String(), "error", err)
			rep.Errors = multierror.Append(rep.Errors, xerrors.Errorf("%s: %w", r.URL, err))
			continue
		}
		rep.Document.Add(block)
	}
	return rep
}

func (g *Generator) route(ctx context.Context, r routetree.Route, rep *Report) ([]string, error) {
	if len(g.Config.Apps) > 0 {
		app, err := g.app(ctx, r.Handler.PkgPath)
		if err != nil {
			return nil, err
		}
		if !lo.Contains(g.Config.Apps, app) {
			log.Debugw("route outside selected apps", "url", r.URL, "app", app)
			rep.Filtered++
			return nil, nil
		}
	}

	pkg, err := g.Source.Load(ctx, r.Handler.PkgPath)
	if err != nil {
		return nil, err
	}

	action, err := Action(r)
	if err != nil {
		return nil, err
	}
	name := r.Handler.Func
	if name == "" {
		name = action
	}
	text, ok := pkg.FuncDoc(ctx, r.Handler.Recv, name)
	if !ok {
		return nil, xerrors.Errorf("no declaration for %s in %s", symbol(r.Handler.Recv, name), pkg.Path())
	}

	doc, ok := docstring.Parse(text)
	if !ok {
		log.Debugw("handler has no structured doc", "url", r.URL, "handler", symbol(r.Handler.Recv, name))
		rep.Undocumented++
		return nil, nil
	}
	method := Method(action, r.Handler.Methods)
	return Render(doc, method, SimplifyPattern(r.URL), g.Config.Locale), nil
}

// Action returns the handler action of a route: the named function or method,
// or for a viewset reference the part after the first dash of the route name
// ("users:user-list" gives "list").
func Action(r routetree.Route) (string, error) {
	if r.Handler.Func != "" {
		return r.Handler.Func, nil
	}
	if r.Handler.Recv == "" {
		return "", xerrors.Errorf("handler %s names no function", r.Handler.String())
	}
	name := r.Name
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	parts := strings.Split(name, "-")
	if len(parts) < 2 || parts[1] == "" {
		return "", xerrors.Errorf("cannot derive action of %s from route name %q", r.Handler.String(), r.Name)
	}
	return parts[1], nil
}

// app names the application of the package matching pattern. Import paths
// need no lookup once the main module is configured.
func (g *Generator) app(ctx context.Context, pattern string) (string, error) {
	module := g.Config.Module
	if module != "" && !relativePattern(pattern) {
		return AppName(pattern, module), nil
	}
	if res, ok := g.Source.(Resolver); ok {
		pkgPath, mainModule, err := res.Resolve(ctx, pattern)
		if err != nil {
			return "", err
		}
		if module == "" {
			module = mainModule
		}
		return AppName(pkgPath, module), nil
	}
	pkg, err := g.Source.Load(ctx, pattern)
	if err != nil {
		return "", err
	}
	if module == "" {
		module = pkg.Module()
	}
	return AppName(pkg.Path(), module), nil
}

func relativePattern(pattern string) bool {
	return strings.HasPrefix(pattern, ".") || strings.HasPrefix(pattern, "/")
}

// AppName returns the application a package belongs to: the first path
// element below the main module, or the first element of the import path for
// packages outside it.
func AppName(pkgPath, module string) string {
	rel := pkgPath
	if module != "" {
		if pkgPath == module {
			return path.Base(module)
		}
		if trimmed, ok := strings.CutPrefix(pkgPath, module+"/"); ok {
			rel = trimmed
		}
	}
	first, _, _ := strings.Cut(rel, "/")
	return first
}

func symbol(recv, name string) string {
	if recv == "" {
		return name
	}
	return recv + "." + name
}
