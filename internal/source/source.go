// Package source loads handler packages with go/packages and looks up the doc
// comments of their functions and methods.
package source

import (
	"context"
	"errors"
	"go/doc"
	"go/types"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
	"golang.org/x/xerrors"

	"github.com/agentflare-ai/export-apidoc/apidoc"
)

var log = logging.Logger("source")

// DefaultCacheSize bounds the number of parsed packages kept by a Loader.
const DefaultCacheSize = 64

const loadMode = packages.NeedName | packages.NeedCompiledGoFiles | packages.NeedFiles |
	packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
	packages.NeedTypesSizes | packages.NeedModule | packages.NeedImports

// Loader resolves package patterns relative to Dir.
type Loader struct {
	dir   string
	cache *lru.Cache[string, *Package]

	mainModule string
	moduleErr  error
	moduleRead bool
}

var (
	_ apidoc.Source   = (*Loader)(nil)
	_ apidoc.Resolver = (*Loader)(nil)
)

// NewLoader returns a Loader running the go tool in dir ("" for the current
// directory) and caching up to size packages.
func NewLoader(dir string, size int) (*Loader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *Package](size)
	if err != nil {
		return nil, xerrors.Errorf("creating package cache: %w", err)
	}
	return &Loader{dir: dir, cache: cache}, nil
}

// Load implements apidoc.Source.
func (l *Loader) Load(ctx context.Context, pattern string) (apidoc.Package, error) {
	return l.Package(ctx, pattern)
}

// Resolve implements apidoc.Resolver. Import paths are returned as given;
// relative patterns are resolved by the go tool without parsing any file.
func (l *Loader) Resolve(ctx context.Context, pattern string) (string, string, error) {
	mainModule, err := l.MainModule()
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(pattern, ".") && !filepath.IsAbs(pattern) {
		return pattern, mainModule, nil
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     l.dir,
		Mode:    packages.NeedName | packages.NeedModule,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return "", "", xerrors.Errorf("resolving %s: %w", pattern, err)
	}
	if len(pkgs) == 0 || pkgs[0].PkgPath == "" {
		return "", "", xerrors.Errorf("no Go packages matched %q", pattern)
	}
	info := pkgs[0]
	if len(info.Errors) > 0 {
		return "", "", xerrors.Errorf("resolving %s: %s", pattern, info.Errors[0])
	}
	if mainModule == "" && info.Module != nil {
		mainModule = info.Module.Path
	}
	return info.PkgPath, mainModule, nil
}

// MainModule returns the module path declared by the go.mod governing the
// loader's directory, or "" outside any module.
func (l *Loader) MainModule() (string, error) {
	if !l.moduleRead {
		l.mainModule, l.moduleErr = findModule(l.dir)
		l.moduleRead = true
	}
	return l.mainModule, l.moduleErr
}

func findModule(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", xerrors.Errorf("locating go.mod: %w", err)
	}
	for {
		gomod := filepath.Join(dir, "go.mod")
		data, err := os.ReadFile(gomod)
		switch {
		case err == nil:
			path := modfile.ModulePath(data)
			if path == "" {
				return "", xerrors.Errorf("%s declares no module path", gomod)
			}
			return path, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", xerrors.Errorf("reading %s: %w", gomod, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Package loads and parses the package matching pattern.
func (l *Loader) Package(ctx context.Context, pattern string) (*Package, error) {
	if pkg, ok := l.cache.Get(pattern); ok {
		return pkg, nil
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     l.dir,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, xerrors.Errorf("loading %s: %w", pattern, err)
	}
	if len(pkgs) == 0 {
		return nil, xerrors.Errorf("no Go packages matched %q", pattern)
	}
	info := pkgs[0]
	if len(info.Errors) > 0 {
		return nil, xerrors.Errorf("loading %s: %s", pattern, info.Errors[0])
	}
	docPkg, err := doc.NewFromFiles(info.Fset, info.Syntax, info.PkgPath, doc.AllDecls|doc.AllMethods)
	if err != nil {
		return nil, xerrors.Errorf("reading docs of %s: %w", info.PkgPath, err)
	}
	pkg := &Package{path: info.PkgPath, doc: docPkg, types: info.Types, loader: l}
	if info.Module != nil {
		pkg.module = info.Module.Path
	}
	log.Debugw("loaded package", "pattern", pattern, "path", pkg.path, "module", pkg.module)
	l.cache.Add(pattern, pkg)
	return pkg, nil
}

// Package is a parsed Go package.
type Package struct {
	path   string
	module string
	doc    *doc.Package
	types  *types.Package
	loader *Loader
}

// Path returns the import path.
func (p *Package) Path() string { return p.path }

// Module returns the path of the module containing the package.
func (p *Package) Module() string { return p.module }

// FuncDoc returns the doc comment of function name, or of method name on type
// recv. Functions grouped under a type by go/doc (constructors) are found
// too. Methods promoted from an embedded type declared in another package are
// looked up in that package.
func (p *Package) FuncDoc(ctx context.Context, recv, name string) (string, bool) {
	if recv == "" {
		for _, f := range p.doc.Funcs {
			if strings.EqualFold(f.Name, name) {
				return f.Doc, true
			}
		}
		for _, t := range p.doc.Types {
			for _, f := range t.Funcs {
				if strings.EqualFold(f.Name, name) {
					return f.Doc, true
				}
			}
		}
		return "", false
	}
	for _, t := range p.doc.Types {
		if !strings.EqualFold(t.Name, recv) {
			continue
		}
		for _, m := range t.Methods {
			if strings.EqualFold(m.Name, name) {
				return m.Doc, true
			}
		}
	}
	return p.promotedDoc(ctx, recv, name)
}

func (p *Package) promotedDoc(ctx context.Context, recv, name string) (string, bool) {
	fn := p.method(recv, name)
	if fn == nil || fn.Pkg() == nil || fn.Pkg().Path() == p.path {
		return "", false
	}
	owner := receiverName(fn)
	if owner == "" {
		return "", false
	}
	origin, err := p.loader.Package(ctx, fn.Pkg().Path())
	if err != nil {
		log.Debugw("cannot load package of promoted method", "method", fn.FullName(), "error", err)
		return "", false
	}
	return origin.FuncDoc(ctx, owner, fn.Name())
}

// method finds name in the method set of *recv.
func (p *Package) method(recv, name string) *types.Func {
	if p.types == nil {
		return nil
	}
	scope := p.types.Scope()
	for _, objName := range scope.Names() {
		if !strings.EqualFold(objName, recv) {
			continue
		}
		tn, ok := scope.Lookup(objName).(*types.TypeName)
		if !ok {
			continue
		}
		mset := types.NewMethodSet(types.NewPointer(tn.Type()))
		for i := 0; i < mset.Len(); i++ {
			if fn, ok := mset.At(i).Obj().(*types.Func); ok && strings.EqualFold(fn.Name(), name) {
				return fn
			}
		}
	}
	return nil
}

func receiverName(fn *types.Func) string {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return ""
	}
	t := sig.Recv().Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := t.(*types.Named); ok {
		return named.Obj().Name()
	}
	return ""
}
