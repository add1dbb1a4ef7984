// Package urlconf reads route trees from YAML urlconf files.
//
// A urlconf lists url patterns. Each entry is either bound to a handler
//
//	- path: ^users/(?P<pk>[^/.]+)/$
//	  name: user-retrieve
//	  viewset: example.com/shop/users.UserViewSet
//	  methods: [GET]
//
// or groups other entries, inline or from another file:
//
//	- path: ^api/
//	  namespace: api
//	  include: api/urls.yaml
//
// Included files are read when the tree is walked. A missing or invalid
// include, or a malformed handler reference, only drops that entry.
package urlconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/agentflare-ai/export-apidoc/routetree"
)

var log = logging.Logger("urlconf")

// File is the top level of a urlconf document.
type File struct {
	URLPatterns []Entry `yaml:"urlpatterns"`
}

// Entry is one url pattern.
type Entry struct {
	Path string `yaml:"path"`

	// Handler bound entries.
	Name    string   `yaml:"name"`
	View    string   `yaml:"view"`
	ViewSet string   `yaml:"viewset"`
	Methods []string `yaml:"methods"`

	// Grouping entries.
	Namespace   string  `yaml:"namespace"`
	Include     string  `yaml:"include"`
	URLPatterns []Entry `yaml:"urlpatterns"`
}

// Load reads the urlconf at path and returns its route tree.
func Load(path string) ([]routetree.Node, error) {
	f, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Nodes(f.URLPatterns, filepath.Dir(path)), nil
}

// Nodes converts entries to route tree nodes. Includes are resolved relative
// to dir.
func Nodes(entries []Entry, dir string) []routetree.Node {
	nodes := make([]routetree.Node, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.View != "" || e.ViewSet != "":
			nodes = append(nodes, leafNode{entry: e})
		case e.Include != "" || e.URLPatterns != nil:
			nodes = append(nodes, includeNode{entry: e, dir: dir})
		default:
			nodes = append(nodes, e)
		}
	}
	return nodes
}

func readFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading urlconf: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, xerrors.Errorf("decoding urlconf %s: %w", path, err)
	}
	return &f, nil
}

type leafNode struct {
	entry Entry
}

func (n leafNode) Leaf() (routetree.Leaf, error) {
	var (
		h   routetree.Handler
		err error
	)
	if n.entry.ViewSet != "" {
		h, err = ParseViewSet(n.entry.ViewSet)
	} else {
		h, err = ParseView(n.entry.View)
	}
	if err != nil {
		return routetree.Leaf{}, fmt.Errorf("%w: %w", routetree.ErrNotFound, err)
	}
	for _, m := range n.entry.Methods {
		h.Methods = append(h.Methods, strings.ToUpper(m))
	}
	return routetree.Leaf{Pattern: n.entry.Path, Name: n.entry.Name, Handler: h}, nil
}

type includeNode struct {
	entry Entry
	dir   string
}

func (n includeNode) Include() (routetree.Resolver, error) {
	res := routetree.Resolver{Pattern: n.entry.Path, Namespace: n.entry.Namespace}
	if n.entry.Include == "" {
		res.Children = Nodes(n.entry.URLPatterns, n.dir)
		return res, nil
	}
	path := n.entry.Include
	if !filepath.IsAbs(path) {
		path = filepath.Join(n.dir, path)
	}
	f, err := readFile(path)
	if err != nil {
		return routetree.Resolver{}, fmt.Errorf("%w: %w", routetree.ErrNotFound, err)
	}
	log.Debugw("included urlconf", "path", path, "patterns", len(f.URLPatterns))
	res.Children = Nodes(f.URLPatterns, filepath.Dir(path))
	return res, nil
}

// ParseView parses a handler reference of the form pkg.Func or
// pkg.Type.Method, where pkg is an import path or a relative package path.
func ParseView(ref string) (routetree.Handler, error) {
	pkg, syms, err := splitRef(ref)
	if err != nil {
		return routetree.Handler{}, err
	}
	switch len(syms) {
	case 1:
		return routetree.Handler{PkgPath: pkg, Func: syms[0]}, nil
	case 2:
		return routetree.Handler{PkgPath: pkg, Recv: syms[0], Func: syms[1]}, nil
	default:
		return routetree.Handler{}, xerrors.Errorf("view %q: want pkg.Func or pkg.Type.Method", ref)
	}
}

// ParseViewSet parses a viewset reference of the form pkg.Type. The action
// served by a viewset route is taken from the route name.
func ParseViewSet(ref string) (routetree.Handler, error) {
	pkg, syms, err := splitRef(ref)
	if err != nil {
		return routetree.Handler{}, err
	}
	if len(syms) != 1 {
		return routetree.Handler{}, xerrors.Errorf("viewset %q: want pkg.Type", ref)
	}
	return routetree.Handler{PkgPath: pkg, Recv: syms[0]}, nil
}

func splitRef(ref string) (string, []string, error) {
	ref = strings.TrimSpace(ref)
	dir, tail := "", ref
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		dir, tail = ref[:i+1], ref[i+1:]
	}
	parts := strings.Split(tail, ".")
	if len(parts) < 2 || parts[0] == "" {
		return "", nil, xerrors.Errorf("malformed handler reference %q", ref)
	}
	for _, p := range parts[1:] {
		if p == "" {
			return "", nil, xerrors.Errorf("malformed handler reference %q", ref)
		}
	}
	return dir + parts[0], parts[1:], nil
}
