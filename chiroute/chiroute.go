// Package chiroute exposes a go-chi router as a route tree.
//
// Mounted sub-routers become groups and every handler function becomes a
// leaf bound to the methods it serves. Programs that build their router in
// Go, instead of describing it in a urlconf file, document it by handing the
// routes to an apidoc.Generator:
//
//	routes, err := chiroute.Routes(r)
//	if err != nil {
//		return err
//	}
//	loader, err := source.NewLoader(".", source.DefaultCacheSize)
//	if err != nil {
//		return err
//	}
//	gen := &apidoc.Generator{Source: loader, Config: apidoc.Config{Locale: apidoc.Locales["en"]}}
//	rep := gen.Generate(ctx, routes)
//	_, err = rep.Document.WriteTo(w)
//
// Handler references are recovered from the function names recorded by the
// Go runtime, so anonymous functions cannot be documented and are skipped.
package chiroute

import (
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agentflare-ai/export-apidoc/routetree"
)

// Routes flattens r.
func Routes(r chi.Routes) ([]routetree.Route, error) {
	return routetree.Walk(Nodes(r))
}

// Nodes returns the route tree nodes of r, in chi's routing order.
func Nodes(r chi.Routes) []routetree.Node {
	var nodes []routetree.Node
	for _, rt := range r.Routes() {
		if rt.SubRoutes != nil {
			nodes = append(nodes, mount{pattern: rt.Pattern, routes: rt.SubRoutes})
			continue
		}
		if len(rt.Handlers) == 0 {
			nodes = append(nodes, rt)
			continue
		}
		for _, l := range leaves(rt) {
			nodes = append(nodes, l)
		}
	}
	return nodes
}

type mount struct {
	pattern string
	routes  chi.Routes
}

func (m mount) Include() (routetree.Resolver, error) {
	return routetree.Resolver{
		Pattern:  strings.TrimSuffix(m.pattern, "/*"),
		Children: Nodes(m.routes),
	}, nil
}

type leaf struct {
	pattern string
	handler http.Handler
	methods []string
}

func (l leaf) Leaf() (routetree.Leaf, error) {
	h, err := HandlerRef(l.handler)
	if err != nil {
		return routetree.Leaf{}, err
	}
	h.Methods = l.methods
	return routetree.Leaf{Pattern: l.pattern, Handler: h}, nil
}

// leaves groups the methods of rt by handler function. A handler registered
// for every method is reported once, bound to "*".
func leaves(rt chi.Route) []leaf {
	methods := make([]string, 0, len(rt.Handlers))
	for m := range rt.Handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	var (
		out   []leaf
		index = map[string]int{}
	)
	anyKey := ""
	if h, ok := rt.Handlers["*"]; ok {
		anyKey = handlerKey(h)
		out = append(out, leaf{pattern: rt.Pattern, handler: h, methods: []string{"*"}})
		index[anyKey] = 0
	}
	for _, m := range methods {
		if m == "*" {
			continue
		}
		h := rt.Handlers[m]
		key := handlerKey(h)
		if key == anyKey {
			continue
		}
		if i, ok := index[key]; ok {
			out[i].methods = append(out[i].methods, m)
			continue
		}
		index[key] = len(out)
		out = append(out, leaf{pattern: rt.Pattern, handler: h, methods: []string{m}})
	}
	return out
}

func handlerKey(h http.Handler) string {
	h = unwrap(h)
	v := reflect.ValueOf(h)
	if v.Kind() == reflect.Func {
		return fmt.Sprintf("func:%x", v.Pointer())
	}
	return fmt.Sprintf("%T:%p", h, h)
}

func unwrap(h http.Handler) http.Handler {
	for {
		ch, ok := h.(*chi.ChainHandler)
		if !ok || ch.Endpoint == nil {
			return h
		}
		h = ch.Endpoint
	}
}

var closureName = regexp.MustCompile(`^(func|gowrap)\d+$`)

// HandlerRef returns the symbol serving h. Function handlers are named after
// the function or method; other handlers after their ServeHTTP method. It
// fails with routetree.ErrNotFound for anonymous functions.
func HandlerRef(h http.Handler) (routetree.Handler, error) {
	h = unwrap(h)
	v := reflect.ValueOf(h)
	if v.Kind() != reflect.Func {
		t := reflect.TypeOf(h)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Name() == "" || t.PkgPath() == "" {
			return routetree.Handler{}, fmt.Errorf("%w: handler of unnamed type %T", routetree.ErrNotFound, h)
		}
		return routetree.Handler{PkgPath: t.PkgPath(), Recv: t.Name(), Func: "ServeHTTP"}, nil
	}
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return routetree.Handler{}, fmt.Errorf("%w: no symbol for handler %T", routetree.ErrNotFound, h)
	}
	return ParseFuncName(fn.Name())
}

// ParseFuncName splits a runtime function name such as
// "example.com/shop/users.(*UserViewSet).Retrieve-fm" into a handler
// reference.
func ParseFuncName(name string) (routetree.Handler, error) {
	dir, tail := "", name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		dir, tail = name[:i+1], name[i+1:]
	}
	pkg, rest, ok := strings.Cut(tail, ".")
	if !ok || rest == "" {
		return routetree.Handler{}, fmt.Errorf("%w: unexpected function name %q", routetree.ErrNotFound, name)
	}
	rest = strings.ReplaceAll(strings.TrimSuffix(rest, "-fm"), "[...]", "")
	parts := strings.Split(rest, ".")
	for _, p := range parts {
		if closureName.MatchString(p) {
			return routetree.Handler{}, fmt.Errorf("%w: anonymous handler %q", routetree.ErrNotFound, name)
		}
	}
	h := routetree.Handler{PkgPath: dir + pkg}
	switch len(parts) {
	case 1:
		h.Func = parts[0]
	case 2:
		h.Recv = strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
		if i := strings.Index(h.Recv, "["); i >= 0 {
			h.Recv = h.Recv[:i]
		}
		h.Func = parts[1]
	default:
		return routetree.Handler{}, fmt.Errorf("%w: unexpected function name %q", routetree.ErrNotFound, name)
	}
	return h, nil
}
