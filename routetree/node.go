// Package routetree flattens a nested route registration tree into an ordered
// list of routes.
//
// A tree is a slice of nodes. Nodes are not required to share a type: the
// walker only asks whether a node can yield a leaf (Leafer) or a group of
// children (Includer), so several node shapes can live in the same tree.
package routetree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks a node whose handler or children cannot be retrieved.
// Walk skips such nodes; wrap it to keep the cause.
var ErrNotFound = errors.New("routetree: not found")

// Node is one entry of a route tree. It must implement Leafer or Includer.
type Node any

// Leafer is implemented by nodes bound directly to a handler.
type Leafer interface {
	Leaf() (Leaf, error)
}

// Includer is implemented by nodes grouping children under a shared
// pattern fragment and namespace.
type Includer interface {
	Include() (Resolver, error)
}

// Leaf describes a node bound to a handler.
type Leaf struct {
	Pattern string
	Name    string
	Handler Handler
}

// Resolver describes a node grouping Children under Pattern.
type Resolver struct {
	Pattern   string
	Namespace string
	Children  []Node
}

// Handler references the function serving a route.
type Handler struct {
	// PkgPath is the import path (or a relative package pattern) of the
	// package declaring the handler.
	PkgPath string
	// Recv is the receiver type name. Empty for plain functions.
	Recv string
	// Func is the function or method name. For a viewset reference it is
	// empty and the action is taken from the route name.
	Func string
	// Methods lists the HTTP methods the handler is bound to.
	Methods []string
}

// String returns the qualified symbol, e.g. "example.com/shop/users.UserViewSet.Retrieve".
func (h Handler) String() string {
	parts := make([]string, 0, 3)
	parts = append(parts, h.PkgPath)
	if h.Recv != "" {
		parts = append(parts, h.Recv)
	}
	if h.Func != "" {
		parts = append(parts, h.Func)
	}
	return strings.Join(parts, ".")
}

// Route is one flattened (url, handler, name) triple.
type Route struct {
	URL     string
	Handler Handler
	Name    string
}

// ShapeError reports a node that is neither a Leafer nor an Includer.
type ShapeError struct {
	Path []int
	Node Node
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("routetree: node %s (%T) does not appear to be a route pattern", formatPath(e.Path), e.Node)
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = fmt.Sprint(idx)
	}
	return "[" + strings.Join(parts, ".") + "]"
}
