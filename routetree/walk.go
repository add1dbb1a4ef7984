package routetree

import (
	"errors"
	"slices"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("routetree")

// Walk returns every leaf reachable from nodes, depth first and in tree
// order. Each route's URL is the concatenation of its ancestors' pattern
// fragments and its own.
//
// Nodes failing with ErrNotFound are skipped together with their subtree.
// Any other error, or a node of unknown shape, aborts the walk.
func Walk(nodes []Node) ([]Route, error) {
	w := walker{}
	if err := w.walk(nodes, "", "", nil); err != nil {
		return nil, err
	}
	return w.routes, nil
}

// JoinNamespace joins a parent namespace with a node's own namespace.
func JoinNamespace(parent, own string) string {
	switch {
	case parent != "" && own != "":
		return parent + ":" + own
	case own != "":
		return own
	default:
		return parent
	}
}

type walker struct {
	routes []Route
}

func (w *walker) walk(nodes []Node, base, namespace string, path []int) error {
	for i, node := range nodes {
		pos := append(slices.Clone(path), i)
		switch n := node.(type) {
		case Leafer:
			leaf, err := n.Leaf()
			if errors.Is(err, ErrNotFound) {
				log.Debugw("skipping unresolvable leaf", "node", formatPath(pos), "error", err)
				continue
			}
			if err != nil {
				return xerrors.Errorf("resolving leaf %s: %w", formatPath(pos), err)
			}
			w.routes = append(w.routes, Route{
				URL:     base + leaf.Pattern,
				Handler: leaf.Handler,
				Name:    qualifiedName(namespace, leaf.Name),
			})
		case Includer:
			res, err := n.Include()
			if errors.Is(err, ErrNotFound) {
				log.Debugw("skipping unresolvable include", "node", formatPath(pos), "error", err)
				continue
			}
			if err != nil {
				return xerrors.Errorf("resolving include %s: %w", formatPath(pos), err)
			}
			if err := w.walk(res.Children, base+res.Pattern, JoinNamespace(namespace, res.Namespace), pos); err != nil {
				return err
			}
		default:
			return &ShapeError{Path: pos, Node: node}
		}
	}
	return nil
}

func qualifiedName(namespace, name string) string {
	if name == "" || namespace == "" {
		return name
	}
	return namespace + ":" + name
}
