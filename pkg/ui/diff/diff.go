package diff

import "github.com/odvcencio/trellis/pkg/ui/vdom"

// Diff returns the patches that turn prev into next. Children are matched by
// index only: a reordered list shows up as in-place updates and replaces.
//
// Within a container, updates to the shared prefix come first, then creates
// for trailing new children in ascending order, then deletes for trailing
// old children in descending order. Applying the result to prev in order
// yields a tree equal to next; Diff(t, t) is empty.
func Diff(prev, next vdom.Node) []Patch {
	switch {
	case prev == nil && next == nil:
		return nil
	case prev == nil:
		return []Patch{Create{Path: Path{}, Node: next}}
	case next == nil:
		return []Patch{Delete{Path: Path{}}}
	}

	var patches []Patch
	diffNode(prev, next, Path{}, &patches)
	return patches
}

func diffNode(prev, next vdom.Node, path Path, out *[]Patch) {
	if prev.Kind() != next.Kind() {
		*out = append(*out, Replace{Path: path, Node: next})
		return
	}

	nextProps := next.NodeProps()
	if mask := vdom.DiffProps(prev.NodeProps(), nextProps); mask != 0 {
		*out = append(*out, UpdateStyle{Path: path, Props: nextProps, Changed: mask})
	}

	switch p := prev.(type) {
	case *vdom.Container:
		diffChildren(p.Children, next.(*vdom.Container).Children, path, out)
	default:
		prevBody, _ := vdom.BodyOf(prev)
		nextBody, _ := vdom.BodyOf(next)
		if !prevBody.Equal(nextBody) {
			*out = append(*out, UpdateText{Path: path, Body: nextBody})
		}
	}
}

func diffChildren(prev, next []vdom.Node, path Path, out *[]Patch) {
	shared := min(len(prev), len(next))
	for i := 0; i < shared; i++ {
		diffNode(prev[i], next[i], path.Child(i), out)
	}
	for i := shared; i < len(next); i++ {
		*out = append(*out, Create{Path: path.Child(i), Node: next[i]})
	}
	// Descending, so each delete leaves the remaining paths valid.
	for i := len(prev) - 1; i >= shared; i-- {
		*out = append(*out, Delete{Path: path.Child(i)})
	}
}
