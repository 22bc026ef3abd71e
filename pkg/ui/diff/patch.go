// Package diff computes positional patches between two abstract trees.
package diff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odvcencio/trellis/pkg/ui/vdom"
)

// Path addresses a node by child indices from the root. The root is the
// empty path. Paths are positions, not identities.
type Path []int

// Child returns a new path extended by index i.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Split returns the parent path and the last index. ok is false for the root.
func (p Path) Split() (parent Path, index int, ok bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}

// IsRoot reports whether p addresses the root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Equal compares two paths index by index.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Op names a patch operation.
type Op uint8

const (
	OpCreate Op = iota
	OpDelete
	OpReplace
	OpUpdateStyle
	OpUpdateText
	OpMove
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpReplace:
		return "replace"
	case OpUpdateStyle:
		return "update_style"
	case OpUpdateText:
		return "update_text"
	case OpMove:
		return "move"
	default:
		return "unknown"
	}
}

// Patch is one mutation. Paths refer to the tree as already mutated by the
// patches before it in the same batch.
type Patch interface {
	Op() Op
	// Target is the path the patch mutates. For Move it is the source.
	Target() Path
	isPatch()
}

// Create inserts Node at Path, shifting later siblings right.
type Create struct {
	Path Path
	Node vdom.Node
}

// Delete removes the subtree at Path, shifting later siblings left.
type Delete struct {
	Path Path
}

// Replace discards the subtree at Path and builds Node in its place.
type Replace struct {
	Path Path
	Node vdom.Node
}

// UpdateStyle sets new props on the node at Path. Changed lists the
// fields that differ from the previous snapshot.
type UpdateStyle struct {
	Path    Path
	Props   vdom.Props
	Changed vdom.PropMask
}

// UpdateText replaces the text payload of the Text/RichText node at Path.
type UpdateText struct {
	Path Path
	Body vdom.TextBody
}

// Move relocates a subtree within the same parent. The differ never emits
// it; it exists so reorder-aware producers can express one.
type Move struct {
	From Path
	To   Path
}

func (Create) Op() Op      { return OpCreate }
func (Delete) Op() Op      { return OpDelete }
func (Replace) Op() Op     { return OpReplace }
func (UpdateStyle) Op() Op { return OpUpdateStyle }
func (UpdateText) Op() Op  { return OpUpdateText }
func (Move) Op() Op        { return OpMove }

func (p Create) Target() Path      { return p.Path }
func (p Delete) Target() Path      { return p.Path }
func (p Replace) Target() Path     { return p.Path }
func (p UpdateStyle) Target() Path { return p.Path }
func (p UpdateText) Target() Path  { return p.Path }
func (p Move) Target() Path        { return p.From }

func (Create) isPatch()      {}
func (Delete) isPatch()      {}
func (Replace) isPatch()     {}
func (UpdateStyle) isPatch() {}
func (UpdateText) isPatch()  {}
func (Move) isPatch()        {}

// Describe formats a patch for logs and test failures.
func Describe(p Patch) string {
	switch v := p.(type) {
	case Create:
		return fmt.Sprintf("create %s %s", v.Path, v.Node.Kind())
	case Replace:
		return fmt.Sprintf("replace %s %s", v.Path, v.Node.Kind())
	case UpdateStyle:
		return fmt.Sprintf("update_style %s %s", v.Path, v.Changed)
	case Move:
		return fmt.Sprintf("move %s -> %s", v.From, v.To)
	default:
		return fmt.Sprintf("%s %s", p.Op(), p.Target())
	}
}

// Counts tallies patches by operation.
func Counts(patches []Patch) map[Op]int {
	counts := make(map[Op]int, 6)
	for _, p := range patches {
		counts[p.Op()]++
	}
	return counts
}
