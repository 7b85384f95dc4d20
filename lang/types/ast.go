package types

import (
	"fmt"
	"io"
	"strings"
)

// NodeKind identifies the grammar construct an AST [Node] represents.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeField
	NodeSubExpression
	NodeIndexExpression
	NodeIndex
	NodeSlice
	NodeProjection
	NodeValueProjection
	NodeFilterProjection
	NodeFlatten
	NodeComparator
	NodeIdentity
	NodeCurrent
	NodeLiteral
	NodeRegexLiteral
	NodeMultiSelectList
	NodeMultiSelectHash
	NodeKeyValuePair
	NodeOrExpression
	NodeAndExpression
	NodeNotExpression
	NodePipe
	NodeFunction
	NodeExpressionReference
	NodeScope
)

var nodeKindName = [...]string{
	NodeInvalid:             "Invalid",
	NodeField:               "Field",
	NodeSubExpression:       "SubExpression",
	NodeIndexExpression:     "IndexExpression",
	NodeIndex:               "Index",
	NodeSlice:               "Slice",
	NodeProjection:          "Projection",
	NodeValueProjection:     "ValueProjection",
	NodeFilterProjection:    "FilterProjection",
	NodeFlatten:             "Flatten",
	NodeComparator:          "Comparator",
	NodeIdentity:            "Identity",
	NodeCurrent:             "Current",
	NodeLiteral:             "Literal",
	NodeRegexLiteral:        "RegexLiteral",
	NodeMultiSelectList:     "MultiSelectList",
	NodeMultiSelectHash:     "MultiSelectHash",
	NodeKeyValuePair:        "KeyValuePair",
	NodeOrExpression:        "OrExpression",
	NodeAndExpression:       "AndExpression",
	NodeNotExpression:       "NotExpression",
	NodePipe:                "Pipe",
	NodeFunction:            "Function",
	NodeExpressionReference: "ExpressionReference",
	NodeScope:               "Scope",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindName) {
		return nodeKindName[k]
	}

	return fmt.Sprintf("NodeKind(%d)", k)
}

// Comparator operators stored in a [NodeComparator] node's Value.
const (
	CmpEQ  = "EQ"
	CmpNE  = "NE"
	CmpLT  = "LT"
	CmpLTE = "LTE"
	CmpGT  = "GT"
	CmpGTE = "GTE"
)

// Node is an immutable AST node.
//
// Value depends on Kind:
//   - Field, Function, KeyValuePair, Scope: the name (string)
//   - Index: the index (int)
//   - Slice: [3]*int of start, stop, step (nil when omitted)
//   - Comparator: one of the Cmp* operators
//   - Literal: the decoded value
//   - RegexLiteral: a *Regexp
//
// Nodes are shared read-only between evaluations and must never be
// modified once the parser returns them.
type Node struct {
	Value    any
	Children []*Node
	Kind     NodeKind
}

// NewNode returns a node of the given kind.
func NewNode(kind NodeKind, value any, children ...*Node) *Node {
	return &Node{Kind: kind, Value: value, Children: children}
}

// Child returns the i'th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}

	return n.Children[i]
}

// Name returns Value as a string, or "" if it is not one.
func (n *Node) Name() string {
	s, _ := n.Value.(string)

	return s
}

func (n *Node) String() string {
	var b strings.Builder

	_ = n.Fprint(&b, "  ")

	return b.String()
}

// Fprint writes an indented tree rendering of n to w.
func (n *Node) Fprint(w io.Writer, indent string) error {
	return n.fprint(w, indent, 0)
}

func (n *Node) fprint(w io.Writer, indent string, depth int) error {
	if n == nil {
		return nil
	}

	pad := strings.Repeat(indent, depth)

	var err error

	switch v := n.Value.(type) {
	case nil:
		_, err = fmt.Fprintf(w, "%s%s\n", pad, n.Kind)
	case [3]*int:
		_, err = fmt.Fprintf(w, "%s%s [%s:%s:%s]\n", pad, n.Kind,
			optInt(v[0]), optInt(v[1]), optInt(v[2]))
	case *Regexp:
		_, err = fmt.Fprintf(w, "%s%s %s\n", pad, n.Kind, v)
	case string:
		_, err = fmt.Fprintf(w, "%s%s %q\n", pad, n.Kind, v)
	default:
		_, err = fmt.Fprintf(w, "%s%s %v\n", pad, n.Kind, v)
	}

	if err != nil {
		return err
	}

	for _, c := range n.Children {
		if err := c.fprint(w, indent, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}

	return fmt.Sprint(*p)
}
