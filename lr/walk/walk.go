package walk

import (
	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr"
	"github.com/npillmayer/lalr/lr/parser"
)

// Direction lets clients decide whether children nodes should be traversed
// left-to-right (default) or right-to-left.
type Direction int

// Children nodes may be traversed left-to-right (default) or right-to-left.
const (
	LtoR Direction = 1
	RtoL Direction = -1
)

// Breakmode is a client hint whether to stop traversing on break-signals or not.
type Breakmode int

// Setting Continue will always traverse a complete (sub-)tree. Break will skip
// traversing a sub-tree as soon as EnterRule signals a break.
const (
	Continue Breakmode = iota
	Break
)

// --- Listener --------------------------------------------------------------

// Listener is a type for walking a parse tree.
//
// EnterRule returns a boolean value indicating if the traversal should continue
// to the children of a node. ExitRule and Terminal may return user-defined
// values to be propagated upwards of the tree. For ExitRule, the values of the
// children are collected in the context.
//
// MakeAttrs is called before entering a node and may create attributes local
// to the node, which are handed to EnterRule and ExitRule.
type Listener interface {
	EnterRule(lr.Term, []*parser.ParseTreeNode, RuleCtxt) bool
	ExitRule(lr.Term, []*parser.ParseTreeNode, RuleCtxt) interface{}
	Terminal(*lr.Token, RuleCtxt) interface{}
	MakeAttrs(lr.Term) interface{}
}

// RuleCtxt is a context structure for Listeners.
type RuleCtxt struct {
	Span       lalr.Span      // span of input covered by the node
	Level      int            // nesting level
	Production *lr.Production // nil for terminals
	Attrs      interface{}    // client-defined attributes local to node
	Values     []interface{}  // values of children, in order of the children
}

func makeCtxt(node *parser.ParseTreeNode, level int, attrs interface{}) RuleCtxt {
	return RuleCtxt{
		Span:       node.Span,
		Level:      level,
		Production: node.Production,
		Attrs:      attrs,
	}
}

// EmptyListener does nothing and continues traversal everywhere. Clients may
// embed it and override only the methods they need.
type EmptyListener struct{}

// EnterRule is part of interface Listener.
func (EmptyListener) EnterRule(lr.Term, []*parser.ParseTreeNode, RuleCtxt) bool { return true }

// ExitRule is part of interface Listener.
func (EmptyListener) ExitRule(lr.Term, []*parser.ParseTreeNode, RuleCtxt) interface{} { return nil }

// Terminal is part of interface Listener.
func (EmptyListener) Terminal(*lr.Token, RuleCtxt) interface{} { return nil }

// MakeAttrs is part of interface Listener.
func (EmptyListener) MakeAttrs(lr.Term) interface{} { return nil }

func normalize(dir Direction) Direction {
	if dir == RtoL {
		return RtoL
	}
	return LtoR
}

// --- Cursor ----------------------------------------------------------------

// A Cursor is a movable mark within a parse tree, intended for navigating over
// tree nodes.
type Cursor struct {
	tree    *parser.ParseTree
	current *parser.ParseTreeNode
	path    []frame // parents of current node
}

type frame struct {
	parent *parser.ParseTreeNode
	inx    int // index of current node within the parent's children
	dir    Direction
}

// NewCursor sets up a cursor at a given node of a parse tree. If node is nil,
// the cursor will be set up at the root node. If the tree has no root, nil is
// returned.
func NewCursor(tree *parser.ParseTree, node *parser.ParseTreeNode) *Cursor {
	if node == nil {
		if tree == nil || tree.Root == nil {
			return nil
		}
		node = tree.Root
	}
	return &Cursor{
		tree:    tree,
		current: node,
		path:    make([]frame, 0, 64),
	}
}

// Current returns the node the cursor is at.
func (c *Cursor) Current() *parser.ParseTreeNode {
	return c.current
}

// Level is the number of Down moves not undone by Up.
func (c *Cursor) Level() int {
	return len(c.path)
}

// Up moves the cursor up to the parent node of the current node, if any.
// Only nodes entered by Down are considered.
func (c *Cursor) Up() (*parser.ParseTreeNode, bool) {
	if len(c.path) == 0 {
		return c.current, false
	}
	top := c.path[len(c.path)-1]
	c.path = c.path[:len(c.path)-1]
	c.current = top.parent
	tracer().Debugf("UP Cursor @ %v", c.current)
	return c.current, true
}

// Down moves the cursor down to the first child of the current node, if any.
// dir lets clients start at either the leftmost child (default) or the rightmost
// child.
func (c *Cursor) Down(dir Direction) (*parser.ParseTreeNode, bool) {
	children := c.current.Children
	if len(children) == 0 {
		return c.current, false
	}
	dir = normalize(dir)
	inx := 0
	if dir == RtoL {
		inx = len(children) - 1
	}
	c.path = append(c.path, frame{parent: c.current, inx: inx, dir: dir})
	c.current = children[inx]
	tracer().Debugf("DOWN Cursor @ %v", c.current)
	return c.current, true
}

// Sibling moves the cursor to the next sibling of the current node, if any,
// in the direction given to Down.
func (c *Cursor) Sibling() (*parser.ParseTreeNode, bool) {
	if len(c.path) == 0 {
		return c.current, false
	}
	top := &c.path[len(c.path)-1]
	next := top.inx + int(top.dir)
	if next < 0 || next >= len(top.parent.Children) {
		return c.current, false
	}
	top.inx = next
	c.current = top.parent.Children[next]
	tracer().Debugf("SIBLING Cursor @ %v", c.current)
	return c.current, true
}

// TopDown traverses a sub-tree top-down, applying Listener-methods for all nodes
// encountered. It returns the value calculated by the listener for the start
// node. The cursor ends up at the start node.
func (c *Cursor) TopDown(listener Listener, dir Direction, breakmode Breakmode) interface{} {
	tracer().Debugf("TopDown starting at node %v", c.current)
	return c.traverse(listener, normalize(dir), breakmode, true, 0)
}

// BottomUp traverses a sub-tree bottom-up: every node is visited after all of its
// children. EnterRule is not called. It returns the value calculated by the
// listener for the start node.
func (c *Cursor) BottomUp(listener Listener, dir Direction) interface{} {
	tracer().Debugf("BottomUp starting at node %v", c.current)
	return c.traverse(listener, normalize(dir), Continue, false, 0)
}

func (c *Cursor) traverse(listener Listener, dir Direction, breakmode Breakmode, enter bool, level int) interface{} {
	node := c.current
	if node.IsLeaf() {
		value := listener.Terminal(node.Token, makeCtxt(node, level, nil))
		node.AstNode = value
		return value
	}
	var attrs interface{}
	if enter {
		attrs = listener.MakeAttrs(node.Term)
	}
	ctxt := makeCtxt(node, level, attrs)
	ctxt.Values = make([]interface{}, len(node.Children))
	doContinue := !enter || listener.EnterRule(node.Term, node.Children, ctxt)
	if doContinue || breakmode == Continue {
		i := 0
		if dir == RtoL {
			i = len(node.Children) - 1
		}
		if _, ok := c.Down(dir); ok {
			for ; ok; _, ok = c.Sibling() {
				ctxt.Values[i] = c.traverse(listener, dir, breakmode, enter, level+1)
				i += int(dir)
			}
			c.Up()
		}
	}
	value := listener.ExitRule(node.Term, node.Children, ctxt)
	node.AstNode = value
	return value
}

// Walk calls visit for every node of a sub-tree in pre-order. If visit returns
// false, the children of the node are skipped.
func Walk(node *parser.ParseTreeNode, visit func(node *parser.ParseTreeNode, level int) bool) {
	walk(node, 0, visit)
}

func walk(node *parser.ParseTreeNode, level int, visit func(*parser.ParseTreeNode, int) bool) {
	if node == nil || !visit(node, level) {
		return
	}
	for _, ch := range node.Children {
		walk(ch, level+1, visit)
	}
}
