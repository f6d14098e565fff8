package dtree

import (
	"strconv"
	"strings"

	"github.com/exprsearch/go-exprsearch/pkg/grammar"
)

// Expr is the grammar-defined expression value a complete derivation
// tree folds into (spec.md §4.2's GetExpr): a Terminal or a chosen
// Range value becomes a leaf, Ref/Or hops collapse transparently into
// their single resolved child, and And nodes become a structural node
// carrying its symbol (if any) and folded children. It deliberately
// carries no grammar-specific semantics; a problem's fitness function
// or pretty-printer is the one place that interprets it.
type Expr struct {
	Symbol   string // the nearest enclosing non-terminal name, "" if anonymous
	Value    string // set only on leaves (Terminal literal, or the stringified Range pick)
	Children []*Expr
}

// Leaf reports whether e carries no children (a Terminal or Range pick).
func (e *Expr) Leaf() bool { return len(e.Children) == 0 }

// String renders a parenthesized s-expression: leaves print their
// value, internal nodes print "(children...)".
func (e *Expr) String() string {
	if e.Leaf() {
		return e.Value
	}
	parts := make([]string, len(e.Children))
	for i, c := range e.Children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// GetExpr folds a complete tree (NumOpen() == 0) into its Expr value,
// starting from the root.
func (t *DerivationTree) GetExpr() *Expr {
	return t.fold(int32(t.root))
}

func (t *DerivationTree) fold(idx int32) *Expr {
	nd := t.a.get(idx)

	switch rr := nd.rule.(type) {
	case *grammar.Terminal:
		return &Expr{Symbol: nd.symbol, Value: rr.Value}
	case *grammar.Range:
		return &Expr{Symbol: nd.symbol, Value: strconv.Itoa(rr.RangeValue(nd.action))}
	case *grammar.Ref, *grammar.Or:
		// naming/dispatch hops: exactly one materialized child, fold
		// transparently into it so symbols attach to the content they
		// actually name rather than the hop itself.
		e := t.fold(nd.children[0])
		if e.Symbol == "" {
			e.Symbol = nd.symbol
		}
		return e
	case *grammar.And:
		children := make([]*Expr, len(nd.children))
		for i, c := range nd.children {
			children[i] = t.fold(c)
		}
		return &Expr{Symbol: nd.symbol, Children: children}
	}

	return &Expr{Symbol: nd.symbol}
}
