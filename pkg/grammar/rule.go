package grammar

// RuleKind tags the dynamic type of a Rule, as reported by Rule.Kind.
type RuleKind int

const (
	KindTerminal RuleKind = iota
	KindRef
	KindAnd
	KindOr
	KindRange
)

func (k RuleKind) String() string {
	switch k {
	case KindTerminal:
		return "Terminal"
	case KindRef:
		return "Ref"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	case KindRange:
		return "Range"
	default:
		return "Unknown"
	}
}

// Rule is the tagged-variant production type. Every production a
// non-terminal owns implements this interface. Each operation over
// rules (NumActions, the min-depth fixpoint, tree expansion, folding to
// an Expr) is one function that type-switches on the concrete type.
type Rule interface {
	Kind() RuleKind
}

// Terminal carries a literal value and contributes no children.
type Terminal struct {
	Value string
}

func (*Terminal) Kind() RuleKind { return KindTerminal }

// NewTerminal builds a Terminal production.
func NewTerminal(value string) *Terminal {
	return &Terminal{Value: value}
}

// Ref is a non-terminal reference by name.
type Ref struct {
	Name string
}

func (*Ref) Kind() RuleKind { return KindRef }

// NewRef builds a Ref production pointing at the non-terminal called name.
func NewRef(name string) *Ref {
	return &Ref{Name: name}
}

// And is an ordered sequence of sub-rules; every item always expands,
// there is no choice involved.
type And struct {
	Items []Rule
}

func (*And) Kind() RuleKind { return KindAnd }

// NewAnd builds an And production over the given ordered items.
func NewAnd(items ...Rule) *And {
	return &And{Items: items}
}

// Or is an ordered choice among sub-rules. It is a decision: action a
// (1-based) selects Options[a-1].
type Or struct {
	Options []Rule
}

func (*Or) Kind() RuleKind { return KindOr }

// NewOr builds an Or production over the given ordered options.
func NewOr(options ...Rule) *Or {
	return &Or{Options: options}
}

// Range expands to one integer from an inclusive [Low, High] range;
// each integer is one action, 1-based: action a yields Low+a-1.
type Range struct {
	Low, High int
}

func (*Range) Kind() RuleKind { return KindRange }

// NewRange builds a Range production over the inclusive bounds.
func NewRange(low, high int) *Range {
	return &Range{Low: low, High: high}
}

// NumActions returns the size of the decision's action space, or 1 for
// non-decision rules (Terminal, Ref, And never offer a choice).
func NumActions(r Rule) int {
	switch rr := r.(type) {
	case *Or:
		return len(rr.Options)
	case *Range:
		return rr.High - rr.Low + 1
	default:
		return 1
	}
}

// IsDecision reports whether r offers more than one action.
func IsDecision(r Rule) bool {
	return NumActions(r) > 1
}

// RangeValue returns the integer value for action a (1-based) of a
// Range production.
func (r *Range) RangeValue(action int) int {
	return r.Low + action - 1
}
