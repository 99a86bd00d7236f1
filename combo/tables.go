package combo

// Catalogs used by the enumerator. These are plain data so they can be
// extended (see Options) without touching the enumeration loops.

// Slot is one component of a candidate template
type Slot uint8

const (
	SlotDay Slot = iota
	SlotMonth
	SlotYear
	SlotName
)

// Template is an ordered list of slots. Consecutive slots are glued with one
// separator each, so a template of n slots consumes n-1 separators.
type Template []Slot

// Tier groups templates that are crossed with every separator tuple of the
// same length (Arity).
type Tier struct {
	Name      string
	Arity     int
	Templates []Template
}

// LeetRule replaces every occurrence of From with To in the lowercased name
type LeetRule struct {
	From rune
	To   string
}

// DefaultSeparators is the closed set of glue tokens placed between components
var DefaultSeparators = []string{"", "-", ".", "_", "@", "#", "!", "*"}

// DefaultLeet is applied one rule at a time, never combined
var DefaultLeet = []LeetRule{
	{'a', "4"},
	{'e', "3"},
	{'i', "1"},
	{'o', "0"},
	{'s', "$"},
}

// shorthands for the tables below
const (
	D = SlotDay
	M = SlotMonth
	Y = SlotYear
	N = SlotName
)

// FullDateTemplates: all six date orderings followed by the name, plus three
// orderings with the name in front
var FullDateTemplates = []Template{
	{D, M, Y, N}, // 15-07-1985-Anna
	{D, Y, M, N}, // 15-1985-07-Anna
	{M, D, Y, N}, // 07-15-1985-Anna
	{M, Y, D, N}, // 07-1985-15-Anna
	{Y, D, M, N}, // 1985-15-07-Anna
	{Y, M, D, N}, // 1985-07-15-Anna
	{N, D, M, Y}, // Anna-15-07-1985
	{N, M, Y, D}, // Anna-07-1985-15
	{N, Y, D, M}, // Anna-1985-15-07
}

// PartialDateTemplates: two of three date components with the name
var PartialDateTemplates = []Template{
	{D, M, N},
	{D, Y, N},
	{M, D, N},
	{M, Y, N},
	{Y, D, N},
	{Y, M, N},
	{N, D, M},
	{N, M, Y},
	{N, Y},
	{Y, N},
}

// SingleComponentTemplates pair the name with exactly one date component
var SingleComponentTemplates = []Template{
	{D, N},
	{M, N},
	{Y, N},
	{N, D},
	{N, M},
	{N, Y},
}

// DefaultTiers in enumeration order
var DefaultTiers = []Tier{
	{Name: "full-date", Arity: 3, Templates: FullDateTemplates},
	{Name: "partial-date", Arity: 2, Templates: PartialDateTemplates},
	{Name: "single-component", Arity: 1, Templates: SingleComponentTemplates},
}
