// Package ast defines the span-annotated tree the parser builds: closed
// tagged-variant Stmt, Expr, Param, Argument, and Clause hierarchies
// implemented as Go marker interfaces over concrete struct types, rather
// than an open class hierarchy. Every node embeds Meta, which carries its
// Span and a Payload slot reserved for later annotation passes (binding
// resolution, inferred types); the parser always fills Payload with Unit{}.
package ast

import (
	"math/big"

	"gopkg.starbuild.dev/langfront.go/internal/span"
)

// Unit is the zero-sized payload the parser attaches to every node. Later
// passes are free to produce new trees carrying a richer payload type;
// this package does not make Payload generic because the parser itself
// never needs more than Unit.
type Unit struct{}

// Meta is embedded in every concrete node type.
type Meta struct {
	Span    span.Span
	Payload Unit
}

func (m Meta) GetSpan() span.Span { return m.Span }

// Node is satisfied by every AST node.
type Node interface {
	GetSpan() span.Span
	node()
}

// Stmt is satisfied by every statement node.
type Stmt interface {
	Node
	stmt()
}

// Expr is satisfied by every expression node.
type Expr interface {
	Node
	expr()
}

// Param is satisfied by every parameter-list entry.
type Param interface {
	Node
	param()
}

// Argument is satisfied by every call-argument entry.
type Argument interface {
	Node
	argument()
}

// Clause is satisfied by every comprehension clause (for- or if-).
type Clause interface {
	Node
	clause()
}

// ---- Statements ----

// ExprStmt wraps a bare expression used as a statement (docstrings, calls
// made for side effect).
type ExprStmt struct {
	Meta
	X Expr
}

// ReturnStmt is `return` with an optional value.
type ReturnStmt struct {
	Meta
	Value Expr // nil when bare `return`
}

type BreakStmt struct{ Meta }
type ContinueStmt struct{ Meta }
type PassStmt struct{ Meta }

// AssignOp distinguishes plain `=` from the augmented forms.
type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignFloorDiv
	AssignMod
	AssignBitAnd
	AssignBitOr
	AssignBitXor
	AssignLShift
	AssignRShift
)

// AssignStmt covers both plain and augmented assignment, and an optional
// type annotation (only legal on plain assignment to a single identifier,
// enforced by the parser's type-admissibility check, not by this type).
type AssignStmt struct {
	Meta
	LHS  Expr
	Type Expr // nil unless annotated
	Op   AssignOp
	RHS  Expr
}

// IfStmt is `if` with no `else`.
type IfStmt struct {
	Meta
	Cond Expr
	Then Stmt
}

// IfElseStmt is `if`/`else`; an `elif` chain desugars into nested
// IfElseStmt values in successive Else slots, the innermost being an
// IfStmt when the chain has no final `else`.
type IfElseStmt struct {
	Meta
	Cond Expr
	Then Stmt
	Else Stmt
}

// ForStmt is a `for target in iter:` loop.
type ForStmt struct {
	Meta
	Target Expr
	Iter   Expr
	Body   Stmt
}

// DefStmt is a function definition.
type DefStmt struct {
	Meta
	Name       string
	Params     []Param
	ReturnType Expr // nil unless annotated and dialect-permitted
	Body       Stmt
}

// LoadPair is one `name` or `alias = "name"` entry in a load statement:
// Local is the identifier bound in the importing module, Exported is the
// name as it appears in the loaded module.
type LoadPair struct {
	Local    string
	Exported string
}

// LoadStmt is `load("module", "sym", alias = "other")`.
type LoadStmt struct {
	Meta
	Module string
	Pairs  []LoadPair
}

// StatementsStmt is an ordered sequence of statements forming a block —
// the root node of every parse, and the body of every suite.
type StatementsStmt struct {
	Meta
	Stmts []Stmt
}

func (ExprStmt) node()       {}
func (ReturnStmt) node()     {}
func (BreakStmt) node()      {}
func (ContinueStmt) node()   {}
func (PassStmt) node()       {}
func (AssignStmt) node()     {}
func (IfStmt) node()         {}
func (IfElseStmt) node()     {}
func (ForStmt) node()        {}
func (DefStmt) node()        {}
func (LoadStmt) node()       {}
func (StatementsStmt) node() {}

func (ExprStmt) stmt()       {}
func (ReturnStmt) stmt()     {}
func (BreakStmt) stmt()      {}
func (ContinueStmt) stmt()   {}
func (PassStmt) stmt()       {}
func (AssignStmt) stmt()     {}
func (IfStmt) stmt()         {}
func (IfElseStmt) stmt()     {}
func (ForStmt) stmt()        {}
func (DefStmt) stmt()        {}
func (LoadStmt) stmt()       {}
func (StatementsStmt) stmt() {}

// ---- Expressions ----

// Identifier is a bare name reference.
type Identifier struct {
	Meta
	Name string
}

// LiteralKind tags which field of Literal is populated.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralString
)

// Literal is an integer, float, or string constant. Integers are
// arbitrary-precision (see SUPPLEMENTED FEATURES in SPEC_FULL.md).
type Literal struct {
	Meta
	Kind  LiteralKind
	Int   *big.Int
	Float float64
	Str   string
}

// FStringPart is one assembled fragment of an FString: either a literal
// text run (Expr nil) or an interpolation expression (Text empty).
type FStringPart struct {
	Text string
	Expr Expr
}

// FString is an assembled f-string: literal and interpolation fragments
// in left-to-right source order.
type FString struct {
	Meta
	Parts []FStringPart
}

// Tuple, List, Dict are literal collection expressions.
type Tuple struct {
	Meta
	Elts []Expr
}

type List struct {
	Meta
	Elts []Expr
}

type Dict struct {
	Meta
	Keys   []Expr
	Values []Expr
}

// ListComprehension is `[head for ... if ...]`.
type ListComprehension struct {
	Meta
	Head  Expr
	First ForClause
	Rest  []Clause
}

// DictComprehension is `{keyHead: valueHead for ... if ...}`.
type DictComprehension struct {
	Meta
	KeyHead   Expr
	ValueHead Expr
	First     ForClause
	Rest      []Clause
}

// Dot is attribute access, `x.attr`.
type Dot struct {
	Meta
	X    Expr
	Attr string
}

// Call is a function call, `callee(args...)`.
type Call struct {
	Meta
	Func Expr
	Args []Argument
}

// Index is single-key subscripting, `x[i]`.
type Index struct {
	Meta
	X     Expr
	Index Expr
}

// Index2 is two-key subscripting, `x[i, j]` (used by some build-rule
// dialects for multi-dimensional providers).
type Index2 struct {
	Meta
	X      Expr
	Index1 Expr
	Index2 Expr
}

// Slice is `x[start:stop:step]`; any of Start, Stop, Step may be nil.
type Slice struct {
	Meta
	X     Expr
	Start Expr
	Stop  Expr
	Step  Expr
}

// BinOp enumerates the binary operators recognized at precedence levels
// 1, 2 and 4-10 of the expression grammar.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpLShift
	OpRShift
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr
	OpIn
	OpNotIn
)

// Op is a binary operator application.
type Op struct {
	Meta
	Left  Expr
	Op    BinOp
	Right Expr
}

// Not, Plus, Minus, BitNot are the unary operators (precedence level 11,
// except Not which binds at level 3).
type Not struct {
	Meta
	X Expr
}

type Plus struct {
	Meta
	X Expr
}

type Minus struct {
	Meta
	X Expr
}

type BitNot struct {
	Meta
	X Expr
}

// If is the ternary conditional `then if cond else els`.
type If struct {
	Meta
	Then Expr
	Cond Expr
	Else Expr
}

// Lambda is `lambda params: body`.
type Lambda struct {
	Meta
	Params []Param
	Body   Expr
}

func (Identifier) node()        {}
func (Literal) node()           {}
func (FString) node()           {}
func (Tuple) node()             {}
func (List) node()              {}
func (Dict) node()              {}
func (ListComprehension) node() {}
func (DictComprehension) node() {}
func (Dot) node()               {}
func (Call) node()              {}
func (Index) node()             {}
func (Index2) node()            {}
func (Slice) node()             {}
func (Op) node()                {}
func (Not) node()               {}
func (Plus) node()              {}
func (Minus) node()             {}
func (BitNot) node()            {}
func (If) node()                {}
func (Lambda) node()            {}

func (Identifier) expr()        {}
func (Literal) expr()           {}
func (FString) expr()           {}
func (Tuple) expr()             {}
func (List) expr()              {}
func (Dict) expr()              {}
func (ListComprehension) expr() {}
func (DictComprehension) expr() {}
func (Dot) expr()               {}
func (Call) expr()              {}
func (Index) expr()             {}
func (Index2) expr()            {}
func (Slice) expr()              {}
func (Op) expr()                 {}
func (Not) expr()                {}
func (Plus) expr()               {}
func (Minus) expr()              {}
func (BitNot) expr()             {}
func (If) expr()                 {}
func (Lambda) expr()             {}

// ---- Parameters ----

// Positional is a plain positional parameter, optionally typed, with no
// default value.
type Positional struct {
	Meta
	Name string
	Type Expr // nil unless typed
}

// PositionalDefault is a positional parameter with a default value.
type PositionalDefault struct {
	Meta
	Name    string
	Type    Expr // nil unless typed
	Default Expr
}

// Rest is the `*args`-style catch-all for extra positional arguments.
type Rest struct {
	Meta
	Name string
	Type Expr // nil unless typed
}

// BareStar is the lone `*` marker introducing a keyword-only tail with no
// corresponding *args name.
type BareStar struct{ Meta }

// KwArgs is the `**kwargs`-style catch-all for extra keyword arguments.
type KwArgs struct {
	Meta
	Name string
	Type Expr // nil unless typed
}

func (Positional) node()        {}
func (PositionalDefault) node() {}
func (Rest) node()              {}
func (BareStar) node()          {}
func (KwArgs) node()            {}

func (Positional) param()        {}
func (PositionalDefault) param() {}
func (Rest) param()              {}
func (BareStar) param()          {}
func (KwArgs) param()            {}

// ---- Arguments ----

// PositionalArg is a plain positional call argument.
type PositionalArg struct {
	Meta
	Value Expr
}

// NamedArg is a keyword call argument, `name=value`.
type NamedArg struct {
	Meta
	Name  string
	Value Expr
}

// SplatArg is `*expr` in a call.
type SplatArg struct {
	Meta
	Value Expr
}

// SplatKwArg is `**expr` in a call.
type SplatKwArg struct {
	Meta
	Value Expr
}

func (PositionalArg) node() {}
func (NamedArg) node()      {}
func (SplatArg) node()      {}
func (SplatKwArg) node()    {}

func (PositionalArg) argument() {}
func (NamedArg) argument()      {}
func (SplatArg) argument()      {}
func (SplatKwArg) argument()    {}

// ---- Clauses ----

// ForClause is the mandatory leading `for target in iter` of a
// comprehension.
type ForClause struct {
	Meta
	Target Expr
	Iter   Expr
}

// IfClause is a trailing `if test` filter in a comprehension.
type IfClause struct {
	Meta
	Test Expr
}

func (ForClause) node() {}
func (IfClause) node()  {}

func (ForClause) clause() {}
func (IfClause) clause()  {}
