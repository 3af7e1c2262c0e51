// ast.go — AST node definitions for the Boba language.
//
// The tree is a closed set of node structs behind a sealed Expr interface.
// Everything in Boba is an expression; a "statement" is simply an expression
// appearing in a block. Parents exclusively own their children; there is no
// sharing and no cycles.
package boba

// Pos is a 1-based source position carried by every node, used to attribute
// runtime errors back to the source.
type Pos struct {
	Line int
	Col  int
}

// Expr is the interface implemented by all AST nodes.
type Expr interface {
	At() Pos
	exprNode() // sealed marker
}

// BinaryOp identifies a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpNot
	OpAddrOf
)

func (op UnaryOp) String() string {
	switch op {
	case OpNegate:
		return "-"
	case OpNot:
		return "!"
	case OpAddrOf:
		return "&"
	}
	return "?"
}

// ----- literals -----

type IntLit struct {
	Pos   Pos
	Value int64
}

type FloatLit struct {
	Pos   Pos
	Value float64
}

type StringLit struct {
	Pos   Pos
	Value string
}

type BoolLit struct {
	Pos   Pos
	Value bool
}

type NullLit struct {
	Pos Pos
}

// ----- collections -----

type ListLit struct {
	Pos   Pos
	Elems []Expr
}

// MapEntry is one key:value pair of a map literal. Entries keep their source
// order; duplicate keys are permitted.
type MapEntry struct {
	Key   Expr
	Value Expr
}

type MapLit struct {
	Pos     Pos
	Entries []MapEntry
}

// ----- variables -----

type Ident struct {
	Pos  Pos
	Name string
}

// VarDecl is bind-and-assign in one form: `x = expr`. Rebinding an existing
// name overwrites it.
type VarDecl struct {
	Pos   Pos
	Name  string
	Value Expr
}

// ----- operations -----

type Binary struct {
	Pos   Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type Unary struct {
	Pos  Pos
	Op   UnaryOp
	Expr Expr
}

// ----- control flow -----

// ElseIf is one `elseif cond { ... }` arm of an If chain.
type ElseIf struct {
	Cond Expr
	Body []Expr
}

type If struct {
	Pos     Pos
	Cond    Expr
	Then    []Expr
	ElseIfs []ElseIf
	Else    []Expr // nil when absent
}

// Loop is the unified C-style loop. Any of Init/Cond/Update may be nil; a
// loop without a condition is infinite.
type Loop struct {
	Pos    Pos
	Init   Expr
	Cond   Expr
	Update Expr
	Body   []Expr
}

type Continue struct {
	Pos Pos
}

type Break struct {
	Pos Pos
}

// Return carries zero or more result expressions. Only the first is honored
// at runtime; the checker still validates all of them against the declared
// return types.
type Return struct {
	Pos    Pos
	Values []Expr
}

// ----- functions -----

// Param is a declared function parameter.
type Param struct {
	Name string
	Type Type
}

type FunDecl struct {
	Pos     Pos
	Name    string
	Params  []Param
	Returns []Type
	Body    []Expr
}

type Call struct {
	Pos  Pos
	Name string
	Args []Expr
}

// ----- built-in I/O forms -----

type Output struct {
	Pos  Pos
	Args []Expr
}

type Outputf struct {
	Pos    Pos
	Format Expr
}

type OutputAddr struct {
	Pos  Pos
	Expr Expr
}

type Input struct {
	Pos    Pos
	Prompt Expr
}

type Inputf struct {
	Pos    Pos
	Prompt Expr
}

// ----- type operations -----

// Convert is a conversion call such as int(e) or string(e).
type Convert struct {
	Pos    Pos
	Expr   Expr
	Target Type
}

// TypeCheck is the predicate form `e is [not] <type>`.
type TypeCheck struct {
	Pos     Pos
	Expr    Expr
	Type    Type
	Negated bool
}

func (n *IntLit) At() Pos     { return n.Pos }
func (n *FloatLit) At() Pos   { return n.Pos }
func (n *StringLit) At() Pos  { return n.Pos }
func (n *BoolLit) At() Pos    { return n.Pos }
func (n *NullLit) At() Pos    { return n.Pos }
func (n *ListLit) At() Pos    { return n.Pos }
func (n *MapLit) At() Pos     { return n.Pos }
func (n *Ident) At() Pos      { return n.Pos }
func (n *VarDecl) At() Pos    { return n.Pos }
func (n *Binary) At() Pos     { return n.Pos }
func (n *Unary) At() Pos      { return n.Pos }
func (n *If) At() Pos         { return n.Pos }
func (n *Loop) At() Pos       { return n.Pos }
func (n *Continue) At() Pos   { return n.Pos }
func (n *Break) At() Pos      { return n.Pos }
func (n *Return) At() Pos     { return n.Pos }
func (n *FunDecl) At() Pos    { return n.Pos }
func (n *Call) At() Pos       { return n.Pos }
func (n *Output) At() Pos     { return n.Pos }
func (n *Outputf) At() Pos    { return n.Pos }
func (n *OutputAddr) At() Pos { return n.Pos }
func (n *Input) At() Pos      { return n.Pos }
func (n *Inputf) At() Pos     { return n.Pos }
func (n *Convert) At() Pos    { return n.Pos }
func (n *TypeCheck) At() Pos  { return n.Pos }

func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NullLit) exprNode()    {}
func (*ListLit) exprNode()    {}
func (*MapLit) exprNode()     {}
func (*Ident) exprNode()      {}
func (*VarDecl) exprNode()    {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
func (*If) exprNode()         {}
func (*Loop) exprNode()       {}
func (*Continue) exprNode()   {}
func (*Break) exprNode()      {}
func (*Return) exprNode()     {}
func (*FunDecl) exprNode()    {}
func (*Call) exprNode()       {}
func (*Output) exprNode()     {}
func (*Outputf) exprNode()    {}
func (*OutputAddr) exprNode() {}
func (*Input) exprNode()      {}
func (*Inputf) exprNode()     {}
func (*Convert) exprNode()    {}
func (*TypeCheck) exprNode()  {}

// Program is the parse result: the function table plus the ordered top-level
// statement sequence (the entry block, executed when no `main` function is
// declared). Function redefinition overwrites the earlier definition.
type Program struct {
	Functions map[string]*FunDecl
	Main      []Expr
}
