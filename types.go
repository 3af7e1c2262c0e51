// types.go — structural type descriptors for the Boba language.
//
// Types are values compared by shape, never by name. The closed set is:
// int, float, string, bool, null, [T] lists, [K:V] maps, fun(...) function
// types, and `any`, the universal-match wildcard used for empty collections
// and permissive contexts.
package boba

import "strings"

// TypeKind discriminates the closed set of type descriptors.
type TypeKind int

const (
	TAny TypeKind = iota
	TInt
	TFloat
	TString
	TBool
	TNull
	TList
	TMap
	TFunc
)

// Type is a structural type descriptor. Elem is set for TList, Key/Val for
// TMap, Params/Returns for TFunc; all other kinds carry no payload. Types are
// treated as immutable and may be shared freely.
type Type struct {
	Kind    TypeKind
	Elem    *Type
	Key     *Type
	Val     *Type
	Params  []Type
	Returns []Type
}

var (
	AnyType    = Type{Kind: TAny}
	IntType    = Type{Kind: TInt}
	FloatType  = Type{Kind: TFloat}
	StringType = Type{Kind: TString}
	BoolType   = Type{Kind: TBool}
	NullType   = Type{Kind: TNull}
)

// ListOf builds the list type [elem].
func ListOf(elem Type) Type { return Type{Kind: TList, Elem: &elem} }

// MapOf builds the map type [key:val].
func MapOf(key, val Type) Type { return Type{Kind: TMap, Key: &key, Val: &val} }

// FuncOf builds a function type from parameter and return type lists.
func FuncOf(params, returns []Type) Type {
	return Type{Kind: TFunc, Params: params, Returns: returns}
}

// String renders the type in source syntax: int, float, [int], [string:int],
// fun(int, int): bool, any.
func (t Type) String() string {
	switch t.Kind {
	case TAny:
		return "any"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TString:
		return "string"
	case TBool:
		return "bool"
	case TNull:
		return "null"
	case TList:
		return "[" + t.Elem.String() + "]"
	case TMap:
		return "[" + t.Key.String() + ":" + t.Val.String() + "]"
	case TFunc:
		var b strings.Builder
		b.WriteString("fun(")
		for i, p := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.String())
		}
		b.WriteString("): ")
		for i, r := range t.Returns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(r.String())
		}
		return b.String()
	}
	return "?"
}

// Equal reports exact structural equality (no coercions).
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TList:
		return t.Elem.Equal(*o.Elem)
	case TMap:
		return t.Key.Equal(*o.Key) && t.Val.Equal(*o.Val)
	case TFunc:
		if len(t.Params) != len(o.Params) || len(t.Returns) != len(o.Returns) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		for i := range t.Returns {
			if !t.Returns[i].Equal(o.Returns[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Compatible reports structural compatibility with the language's two
// coercions: any type matches `any` (in either position), and int and float
// are mutually compatible (numeric widening in both directions). Compound
// types are compatible when their shapes match and every component is
// compatible.
func Compatible(a, b Type) bool {
	if a.Kind == TAny || b.Kind == TAny {
		return true
	}
	if isNumeric(a) && isNumeric(b) {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TList:
		return Compatible(*a.Elem, *b.Elem)
	case TMap:
		return Compatible(*a.Key, *b.Key) && Compatible(*a.Val, *b.Val)
	case TFunc:
		if len(a.Params) != len(b.Params) || len(a.Returns) != len(b.Returns) {
			return false
		}
		for i := range a.Params {
			if !Compatible(a.Params[i], b.Params[i]) {
				return false
			}
		}
		for i := range a.Returns {
			if !Compatible(a.Returns[i], b.Returns[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func isNumeric(t Type) bool { return t.Kind == TInt || t.Kind == TFloat }
