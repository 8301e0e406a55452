// Package jsontree represents decoded JSON documents as a closed set of
// variant types so that every traversal handles each shape explicitly.
//
// Values are immutable: transformations build new trees and never modify
// their input, so earlier versions of a document stay valid after a rewrite.
package jsontree

// Kind names the variant held by a Value.
type Kind string

const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindNull   Kind = "null"
)

// Value is implemented only by the variant types in this package.
type Value interface {
	Kind() Kind
	valueNode()
}

// Member is one key/value entry of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object. Member order is the order of the source document.
type Object []Member

// Array is a JSON array.
type Array []Value

// String is a JSON string.
type String string

// Number is a JSON number kept as its decimal text, so no precision is lost.
type Number string

// Bool is a JSON boolean.
type Bool bool

// Null is the JSON null literal.
type Null struct{}

func (Object) Kind() Kind { return KindObject }
func (Array) Kind() Kind  { return KindArray }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }

func (Object) valueNode() {}
func (Array) valueNode()  {}
func (String) valueNode() {}
func (Number) valueNode() {}
func (Bool) valueNode()   {}
func (Null) valueNode()   {}

// Get returns the value of the first member named key. The boolean is false
// when no such member exists; a member holding Null is still present.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Has reports whether the object has a member named key, whatever its value.
func (o Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}
