package jsontree

import "fmt"

// FieldMatch reports whether the object member name with value v should be
// rewritten.
type FieldMatch func(name string, v Value) bool

// RewriteFunc produces the replacement value for a matched member.
type RewriteFunc func(v Value) (Value, error)

// TransformFields returns a copy of v in which every object member accepted
// by match, at any depth, has its value replaced by rewrite. Children are
// transformed before the member that contains them is matched. The first
// error from rewrite aborts the walk.
func TransformFields(v Value, match FieldMatch, rewrite RewriteFunc) (Value, error) {
	switch t := v.(type) {
	case Object:
		out := make(Object, len(t))
		for i, m := range t {
			child, err := TransformFields(m.Value, match, rewrite)
			if err != nil {
				return nil, err
			}
			if match(m.Key, child) {
				if child, err = rewrite(child); err != nil {
					return nil, err
				}
			}
			out[i] = Member{Key: m.Key, Value: child}
		}
		return out, nil
	case Array:
		out := make(Array, len(t))
		for i, e := range t {
			child, err := TransformFields(e, match, rewrite)
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	case String, Number, Bool, Null:
		return t, nil
	default:
		return nil, fmt.Errorf("jsontree: unknown value type %T", v)
	}
}

// MapElements applies fn to every element of a and returns the new array.
func MapElements(a Array, fn RewriteFunc) (Array, error) {
	out := make(Array, len(a))
	for i, e := range a {
		v, err := fn(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Named matches members called name whose value has the given kind.
func Named(name string, kind Kind) FieldMatch {
	return func(n string, v Value) bool {
		return n == name && v.Kind() == kind
	}
}
