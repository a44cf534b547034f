package model

import "bytes"

// Equal performs a deep, variant-aware comparison of two objects. It is
// mainly useful in tests asserting the parse(serialize(o)) == o round-trip
// property, since containers hold non-comparable Go types (slices, maps).
func Equal(a, b Object) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Name:
		bv, ok := b.(Name)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av.Hex == bv.Hex && bytes.Equal(av.Value, bv.Value)
	case IndRef:
		bv, ok := b.(IndRef)
		return ok && av.N == bv.N && av.G == bv.G
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || len(av.order) != len(bv.order) {
			return false
		}
		for i, k := range av.order {
			if bv.order[i] != k || !Equal(av.values[k], bv.values[k]) {
				return false
			}
		}
		return true
	case *Stream:
		bv, ok := b.(*Stream)
		return ok && bytes.Equal(av.Raw, bv.Raw) && Equal(av.Dict, bv.Dict)
	default:
		return false
	}
}
