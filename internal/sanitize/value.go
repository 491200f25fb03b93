package sanitize

// Value is a JSON-like value accepted by Sanitize.
// The set of implementations is closed: Object, Array, Text and Raw.
type Value interface {
	// Interface converts the value back into plain Go values
	// (map[string]any, []any, string or the raw value).
	Interface() any
	isValue()
}

// Object is a mapping of field names to values
type Object map[string]Value

// Array is an ordered sequence of values
type Array []Value

// Text is a string value, the only kind that gets scrubbed
type Text string

// Raw wraps any other value (numbers, booleans, binary content) and is never changed
type Raw struct {
	V any
}

func (Object) isValue() {}
func (Array) isValue()  {}
func (Text) isValue()   {}
func (Raw) isValue()    {}

func (o Object) Interface() any {
	out := make(map[string]any, len(o))
	for k, v := range o {
		if v == nil {
			out[k] = nil
			continue
		}
		out[k] = v.Interface()
	}
	return out
}

func (a Array) Interface() any {
	out := make([]any, len(a))
	for i, v := range a {
		if v != nil {
			out[i] = v.Interface()
		}
	}
	return out
}

func (t Text) Interface() any {
	return string(t)
}

func (r Raw) Interface() any {
	return r.V
}

// FromAny builds a Value from decoded JSON-like Go values.
// Maps and slices are converted recursively, everything that is not a string becomes Raw.
func FromAny(v any) Value {
	switch x := v.(type) {
	case map[string]any:
		obj := make(Object, len(x))
		for k, item := range x {
			obj[k] = FromAny(item)
		}
		return obj
	case []any:
		arr := make(Array, len(x))
		for i, item := range x {
			arr[i] = FromAny(item)
		}
		return arr
	case []string:
		arr := make(Array, len(x))
		for i, item := range x {
			arr[i] = Text(item)
		}
		return arr
	case string:
		return Text(x)
	default:
		return Raw{V: v}
	}
}
