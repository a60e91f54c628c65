package hierarchy

// ordered is a string-keyed map that remembers first insertion order.
type ordered[V any] struct {
	items map[string]V
	keys  []string
}

func newOrdered[V any]() ordered[V] {
	return ordered[V]{items: make(map[string]V)}
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.items[key]
	return v, ok
}

// put stores value under key and reports whether the key already existed.
// Existing keys keep their original position.
func (o *ordered[V]) put(key string, value V) bool {
	if o.items == nil {
		o.items = make(map[string]V)
	}
	_, exists := o.items[key]
	if !exists {
		o.keys = append(o.keys, key)
	}
	o.items[key] = value
	return exists
}

func (o *ordered[V]) len() int {
	return len(o.keys)
}

func (o *ordered[V]) values() []V {
	out := make([]V, 0, len(o.keys))
	for _, key := range o.keys {
		out = append(out, o.items[key])
	}
	return out
}
