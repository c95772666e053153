package htmljs

// Attrs is an attribute dictionary. Values are String, CharRef, Seq of those,
// or Func returning the same. A nil value means the attribute is absent.
type Attrs map[string]Node

// EvaluateAttributes merges the tag's static and dynamic attribute
// dictionaries and resolves every Func value. It returns nil when the tag
// declares no attributes at all.
func EvaluateAttributes(tag *Tag) Attrs {
	if tag == nil || (tag.Attrs == nil && len(tag.AttrFuncs) == 0) {
		return nil
	}

	merged := make(Attrs, len(tag.Attrs))
	for k, v := range tag.Attrs {
		merged[k] = v
	}
	for _, fn := range tag.AttrFuncs {
		for k, v := range fn() {
			merged[k] = v
		}
	}

	for k, v := range merged {
		merged[k] = Evaluate(v)
	}
	return merged
}

// Evaluate calls every Func in n, recursively through Seq, and returns the
// resulting function-free node.
func Evaluate(n Node) Node {
	switch v := n.(type) {
	case Func:
		if v == nil {
			return nil
		}
		return Evaluate(v())
	case Seq:
		out := make(Seq, len(v))
		for i, child := range v {
			out[i] = Evaluate(child)
		}
		return out
	default:
		return n
	}
}
