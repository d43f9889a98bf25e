package watch

import "github.com/vango-dev/reactor/pkg/reactive"

// Traverse reads every nested slot of v so the active effect depends on
// all of them. depth limits the levels visited; 0 means unlimited.
// Cycles and raw-marked targets are skipped. v is returned unchanged.
func Traverse(v any, depth int) any {
	return traverse(v, depth, 0, map[any]struct{}{})
}

func traverse(v any, depth, currentDepth int, seen map[any]struct{}) any {
	if !traversable(v) || reactive.IsMarkedRaw(v) {
		return v
	}
	if depth > 0 {
		if currentDepth >= depth {
			return v
		}
		currentDepth++
	}
	if _, ok := seen[v]; ok {
		return v
	}
	seen[v] = struct{}{}

	switch x := v.(type) {
	case reactive.RefLike:
		traverse(x.AnyValue(), depth, currentDepth, seen)
	case reactive.List:
		for i := 0; i < x.Len(); i++ {
			traverse(x.Get(i), depth, currentDepth, seen)
		}
	case reactive.Dict:
		x.ForEach(func(value, _ any) {
			traverse(value, depth, currentDepth, seen)
		})
	case reactive.Bag:
		x.ForEach(func(value any) {
			traverse(value, depth, currentDepth, seen)
		})
	case reactive.Record:
		for _, k := range x.Keys() {
			traverse(x.Get(k), depth, currentDepth, seen)
		}
	}
	return v
}

func traversable(v any) bool {
	switch v.(type) {
	case reactive.RefLike, reactive.List, reactive.Dict, reactive.Bag, reactive.Record:
		return true
	}
	return false
}
