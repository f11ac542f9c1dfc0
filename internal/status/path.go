package status

import (
	"strings"

	"github.com/samber/mo"
)

// Lookup walks doc along a dot-separated path ("details.rust_queued_players").
// It returns None when a segment is missing, when a non-object is reached
// before the last segment, or when the final value is JSON null.
func Lookup(doc map[string]any, path string) mo.Option[any] {
	if doc == nil || path == "" {
		return mo.None[any]()
	}

	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return mo.None[any]()
		}
		v, ok := obj[key]
		if !ok || v == nil {
			return mo.None[any]()
		}
		cur = v
	}
	return mo.Some(cur)
}
