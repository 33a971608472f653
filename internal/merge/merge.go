// Package merge combines locale trees.
package merge

import (
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/i18n-ecma/internal/path"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

// Merge combines a base locale tree with an overlay.
//
// Algorithm:
// 1. Start with a deep copy of base
// 2. With no paths, deep-merge the whole overlay: nested trees are merged key
//    by key, any other overlay value replaces the base value
// 3. With paths, copy only the overlay values found at those paths; paths
//    missing from the overlay keep the base value
//
// New keys are appended after the existing ones, so base order is kept.
func Merge(base, overlay *orderedmap.OrderedMap, paths []path.Path) *orderedmap.OrderedMap {
	// Deep copy base to avoid modifying original
	result := tree.Clone(base)

	if overlay == nil {
		return result
	}

	if len(paths) == 0 {
		deepMerge(result, overlay)
		return result
	}

	for _, p := range paths {
		if val, ok := tree.Get(overlay, p); ok {
			// Ignore errors - if we can't set, we skip
			_ = tree.Set(result, p, tree.Normalize(val))
		}
	}

	return result
}

// deepMerge writes every key of src into dst, recursing where both sides
// hold a tree.
func deepMerge(dst, src *orderedmap.OrderedMap) {
	for _, k := range src.Keys() {
		srcVal, _ := src.Get(k)
		srcMap := tree.ToOrderedMapPtr(srcVal)

		if dstVal, exists := dst.Get(k); exists && srcMap != nil {
			if dstMap := tree.ToOrderedMapPtr(dstVal); dstMap != nil {
				deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst.Set(k, tree.Normalize(srcVal))
	}
}
