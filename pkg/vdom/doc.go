// Package vdom defines the virtual node tree consumed by the renderer.
//
// A VNode describes one position in the host tree: an element, a text or
// comment node, a pre-serialized static chunk, a fragment or a component.
// Patch flags and dynamic-children lists are optional hints that let the
// renderer skip work; a tree without hints is always patched fully.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Ul(Class("list"),
//	    Li(Key("a"), "first"),
//	    Li(Key("b"), "second"),
//	)
//
// Key gives a node a stable identity among its siblings so reordered lists
// are moved instead of re-created.
//
// # Blocks
//
// Block collects the dynamic descendants of a node (those with a positive
// patch flag, components and nested blocks) so the renderer can patch them
// by position without walking static structure.
package vdom
