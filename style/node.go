// Package style implements the C7 match & apply engine: walking a node's
// two candidate selector buckets (universal and element-name) in
// specificity order, evaluating combinators and pseudo-classes, and
// mutating the node's computed style record, grounded on
// stylesheet/store.go's bucket shape and
// convert/kfx/style_registry_core.go's registry/merge idiom (Register's
// "existing properties merged with new ones overriding" logic is the model
// for applyInstruction's !important/bitmap-OR precedence rules below).
package style

import "github.com/koreader/crengine-sub001/domid"

// Node is the minimal DOM surface the matcher needs (§6.1). A document
// implementation supplies this view; the engine never reaches into a
// concrete DOM type.
type Node interface {
	ElementNameID() domid.ElementNameID
	IsText() bool
	IsRoot() bool

	// IsBoxingWrapper reports whether this node is a synthetic element
	// (autoBoxing, tabularBox, rubyBox, floatBox, inlineBox, mathBox) that
	// combinators skip over by default.
	IsBoxingWrapper() bool

	Attribute(name domid.AttrNameID) (string, bool)
	HasAttribute(name domid.AttrNameID) bool
	HasClass(name string) bool
	ID() string // the node's "id" attribute value, or "" if absent

	Parent() Node
	PrevSibling() Node
	NextSibling() Node
	FirstChild() Node

	// Cache exposes the node's side-channel pseudo-class cache slots,
	// shared with the renderer's render-rect struct and guarded there by
	// an "in use as cache" flag (§6's side-channel caching note).
	Cache() *PseudoCache
}

// cacheState is one cached pseudo-class verdict: 0 means "not computed",
// matching the reserved value called out in the pending-tasks note (value
// 0 reserved, booleans 1=false/2=true, ordinals are positive integers+2).
type cacheState int32

const (
	cacheUnset cacheState = 0
	cacheFalse cacheState = 1
	cacheTrue  cacheState = 2
)

// PseudoCache holds the full-DOM pseudo-class results the matcher has
// already computed for a node (§4.4, §6's "style-check cache" note). Every
// field starts at cacheUnset; Reset clears them all back to that state
// when a new style pass begins.
type PseudoCache struct {
	firstChild, lastChild   cacheState
	firstOfType, lastOfType cacheState
	onlyChild, onlyOfType   cacheState
	empty                   cacheState
}

// Reset clears every cached verdict, called at the start of each style
// pass per the render-rect "in use as cache" flag this type stands in for.
func (c *PseudoCache) Reset() {
	*c = PseudoCache{}
}

func boolFromCache(s cacheState) (bool, bool) {
	switch s {
	case cacheTrue:
		return true, true
	case cacheFalse:
		return false, true
	default:
		return false, false
	}
}

func cacheFromBool(b bool) cacheState {
	if b {
		return cacheTrue
	}
	return cacheFalse
}
