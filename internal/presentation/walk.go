package presentation

import (
	"errors"
	"fmt"
)

// ErrDuplicateAnchor is returned when two nodes of one tree share an anchor id.
var ErrDuplicateAnchor = errors.New("duplicate anchor id")

// Walk visits n and its descendants depth-first, parents before children.
// Nil nodes are skipped.
func Walk(n Node, fn func(Node)) {
	switch v := n.(type) {
	case *Root:
		if v == nil {
			return
		}
		fn(v)
		if v.Body != nil {
			Walk(v.Body, fn)
		}
		if v.Footer != nil {
			Walk(v.Footer, fn)
		}
	case *Container:
		if v == nil {
			return
		}
		fn(v)
		for _, item := range v.Items {
			Walk(item, fn)
		}
	case *Table:
		if v != nil {
			fn(v)
		}
	case *Warnings:
		if v != nil {
			fn(v)
		}
	case *HTML:
		if v != nil {
			fn(v)
		}
	}
}

// AnchorID returns the anchor of n, or "" for variants without one.
func AnchorID(n Node) string {
	switch v := n.(type) {
	case *Table:
		return v.AnchorID
	case *Container:
		return v.AnchorID
	case *Warnings:
		return v.AnchorID
	default:
		return ""
	}
}

// Anchors returns the non-empty anchor ids of the tree in visiting order.
func Anchors(n Node) []string {
	var anchors []string
	Walk(n, func(child Node) {
		if id := AnchorID(child); id != "" {
			anchors = append(anchors, id)
		}
	})
	return anchors
}

// ValidateAnchors returns ErrDuplicateAnchor if two nodes share an anchor id.
func ValidateAnchors(n Node) error {
	seen := make(map[string]struct{})
	for _, id := range Anchors(n) {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateAnchor, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Find returns the first node whose name or anchor id equals key, or nil.
func Find(n Node, key string) Node {
	var found Node
	Walk(n, func(child Node) {
		if found != nil {
			return
		}
		if AnchorID(child) == key || Name(child) == key {
			found = child
		}
	})
	return found
}

// Name returns the display name of n, or "" for fragments.
func Name(n Node) string {
	switch v := n.(type) {
	case *Table:
		return v.Name
	case *Container:
		return v.Name
	case *Warnings:
		return v.Name
	case *Root:
		return v.Name
	default:
		return ""
	}
}
