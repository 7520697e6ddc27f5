package postservice

import (
	"github.com/quillhaven/inkpost/internal/common"
	"github.com/quillhaven/inkpost/internal/content"
)

// CanTransition reports whether a status change is allowed. Every edge
// between valid states is permitted; entering published is additionally
// guarded by validatePublishable.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid()
}

// validatePublishable enforces the guard on entering the published state:
// the tree must hold at least one non-empty node. published_at is defaulted
// by the caller, so it is not checked here.
func validatePublishable(v *common.Validator, tree *content.Node) {
	v.Check(content.HasContent(tree), "content", "must contain at least one non-empty node to publish")
}
