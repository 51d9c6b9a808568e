package compositor

import (
	"github.com/npillmayer/compositor/geom"
	"github.com/npillmayer/compositor/layer"
)

// compositingState is passed down the paint-order tree by the requirements
// pass. Every stacking level gets its own copy; facts about descendants flow
// back up through updateWithDescendantState.
type compositingState struct {
	// nearest ancestor which will be composited; nil if none
	compositingAncestor *layer.RenderLayer
	// a layer painted before, in the same stacking level, is composited
	subtreeIsCompositing bool
	// overlap testing is still meaningful for the rest of this level
	testingOverlap bool
	// an ancestor runs a transform animation
	ancestorHasTransformAnimation bool
	// every layer has to be re-evaluated, dirty or not
	fullPaintOrderTraversalRequired bool
	// descendants have to be re-evaluated because an ancestor changed
	descendantsRequireCompositingUpdate bool
	// a composited descendant blends with content outside of it
	hasNotIsolatedCompositedBlendingDescendants bool
}

func newCompositingState(ancestor *layer.RenderLayer) compositingState {
	return compositingState{
		compositingAncestor: ancestor,
		testingOverlap:      true,
	}
}

// stateForPaintOrderChildren derives the state for the children of l. The
// children inherit the compositing ancestor, but start without compositing
// siblings.
func (s compositingState) stateForPaintOrderChildren(l *layer.RenderLayer) compositingState {
	child := s
	child.subtreeIsCompositing = false
	child.hasNotIsolatedCompositedBlendingDescendants = false
	if l.DescendantsNeedCompositingRequirementsTraversal() {
		child.descendantsRequireCompositingUpdate = true
	}
	return child
}

// updateWithDescendantState folds the state of l's children and l itself back
// into the state of l's stacking level.
func (s *compositingState) updateWithDescendantState(child compositingState, l *layer.RenderLayer,
	composited bool, clipsDescendants bool, extent *overlapExtent, unchanged bool) {
	s.subtreeIsCompositing = s.subtreeIsCompositing || child.subtreeIsCompositing || composited
	if !unchanged {
		s.fullPaintOrderTraversalRequired = s.fullPaintOrderTraversalRequired || child.fullPaintOrderTraversalRequired
	}
	// A composited clipping layer contains uncertain descendants, as its clip
	// rect is part of the overlap map.
	reenable := composited && clipsDescendants
	if (!child.testingOverlap && !reenable) || extent.knownToHaveExtentUncertainty() {
		s.testingOverlap = false
	}
	if (composited && l.Style.HasBlendMode()) ||
		(l.HasNotIsolatedCompositedBlendingDescendants() && !l.IsolatesCompositedBlending()) {
		s.hasNotIsolatedCompositedBlendingDescendants = true
	}
}

// overlapExtent is the lazily computed extent of a layer in root coordinates.
type overlapExtent struct {
	bounds                           geom.Rect
	extentComputed                   bool
	hasTransformAnimation            bool
	animationCausesExtentUncertainty bool
}

func (e *overlapExtent) knownToHaveExtentUncertainty() bool {
	return e.extentComputed && e.animationCausesExtentUncertainty
}
