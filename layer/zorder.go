package layer

import (
	"sort"
)

// zOrderLists caches the paint-order lists of a layer. The lists are valid
// as long as gen equals the generation of the owning tree.
type zOrderLists struct {
	gen        uint64
	valid      bool
	negZ       []*RenderLayer
	normalFlow []*RenderLayer
	posZ       []*RenderLayer
}

// IsStackingContext is true if the layer establishes a stacking context.
// The root layer always does.
func (l *RenderLayer) IsStackingContext() bool {
	return l.IsRoot() || l.Style.IsStackingContext()
}

// IsNormalFlowOnly is true for layers painted in the normal flow of their
// parent, i.e. layers which are neither positioned nor stacking contexts.
func (l *RenderLayer) IsNormalFlowOnly() bool {
	if l.IsRoot() {
		return false
	}
	return !l.Style.Position.IsPositioned() && !l.Style.IsStackingContext()
}

// zIndex returns the z-index used for sorting z-order lists.
func (l *RenderLayer) zIndex() int {
	return l.Style.ZIndex.Int()
}

// NegativeZOrderLayers returns the layers with negative z-index this stacking
// context is responsible for, back to front.
func (l *RenderLayer) NegativeZOrderLayers() []*RenderLayer {
	l.updateLayerListsIfNeeded()
	return l.lists.negZ
}

// NormalFlowLayers returns the normal-flow children, in document order.
func (l *RenderLayer) NormalFlowLayers() []*RenderLayer {
	l.updateLayerListsIfNeeded()
	return l.lists.normalFlow
}

// PositiveZOrderLayers returns the layers with z-index >= 0 or auto this
// stacking context is responsible for, back to front.
func (l *RenderLayer) PositiveZOrderLayers() []*RenderLayer {
	l.updateLayerListsIfNeeded()
	return l.lists.posZ
}

// PaintOrderChildren returns the concatenation of the negative z-order,
// normal-flow and positive z-order lists.
func (l *RenderLayer) PaintOrderChildren() []*RenderLayer {
	l.updateLayerListsIfNeeded()
	r := make([]*RenderLayer, 0, len(l.lists.negZ)+len(l.lists.normalFlow)+len(l.lists.posZ))
	r = append(r, l.lists.negZ...)
	r = append(r, l.lists.normalFlow...)
	return append(r, l.lists.posZ...)
}

// PaintOrderParent returns the layer whose paint-order lists contain l.
// For normal-flow layers this is the parent layer, for all others the
// nearest ancestor which is a stacking context.
func (l *RenderLayer) PaintOrderParent() *RenderLayer {
	p := l.ParentLayer()
	if p == nil || l.IsNormalFlowOnly() || l.IsReflection() {
		return p
	}
	for p != nil && !p.IsStackingContext() {
		p = p.ParentLayer()
	}
	return p
}

func (l *RenderLayer) updateLayerListsIfNeeded() {
	gen := uint64(0)
	if l.owner != nil {
		gen = l.owner.gen
	}
	if l.lists.valid && l.lists.gen == gen {
		return
	}
	l.lists = zOrderLists{gen: gen, valid: true}
	for _, ch := range l.ChildLayers() {
		if ch.IsNormalFlowOnly() && !ch.IsReflection() {
			l.lists.normalFlow = append(l.lists.normalFlow, ch)
		}
	}
	if l.IsStackingContext() {
		var pos, neg []*RenderLayer
		for _, ch := range l.ChildLayers() {
			ch.collectLayers(&pos, &neg)
		}
		sort.SliceStable(neg, func(i, j int) bool { return neg[i].zIndex() < neg[j].zIndex() })
		sort.SliceStable(pos, func(i, j int) bool { return pos[i].zIndex() < pos[j].zIndex() })
		l.lists.negZ, l.lists.posZ = neg, pos
	}
	tracer().Debugf("layer lists of %v: %d neg, %d normal, %d pos", l,
		len(l.lists.negZ), len(l.lists.normalFlow), len(l.lists.posZ))
}

// collectLayers adds l to one of the z-order buffers of its stacking context,
// unless it is painted in normal flow, and descends into l unless l is a
// stacking context itself.
func (l *RenderLayer) collectLayers(pos, neg *[]*RenderLayer) {
	if l.IsReflection() {
		return
	}
	if !l.IsNormalFlowOnly() {
		if l.zIndex() < 0 {
			*neg = append(*neg, l)
		} else {
			*pos = append(*pos, l)
		}
	}
	if l.IsStackingContext() {
		return
	}
	for _, ch := range l.ChildLayers() {
		ch.collectLayers(pos, neg)
	}
}
