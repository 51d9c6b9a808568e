package compositor

import (
	"testing"
	"time"

	"github.com/npillmayer/compositor/graphics"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHost struct {
	root      *graphics.Layer
	attached  int
	scheduled int
}

func (h *testHost) AttachRootGraphicsLayer(root *graphics.Layer) {
	h.root = root
	h.attached++
}

func (h *testHost) LayerFlushScheduled() {
	h.scheduled++
}

func TestLayerFlushThrottling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	timers := NewManualTimers()
	host := &testHost{}
	doc, c := setup(t, threeDivs, WithLayerFlushThrottling(0, 0), WithTimers(timers), WithHost(host))
	assert.Equal(t, DefaultInitialThrottleDelay, c.Config().InitialThrottleDelay)
	c.SetLoading(true)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.Equal(t, c.RootGraphicsLayer(), host.root)
	assert.Equal(t, 0, host.scheduled, "flush has to wait for the throttle timer")
	assert.Equal(t, 0, c.Stats().LayerFlushes)
	//
	assert.Equal(t, 2, timers.Advance(DefaultInitialThrottleDelay))
	assert.Equal(t, 1, host.scheduled)
	assert.Equal(t, 1, c.Stats().LayerFlushes)
	assert.False(t, c.RootGraphicsLayer().HasUncommittedChanges())
	//
	a := mustLayer(t, doc, "#a")
	old := a.Style
	a.Style.SetOpacity(0.5)
	c.LayerStyleChanged(a, old)
	require.True(t, c.UpdateCompositingLayers(OnStyleChange))
	assert.Equal(t, 0.5, c.Backing(a).GraphicsLayer().Opacity())
	assert.Equal(t, 1, host.scheduled, "flush is throttled again after the first one")
	//
	c.DisableLayerFlushThrottlingTemporarilyForInteraction()
	assert.Equal(t, 2, host.scheduled)
	assert.Equal(t, 1, timers.RunPending())
	assert.Equal(t, 2, c.Stats().LayerFlushes)
	assert.False(t, c.RootGraphicsLayer().HasUncommittedChanges())
}

func TestFlushWithoutThrottling(t *testing.T) {
	timers := NewManualTimers()
	host := &testHost{}
	_, c := setup(t, threeDivs, WithTimers(timers), WithHost(host))
	c.SetLoading(true)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	assert.Equal(t, 1, host.scheduled)
	assert.Equal(t, 1, timers.Pending())
	timers.RunPending()
	assert.Equal(t, 1, c.Stats().LayerFlushes)
	assert.Equal(t, 0, timers.Pending())
}

func TestScheduledUpdateRunsOnTimer(t *testing.T) {
	timers := NewManualTimers()
	doc, c := setup(t, threeDivs, WithTimers(timers))
	c.ScheduleCompositingLayerUpdate()
	c.ScheduleCompositingLayerUpdate()
	assert.Equal(t, 1, timers.Pending())
	timers.RunPending()
	assert.Equal(t, 1, c.Stats().CompositingUpdates)
	assert.True(t, c.IsComposited(mustLayer(t, doc, "#a")))
}

func TestFlushIsReplayedOnAttachment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "compositor")
	defer teardown()
	//
	timers := NewManualTimers()
	host := &testHost{}
	_, c := setup(t, threeDivs, WithTimers(timers), WithHost(host))
	c.SetIsInWindow(false)
	require.True(t, c.UpdateCompositingLayers(OnLayout))
	require.NotNil(t, c.RootGraphicsLayer())
	assert.Equal(t, Unattached, c.RootLayerAttachment())
	assert.Equal(t, 0, host.attached)
	timers.RunPending()
	assert.Equal(t, 0, c.Stats().LayerFlushes, "nothing to flush to while unattached")
	//
	c.SetIsInWindow(true)
	assert.Equal(t, ViaHost, c.RootLayerAttachment())
	assert.Equal(t, c.RootGraphicsLayer(), host.root)
	assert.Equal(t, 1, c.Stats().LayerFlushes, "pending flush has to be replayed")
	//
	c.SetIsInWindow(false)
	assert.Equal(t, Unattached, c.RootLayerAttachment())
	assert.Nil(t, host.root)
	assert.Equal(t, 2, host.attached)
}

func TestQueueTimers(t *testing.T) {
	queue := make(chan func(), 4)
	fired := 0
	timer := QueueTimers(queue).NewTimer(func() { fired++ })
	timer.Start(time.Millisecond)
	assert.True(t, timer.IsActive())
	select {
	case f := <-queue:
		f()
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}
	assert.Equal(t, 1, fired)
	assert.False(t, timer.IsActive())
	//
	timer.Start(time.Millisecond)
	timer.Stop()
	assert.False(t, timer.IsActive())
	select {
	case f := <-queue:
		f() // posted before Stop took effect; must not fire
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 1, fired)
}

func TestManualTimersFireInDeadlineOrder(t *testing.T) {
	timers := NewManualTimers()
	var order []string
	var late Timer
	early := timers.NewTimer(func() {
		order = append(order, "early")
		late.Start(15 * time.Millisecond)
	})
	late = timers.NewTimer(func() { order = append(order, "late") })
	other := timers.NewTimer(func() { order = append(order, "other") })
	other.Start(30 * time.Millisecond)
	late.Start(100 * time.Millisecond)
	early.Start(20 * time.Millisecond)
	assert.Equal(t, 3, timers.Pending())
	//
	assert.Equal(t, 3, timers.Advance(40*time.Millisecond))
	assert.Equal(t, []string{"early", "other", "late"}, order,
		"late has been re-armed to 35ms and fires after other")
	assert.Equal(t, 40*time.Millisecond, timers.Now())
	assert.Equal(t, 0, timers.Pending())
}
