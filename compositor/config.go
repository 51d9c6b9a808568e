package compositor

import (
	"strings"
	"time"

	"github.com/npillmayer/compositor/layer"
	"github.com/npillmayer/compositor/scrolling"
)

// Triggers select which kinds of content may trigger compositing.
type Triggers uint16

const (
	Trigger3DTransform Triggers = 1 << iota
	TriggerVideo
	TriggerPlugin
	TriggerCanvas
	TriggerAnimation
	TriggerFilters
	TriggerScrollableOverflow
	TriggerWillChange
)

// AllTriggers enables every trigger.
const AllTriggers = Trigger3DTransform | TriggerVideo | TriggerPlugin | TriggerCanvas |
	TriggerAnimation | TriggerFilters | TriggerScrollableOverflow | TriggerWillChange

var triggerNames = []string{"3d-transform", "video", "plugin", "canvas", "animation",
	"filters", "scrollable-overflow", "will-change"}

func (t Triggers) String() string {
	var names []string
	for i, n := range triggerNames {
		if t&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Policy is the compositing policy. The conservative policy is used when
// memory is scarce and composites only where it is unavoidable.
type Policy uint8

const (
	NormalPolicy Policy = iota
	ConservativePolicy
)

func (p Policy) String() string {
	if p == ConservativePolicy {
		return "conservative"
	}
	return "normal"
}

// Features are optional capabilities of the environment.
type Features struct {
	AsyncOverflowScrolling      bool // overflow regions may scroll in the compositor
	AsyncFrameScrolling         bool // subframes may scroll in the compositor
	BackdropFilters             bool // backdrop filters are rendered by the compositor
	WebAnimationsCSSIntegration bool // only running accelerated animations promote layers
}

// Default delays for throttled layer flushes.
const (
	DefaultInitialThrottleDelay = 500 * time.Millisecond
	DefaultThrottleDelay        = 1500 * time.Millisecond
)

// Config holds the settings of a compositor. It is created by New from
// options and is read-only afterwards.
type Config struct {
	AcceleratedCompositing                 bool
	AcceleratedCompositingForFixedPosition bool
	ForceCompositingMode                   bool
	Triggers                               Triggers
	Policy                                 Policy
	Features                               Features
	LayerFlushThrottling                   bool
	InitialThrottleDelay                   time.Duration
	ThrottleDelay                          time.Duration
	ShowDebugBorders                       bool
	ShowRepaintCounter                     bool

	Platform  PlatformStrategy
	Scrolling scrolling.Coordinator // may be nil
	Host      Host                  // may be nil
	Timers    Timers

	parent     *Compositor         // compositor of the enclosing frame
	ownerLayer *layer.RenderLayer // frame owner layer in the parent's tree
}

// DefaultConfig returns the settings used if no options are given.
func DefaultConfig() Config {
	return Config{
		AcceleratedCompositing:                 true,
		AcceleratedCompositingForFixedPosition: true,
		Triggers:                               AllTriggers,
		Policy:                                 NormalPolicy,
		InitialThrottleDelay:                   DefaultInitialThrottleDelay,
		ThrottleDelay:                          DefaultThrottleDelay,
		Platform:                               DesktopPlatform{},
	}
}

// Option is a type to help configuring a compositor at creation time.
type Option func(Config) Config

// WithTriggers restricts the kinds of content which trigger compositing.
func WithTriggers(t Triggers) Option {
	return func(c Config) Config {
		c.Triggers = t
		return c
	}
}

// WithPolicy sets the compositing policy.
func WithPolicy(p Policy) Option {
	return func(c Config) Config {
		c.Policy = p
		return c
	}
}

// ForceCompositing keeps the compositor in compositing mode, even if no layer
// requires it.
func ForceCompositing() Option {
	return func(c Config) Config {
		c.ForceCompositingMode = true
		return c
	}
}

// WithoutAcceleratedCompositing disables compositing altogether.
func WithoutAcceleratedCompositing() Option {
	return func(c Config) Config {
		c.AcceleratedCompositing = false
		return c
	}
}

// WithoutFixedPositionCompositing paints fixed and sticky layers into their
// ancestors.
func WithoutFixedPositionCompositing() Option {
	return func(c Config) Config {
		c.AcceleratedCompositingForFixedPosition = false
		return c
	}
}

// WithFeatures sets the optional capabilities of the environment.
func WithFeatures(f Features) Option {
	return func(c Config) Config {
		c.Features = f
		return c
	}
}

// WithPlatform sets the platform strategy.
func WithPlatform(p PlatformStrategy) Option {
	return func(c Config) Config {
		if p != nil {
			c.Platform = p
		}
		return c
	}
}

// WithScrollingCoordinator connects the compositor to a scrolling coordinator.
func WithScrollingCoordinator(sc scrolling.Coordinator) Option {
	return func(c Config) Config {
		c.Scrolling = sc
		return c
	}
}

// WithHost sets the host which displays the root graphics layer.
func WithHost(h Host) Option {
	return func(c Config) Config {
		c.Host = h
		return c
	}
}

// WithTimers sets the timer source of the update scheduler.
func WithTimers(t Timers) Option {
	return func(c Config) Config {
		c.Timers = t
		return c
	}
}

// WithLayerFlushThrottling enables throttling of layer flushes while a page
// is loading. Zero delays select the defaults.
func WithLayerFlushThrottling(initial, steady time.Duration) Option {
	return func(c Config) Config {
		c.LayerFlushThrottling = true
		if initial > 0 {
			c.InitialThrottleDelay = initial
		}
		if steady > 0 {
			c.ThrottleDelay = steady
		}
		return c
	}
}

// WithDebugIndicators turns on debug borders and repaint counters of
// graphics layers.
func WithDebugIndicators(borders, repaintCounter bool) Option {
	return func(c Config) Config {
		c.ShowDebugBorders = borders
		c.ShowRepaintCounter = repaintCounter
		return c
	}
}

// AsSubframeOf configures the compositor of a child frame. owner is the frame
// owner layer in the parent's render layer tree. The child shares the
// parent's scrolling coordinator, platform and timers unless set otherwise.
func AsSubframeOf(parent *Compositor, owner *layer.RenderLayer) Option {
	return func(c Config) Config {
		c.parent = parent
		c.ownerLayer = owner
		if parent != nil {
			if c.Scrolling == nil {
				c.Scrolling = parent.config.Scrolling
			}
			if c.Timers == nil {
				c.Timers = parent.config.Timers
			}
			c.Platform = parent.config.Platform
		}
		return c
	}
}
