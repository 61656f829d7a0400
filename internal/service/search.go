package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"kabadi-client/internal/clock"
	"kabadi-client/internal/domain"
	"kabadi-client/internal/geo"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository"
)

type SearchPhase string

const (
	PhaseIdle     SearchPhase = "idle"
	PhasePriority SearchPhase = "priority"
	PhaseNormal   SearchPhase = "normal"
)

// RadiusPolicy is the normal-phase radius schedule: query at StartKm, and
// while results are empty grow by StepKm every Interval up to MaxKm.
type RadiusPolicy struct {
	StartKm  float64
	StepKm   float64
	MaxKm    float64
	Interval time.Duration
}

var (
	// BookingRadiusPolicy is a single query at 5 km
	BookingRadiusPolicy = RadiusPolicy{StartKm: 5, MaxKm: 5}
	// DiscoveryRadiusPolicy starts at 1 km and expands by 1 km every 30s up to 5 km
	DiscoveryRadiusPolicy = RadiusPolicy{StartKm: 1, StepKm: 1, MaxKm: 5, Interval: 30 * time.Second}
)

func (p RadiusPolicy) next(r float64) (float64, bool) {
	if p.StepKm <= 0 || p.Interval <= 0 || r >= p.MaxKm {
		return 0, false
	}
	return min(r+p.StepKm, p.MaxKm), true
}

// SearchOptions tunes a SearchController
type SearchOptions struct {
	Policy RadiusPolicy
	// PriorityWindow is the countdown start, in whole ticks
	PriorityWindow int
	Tick           time.Duration
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Policy.StartKm <= 0 {
		o.Policy = BookingRadiusPolicy
	}
	if o.PriorityWindow <= 0 {
		o.PriorityWindow = 30
	}
	if o.Tick <= 0 {
		o.Tick = time.Second
	}
	return o
}

// SearchState is a read-only view of the live search session
type SearchState struct {
	Phase      SearchPhase                 `json:"phase"`
	RadiusKm   float64                     `json:"radiusKm"`
	Countdown  int                         `json:"countdown"`
	Anchor     *domain.Coordinate          `json:"anchor,omitempty"`
	Candidates []domain.CollectorCandidate `json:"candidates"`
	Selected   *domain.CollectorCandidate  `json:"selected,omitempty"`
}

// SearchController runs the two-phase collector discovery: a priority window
// with a countdown, then a radius search that may expand over time. Every
// StartSearch and Stop bumps a generation counter and stops pending timers,
// so callbacks from an earlier search find themselves stale and do nothing.
type SearchController struct {
	repo     repository.CollectorRepository
	anchors  *geo.AnchorResolver
	clock    clock.Clock
	notifier Notifier
	opts     SearchOptions

	mu             sync.Mutex
	gen            uint64
	resolving      bool
	cancel         context.CancelFunc
	searchCtx      context.Context
	phase          SearchPhase
	radius         float64
	countdown      int
	anchor         *domain.Coordinate
	candidates     []domain.CollectorCandidate
	selected       *domain.CollectorCandidate
	countdownTimer clock.Timer
	expandTimer    clock.Timer
}

func NewSearchController(
	repo repository.CollectorRepository,
	anchors *geo.AnchorResolver,
	clk clock.Clock,
	notifier Notifier,
	opts SearchOptions,
) *SearchController {
	if clk == nil {
		clk = clock.New()
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &SearchController{
		repo:     repo,
		anchors:  anchors,
		clock:    clk,
		notifier: notifier,
		opts:     opts.withDefaults(),
		phase:    PhaseIdle,
	}
}

// StartSearch begins a new search session, discarding any running one.
// The anchor and priority query use ctx; timer-driven queries run on a
// context owned by the session and cancelled when it is replaced.
func (c *SearchController) StartSearch(ctx context.Context) error {
	logger.EnterMethod("SearchController.StartSearch")

	c.mu.Lock()
	gen := c.invalidateLocked()
	c.resolving = true
	searchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.searchCtx = searchCtx
	c.cancel = cancel
	c.mu.Unlock()

	anchor, err := c.anchors.Anchor(ctx)
	if err != nil {
		c.mu.Lock()
		if c.gen == gen {
			c.resolving = false
			c.phase = PhaseIdle
			c.countdown = 0
			c.candidates = nil
		}
		c.mu.Unlock()
		c.notifier.Notify(NotifyError, "Could not get your location. Please allow location access.")
		logger.ExitMethodWithError("SearchController.StartSearch", err)
		return fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	c.anchor = &anchor
	c.mu.Unlock()

	priority, err := c.repo.FindPriority(ctx, anchor)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	c.resolving = false
	if err != nil {
		// The restart stopped the running countdown; resume it so the
		// window still expires into the radius search.
		if c.phase == PhasePriority && c.countdown > 0 {
			c.countdownTimer = c.clock.AfterFunc(c.opts.Tick, func() { c.onTick(gen) })
		}
		c.mu.Unlock()
		c.notifier.Notify(NotifyError, UserMessage(err))
		logger.ExitMethodWithError("SearchController.StartSearch", err)
		return err
	}

	if len(priority) > 0 {
		c.phase = PhasePriority
		c.candidates = c.order(priority, anchor)
		c.countdown = c.opts.PriorityWindow
		c.countdownTimer = c.clock.AfterFunc(c.opts.Tick, func() { c.onTick(gen) })
		c.mu.Unlock()
		logger.ExitMethod("SearchController.StartSearch", "phase", PhasePriority, "candidates", len(priority))
		return nil
	}

	c.enterNormalLocked(c.opts.Policy.StartKm)
	c.mu.Unlock()

	err = c.queryNearby(ctx, gen, anchor, c.opts.Policy.StartKm)
	logger.ExitMethod("SearchController.StartSearch", "phase", PhaseNormal)
	return err
}

// SkipPriority ends the priority window early. Once the window is over
// (by expiry or an earlier skip) it is a no-op. While a new search is still
// resolving its anchor and priority list there is no window to skip yet.
func (c *SearchController) SkipPriority(ctx context.Context) error {
	c.mu.Lock()
	if c.resolving {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	switch c.phase {
	case PhaseNormal:
		c.mu.Unlock()
		return nil
	case PhaseIdle:
		c.mu.Unlock()
		return ErrWrongPhase
	}
	gen := c.gen
	anchor := *c.anchor
	c.enterNormalLocked(c.opts.Policy.StartKm)
	c.mu.Unlock()

	return c.queryNearby(ctx, gen, anchor, c.opts.Policy.StartKm)
}

// Stop abandons the search session: pending timers are cancelled and the
// controller returns to idle. The cached anchor is kept.
func (c *SearchController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
	c.resolving = false
	c.phase = PhaseIdle
	c.radius = 0
	c.countdown = 0
	c.candidates = nil
	c.selected = nil
}

// Select marks one of the current candidates as the chosen collector
func (c *SearchController) Select(id int64) (domain.CollectorCandidate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := slices.IndexFunc(c.candidates, func(k domain.CollectorCandidate) bool { return k.ID == id })
	if idx < 0 {
		return domain.CollectorCandidate{}, ErrCollectorNotFound
	}
	k := c.candidates[idx]
	c.selected = &k
	return k, nil
}

// ClearSelection drops the chosen collector
func (c *SearchController) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
}

// Selected returns the chosen collector, if any
func (c *SearchController) Selected() (domain.CollectorCandidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return domain.CollectorCandidate{}, false
	}
	return *c.selected, true
}

// Anchor is the point the current session searches around
func (c *SearchController) Anchor() (domain.Coordinate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.anchor == nil {
		return domain.Coordinate{}, false
	}
	return *c.anchor, true
}

func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := SearchState{
		Phase:      c.phase,
		RadiusKm:   c.radius,
		Countdown:  c.countdown,
		Candidates: slices.Clone(c.candidates),
	}
	if c.anchor != nil {
		a := *c.anchor
		st.Anchor = &a
	}
	if c.selected != nil {
		k := *c.selected
		st.Selected = &k
	}
	if st.Candidates == nil {
		st.Candidates = []domain.CollectorCandidate{}
	}
	return st
}

// invalidateLocked makes every outstanding callback and query of the running
// session stale and returns the new generation. Phase and results are left
// in place so a failed restart keeps showing the last good state.
func (c *SearchController) invalidateLocked() uint64 {
	c.gen++
	c.stopTimersLocked()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.gen
}

func (c *SearchController) stopTimersLocked() {
	if c.countdownTimer != nil {
		c.countdownTimer.Stop()
		c.countdownTimer = nil
	}
	if c.expandTimer != nil {
		c.expandTimer.Stop()
		c.expandTimer = nil
	}
}

func (c *SearchController) enterNormalLocked(radius float64) {
	if c.countdownTimer != nil {
		c.countdownTimer.Stop()
		c.countdownTimer = nil
	}
	c.phase = PhaseNormal
	c.countdown = 0
	c.radius = radius
}

func (c *SearchController) onTick(gen uint64) {
	c.mu.Lock()
	if c.gen != gen || c.phase != PhasePriority {
		c.mu.Unlock()
		return
	}
	if c.countdown > 1 {
		c.countdown--
		c.countdownTimer = c.clock.AfterFunc(c.opts.Tick, func() { c.onTick(gen) })
		c.mu.Unlock()
		return
	}

	c.countdownTimer = nil
	anchor := *c.anchor
	ctx := c.searchCtx
	c.enterNormalLocked(c.opts.Policy.StartKm)
	c.mu.Unlock()

	logger.Debug("Priority window expired", "generation", gen)
	_ = c.queryNearby(ctx, gen, anchor, c.opts.Policy.StartKm)
}

func (c *SearchController) onExpand(gen uint64, radius float64) {
	c.mu.Lock()
	if c.gen != gen || c.phase != PhaseNormal {
		c.mu.Unlock()
		return
	}
	c.expandTimer = nil
	c.radius = radius
	anchor := *c.anchor
	ctx := c.searchCtx
	c.mu.Unlock()

	_ = c.queryNearby(ctx, gen, anchor, radius)
}

// queryNearby runs one normal-phase query. Errors are reported but leave the
// phase as it is.
func (c *SearchController) queryNearby(ctx context.Context, gen uint64, anchor domain.Coordinate, radius float64) error {
	list, err := c.repo.FindNearby(ctx, anchor, radius)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		c.notifier.Notify(NotifyError, UserMessage(err))
		return err
	}

	c.candidates = c.order(list, anchor)
	var msg string
	if len(list) == 0 {
		if next, ok := c.opts.Policy.next(radius); ok {
			c.expandTimer = c.clock.AfterFunc(c.opts.Policy.Interval, func() { c.onExpand(gen, next) })
			msg = fmt.Sprintf("No kabadi-walas within %g km yet, expanding search to %g km", radius, next)
		} else {
			msg = fmt.Sprintf("No kabadi-walas found within %g km", radius)
		}
	}
	c.mu.Unlock()

	if msg != "" {
		c.notifier.Notify(NotifyInfo, msg)
	}
	return nil
}

// order puts active priority collectors first, then sorts by distance from
// the anchor. Candidates without a position go last.
func (c *SearchController) order(list []domain.CollectorCandidate, anchor domain.Coordinate) []domain.CollectorCandidate {
	out := slices.Clone(list)
	now := c.clock.Now()
	dist := func(k domain.CollectorCandidate) float64 {
		loc, ok := k.Location()
		if !ok {
			return -1
		}
		return anchor.DistanceKm(loc)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].PriorityAt(now), out[j].PriorityAt(now)
		if pi != pj {
			return pi
		}
		di, dj := dist(out[i]), dist(out[j])
		if (di < 0) != (dj < 0) {
			return dj < 0
		}
		return di < dj
	})
	return out
}
