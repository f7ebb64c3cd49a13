package listing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	DefaultDebounce = 500 * time.Millisecond
)

// Fetcher loads one page for the given filter
type Fetcher[T any] func(ctx context.Context, f domain.Filter, p domain.Pagination) (domain.PagedResult[T], error)

// Submitter runs tasks in the background. *ants.Pool satisfies it.
// Submit may block until a worker is free; it is never called with the controller locked.
type Submitter interface {
	Submit(task func()) error
}

type defaultPool struct{}

func (defaultPool) Submit(task func()) error {
	return ants.Submit(task)
}

// Controller drives one paginated, filtered list. Filter changes reset to page 1
// and issue a fetch; completions of superseded fetches are dropped.
type Controller[T any] struct {
	mu       sync.Mutex
	pubMu    sync.Mutex
	name     string
	fetch    Fetcher[T]
	ctx      context.Context
	pool     Submitter
	bus      EventBus.Bus
	debounce time.Duration

	state     State[T]
	seq       uint64
	searchGen uint64
	timer     *time.Timer
	settled   chan struct{}

	pending    func()
	pendingSeq uint64
}

type Option[T any] func(*Controller[T])

func WithPageSize[T any](n int) Option[T] {
	return func(c *Controller[T]) {
		if n > 0 {
			c.state.PageSize = n
		}
	}
}

// WithDebounce sets the delay between the last keystroke and the applied search. Zero applies at once.
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(c *Controller[T]) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

func WithPool[T any](p Submitter) Option[T] {
	return func(c *Controller[T]) {
		if p != nil {
			c.pool = p
		}
	}
}

// WithBus publishes every state change on topic Topic(name)
func WithBus[T any](bus EventBus.Bus) Option[T] {
	return func(c *Controller[T]) {
		c.bus = bus
	}
}

func WithContext[T any](ctx context.Context) Option[T] {
	return func(c *Controller[T]) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Topic is the EventBus topic for list name
func Topic(name string) string {
	return "list:" + name + ":changed"
}

// NewController creates an idle controller; call Start for the first fetch
func NewController[T any](name string, fetch Fetcher[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		name:     name,
		fetch:    fetch,
		ctx:      context.Background(),
		pool:     defaultPool{},
		debounce: DefaultDebounce,
		state: State[T]{
			Status:   Idle,
			Category: domain.All,
			Brand:    domain.All,
			Active:   domain.All,
			Page:     1,
			PageSize: DefaultPageSize,
		},
		settled: closedChan(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (c *Controller[T]) Name() string {
	return c.name
}

// State returns a snapshot
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start issues the initial fetch
func (c *Controller[T]) Start() {
	c.mutate(func() bool { return true })
}

// Query presets filters and page before the first fetch
type Query struct {
	Search   string
	Category string
	Brand    string
	Active   string
	Page     int
}

// Seed applies q without fetching. Blank fields keep their current value.
func (c *Controller[T]) Seed(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if q.Search != "" {
		c.state.SearchTerm = q.Search
		c.state.Debounced = strings.TrimSpace(q.Search)
	}
	seedFilter(&c.state.Category, q.Category)
	seedFilter(&c.state.Brand, q.Brand)
	seedFilter(&c.state.Active, q.Active)
	if q.Page > 0 {
		c.state.Page = q.Page
	}
}

func seedFilter(field *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*field = v
	}
}

// Refresh refetches the current page with the current filters
func (c *Controller[T]) Refresh() {
	c.mutate(func() bool { return true })
}

// SetSearch records typed text. The search is applied after the debounce delay
// so a burst of keystrokes issues at most one fetch, with the final text.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	c.state.SearchTerm = term
	c.searchGen++
	gen := c.searchGen
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.debounce <= 0 {
		c.unlockAndPublish(c.applySearchLocked(term))
		return
	}
	if !isOpen(c.settled) {
		c.settled = make(chan struct{})
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		if gen != c.searchGen {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.unlockAndPublish(c.applySearchLocked(term))
	})
	c.mu.Unlock()
}

func (c *Controller[T]) applySearchLocked(term string) (State[T], bool) {
	term = strings.TrimSpace(term)
	if term == c.state.Debounced {
		c.maybeSettleLocked()
		return c.state, false
	}
	c.state.Debounced = term
	c.state.Page = 1
	c.issueLocked()
	return c.state, true
}

// SetCategory filters by category id, or "all"
func (c *Controller[T]) SetCategory(v string) {
	c.setFilter(&c.state.Category, v)
}

// SetBrand filters by brand id, or "all"
func (c *Controller[T]) SetBrand(v string) {
	c.setFilter(&c.state.Brand, v)
}

// SetActive filters by "true", "false" or "all"
func (c *Controller[T]) SetActive(v string) {
	c.setFilter(&c.state.Active, v)
}

// RemoveChip resets the filter behind chip key to "all"
func (c *Controller[T]) RemoveChip(key ChipKey) {
	switch key {
	case ChipCategory:
		c.SetCategory(domain.All)
	case ChipBrand:
		c.SetBrand(domain.All)
	case ChipActive:
		c.SetActive(domain.All)
	}
}

// ClearFilters resets search, category, brand and active in a single fetch
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	c.searchGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.mutate(func() bool {
		s := &c.state
		changed := s.Debounced != "" || s.Category != domain.All || s.Brand != domain.All || s.Active != domain.All
		s.SearchTerm, s.Debounced = "", ""
		s.Category, s.Brand, s.Active = domain.All, domain.All, domain.All
		if changed {
			s.Page = 1
		}
		return changed
	})
}

func (c *Controller[T]) setFilter(field *string, v string) {
	v = normalize(strings.TrimSpace(v))
	c.mutate(func() bool {
		if *field == v {
			return false
		}
		*field = v
		c.state.Page = 1
		return true
	})
}

// SetPage moves to page n (1-based). Filters are untouched.
func (c *Controller[T]) SetPage(n int) {
	c.mutate(func() bool {
		if n < 1 {
			n = 1
		}
		if tp := c.state.TotalPages(); tp > 0 && n > tp {
			n = tp
		}
		if n == c.state.Page {
			return false
		}
		c.state.Page = n
		return true
	})
}

func (c *Controller[T]) Next() {
	c.SetPage(c.State().Page + 1)
}

func (c *Controller[T]) Prev() {
	c.SetPage(c.State().Page - 1)
}

// Close cancels a pending search. In-flight fetches still complete.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.maybeSettleLocked()
}

// Wait blocks until no fetch or pending search is outstanding
func (c *Controller[T]) Wait(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		ch := c.settled
		if c.timer == nil && c.state.Status != Loading {
			s := c.state
			c.mu.Unlock()
			return s, nil
		}
		c.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
}

// mutate applies fn under the lock and issues a fetch when fn reports a change
func (c *Controller[T]) mutate(fn func() bool) {
	c.mu.Lock()
	changed := fn()
	if changed {
		c.issueLocked()
	} else {
		c.maybeSettleLocked()
	}
	c.unlockAndPublish(c.state, changed)
}

func (c *Controller[T]) issueLocked() {
	c.seq++
	seq := c.seq
	c.state.Seq = seq
	c.state.Status = Loading
	c.state.Err = nil
	if !isOpen(c.settled) {
		c.settled = make(chan struct{})
	}
	f, p := c.state.Filter(), c.state.Pagination()
	ctx := c.ctx
	// handed to the pool by unlockAndPublish once mu is released
	c.pending = func() {
		res, err := c.run(ctx, f, p)
		c.complete(seq, res, err)
	}
	c.pendingSeq = seq
}

// schedule submits a fetch task. Submit may block on a full pool, so no lock is held here.
func (c *Controller[T]) schedule(seq uint64, task func()) {
	err := c.pool.Submit(task)
	if err == nil {
		return
	}
	zap.L().Error("list fetch not scheduled",
		zap.String("namespace", "listing"),
		zap.String("list", c.name),
		zap.Error(err))
	c.mu.Lock()
	applied := c.applyLocked(seq, domain.PagedResult[T]{}, errors.Wrap(err, "schedule fetch"))
	c.unlockAndPublish(c.state, applied)
}

func (c *Controller[T]) run(ctx context.Context, f domain.Filter, p domain.Pagination) (res domain.PagedResult[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("list fetch panic: %v", r)
		}
	}()
	return c.fetch(ctx, f, p)
}

func (c *Controller[T]) complete(seq uint64, res domain.PagedResult[T], err error) {
	c.mu.Lock()
	applied := c.applyLocked(seq, res, err)
	c.unlockAndPublish(c.state, applied)
}

// applyLocked stores the outcome of fetch seq unless a newer fetch was issued since
func (c *Controller[T]) applyLocked(seq uint64, res domain.PagedResult[T], err error) bool {
	if seq != c.seq {
		zap.L().Debug("stale list response dropped",
			zap.String("namespace", "listing"),
			zap.String("list", c.name),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq))
		return false
	}
	if err != nil {
		c.state.Status = Errored
		c.state.Err = err
	} else {
		r := res
		c.state.Result = &r
		c.state.Err = nil
		if len(res.Items) == 0 {
			c.state.Status = Empty
		} else {
			c.state.Status = Populated
		}
	}
	c.maybeSettleLocked()
	return true
}

func (c *Controller[T]) maybeSettleLocked() {
	if c.timer == nil && c.state.Status != Loading && isOpen(c.settled) {
		close(c.settled)
	}
}

func isOpen(ch chan struct{}) bool {
	select {
	case <-ch:
		return false
	default:
		return true
	}
}

// unlockAndPublish releases mu, publishes s and then submits the fetch issued under mu,
// if any. Taking pubMu before releasing mu keeps notifications in the order the state
// changed. Handlers must not mutate the controller synchronously.
func (c *Controller[T]) unlockAndPublish(s State[T], changed bool) {
	task, seq := c.pending, c.pendingSeq
	c.pending = nil
	if !changed || c.bus == nil {
		c.mu.Unlock()
	} else {
		c.pubMu.Lock()
		c.mu.Unlock()
		c.bus.Publish(Topic(c.name), s)
		c.pubMu.Unlock()
	}
	if task != nil {
		c.schedule(seq, task)
	}
}

// Controls is the type-independent surface of a controller
type Controls interface {
	SetSearch(term string)
	SetCategory(v string)
	SetBrand(v string)
	SetActive(v string)
	SetPage(n int)
	Next()
	Prev()
	Refresh()
	RemoveChip(key ChipKey)
	ClearFilters()
}

var _ Controls = (*Controller[struct{}])(nil)
