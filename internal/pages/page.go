package pages

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/apiclient"
	"github.com/talkincode/shopdesk/internal/domain"
	"github.com/talkincode/shopdesk/internal/export"
	"github.com/talkincode/shopdesk/internal/form"
	"github.com/talkincode/shopdesk/internal/listing"
	"github.com/talkincode/shopdesk/internal/view"
	"go.uber.org/zap"
)

// Guard checks the session before a page opens. *session.Manager satisfies it.
type Guard interface {
	Require(role domain.Role) (*domain.Session, error)
}

// Deps are the collaborators shared by every page
type Deps struct {
	Client   *apiclient.Client
	Guard    Guard
	Bus      EventBus.Bus
	Pool     listing.Submitter
	PageSize int
	Debounce time.Duration // 0 keeps the default, negative applies searches at once
}

// Page composes a list controller, the form registry entry and the view for one resource
type Page[T any] struct {
	name      string
	kind      form.Kind
	role      domain.Role
	emptyText string
	columns   []view.Column[T]
	idOf      func(T) string
	exportFn  func(io.Writer, export.Format, []T) error

	guard   Guard
	backend form.Backend
	list    *listing.Controller[T]
	options *OptionLoader

	mu         sync.Mutex
	categories []domain.Option
	brands     []domain.Option
	selected   *T
}

func newPage[T any](d Deps, name string, kind form.Kind, fetch listing.Fetcher[T],
	columns []view.Column[T], idOf func(T) string, exportFn func(io.Writer, export.Format, []T) error) *Page[T] {
	opts := []listing.Option[T]{listing.WithBus[T](d.Bus), listing.WithPool[T](d.Pool)}
	if d.PageSize > 0 {
		opts = append(opts, listing.WithPageSize[T](d.PageSize))
	}
	switch {
	case d.Debounce < 0:
		opts = append(opts, listing.WithDebounce[T](0))
	case d.Debounce > 0:
		opts = append(opts, listing.WithDebounce[T](d.Debounce))
	}
	return &Page[T]{
		name:     name,
		kind:     kind,
		columns:  columns,
		idOf:     idOf,
		exportFn: exportFn,
		guard:    d.Guard,
		backend:  form.BackendFrom(d.Client),
		list:     listing.NewController(name, fetch, opts...),
	}
}

func (p *Page[T]) Name() string { return p.name }

// List returns the page's list controller
func (p *Page[T]) List() *listing.Controller[T] { return p.list }

// Controls returns the list controls without the item type
func (p *Page[T]) Controls() listing.Controls { return p.list }

// Settle waits until the list has no fetch or pending search outstanding
func (p *Page[T]) Settle(ctx context.Context) error {
	_, err := p.list.Wait(ctx)
	return err
}

// Err returns the error of the last completed fetch
func (p *Page[T]) Err() error { return p.list.State().Err }

// Seed presets filters and page; call it before Open
func (p *Page[T]) Seed(q listing.Query) { p.list.Seed(q) }

// Open checks the session, loads pickers when the page has them and issues the first fetch
func (p *Page[T]) Open(ctx context.Context) error {
	if p.guard != nil {
		if _, err := p.guard.Require(p.role); err != nil {
			return errors.WithMessagef(err, "open %s", p.name)
		}
	}
	if p.options != nil {
		if err := p.LoadOptions(ctx); err != nil {
			// the list stays usable with empty pickers
			zap.L().Warn("load page options failed", zap.String("namespace", "pages"), zap.String("page", p.name), zap.Error(err))
		}
	}
	p.list.Start()
	return nil
}

// LoadOptions refreshes the category and brand pickers
func (p *Page[T]) LoadOptions(ctx context.Context) error {
	if p.options == nil {
		return nil
	}
	cats, brands, err := p.options.Options(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.categories, p.brands = cats, brands
	p.mu.Unlock()
	return nil
}

// Options returns the loaded pickers
func (p *Page[T]) Options() (categories, brands []domain.Option) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.categories, p.brands
}

// Chips returns the removable markers of the applied filters
func (p *Page[T]) Chips() []listing.Chip {
	s := p.list.State()
	cats, brands := p.Options()
	return listing.ActiveChips(s.Category, s.Brand, s.Active, cats, brands)
}

// Saved refreshes the list and clears the selection
func (p *Page[T]) Saved(ctx context.Context) {
	p.mu.Lock()
	p.selected = nil
	p.mu.Unlock()
	p.list.Refresh()
}

// Selected returns the entity being edited, if any
func (p *Page[T]) Selected() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		var zero T
		return zero, false
	}
	return *p.selected, true
}

func (p *Page[T]) modalOptions() []form.ModalOption {
	cats, brands := p.Options()
	opts := []form.ModalOption{form.OnSaved(p.Saved), form.OnClosed(p.clearSelection)}
	if p.options != nil {
		opts = append(opts, form.WithOptions(p.options, cats, brands))
	}
	return opts
}

func (p *Page[T]) clearSelection() {
	p.mu.Lock()
	p.selected = nil
	p.mu.Unlock()
}

// NewForm opens a create form
func (p *Page[T]) NewForm() (*form.Modal, error) {
	return form.Open(p.kind, nil, p.backend, p.modalOptions()...)
}

// Edit opens an edit form for the row with id in the loaded page
func (p *Page[T]) Edit(id string) (*form.Modal, error) {
	for _, it := range p.list.State().Items() {
		if p.idOf(it) == id {
			item := it
			p.mu.Lock()
			p.selected = &item
			p.mu.Unlock()
			return form.Open(p.kind, item, p.backend, p.modalOptions()...)
		}
	}
	return nil, errors.Errorf("%s %s is not on the current page", p.kind, id)
}

// Locate walks the pages of an opened list until the row with id is loaded, then opens its edit form
func (p *Page[T]) Locate(ctx context.Context, id string) (*form.Modal, error) {
	for {
		s, err := p.list.Wait(ctx)
		if err != nil {
			return nil, err
		}
		if s.Err != nil {
			return nil, s.Err
		}
		if m, err := p.Edit(id); err == nil {
			return m, nil
		}
		if s.Page >= s.TotalPages() {
			return nil, errors.Errorf("%s %s not found", p.kind, id)
		}
		p.list.Next()
	}
}

// Render writes the current list state
func (p *Page[T]) Render(w io.Writer) error {
	s := p.list.State()
	return view.List(w, s, p.columns, view.Options{
		EmptyText:  p.emptyText,
		Chips:      p.Chips(),
		ShowFooter: true,
	})
}

// Export writes the loaded page in format f
func (p *Page[T]) Export(w io.Writer, f export.Format) error {
	s := p.list.State()
	if s.Result == nil {
		return errors.Errorf("%s: nothing loaded to export", p.name)
	}
	return p.exportFn(w, f, s.Items())
}

// Close stops pending searches
func (p *Page[T]) Close() {
	p.list.Close()
}
