package form

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/talkincode/shopdesk/internal/domain"
	"go.uber.org/zap"
)

// SavedFunc runs after a successful submit, before the modal closes
type SavedFunc func(ctx context.Context)

// OptionSource reloads the category and brand pickers of the product form
type OptionSource interface {
	Options(ctx context.Context) (categories, brands []domain.Option, err error)
}

// Modal is one open create/edit form. Entity present means edit mode.
type Modal struct {
	mu         sync.Mutex
	spec       Spec
	mode       Mode
	id         string
	draft      Draft
	errs       FieldErrors
	submitting bool
	open       bool
	hidden     bool // while a nested form is on top
	lastErr    error

	backend    Backend
	onSaved    SavedFunc
	onClosed   func()
	options    OptionSource
	categories []domain.Option
	brands     []domain.Option
}

type ModalOption func(*Modal)

func OnSaved(fn SavedFunc) ModalOption {
	return func(m *Modal) {
		m.onSaved = fn
	}
}

// OnClosed runs when the modal closes without saving
func OnClosed(fn func()) ModalOption {
	return func(m *Modal) {
		m.onClosed = fn
	}
}

// WithOptions sets the picker lists and their reload source
func WithOptions(src OptionSource, categories, brands []domain.Option) ModalOption {
	return func(m *Modal) {
		m.options = src
		m.categories = categories
		m.brands = brands
	}
}

// Open creates an open modal for kind. A nil entity opens in create mode; otherwise
// the entity must be of kind's type and the modal opens in edit mode.
func Open(kind Kind, entity interface{}, backend Backend, opts ...ModalOption) (*Modal, error) {
	spec, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	draft, id, edit, err := draftFrom(kind, entity)
	if err != nil {
		return nil, err
	}
	m := &Modal{
		spec:    spec,
		draft:   draft,
		id:      id,
		open:    true,
		backend: backend,
		errs:    FieldErrors{},
	}
	if edit {
		m.mode = Edit
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Modal) Kind() Kind { return m.spec.Kind }
func (m *Modal) Mode() Mode { return m.mode }
func (m *Modal) ID() string { return m.id }

// Title of the modal in its mode
func (m *Modal) Title() string { return m.spec.Title(m.mode) }

func (m *Modal) Description() string { return m.spec.Description[m.mode] }

func (m *Modal) Fields() []string { return m.spec.Fields }

// IsOpen reports whether the modal is open and not covered by a nested form
func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open && !m.hidden
}

func (m *Modal) Submitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitting
}

// Err returns the message of the last failed submit
func (m *Modal) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Errors returns a copy of the per-field errors of the last validation
func (m *Modal) Errors() FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(FieldErrors, len(m.errs))
	for k, v := range m.errs {
		out[k] = v
	}
	return out
}

// Draft returns a copy of the current values
func (m *Modal) Draft() Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Update edits the draft in place
func (m *Modal) Update(fn func(d *Draft)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.draft)
}

// Set assigns one field from text input
func (m *Modal) Set(field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.Set(field, value)
}

// AttachPhoto replaces the pending image
func (m *Modal) AttachPhoto(filename string, data []byte) error {
	att, err := NewAttachment(filename, data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.draft.Photo = att
	m.mu.Unlock()
	return nil
}

// RemovePhoto drops the pending image; an edit then keeps the stored one
func (m *Modal) RemovePhoto() {
	m.mu.Lock()
	m.draft.Photo = nil
	m.mu.Unlock()
}

// Options returns the category and brand pickers
func (m *Modal) Options() (categories, brands []domain.Option) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.categories, m.brands
}

// Validate checks the draft and records the field errors
func (m *Modal) Validate() FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validateLocked()
}

func (m *Modal) validateLocked() FieldErrors {
	errs := m.spec.Validate(m.draft, m.mode)
	if errs == nil {
		errs = FieldErrors{}
	}
	m.errs = errs
	return errs
}

// Submit validates and, when valid, sends the draft. On success the saved callback
// runs and the modal closes; on failure it stays open with the error kept.
func (m *Modal) Submit(ctx context.Context) (interface{}, error) {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return nil, errors.New("form is closed")
	}
	if m.submitting {
		m.mu.Unlock()
		return nil, errors.New("submit already in progress")
	}
	if errs := m.validateLocked(); len(errs) > 0 {
		m.mu.Unlock()
		return nil, &ValidationError{Fields: errs}
	}
	m.submitting = true
	m.lastErr = nil
	draft, mode, id := m.draft, m.mode, m.id
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.submitting = false
		m.mu.Unlock()
	}()

	out, err := m.spec.Submit(ctx, m.backend, mode, id, draft)
	if err != nil {
		zap.L().Warn("form submit failed",
			zap.String("namespace", "form"),
			zap.String("kind", string(m.spec.Kind)),
			zap.String("mode", mode.String()),
			zap.Error(err))
		m.mu.Lock()
		m.lastErr = err
		m.mu.Unlock()
		return nil, err
	}
	zap.L().Info("form saved",
		zap.String("namespace", "form"),
		zap.String("kind", string(m.spec.Kind)),
		zap.String("mode", mode.String()))

	if m.onSaved != nil {
		m.onSaved(ctx)
	}
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
	return out, nil
}

// Cancel closes the modal without saving
func (m *Modal) Cancel() {
	m.mu.Lock()
	wasOpen := m.open
	m.open = false
	m.mu.Unlock()
	if wasOpen && m.onClosed != nil {
		m.onClosed()
	}
}

// OpenNested opens a category or brand form over a product form. The product
// form is hidden meanwhile and comes back with its draft intact; after a save
// its option lists are reloaded.
func (m *Modal) OpenNested(kind Kind) (*Modal, error) {
	if m.spec.Kind != KindProduct {
		return nil, errors.Errorf("%s form has no nested forms", m.spec.Kind)
	}
	if kind != KindCategory && kind != KindBrand {
		return nil, errors.Errorf("cannot nest a %s form", kind)
	}
	m.mu.Lock()
	m.hidden = true
	m.mu.Unlock()

	restore := func() {
		m.mu.Lock()
		m.hidden = false
		m.mu.Unlock()
	}
	return Open(kind, nil, m.backend,
		OnSaved(func(ctx context.Context) {
			m.ReloadOptions(ctx)
			restore()
		}),
		OnClosed(restore),
	)
}

// ReloadOptions refetches the pickers. A failure keeps the previous lists.
func (m *Modal) ReloadOptions(ctx context.Context) {
	if m.options == nil {
		return
	}
	cats, brands, err := m.options.Options(ctx)
	if err != nil {
		zap.L().Warn("reload form options failed", zap.String("namespace", "form"), zap.Error(err))
		return
	}
	m.mu.Lock()
	m.categories, m.brands = cats, brands
	m.mu.Unlock()
}
