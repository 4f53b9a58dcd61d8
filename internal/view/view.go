package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/znsio/specmatic-product-admin-go/internal/i18n"
	"github.com/znsio/specmatic-product-admin-go/internal/models"
	"github.com/znsio/specmatic-product-admin-go/internal/services"
)

// ProductAPI is the upstream product API bound to one session token.
type ProductAPI interface {
	CheckSession(ctx context.Context) error
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (services.MutationResult, error)
	UpdateProduct(ctx context.Context, id string, product models.Product) (services.MutationResult, error)
	DeleteProduct(ctx context.Context, id string) (string, error)
}

// APIFactory binds the upstream API to a session token.
type APIFactory func(token string) ProductAPI

type ChangePublisher interface {
	PublishProductChange(ctx context.Context, action models.ProductAction, product models.Product) error
}

type Options struct {
	NewAPI    APIFactory
	Publisher ChangePublisher
	Locale    language.Tag
	// DefaultUnit seeds new products; empty uses the locale's unit.
	DefaultUnit string
	Logger      *slog.Logger
}

type sessionStatus int

const (
	sessionUnmounted sessionStatus = iota
	sessionActive
	sessionRevoked
)

// View is the product admin screen state for one session.
//
// ops serialises operations end to end, so upstream responses are applied in
// the order the operations were dispatched. mu guards the fields and is never
// held across a network call, which keeps State readable while a request is
// in flight.
type View struct {
	ops sync.Mutex
	mu  sync.RWMutex

	newAPI      APIFactory
	publisher   ChangePublisher
	printer     *message.Printer
	defaultUnit string
	logger      *slog.Logger

	status   sessionStatus
	api      ProductAPI
	products []models.Product
	working  *models.Product
	mode     Mode
	editMode bool
	errors   FieldErrors
	pending  *PendingDelete
	notice   *Notice
}

func New(opts Options) *View {
	locale := opts.Locale
	if locale == language.Und {
		locale = i18n.Default()
	}
	printer := i18n.Printer(locale)

	unit := opts.DefaultUnit
	if unit == "" {
		unit = printer.Sprintf(i18n.KeyDefaultUnit)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &View{
		newAPI:      opts.NewAPI,
		publisher:   opts.Publisher,
		printer:     printer,
		defaultUnit: unit,
		logger:      logger,
		products:    []models.Product{},
		errors:      FieldErrors{},
	}
}

// Mount runs the session gate: with no token nothing is requested; otherwise
// the token is checked upstream and the product list is loaded.
func (v *View) Mount(ctx context.Context, token string) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	return v.mount(ctx, token)
}

// Ensure mounts the view unless it already is. It reports whether it mounted.
func (v *View) Ensure(ctx context.Context, token string) (bool, error) {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.RLock()
	status := v.status
	v.mu.RUnlock()

	switch status {
	case sessionActive:
		return false, nil
	case sessionRevoked:
		return false, ErrUnauthorized
	}
	return true, v.mount(ctx, token)
}

func (v *View) mount(ctx context.Context, token string) error {
	if token == "" {
		v.mu.Lock()
		v.notice = &Notice{Level: NoticeInfo, Text: v.printer.Sprintf(i18n.KeyLoginRequired)}
		v.mu.Unlock()
		return ErrNoSession
	}

	api := v.newAPI(token)
	if err := api.CheckSession(ctx); err != nil {
		v.mu.Lock()
		v.revokeLocked()
		v.mu.Unlock()
		v.logger.Warn("session check failed", "error", err)
		if errors.Is(err, ErrUnauthorized) {
			return fmt.Errorf("session check: %w", err)
		}
		return fmt.Errorf("session check: %w: %w", ErrUnauthorized, err)
	}

	v.mu.Lock()
	v.api = api
	v.status = sessionActive
	v.mu.Unlock()

	return v.syncList(ctx)
}

// FetchAll replaces the product list with the upstream snapshot.
func (v *View) FetchAll(ctx context.Context) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.RLock()
	_, err := v.sessionLocked()
	v.mu.RUnlock()
	if err != nil {
		return err
	}

	return v.syncList(ctx)
}

// syncList must be called with ops held and mu released.
func (v *View) syncList(ctx context.Context) error {
	v.mu.RLock()
	api := v.api
	v.mu.RUnlock()
	if api == nil {
		return ErrUnauthorized
	}

	products, err := api.GetAllProducts(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		return v.failLocked(err, i18n.KeyListFailed, i18n.KeyListUnknownError, "list products")
	}
	v.products = products
	return nil
}

// Open makes product the working copy. ModeNew ignores product and starts
// from the default template.
func (v *View) Open(mode Mode, product *models.Product) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	return v.openLocked(mode, product)
}

// OpenByID opens a product from the current list.
func (v *View) OpenByID(mode Mode, id string) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if mode == ModeNew {
		return v.openLocked(mode, nil)
	}
	for i := range v.products {
		if v.products[i].ID == id {
			return v.openLocked(mode, &v.products[i])
		}
	}
	return fmt.Errorf("%w: %s", ErrProductNotFound, id)
}

func (v *View) openLocked(mode Mode, product *models.Product) error {
	if _, err := v.sessionLocked(); err != nil {
		return err
	}

	var working models.Product
	switch mode {
	case ModeNew:
		working = models.NewProductTemplate(v.defaultUnit)
	case ModeEdit, ModeView:
		if product == nil {
			return ErrProductNotFound
		}
		working = product.Clone()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	v.working = &working
	v.mode = mode
	v.editMode = mode != ModeView
	v.errors = FieldErrors{}
	return nil
}

// Cancel discards the working copy.
func (v *View) Cancel() {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.clearWorkingLocked()
}

func (v *View) SetField(name, raw string) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.editableLocked(); err != nil {
		return err
	}

	field, ok := models.LookupField(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	updated := v.working.Clone()
	if err := applyField(&updated, field, raw); err != nil {
		return err
	}
	v.working = &updated
	return nil
}

// SetImageAt replaces one secondary image slot. Blank values are kept while
// editing and dropped on save.
func (v *View) SetImageAt(index int, value string) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.editableLocked(); err != nil {
		return err
	}

	updated := v.working.Clone()
	if err := setImageAt(&updated, index, value); err != nil {
		return err
	}
	v.working = &updated
	return nil
}

// EditableImages returns the secondary images padded to the editable slot count.
func (v *View) EditableImages() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.working == nil {
		return nil
	}
	p := v.working.Clone()
	padImages(&p)
	return p.ImagesURL
}

// Save validates the working copy and creates or updates it upstream.
// Validation failures never reach the network.
func (v *View) Save(ctx context.Context) error {
	v.ops.Lock()
	defer v.ops.Unlock()

	v.mu.Lock()
	api, err := v.sessionLocked()
	if err == nil {
		err = v.editableLocked()
	}
	if err != nil {
		v.mu.Unlock()
		return err
	}

	v.errors = Validate(*v.working, v.printer)
	if n := len(v.errors); n > 0 {
		v.mu.Unlock()
		return fmt.Errorf("%w: %d field(s)", ErrValidation, n)
	}
	payload := v.working.WithoutBlankImages()
	v.mu.Unlock()

	var (
		result services.MutationResult
		action models.ProductAction
	)
	if payload.ID != "" {
		action = models.ActionUpdated
		result, err = api.UpdateProduct(ctx, payload.ID, payload)
	} else {
		action = models.ActionCreated
		result, err = api.CreateProduct(ctx, payload)
	}

	v.mu.Lock()
	if err != nil {
		err = v.failLocked(err, i18n.KeySaveFailed, i18n.KeyUnknownError, "save product")
		v.mu.Unlock()
		return err
	}

	saved := payload
	if result.Product != nil {
		saved = *result.Product
	}

	v.notice = &Notice{Level: NoticeSuccess, Title: result.Message}
	if action == models.ActionUpdated {
		kept := saved.Clone()
		v.working = &kept
		v.mode = ModeView
		v.editMode = false
	} else {
		v.clearWorkingLocked()
	}
	v.mu.Unlock()

	v.publish(ctx, action, saved)

	// A failed resync is reported through the notice; the save itself stands.
	_ = v.syncList(ctx)
	return nil
}

// State returns a copy of the current view state.
func (v *View) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := State{
		Authorized: v.status == sessionActive,
		Products:   make([]models.Product, len(v.products)),
		Mode:       v.mode,
		EditMode:   v.editMode,
		Errors:     make(FieldErrors, len(v.errors)),
	}
	for i, p := range v.products {
		s.Products[i] = p.Clone()
	}
	if v.working != nil {
		w := v.working.Clone()
		s.Working = &w
	}
	for k, msg := range v.errors {
		s.Errors[k] = msg
	}
	if v.pending != nil {
		p := *v.pending
		s.PendingDelete = &p
	}
	if v.notice != nil {
		n := *v.notice
		s.Notice = &n
	}
	return s
}

// Authorized reports whether the session passed the gate and is still valid.
func (v *View) Authorized() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status == sessionActive
}

// Printer returns the message printer for the view's locale.
func (v *View) Printer() *message.Printer {
	return v.printer
}

func (v *View) sessionLocked() (ProductAPI, error) {
	switch v.status {
	case sessionActive:
		return v.api, nil
	case sessionRevoked:
		return nil, ErrUnauthorized
	default:
		return nil, ErrNoSession
	}
}

func (v *View) editableLocked() error {
	if _, err := v.sessionLocked(); err != nil {
		return err
	}
	if v.working == nil {
		return ErrNoWorkingCopy
	}
	if !v.editMode {
		return ErrNotEditing
	}
	return nil
}

func (v *View) clearWorkingLocked() {
	v.working = nil
	v.mode = ModeNone
	v.editMode = false
	v.errors = FieldErrors{}
}

func (v *View) revokeLocked() {
	v.status = sessionRevoked
	v.api = nil
	v.notice = &Notice{Level: NoticeInfo, Text: v.printer.Sprintf(i18n.KeyLoginAgain)}
}

// failLocked records the notice for a failed upstream call and wraps err.
// A 401 revokes the session instead.
func (v *View) failLocked(err error, titleKey, fallbackKey, op string) error {
	if errors.Is(err, ErrUnauthorized) {
		v.revokeLocked()
		return fmt.Errorf("%s: %w", op, err)
	}

	text := services.ServerMessage(err)
	if text == "" {
		text = v.printer.Sprintf(fallbackKey)
	}
	v.notice = &Notice{
		Level: NoticeError,
		Title: v.printer.Sprintf(titleKey),
		Text:  text,
	}
	v.logger.Warn(op+" failed", "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (v *View) publish(ctx context.Context, action models.ProductAction, product models.Product) {
	if v.publisher == nil {
		return
	}
	if err := v.publisher.PublishProductChange(ctx, action, product); err != nil {
		v.logger.Warn("product change not published", "action", action, "id", product.ID, "error", err)
	}
}
