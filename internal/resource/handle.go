// Package resource implements handles to engine objects which lazily inspect the object and cache the result for a
// short debounce period.
package resource

import (
	"context"
	"sync"
	"time"

	"github.com/samber/mo"
	"golang.org/x/xerrors"
	"k8s.io/utils/clock"

	"github.com/KonishchevDmitry/whales/internal/engine"
	"github.com/KonishchevDmitry/whales/internal/logging"
)

// Kind describes how to inspect objects of a specific type.
type Kind[T any] struct {
	Name    string
	Inspect func(ctx context.Context, reference string) (T, error)
	ID      func(result *T) string
	// Deep copies the result, so callers never share maps and slices with the cached one. Optional for results
	// without reference fields.
	Clone func(result *T) T
}

type Handle[T any] struct {
	kind     *Kind[T]
	clock    clock.PassiveClock
	debounce time.Duration

	lock        sync.Mutex
	reference   string
	immutableID bool
	result      mo.Option[T]
	refreshed   time.Time
}

var _ engine.Reference = &Handle[struct{}]{}

// New creates a handle which hasn't been inspected yet. Handles to mutable references (names) switch to the object ID
// on the first successful reload.
func New[T any](caller *engine.Caller, kind *Kind[T], reference string, immutableID bool) *Handle[T] {
	return &Handle[T]{
		kind:        kind,
		clock:       caller.Clock(),
		debounce:    caller.Debounce(),
		reference:   reference,
		immutableID: immutableID,
	}
}

// NewInspected creates a handle from an already obtained inspect result.
func NewInspected[T any](caller *engine.Caller, kind *Kind[T], result T) *Handle[T] {
	handle := New(caller, kind, kind.ID(&result), true)
	handle.store(result)
	return handle
}

func (h *Handle[T]) Kind() string {
	return h.kind.Name
}

// Reference returns the reference which is currently used to inspect the object.
func (h *Handle[T]) Reference() string {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.reference
}

func (h *Handle[T]) EngineReference() string {
	return h.Reference()
}

// ImmutableID returns the object ID, inspecting the object if the handle was created from a mutable reference.
func (h *Handle[T]) ImmutableID(ctx context.Context) (string, error) {
	h.lock.Lock()
	if h.immutableID {
		defer h.lock.Unlock()
		return h.reference, nil
	}
	h.lock.Unlock()

	if err := h.Reload(ctx); err != nil {
		return "", err
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if !h.immutableID {
		return "", &engine.UnavailableError{
			Kind:      h.kind.Name,
			Reference: h.reference,
			Err:       xerrors.New("The engine hasn't reported the object ID"),
		}
	}

	return h.reference, nil
}

func (h *Handle[T]) NeedsReload() bool {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.needsReload()
}

func (h *Handle[T]) needsReload() bool {
	return h.result.IsAbsent() || h.clock.Since(h.refreshed) >= h.debounce
}

// Reload unconditionally inspects the object. The cached result is left untouched on error.
func (h *Handle[T]) Reload(ctx context.Context) error {
	reference := h.Reference()

	result, err := h.kind.Inspect(ctx, reference)
	if err != nil {
		logging.L(ctx).Debugf("Failed to inspect %s %q: %s.", h.kind.Name, reference, err)
		return err
	}

	h.store(result)
	return nil
}

func (h *Handle[T]) store(result T) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if !h.immutableID {
		if id := h.kind.ID(&result); id != "" {
			h.reference = id
			h.immutableID = true
		}
	}

	h.result = mo.Some(result)
	h.refreshed = h.clock.Now()
}

// Get returns the inspect result, reloading it if it's older than the debounce period. If the reload fails and there
// is no cached result, UnavailableError is returned.
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	if h.NeedsReload() {
		if err := h.Reload(ctx); err != nil {
			var empty T

			h.lock.Lock()
			defer h.lock.Unlock()

			if h.result.IsAbsent() {
				return empty, &engine.UnavailableError{Kind: h.kind.Name, Reference: h.reference, Err: err}
			}
			return empty, err
		}
	}

	return h.Cached()
}

// Cached returns a copy of the cached inspect result without reloading it.
func (h *Handle[T]) Cached() (T, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	result, ok := h.result.Get()
	if !ok {
		return result, &engine.UnavailableError{Kind: h.kind.Name, Reference: h.reference}
	}

	if h.kind.Clone != nil {
		result = h.kind.Clone(&result)
	}

	return result, nil
}

func (h *Handle[T]) String() string {
	return h.kind.Name + " " + h.Reference()
}

// Attribute returns a field of the fresh inspect result.
func Attribute[T any, F any](ctx context.Context, handle *Handle[T], field func(result *T) F) (F, error) {
	result, err := handle.Get(ctx)
	if err != nil {
		var empty F
		return empty, err
	}
	return field(&result), nil
}
