// Package survey is the validated repository over a census Store. It
// enforces the village → house → member hierarchy, computes derived fields
// (familyId, age) and performs cascading deletes inside a single Store
// transaction.
package survey

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/census/pkg/types"
)

// Observer receives the outcome and duration of each repository operation.
type Observer interface {
	Observe(operation string, success bool, duration time.Duration)
}

// Repository performs typed, invariant-enforcing operations on a Store.
// The Store must be attached before any operation is called.
type Repository struct {
	store       types.Store
	now         func() time.Time
	newFamilyID func() string
	logger      *slog.Logger
	observer    Observer
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for timestamps and age.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithFamilyIDGenerator overrides familyId generation.
func WithFamilyIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newFamilyID = gen }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// WithObserver sets the operation observer.
func WithObserver(o Observer) Option {
	return func(r *Repository) { r.observer = o }
}

// New returns a Repository over store.
func New(store types.Store, opts ...Option) *Repository {
	r := &Repository{
		store:       store,
		now:         time.Now,
		newFamilyID: NewFamilyID,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFamilyID returns an opaque family token: "FAM-" followed by a
// time-ordered UUID.
func NewFamilyID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "FAM-" + id.String()
}

// CascadeResult counts the records removed by a delete.
type CascadeResult struct {
	Villages int `json:"villages"`
	Houses   int `json:"houses"`
	Members  int `json:"members"`
	Images   int `json:"images"`
}

func (c *CascadeResult) add(o CascadeResult) {
	c.Villages += o.Villages
	c.Houses += o.Houses
	c.Members += o.Members
	c.Images += o.Images
}

// collections is satisfied by types.Store and types.Tx.
type collections interface {
	Collection(name string) (types.Collection, error)
}

// observe reports an operation to the observer, if one is set.
func (r *Repository) observe(operation string, start time.Time, err error) {
	if r.observer == nil {
		return
	}
	r.observer.Observe(operation, err == nil, time.Since(start))
}

// update runs fn inside one Store transaction.
func (r *Repository) update(fn func(c collections) error) error {
	return r.store.Update(func(tx types.Tx) error { return fn(tx) })
}

func collection(c collections, name string) (types.Collection, error) {
	coll, err := c.Collection(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return coll, nil
}

// records converts store results to typed pointers.
func records[T any](items []any) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(*T); ok {
			out = append(out, rec)
		}
	}
	return out
}

// getRecord fetches one record. A non-positive integer id names no record
// and yields ErrNotFound.
func getRecord[T any](c collections, name string, key any) (*T, error) {
	if id, ok := key.(int64); ok && id <= 0 {
		return nil, fmt.Errorf("%s %d: %w", name, id, types.ErrNotFound)
	}
	coll, err := collection(c, name)
	if err != nil {
		return nil, err
	}
	rec, err := coll.Get(key)
	if err != nil {
		return nil, err
	}
	typed, ok := rec.(*T)
	if !ok {
		return nil, fmt.Errorf("%s %v: %w", name, key, types.ErrInvalidData)
	}
	return typed, nil
}

func listRecords[T any](c collections, name string) ([]*T, error) {
	coll, err := collection(c, name)
	if err != nil {
		return nil, err
	}
	all, err := coll.GetAll()
	if err != nil {
		return nil, err
	}
	return records[T](all), nil
}

func indexRecords[T any](c collections, name, index string, value any) ([]*T, error) {
	coll, err := collection(c, name)
	if err != nil {
		return nil, err
	}
	found, err := coll.GetByIndex(index, value)
	if err != nil {
		return nil, err
	}
	return records[T](found), nil
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, types.ErrNotFound)
}

func isMissing(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}

// wrapMissing names the missing record; other errors pass through.
func wrapMissing(err error, kind string, id any) error {
	if isMissing(err) {
		return notFound(kind, id)
	}
	return err
}

// timestamp returns the clock's current time in UTC.
func (r *Repository) timestamp() time.Time {
	return r.now().UTC()
}
