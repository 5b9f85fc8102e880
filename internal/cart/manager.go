package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/angelmondragon/londonshop-backend/internal/catalog"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Op names the mutation that produced a Change.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
	OpClear  Op = "clear"
	OpOpen   Op = "open"
)

// Change is delivered to listeners after every state change.
type Change struct {
	Op    Op
	State State
}

// Listener observes cart changes. Listeners run synchronously while the
// manager is locked and must not call back into the manager.
type Listener func(Change)

// Options configures a Manager.
type Options struct {
	Store  Store
	Logger *logger.Logger
	// OnStoreError observes store failures the manager swallows. op is one of
	// "load", "decode", "encode" or "save".
	OnStoreError func(op string, err error)
}

// Manager owns the line items of one browsing session.
type Manager struct {
	mu           sync.Mutex
	items        []LineItem
	open         bool
	store        Store
	logg         *logger.Logger
	onStoreError func(string, error)
	listeners    []subscription
	nextID       int
}

type subscription struct {
	id int
	fn Listener
}

// Restore builds a manager from whatever is persisted under StorageKey. A
// missing, unreadable or corrupt value yields an empty cart; Restore never
// fails.
func Restore(ctx context.Context, opts Options) *Manager {
	m := &Manager{
		store:        opts.Store,
		logg:         opts.Logger,
		onStoreError: opts.OnStoreError,
	}
	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.logg == nil {
		m.logg = logger.Nop()
	}
	m.items = m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) []LineItem {
	raw, ok, err := m.store.Load(ctx, StorageKey)
	if err != nil {
		m.storeFailed(ctx, "load", err)
		return []LineItem{}
	}
	if !ok || raw == "" {
		return []LineItem{}
	}
	var stored []storedItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		m.storeFailed(ctx, "decode", err)
		return []LineItem{}
	}
	return fromStored(stored)
}

func (m *Manager) storeFailed(ctx context.Context, op string, err error) {
	m.logg.Warn(m.logg.WithFields(ctx, map[string]any{"store_op": op, "error": err.Error()}), "cart store failure ignored")
	if m.onStoreError != nil {
		m.onStoreError(op, err)
	}
}

// AddItem increments the line matching the snapshot's key or appends a new
// line with quantity 1. The variant is not checked against the product.
func (m *Manager) AddItem(ctx context.Context, s catalog.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key{ProductID: s.ProductID, Color: s.Color, Size: s.Size}
	if idx := m.indexOf(key); idx >= 0 {
		m.items[idx].Quantity++
	} else {
		m.items = append(m.items, newLineItem(s))
	}
	m.commit(ctx, OpAdd)
}

// RemoveItem deletes the matching line. Absent keys are a no-op.
func (m *Manager) RemoveItem(ctx context.Context, productID, color, size string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(ctx, Key{ProductID: productID, Color: color, Size: size})
}

// UpdateQuantity sets the matching line's quantity. A quantity below 1 removes
// the line. Absent keys are a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, productID, color, size string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := Key{ProductID: productID, Color: color, Size: size}
	if quantity < 1 {
		m.remove(ctx, key)
		return
	}
	idx := m.indexOf(key)
	if idx < 0 || m.items[idx].Quantity == quantity {
		return
	}
	m.items[idx].Quantity = quantity
	m.commit(ctx, OpUpdate)
}

// Clear empties the cart unconditionally.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = []LineItem{}
	m.commit(ctx, OpClear)
}

// Settle subtracts the quantities of submitted from the matching lines and
// drops lines that reach zero. Lines added after the snapshot was taken are
// kept. When nothing is left it behaves like Clear.
func (m *Manager) Settle(ctx context.Context, submitted []LineItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	taken := make(map[Key]int, len(submitted))
	for _, it := range submitted {
		taken[it.Key()] += it.Quantity
	}
	kept := make([]LineItem, 0, len(m.items))
	changed := false
	for _, it := range m.items {
		if n, ok := taken[it.Key()]; ok && n > 0 {
			it.Quantity -= n
			changed = true
		}
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	m.items = kept
	switch {
	case len(m.items) == 0:
		m.commit(ctx, OpClear)
	case changed:
		m.commit(ctx, OpUpdate)
	}
}

// SetOpen toggles the cart panel flag. The flag is not persisted.
func (m *Manager) SetOpen(ctx context.Context, open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open == open {
		return
	}
	m.open = open
	m.notify(OpOpen)
}

func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Items returns a copy of the line items in insertion order.
func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyItems()
}

// Count is the sum of all quantities.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countOf(m.items)
}

// Total is the exact sum of price times quantity.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return totalOf(m.items)
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Subscribe registers fn for every subsequent change and returns a function
// that removes it. Listeners are called in subscription order.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, sub := range m.listeners {
				if sub.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Manager) remove(ctx context.Context, key Key) {
	idx := m.indexOf(key)
	if idx < 0 {
		return
	}
	m.items = append(m.items[:idx:idx], m.items[idx+1:]...)
	m.commit(ctx, OpRemove)
}

func (m *Manager) indexOf(key Key) int {
	for i, it := range m.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// commit persists the items and notifies listeners. Callers hold m.mu.
func (m *Manager) commit(ctx context.Context, op Op) {
	m.persist(ctx)
	m.notify(op)
}

// persist writes the items even when the caller's context is already done,
// so the stored copy never lags the in-memory one.
func (m *Manager) persist(ctx context.Context) {
	raw, err := json.Marshal(toStored(m.items))
	if err != nil {
		m.storeFailed(ctx, "encode", err)
		return
	}
	if err := m.store.Save(context.WithoutCancel(ctx), StorageKey, string(raw)); err != nil {
		m.storeFailed(ctx, "save", err)
	}
}

func (m *Manager) notify(op Op) {
	if len(m.listeners) == 0 {
		return
	}
	change := Change{Op: op, State: m.snapshot()}
	for _, sub := range m.listeners {
		sub.fn(change)
	}
}

func (m *Manager) snapshot() State {
	return State{
		Items: m.copyItems(),
		Count: countOf(m.items),
		Total: totalOf(m.items),
		Open:  m.open,
	}
}

func (m *Manager) copyItems() []LineItem {
	return append([]LineItem{}, m.items...)
}

func countOf(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
