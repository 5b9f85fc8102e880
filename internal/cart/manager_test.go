package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/angelmondragon/londonshop-backend/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStore) Load(context.Context, string) (string, bool, error) {
	return "", false, f.loadErr
}

func (f *failingStore) Save(context.Context, string, string) error {
	f.saves++
	return f.saveErr
}

func snapshot(t *testing.T, categorySlug, slug, color, size string) catalog.Snapshot {
	t.Helper()
	p, ok := catalog.Default().Product(categorySlug, slug)
	require.True(t, ok, "unknown product %s/%s", categorySlug, slug)
	return p.Snapshot(color, size)
}

func assertAggregates(t *testing.T, m *Manager) {
	t.Helper()
	state := m.State()
	count := 0
	total := decimal.Zero
	for _, it := range state.Items {
		count += it.Quantity
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.Equal(t, count, state.Count)
	assert.True(t, total.Equal(state.Total), "total %s != %s", state.Total, total)
	assert.Equal(t, count, m.Count())
	assert.True(t, total.Equal(m.Total()))
}

func TestAddItemSameKeyIncrements(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{Store: NewMemoryStore()})
	snap := snapshot(t, "hoodies", "hoodie-1", "Black", "M")

	for i := 1; i <= 5; i++ {
		m.AddItem(ctx, snap)
		items := m.Items()
		require.Len(t, items, 1)
		assert.Equal(t, i, items[0].Quantity)
	}
	assertAggregates(t, m)
}

func TestMugScenario(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{Store: NewMemoryStore()})

	white := snapshot(t, "mugs", "mug-1", "White", "Standard")
	black := snapshot(t, "mugs", "mug-1", "Black", "Standard")
	m.AddItem(ctx, white)
	m.AddItem(ctx, white)
	m.AddItem(ctx, black)

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "White", items[0].Color)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Black", items[1].Color)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3, m.Count())
	assert.True(t, m.Total().Equal(decimal.RequireFromString("44.97")), "got %s", m.Total())
}

func TestAggregatesStayConsistentUnderRandomMutations(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{Store: NewMemoryStore()})
	rng := rand.New(rand.NewSource(42))
	products := catalog.Default().Products()

	for i := 0; i < 300; i++ {
		p := products[rng.Intn(len(products))]
		color := p.Colors[rng.Intn(len(p.Colors))]
		size := p.Sizes[rng.Intn(len(p.Sizes))]
		switch rng.Intn(5) {
		case 0, 1:
			m.AddItem(ctx, p.Snapshot(color, size))
		case 2:
			m.RemoveItem(ctx, p.ID, color, size)
		case 3:
			m.UpdateQuantity(ctx, p.ID, color, size, rng.Intn(6)-1)
		case 4:
			if rng.Intn(20) == 0 {
				m.Clear(ctx)
			}
		}
		assertAggregates(t, m)

		seen := map[Key]bool{}
		for _, it := range m.Items() {
			require.False(t, seen[it.Key()], "duplicate key %+v", it.Key())
			require.Positive(t, it.Quantity)
			seen[it.Key()] = true
		}
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	build := func() *Manager {
		m := Restore(ctx, Options{Store: NewMemoryStore()})
		m.AddItem(ctx, snapshot(t, "t-shirts", "tshirt-1", "White", "S"))
		m.AddItem(ctx, snapshot(t, "t-shirts", "tshirt-1", "Black", "L"))
		m.AddItem(ctx, snapshot(t, "mugs", "mug-2", "White", "Large"))
		return m
	}

	viaUpdate := build()
	viaUpdate.UpdateQuantity(ctx, "tshirt-1", "Black", "L", 0)
	viaRemove := build()
	viaRemove.RemoveItem(ctx, "tshirt-1", "Black", "L")
	viaNegative := build()
	viaNegative.UpdateQuantity(ctx, "tshirt-1", "Black", "L", -3)

	assert.Equal(t, viaRemove.State(), viaUpdate.State())
	assert.Equal(t, viaRemove.State(), viaNegative.State())
	assert.Len(t, viaRemove.Items(), 2)
}

func TestUpdateQuantityIsAbsoluteAndIgnoresUnknownKeys(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{Store: NewMemoryStore()})
	m.AddItem(ctx, snapshot(t, "memory-games", "memory-1", "Multicolor", "One Size"))

	m.UpdateQuantity(ctx, "memory-1", "Multicolor", "One Size", 7)
	assert.Equal(t, 7, m.Count())

	before := m.State()
	m.UpdateQuantity(ctx, "memory-1", "Multicolor", "Huge", 3)
	m.RemoveItem(ctx, "never-added", "Red", "XS")
	assert.Equal(t, before, m.State())
}

func TestClearEmptiesCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := Restore(ctx, Options{Store: store})
	m.AddItem(ctx, snapshot(t, "hoodies", "hoodie-2", "White", "XL"))
	m.Clear(ctx)

	assert.Empty(t, m.Items())
	assert.Zero(t, m.Count())
	assert.True(t, m.Total().IsZero())

	raw, ok, err := store.Load(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestSettleRemovesOnlySubmittedQuantities(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := Restore(ctx, Options{Store: store})
	mug := snapshot(t, "mugs", "mug-1", "White", "Standard")
	m.AddItem(ctx, mug)
	m.AddItem(ctx, mug)
	submitted := m.Items()

	m.AddItem(ctx, mug)
	m.AddItem(ctx, snapshot(t, "hoodies", "hoodie-1", "Black", "M"))

	var ops []Op
	m.Subscribe(func(c Change) { ops = append(ops, c.Op) })
	m.Settle(ctx, submitted)

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "mug-1", items[0].ProductID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "hoodie-1", items[1].ProductID)
	assert.Equal(t, []Op{OpUpdate}, ops)
	assertAggregates(t, m)

	reloaded := Restore(ctx, Options{Store: store})
	assert.Equal(t, 2, reloaded.Count())
}

func TestSettleWithoutRaceEmptiesCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := Restore(ctx, Options{Store: store})
	m.AddItem(ctx, snapshot(t, "hoodies", "hoodie-2", "White", "XL"))
	m.AddItem(ctx, snapshot(t, "mugs", "mug-1", "Black", "Standard"))

	var ops []Op
	m.Subscribe(func(c Change) { ops = append(ops, c.Op) })
	m.Settle(ctx, m.Items())

	assert.Empty(t, m.Items())
	assert.Equal(t, []Op{OpClear}, ops)
	raw, ok, err := store.Load(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestSettleDropsLinesReducedMeanwhile(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{})
	snap := snapshot(t, "mugs", "mug-1", "White", "Standard")
	m.AddItem(ctx, snap)
	m.AddItem(ctx, snap)
	m.AddItem(ctx, snap)
	submitted := m.Items()

	m.UpdateQuantity(ctx, "mug-1", "White", "Standard", 1)
	m.Settle(ctx, submitted)
	assert.Empty(t, m.Items())
}

func TestPersistAndReloadRoundTrips(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := Restore(ctx, Options{Store: store})
	m.AddItem(ctx, snapshot(t, "hoodies", "hoodie-1", "White", "S"))
	m.AddItem(ctx, snapshot(t, "hoodies", "hoodie-1", "White", "S"))
	m.AddItem(ctx, snapshot(t, "mugs", "mug-1", "Black", "Large"))
	m.UpdateQuantity(ctx, "mug-1", "Black", "Large", 4)

	reloaded := Restore(ctx, Options{Store: store})
	require.Equal(t, len(m.Items()), len(reloaded.Items()))
	for i, it := range m.Items() {
		got := reloaded.Items()[i]
		assert.Equal(t, it.Key(), got.Key())
		assert.Equal(t, it.Quantity, got.Quantity)
		assert.Equal(t, it.Name, got.Name)
		assert.Equal(t, it.ImageSrc, got.ImageSrc)
		assert.Equal(t, it.Slug, got.Slug)
		assert.Equal(t, it.CategorySlug, got.CategorySlug)
		assert.True(t, it.Price.Equal(got.Price))
	}
	assert.Equal(t, m.Count(), reloaded.Count())
	assert.True(t, m.Total().Equal(reloaded.Total()))
}

func TestRestoreCorruptPayloadYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	for _, payload := range []string{"{not json", `{"productId":"x"}`, `[{"productId":"x","price":"abc","quantity":1}]`, "null"} {
		store := NewMemoryStore()
		require.NoError(t, store.Save(ctx, StorageKey, payload))

		var failures []string
		m := Restore(ctx, Options{Store: store, OnStoreError: func(op string, _ error) { failures = append(failures, op) }})
		assert.Empty(t, m.Items(), "payload %q", payload)
		assert.Zero(t, m.Count())
		if payload != "null" {
			assert.Equal(t, []string{"decode"}, failures, "payload %q", payload)
		}
	}
}

func TestRestoreNormalizesPersistedLines(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	payload := `[
		{"productId":"mug-1","name":"London Signature Mug","price":14.99,"imageSrc":"/products/white-mug.png","quantity":2,"color":"White","size":"Standard","slug":"mug-1","categorySlug":"mugs"},
		{"productId":"mug-2","name":"London Underground Mug","price":"17.99","quantity":0,"color":"White","size":"Large","slug":"mug-2","categorySlug":"mugs"},
		{"productId":"mug-1","name":"London Signature Mug","price":14.99,"quantity":3,"color":"White","size":"Standard","slug":"mug-1","categorySlug":"mugs"},
		{"productId":"hoodie-1","name":"London Signature Hoodie","price":"49.99","quantity":-1,"color":"Black","size":"M","slug":"hoodie-1","categorySlug":"hoodies"}
	]`
	require.NoError(t, store.Save(ctx, StorageKey, payload))

	m := Restore(ctx, Options{Store: store})
	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "mug-1", items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.True(t, m.Total().Equal(decimal.RequireFromString("74.95")))
}

func TestStoreFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{loadErr: errors.New("redis down"), saveErr: errors.New("redis down")}
	var failures []string
	m := Restore(ctx, Options{Store: store, OnStoreError: func(op string, _ error) { failures = append(failures, op) }})

	assert.Empty(t, m.Items())
	m.AddItem(ctx, snapshot(t, "mugs", "mug-1", "White", "Large"))
	assert.Equal(t, 1, m.Count(), "in-memory state still changes when saving fails")
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"load", "save"}, failures)
}

func TestPriceIsSnapshottedAtAddTime(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{Store: NewMemoryStore()})
	snap := snapshot(t, "mugs", "mug-1", "White", "Standard")
	m.AddItem(ctx, snap)

	repriced := snap
	repriced.Price = decimal.RequireFromString("99.00")
	m.AddItem(ctx, repriced)

	items := m.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("14.99")))
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItemDoesNotValidateVariant(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{})
	m.AddItem(ctx, snapshot(t, "hoodies", "hoodie-2", "Black", "XXXL"))
	assert.Equal(t, 1, m.Count())
}

func TestListenersRunSynchronouslyInOrder(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{Store: NewMemoryStore()})

	var calls []string
	var lastCount int
	m.Subscribe(func(c Change) {
		calls = append(calls, "first:"+string(c.Op))
		lastCount = c.State.Count
	})
	unsubscribe := m.Subscribe(func(c Change) { calls = append(calls, "second:"+string(c.Op)) })

	m.AddItem(ctx, snapshot(t, "mugs", "mug-2", "White", "Large"))
	assert.Equal(t, []string{"first:add", "second:add"}, calls)
	assert.Equal(t, 1, lastCount, "listener sees post-mutation state before AddItem returns")

	unsubscribe()
	unsubscribe()
	calls = nil
	m.SetOpen(ctx, true)
	assert.Equal(t, []string{"first:open"}, calls)

	calls = nil
	m.SetOpen(ctx, true)
	m.RemoveItem(ctx, "absent", "x", "y")
	assert.Empty(t, calls, "no-ops do not notify")
}

func TestOpenFlagIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := Restore(ctx, Options{Store: store})
	m.SetOpen(ctx, true)
	assert.True(t, m.IsOpen())
	assert.True(t, m.State().Open)

	_, ok, err := store.Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, Restore(ctx, Options{Store: store}).IsOpen())
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := Restore(ctx, Options{})
	m.AddItem(ctx, snapshot(t, "mugs", "mug-1", "White", "Standard"))

	items := m.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, m.Count())
}
