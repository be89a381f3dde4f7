package cache

import (
	"testing"
	"time"

	"github.com/ppiankov/neuroloc/internal/extract"
	"github.com/ppiankov/neuroloc/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key("fp1", "left ptosis")
	assert.Equal(t, a, Key("fp1", "left ptosis"))
	assert.NotEqual(t, a, Key("fp2", "left ptosis"))
	assert.NotEqual(t, a, Key("fp1", "right ptosis"))
	assert.Contains(t, a, "neuroloc:v1:")

	// separator keeps fingerprint and text from running together
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore(time.Minute, time.Minute)

	_, ok := m.Get("k")
	assert.False(t, ok)

	value := []byte("data")
	require.NoError(t, m.Set("k", value, 0))
	value[0] = 'X'

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("data"), got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete("k"))
	_, ok = m.Get("k")
	assert.False(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	m := NewMemoryStore(time.Minute, time.Minute)
	require.NoError(t, m.Set("k", []byte("v"), 20*time.Millisecond))

	time.Sleep(60 * time.Millisecond)

	_, ok := m.Get("k")
	assert.False(t, ok)
}

func TestDiskStore(t *testing.T) {
	d := NewDiskStore(t.TempDir(), time.Hour)
	key := Key("fp", "vertigo")

	_, ok := d.Get(key)
	assert.False(t, ok)

	require.NoError(t, d.Set(key, []byte(`{"a":1}`), 0))
	got, ok := d.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), got)

	require.NoError(t, d.Delete(key))
	require.NoError(t, d.Delete(key))
	_, ok = d.Get(key)
	assert.False(t, ok)
}

func TestDiskStore_Expiry(t *testing.T) {
	d := NewDiskStore(t.TempDir(), time.Hour)
	require.NoError(t, d.Set("k", []byte("v"), 10*time.Millisecond))

	time.Sleep(40 * time.Millisecond)

	_, ok := d.Get("k")
	assert.False(t, ok)
}

func TestDiskStore_Clear(t *testing.T) {
	d := NewDiskStore(t.TempDir(), 0)
	require.NoError(t, d.Set("a", []byte("1"), 0))
	require.NoError(t, d.Set("b", []byte("2"), 0))

	require.NoError(t, d.Clear())

	_, ok := d.Get("a")
	assert.False(t, ok)
}

func TestLayeredStore_PromotesDiskHits(t *testing.T) {
	memory := NewMemoryStore(time.Minute, time.Minute)
	disk := NewDiskStore(t.TempDir(), time.Hour)
	l := NewLayeredStore(memory, disk)

	require.NoError(t, disk.Set("k", []byte("v"), 0))
	assert.Equal(t, 0, memory.Len())

	got, ok := l.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, memory.Len())

	require.NoError(t, l.Delete("k"))
	_, ok = l.Get("k")
	assert.False(t, ok)
}

func TestResults_RoundTrip(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)
	engine := extract.NewEngine(kb)

	results := NewResults(NewMemoryStore(time.Minute, time.Minute), kb.Fingerprint(), 0)
	text := "Sudden left ptosis and mydriasis with right-sided weakness"

	_, ok := results.Get(text)
	assert.False(t, ok)

	parsed := engine.Parse(text)
	require.NoError(t, results.Put(text, parsed))

	cached, ok := results.Get(text)
	require.True(t, ok)
	assert.Equal(t, parsed, cached)
}

func TestResults_CorruptEntryIsMiss(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	results := NewResults(store, "fp", 0)
	require.NoError(t, store.Set(Key("fp", "x"), []byte("not json"), 0))

	_, ok := results.Get("x")
	assert.False(t, ok)
}
