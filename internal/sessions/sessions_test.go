package sessions

import (
	"context"
	"testing"
	"time"
	"unsafe"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gadgetshelf/internal/domain"
	"gadgetshelf/internal/productlist"
)

func sampleState() productlist.State {
	st := productlist.NewState()
	st.SearchTerm = "dell"
	st.SearchField = domain.FieldDescription
	st.MinRating = 4
	st.SelectedID = "xps-13"
	st.Initialized = true
	st.ToastUntil = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return st
}

func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, time.Hour), mr
}

func TestRedis_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedis(t)

	_, ok, err := s.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)

	want := sampleState()
	require.NoError(t, s.Save(ctx, "sid-1", want))
	assert.True(t, mr.Exists(keyPrefix+"sid-1"))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"sid-1"))

	got, ok, err := s.Load(ctx, "sid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.SearchTerm, got.SearchTerm)
	assert.Equal(t, want.SearchField, got.SearchField)
	assert.Equal(t, want.MinRating, got.MinRating)
	assert.Equal(t, want.SelectedID, got.SelectedID)
	assert.True(t, got.Initialized)
	assert.True(t, want.ToastUntil.Equal(got.ToastUntil))

	require.NoError(t, s.Delete(ctx, "sid-1"))
	_, ok, err = s.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedis(t)
	require.NoError(t, s.Save(ctx, "sid-2", sampleState()))
	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Load(ctx, "sid-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_CorruptPayload(t *testing.T) {
	s, mr := setupRedis(t)
	require.NoError(t, mr.Set(keyPrefix+"bad", "{not json"))
	_, _, err := s.Load(context.Background(), "bad")
	require.Error(t, err)
}

func TestMemory_CopiesAndExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	st := sampleState()
	require.NoError(t, m.Save(ctx, "a", st))
	st.SearchTerm = "changed after save"

	got, ok, err := m.Load(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dell", got.SearchTerm)

	now = now.Add(2 * time.Minute)
	_, ok, _ = m.Load(ctx, "a")
	assert.False(t, ok)
}

func TestMemory_KeyDoesNotAliasCaller(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	// a key backed by a buffer the caller reuses, as request cookies are
	buf := []byte("sid-one")
	key := unsafe.String(&buf[0], len(buf))
	require.NoError(t, m.Save(ctx, key, sampleState()))
	copy(buf, "sid-two")

	_, ok, err := m.Load(ctx, "sid-one")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, _ = m.Load(ctx, "sid-two")
	assert.False(t, ok)
}
