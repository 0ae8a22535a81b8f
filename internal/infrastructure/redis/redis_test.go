package redis_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	ipvredis "github.com/jhoicas/gestor-ipv/internal/infrastructure/redis"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSnapshotStore_SaveLoad(t *testing.T) {
	mr, client := setupRedis(t)
	store := ipvredis.NewSnapshotStore(client)
	ctx := context.Background()

	got, err := store.Load(ctx, entity.SectionCocina)
	require.NoError(t, err)
	assert.Nil(t, got)

	state := entity.LedgerState{
		Section:     entity.SectionCocina,
		BusinessDay: "2026-10-14",
		Items:       []entity.InventoryItem{{ID: 1, Name: "Pan", Entry: decimal.RequireFromString("2.5")}},
	}
	require.NoError(t, store.Save(ctx, state))
	assert.True(t, mr.Exists("ipv:snapshot:cocina"))

	got, err = store.Load(ctx, entity.SectionCocina)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-10-14", got.BusinessDay)
	assert.True(t, got.Items[0].Entry.Equal(decimal.RequireFromString("2.5")))
}

func TestSnapshotStore_JSONInvalido(t *testing.T) {
	mr, client := setupRedis(t)
	require.NoError(t, mr.Set("ipv:snapshot:salon", "{no-json"))

	_, err := ipvredis.NewSnapshotStore(client).Load(context.Background(), entity.SectionSalon)
	assert.Error(t, err)
}

func TestSectionLocker_Exclusion(t *testing.T) {
	_, client := setupRedis(t)
	locker := ipvredis.NewSectionLocker(client, 2*time.Second, logger.Nop())
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, entity.SectionCocina)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInside))
}

func TestSectionLocker_Timeout(t *testing.T) {
	_, client := setupRedis(t)
	locker := ipvredis.NewSectionLocker(client, 100*time.Millisecond, logger.Nop())
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, entity.SectionSalon)
	require.NoError(t, err)
	defer unlock()

	other := ipvredis.NewSectionLocker(client, 50*time.Millisecond, logger.Nop())
	_, err = other.Lock(ctx, entity.SectionSalon)
	assert.ErrorIs(t, err, ipvredis.ErrLockTimeout)

	unlockKitchen, err := other.Lock(ctx, entity.SectionCocina)
	require.NoError(t, err, "otra área no se bloquea")
	unlockKitchen()
}
