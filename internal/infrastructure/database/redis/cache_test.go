package redis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/PatentVault/pkg/errors"
)

type testStruct struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// CacheMockSuite covers error paths against redismock.
type CacheMockSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache Cache
}

func (s *CacheMockSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	s.cache = NewRedisCache(NewClientFromUniversal(db, nil), logging.NewNopLogger(), WithPrefix("test:"))
}

func (s *CacheMockSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *CacheMockSuite) TestGet_Hit() {
	s.mock.ExpectGet("test:key1").SetVal(`{"name":"John","age":30}`)

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.NoError(err)
	s.Equal(testStruct{Name: "John", Age: 30}, dest)
}

func (s *CacheMockSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:key1").RedisNil()

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.Equal(ErrCacheMiss, err)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *CacheMockSuite) TestGet_Error() {
	s.mock.ExpectGet("test:key1").SetErr(fmt.Errorf("connection reset"))

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheMockSuite) TestGet_Corrupt() {
	s.mock.ExpectGet("test:key1").SetVal(`{not json`)

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheMockSuite) TestDelete() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheMockSuite) TestSet_Unserializable() {
	err := s.cache.Set(context.Background(), "k", make(chan int), time.Minute)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func TestCacheMockSuite(t *testing.T) {
	suite.Run(t, new(CacheMockSuite))
}

func newMiniCache(t *testing.T) (*miniredis.Miniredis, Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisCache(NewClientFromUniversal(rdb, nil), nil, WithPrefix("pv:"), WithDefaultTTL(time.Hour))
}

func TestCache_SetGetWithTTL(t *testing.T) {
	mr, cache := newMiniCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", testStruct{Name: "A", Age: 1}, 0))
	ttl := mr.TTL("pv:k")
	assert.InDelta(t, float64(time.Hour), float64(ttl), float64(6*time.Minute+time.Second))

	var got testStruct
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, "A", got.Name)

	mr.FastForward(2 * time.Hour)
	assert.Equal(t, ErrCacheMiss, cache.Get(ctx, "k", &got))
}

func TestCache_GetOrSet(t *testing.T) {
	_, cache := newMiniCache(t)
	ctx := context.Background()

	var calls int32
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return testStruct{Name: "loaded"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got testStruct
			assert.NoError(t, cache.GetOrSet(ctx, "shared", &got, time.Minute, loader))
			assert.Equal(t, "loaded", got.Name)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))

	var got testStruct
	require.NoError(t, cache.GetOrSet(ctx, "shared", &got, time.Minute, func(context.Context) (interface{}, error) {
		t.Fatal("loader must not run on a hit")
		return nil, nil
	}))

	err := cache.GetOrSet(ctx, "nil", &got, time.Minute, func(context.Context) (interface{}, error) { return nil, nil })
	assert.Equal(t, ErrCacheMiss, err)

	boom := fmt.Errorf("boom")
	err = cache.GetOrSet(ctx, "err", &got, time.Minute, func(context.Context) (interface{}, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestClient_PingAndClose(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c, err := NewClient(ctx, config.RedisConfig{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.Equal(t, ErrClientClosed, c.Ping(ctx))
}

func TestClient_ConnectionFailed(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err := NewClient(context.Background(), config.RedisConfig{Addr: addr, DialTimeout: time.Second}, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

//Personal.AI order the ending
