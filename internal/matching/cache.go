package matching

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gabot/faq-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CorpusSource reads a client's current question/answer pairs in stable order.
type CorpusSource interface {
	ListQAPairs(ctx context.Context, clientID int64) ([]entity.QAPair, error)
}

// IndexCache keeps one similarity index per client and rebuilds it on miss.
//
// Every corpus mutation must be followed by Invalidate for the same client.
// A build that started before an invalidation never becomes current: each
// client has a generation counter, and a finished build is stored only if the
// generation it observed is still the latest one.
type IndexCache struct {
	source  CorpusSource
	builder *Builder
	ttl     time.Duration

	entries *cache.Cache
	flights singleflight.Group

	mu   sync.Mutex
	gens map[int64]uint64
}

// NewIndexCache creates a cache. A ttl of zero keeps indexes until invalidated.
func NewIndexCache(source CorpusSource, builder *Builder, ttl time.Duration) *IndexCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := time.Duration(0)
	if ttl != cache.NoExpiration {
		cleanup = ttl
	}

	return &IndexCache{
		source:  source,
		builder: builder,
		ttl:     ttl,
		entries: cache.New(ttl, cleanup),
		gens:    make(map[int64]uint64),
	}
}

func cacheKey(clientID int64) string {
	return strconv.FormatInt(clientID, 10)
}

// GetOrBuild returns the client's index, building it from the corpus on a miss.
// A nil index with a nil error means the client has no FAQ data; nothing is
// cached in that case. Failures wrap ErrBuildFailed and leave the cache as is.
func (c *IndexCache) GetOrBuild(ctx context.Context, clientID int64) (*Index, error) {
	key := cacheKey(clientID)
	if v, ok := c.entries.Get(key); ok {
		return v.(*Index), nil
	}

	v, err, _ := c.flights.Do(key, func() (any, error) {
		return c.build(context.WithoutCancel(ctx), clientID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Index), nil
}

func (c *IndexCache) build(ctx context.Context, clientID int64) (*Index, error) {
	gen := c.generation(clientID)

	pairs, err := c.source.ListQAPairs(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: read corpus for client %d: %w", ErrBuildFailed, clientID, err)
	}

	idx, err := c.builder.Build(pairs)
	if errors.Is(err, ErrEmptyCorpus) {
		ctxzap.Debug(ctx, "no faq data, index not built", zap.Int64("client_id", clientID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: client %d: %w", ErrBuildFailed, clientID, err)
	}

	if c.store(clientID, gen, idx) {
		ctxzap.Info(ctx, "similarity index built",
			zap.Int64("client_id", clientID),
			zap.Int("questions", idx.Len()),
		)
	} else {
		ctxzap.Debug(ctx, "similarity index outdated by invalidation, not cached",
			zap.Int64("client_id", clientID),
		)
	}
	return idx, nil
}

func (c *IndexCache) generation(clientID int64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[clientID]
}

func (c *IndexCache) store(clientID int64, gen uint64, idx *Index) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[clientID] != gen {
		return false
	}
	c.entries.Set(cacheKey(clientID), idx, c.ttl)
	return true
}

// Invalidate drops the client's index. Safe to call when nothing is cached.
func (c *IndexCache) Invalidate(clientID int64) {
	key := cacheKey(clientID)

	c.mu.Lock()
	c.gens[clientID]++
	c.entries.Delete(key)
	c.mu.Unlock()

	c.flights.Forget(key)
}

// Warm builds indexes for the given clients, e.g. at start-up.
func (c *IndexCache) Warm(ctx context.Context, clientIDs []int64) error {
	var errs []error
	for _, id := range clientIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := c.GetOrBuild(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len is the number of cached indexes.
func (c *IndexCache) Len() int {
	return c.entries.ItemCount()
}

// Close drops every cached index.
func (c *IndexCache) Close() {
	c.entries.Flush()
}
