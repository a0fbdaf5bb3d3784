package yacache

import (
	"context"
	"net/http"
	"sync"
	"time"
	"weak"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
)

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func (i memoryItem) isExpired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// Memory is a threadsafe, TTL-aware map-backed cache for single-process deployments and
// tests. Expired entries are invisible immediately and removed by a background sweeper.
type Memory struct {
	items map[string]memoryItem
	mutex sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

// NewMemory builds a Memory cache and starts its sweeper. The sweeper stops on Close or
// once the cache is garbage collected.
//
// Example:
//
//	memory := yacache.NewMemory(30 * time.Second)
func NewMemory(tickToClean time.Duration) *Memory {
	memory := &Memory{
		items: make(map[string]memoryItem),
		done:  make(chan struct{}),
	}

	go cleanup(weak.Make(memory), tickToClean, memory.done)

	return memory
}

func cleanup(pointer weak.Pointer[Memory], tickToClean time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(tickToClean)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			memory := pointer.Value()
			if memory == nil {
				return
			}

			memory.sweep(time.Now())
		case <-done:
			return
		}
	}
}

func (m *Memory) sweep(now time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, item := range m.items {
		if item.isExpired(now) {
			delete(m.items, key)
		}
	}
}

// Len returns the number of stored entries, expired ones included until swept.
func (m *Memory) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.items)
}

func (m *Memory) Set(_ context.Context, key string, value string, ttl time.Duration) yaerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.items[key] = newMemoryItem(value, ttl)

	return nil
}

func (m *Memory) SetNX(
	_ context.Context,
	key string,
	value string,
	ttl time.Duration,
) (bool, yaerrors.Error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if item, ok := m.items[key]; ok && !item.isExpired(time.Now()) {
		return false, nil
	}

	m.items[key] = newMemoryItem(value, ttl)

	return true, nil
}

func (m *Memory) Get(_ context.Context, key string) (string, yaerrors.Error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, ok := m.items[key]
	if !ok || item.isExpired(time.Now()) {
		return "", yaerrors.FromError(
			http.StatusNotFound,
			ErrKeyNotFound,
			"[MEMORY] get "+key,
		)
	}

	return item.value, nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, yaerrors.Error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, ok := m.items[key]

	return ok && !item.isExpired(time.Now()), nil
}

func (m *Memory) Del(_ context.Context, key string) yaerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.items, key)

	return nil
}

func (m *Memory) Ping(_ context.Context) yaerrors.Error {
	select {
	case <-m.done:
		return yaerrors.FromError(http.StatusServiceUnavailable, ErrCacheClosed, "[MEMORY] ping")
	default:
		return nil
	}
}

func (m *Memory) Close() yaerrors.Error {
	m.once.Do(func() {
		close(m.done)
	})

	return nil
}

func newMemoryItem(value string, ttl time.Duration) memoryItem {
	item := memoryItem{value: value}

	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}

	return item
}
