package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory keeps everything in process, for local runs without spanner.
type Memory struct {
	mutex      sync.Mutex
	pools      map[string]*Pool
	actions    map[string][]*PoolAction
	properties map[string]string
}

func CreateMemory() Persist {
	return &Memory{
		pools:      make(map[string]*Pool),
		actions:    make(map[string][]*PoolAction),
		properties: make(map[string]string),
	}
}

func (m *Memory) CreatePool(ctx context.Context, pool *Pool, action *PoolAction) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, found := m.pools[pool.PoolId]; found {
		return fmt.Errorf("pool %s already exists", pool.PoolId)
	}
	row := *pool
	m.pools[pool.PoolId] = &row
	m.appendAction(action)
	return nil
}

func (m *Memory) ReadPool(ctx context.Context, poolId string) (*Pool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	pool, found := m.pools[poolId]
	if !found {
		return nil, nil
	}
	row := *pool
	return &row, nil
}

func (m *Memory) ListPools(ctx context.Context, limit int) ([]*Pool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	pools := make([]*Pool, 0, len(m.pools))
	for _, p := range m.pools {
		row := *p
		pools = append(pools, &row)
	}
	sort.Slice(pools, func(i, j int) bool {
		return pools[i].CreatedAt.After(pools[j].CreatedAt)
	})
	if len(pools) > limit {
		pools = pools[:limit]
	}
	return pools, nil
}

func (m *Memory) UpdatePool(ctx context.Context, pool *Pool, action *PoolAction) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, found := m.pools[pool.PoolId]
	if !found {
		return fmt.Errorf("pool %s not found", pool.PoolId)
	}
	if stored.Version != pool.Version {
		return ErrStalePool
	}
	pool.Version = pool.Version + 1
	pool.UpdatedAt = time.Now()
	row := *pool
	m.pools[pool.PoolId] = &row
	m.appendAction(action)
	return nil
}

func (m *Memory) ListPoolActions(ctx context.Context, poolId string, offset time.Time, limit int) ([]*PoolAction, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	actions := make([]*PoolAction, 0)
	history := m.actions[poolId]
	for i := len(history) - 1; i >= 0 && len(actions) < limit; i-- {
		if history[i].CreatedAt.Before(offset) {
			a := *history[i]
			actions = append(actions, &a)
		}
	}
	return actions, nil
}

func (m *Memory) ReadProperty(ctx context.Context, key string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.properties[key], nil
}

func (m *Memory) WriteProperty(ctx context.Context, key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.properties[key] = value
	return nil
}

func (m *Memory) appendAction(action *PoolAction) {
	a := *action
	m.actions[a.PoolId] = append(m.actions[a.PoolId], &a)
}
