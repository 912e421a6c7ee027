package db

import (
	"context"
	"encoding"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient implements LimitedRedisClient in memory.
// Only suitable for testing and local development.
// The value set for the IntCmd results is always 1 regardless of how many records were affected.
// Contexts are completely ignored.
type MockRedisClient struct {
	lock  sync.Mutex
	store map[string]map[string]string
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{store: map[string]map[string]string{}}
}

func stringify(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case encoding.TextMarshaler:
		raw, err := v.MarshalText()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	default:
		return fmt.Sprint(v), nil
	}
}

func convertValuesToMap(values ...any) (map[string]string, error) {
	if len(values)%2 != 0 {
		return map[string]string{}, fmt.Errorf("number of provided values must be even")
	}
	output := map[string]string{}
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return map[string]string{}, fmt.Errorf("hash field names must be strings, got %T", values[i])
		}
		val, err := stringify(values[i+1])
		if err != nil {
			return map[string]string{}, err
		}
		output[key] = val
	}
	return output, nil
}

func (m *MockRedisClient) HSet(_ context.Context, key string, values ...any) *redis.IntCmd {
	res := redis.IntCmd{}
	val, err := convertValuesToMap(values...)
	if err != nil {
		res.SetErr(err)
		return &res
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	existing, found := m.store[key]
	if !found {
		existing = map[string]string{}
		m.store[key] = existing
	}
	for k, v := range val {
		existing[k] = v
	}
	res.SetVal(1)
	return &res
}

func (m *MockRedisClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, k := range keys {
		delete(m.store, k)
	}
	res := redis.IntCmd{}
	res.SetVal(1)
	return &res
}

func (m *MockRedisClient) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	m.lock.Lock()
	defer m.lock.Unlock()
	res := redis.MapStringStringCmd{}
	output := map[string]string{}
	for k, v := range m.store[key] {
		output[k] = v
	}
	res.SetVal(output)
	return &res
}
