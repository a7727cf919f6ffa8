package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the cart snapshot in Redis under a per-session key,
// for storefront deployments that want carts to survive the browser.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(client *redis.Client, sessionID string) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    "cart:" + sessionID,
	}
}

func (r *RedisStorage) Load() (State, error) {
	data, err := r.client.Get(context.Background(), r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("failed to load cart from redis: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		// same defensive rule as local storage: corrupt snapshot -> empty cart
		return State{}, nil
	}
	return state, nil
}

func (r *RedisStorage) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart state: %w", err)
	}
	if err := r.client.Set(context.Background(), r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart to redis: %w", err)
	}
	return nil
}
