// Package cache holds inkpress's listing cache: serialized pages of the
// public post listing kept in Valkey and retired whenever a post or
// category changes.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the startup ping against the listing cache.
const connectTimeout = 5 * time.Second

// ConnectValkey opens the Valkey client backing the listing cache and pings
// it once.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("listing cache at %s unreachable: %w", addr, err)
	}

	slog.Info("listing cache connected", "addr", addr, "key_prefix", listKeyPrefix)
	return client, nil
}
