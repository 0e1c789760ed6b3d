// Package storage persists serialized cart state under string keys.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/InfinitechAdCorp/izakayaadmin/config"
)

var ErrNotFound = errors.New("storage: key not found")

// KV is the key-value persistence the cart store writes through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Open builds the backend selected by STORAGE_DRIVER.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.StorageDriver {
	case "", "memory":
		return NewMemory(), nil
	case "postgres":
		db, err := OpenPostgres(cfg.DSN())
		if err != nil {
			return nil, err
		}
		return NewGormKV(db)
	case "dynamodb":
		client, err := NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
		}
		return NewDynamoKV(client, cfg.CartTableName), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
