package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSBackend stores values in a NATS JetStream KeyValue bucket, for state
// shared across processes.
type NATSBackend struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	bucket string
}

// NewNATSBackend connects to NATS and binds (or creates) the named KV bucket.
func NewNATSBackend(url, bucket string) (*NATSBackend, error) {
	if bucket == "" {
		return nil, fmt.Errorf("kv bucket name is required")
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	backend := &NATSBackend{conn: conn, bucket: bucket}
	if err := backend.initKVBucket(js); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize KV bucket: %w", err)
	}

	slog.Info("NATS storage backend initialized", "url", url, "kv_bucket", bucket)
	return backend, nil
}

// initKVBucket binds the bucket, creating it when it does not exist yet.
func (n *NATSBackend) initKVBucket(js jetstream.JetStream) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := js.KeyValue(ctx, n.bucket)
	if err == nil {
		n.kv = kv
		return nil
	}

	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      n.bucket,
		Description: "sc-hooks persistent key/value storage",
		History:     1, // Keep only latest value
	})
	if err != nil {
		return fmt.Errorf("failed to create KV bucket: %w", err)
	}

	n.kv = kv
	slog.Info("Created KV bucket", "bucket", n.bucket)
	return nil
}

func (n *NATSBackend) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry.Value(), nil
}

func (n *NATSBackend) Put(ctx context.Context, key string, data []byte) error {
	if _, err := n.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to put entry: %w", err)
	}
	return nil
}

func (n *NATSBackend) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (n *NATSBackend) Name() string { return "nats" }

// Close closes the NATS connection.
func (n *NATSBackend) Close() error {
	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
