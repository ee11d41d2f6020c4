package store

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const prefBucket = "preferences"

// NATSStore implements Store on an embedded NATS server with a JetStream
// key/value bucket backed by file storage under the data directory.
type NATSStore struct {
	srv  *server.Server
	conn *nats.Conn
	kv   jetstream.KeyValue
}

// Open starts an embedded NATS server using dataDir for file-based storage
// and binds the preferences KV bucket. The server listens on no network
// ports; all communication is in-process.
func Open(ctx context.Context, dataDir string) (*NATSStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
	}
	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, err
	}
	go ns.Start()
	if !ns.ReadyForConnections(4 * time.Second) {
		return nil, errors.New("nats server failed to start within timeout")
	}

	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		ns.Shutdown()
		return nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, err
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  prefBucket,
		History: 1,
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, err
	}

	return &NATSStore{srv: ns, conn: nc, kv: kv}, nil
}

// Get returns the stored value for key, or ErrKeyNotFound if unset.
func (s *NATSStore) Get(ctx context.Context, key string) (string, error) {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return string(entry.Value()), nil
}

// Set stores value under key, replacing any previous value.
func (s *NATSStore) Set(ctx context.Context, key, value string) error {
	_, err := s.kv.Put(ctx, key, []byte(value))
	return err
}

// Delete removes key entirely. Purge (rather than a tombstoned delete)
// keeps the bucket free of revision history for keys the app resets.
func (s *NATSStore) Delete(ctx context.Context, key string) error {
	return s.kv.Purge(ctx, key)
}

// Close drains the connection and shuts the embedded server down, each
// with a timeout so shutdown cannot hang forever.
func (s *NATSStore) Close() error {
	if s.conn != nil {
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- s.conn.Drain()
		}()
		select {
		case err := <-drainDone:
			if err != nil {
				s.conn.Close()
			}
		case <-time.After(2 * time.Second):
			s.conn.Close()
		}
	}

	if s.srv != nil {
		s.srv.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			s.srv.WaitForShutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(5 * time.Second):
			return errors.New("nats server shutdown timed out")
		}
	}
	return nil
}
