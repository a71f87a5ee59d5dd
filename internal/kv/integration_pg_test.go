//go:build integration

package kv

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPg(t *testing.T) *Pg {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15.3-alpine",
		postgres.WithDatabase("boards"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			// First, we wait for the container to log readiness twice.
			// This is because it will restart itself after the first startup.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=user password=password dbname=boards sslmode=disable", host, port.Port())
	db, err := OpenPg(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPgRoundTrip(t *testing.T) {
	db := startPg(t)

	err := db.Update(func(tx Tx) error {
		return tx.Put(BucketRoles, []byte("k"), []byte("v"))
	})
	require.NoError(t, err)

	err = db.View(func(tx Tx) error {
		got, err := tx.Get(BucketRoles, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
		return nil
	})
	require.NoError(t, err)
}

func TestPgRollback(t *testing.T) {
	db := startPg(t)
	boom := fmt.Errorf("boom")

	err := db.Update(func(tx Tx) error {
		if err := tx.Put(BucketBans, []byte("k"), []byte("v")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = db.View(func(tx Tx) error {
		ok, err := tx.Has(BucketBans, []byte("k"))
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}
