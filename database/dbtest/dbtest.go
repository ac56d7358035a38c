// Package dbtest runs a throwaway MongoDB container for package tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/irsalhamdi/course-shop/config"
	"github.com/irsalhamdi/course-shop/database"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	uri      string
	startErr error
)

// Run starts MongoDB, runs the tests of the package and removes the
// container again. Without a reachable docker daemon the tests still run
// and Open skips them.
func Run(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		startErr = fmt.Errorf("docker unavailable: %w", err)
		return m.Run()
	}

	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		startErr = fmt.Errorf("starting mongo: %w", err)
		return m.Run()
	}
	_ = res.Expire(300)

	addr := "mongodb://" + res.GetHostPort("27017/tcp")

	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := mongo.Connect(options.Client().ApplyURI(addr))
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx)

		return client.Ping(ctx, nil)
	})
	if err != nil {
		startErr = fmt.Errorf("waiting for mongo: %w", err)
	} else {
		uri = addr
	}

	code := m.Run()

	if err := pool.Purge(res); err != nil {
		fmt.Printf("removing mongo container: %v\n", err)
	}
	return code
}

// Open connects to a fresh database that is dropped when t ends.
func Open(t *testing.T) *database.DB {
	t.Helper()

	if uri == "" {
		t.Skipf("mongo not available: %v", startErr)
	}

	ctx := context.Background()
	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	db, err := database.Open(ctx, config.DB{
		URI:            uri,
		Name:           name,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("opening %s: %v", name, err)
	}

	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = db.Close(ctx)
	})
	return db
}
