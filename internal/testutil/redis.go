package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/charsheet/internal/config"
)

// NewRedisConfig starts a Redis test container and returns settings that
// reach it. Skipped under -short.
//
// Precondition: Docker must be available.
// Postcondition: Returns a RedisConfig for a running server, or skips/fails the test.
func NewRedisConfig(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v [%s]", err, time.Since(start))
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	t.Logf("redis container started [%s]", time.Since(start))
	return config.RedisConfig{
		Addr: fmt.Sprintf("%s:%d", host, mappedPort.Int()),
		Key:  "charsheet:test",
	}
}
