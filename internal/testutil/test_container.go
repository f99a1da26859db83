//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	sharedMongo *Container
	sharedRedis *Container
	sharedErr   error
	sharedOnce  sync.Once
	sharedMu    sync.RWMutex
)

// startShared starts the MongoDB and Redis containers once per test binary.
func startShared(ctx context.Context) error {
	sharedOnce.Do(func() {
		sharedMu.Lock()
		defer sharedMu.Unlock()

		sharedMongo, sharedErr = SetupMongoDB(ctx)
		if sharedErr != nil {
			return
		}
		sharedRedis, sharedErr = SetupRedis(ctx)
	})

	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return sharedErr
}

// cleanupShared terminates the shared containers.
func cleanupShared(ctx context.Context) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	var errs []string
	for _, c := range []*Container{sharedMongo, sharedRedis} {
		if c == nil {
			continue
		}
		if err := c.Cleanup(ctx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cleanup: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SetupTestMainWithContainers starts shared MongoDB and Redis containers,
// runs the tests and tears the containers down.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithContainers(context.Background(), m))
//	}
func SetupTestMainWithContainers(ctx context.Context, m *testing.M) int {
	if err := startShared(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	if err := cleanupShared(ctx); err != nil {
		_, _ = os.Stderr.WriteString("Warning: failed to cleanup shared containers: " + err.Error() + "\n")
	}

	return code
}

// SharedMongoURI returns the URI of the shared MongoDB container.
func SharedMongoURI() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if sharedMongo == nil {
		panic("shared MongoDB container not initialized - use SetupTestMainWithContainers")
	}
	return sharedMongo.URI
}

// SharedRedisURI returns the URI of the shared Redis container.
func SharedRedisURI() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if sharedRedis == nil {
		panic("shared Redis container not initialized - use SetupTestMainWithContainers")
	}
	return sharedRedis.URI
}

// SanitizeName turns a test name into a database name or key prefix that is
// unique per run.
func SanitizeName(testName string) string {
	sanitized := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(testName)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
