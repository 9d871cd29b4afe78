package testutil

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCandidates are tried in order when REDIS_ADDR is unset: the CI service
// name, a plain local Redis, then the docker-compose test profile.
var redisCandidates = []string{"redis:6379", "localhost:6379", "localhost:56379"}

// SetupTestRedis returns a client on an emptied test database. It skips t
// when Redis is unreachable unless TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA
// is set. TEST_REDIS_DB picks the database index (default 1).
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addrs := redisCandidates
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		addrs = []string{addr}
	}
	dbIndex := 1
	if v, err := strconv.Atoi(os.Getenv("TEST_REDIS_DB")); err == nil && v >= 0 {
		dbIndex = v
	}

	var lastErr error
	for _, addr := range addrs {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: dbIndex})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			lastErr = client.FlushDB(ctx).Err()
		}
		cancel()
		if lastErr == nil {
			t.Cleanup(func() { _ = client.Close() })
			return client
		}
		_ = client.Close()
	}

	if envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") {
		t.Fatal("Redis not available for testing:", lastErr)
	}
	t.Skip("Redis not available for testing:", lastErr)
	return nil
}
