package ports_test

import (
	"testing"

	"github.com/target/jobportal/internal/adapters/events"
	"github.com/target/jobportal/internal/adapters/passwords"
	"github.com/target/jobportal/internal/adapters/redis"
	mocks "github.com/target/jobportal/internal/mocks/auth"
	"github.com/target/jobportal/internal/ports"
)

// This test only verifies that adapters and doubles conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.SessionStore = (*redis.SessionStore)(nil)
	var _ ports.PasswordHasher = mocks.PlainHasher{}
	var _ ports.PasswordHasher = (*passwords.BcryptHasher)(nil)
	var _ ports.EventPublisher = (*events.KafkaPublisher)(nil)
	var _ ports.EventPublisher = (*events.AMQPPublisher)(nil)
	var _ ports.EventPublisher = (*events.LogPublisher)(nil)
}
