package contact_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/pkg/ratelimiter"
	"github.com/ppsprecycling/website/pkg/relay"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockRelay struct {
	mock.Mock
}

func (m *mockRelay) Send(ctx context.Context, msg relay.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

var testSecrets = contact.Secrets{
	ServiceID:  "service_abc",
	TemplateID: "template_xyz",
	PublicKey:  "pk_123",
}

var validInput = contact.FormInput{
	Name:    "Jo",
	Email:   "a@b.com",
	Message: "Hello there!",
}

func expectedMessage(in contact.FormInput) relay.Message {
	return relay.Message{
		ServiceID:  testSecrets.ServiceID,
		TemplateID: testSecrets.TemplateID,
		PublicKey:  testSecrets.PublicKey,
		Params: relay.Params{
			Name:    contact.Sanitize(in.Name),
			Email:   in.Email,
			Message: contact.Sanitize(in.Message),
		},
	}
}

// ctxStore fails like a network-backed store once its context is done.
type ctxStore struct {
	ratelimiter.Store
}

func (s ctxStore) Last(ctx context.Context, key string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	return s.Store.Last(ctx, key)
}

func (s ctxStore) Mark(ctx context.Context, key string, at time.Time, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Mark(ctx, key, at, ttl)
}

func newMemoryStore(t *testing.T, clock *fakeClock) *ratelimiter.MemoryStore {
	t.Helper()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(0),
		ratelimiter.WithStoreClock(clock.Now),
	)
	t.Cleanup(store.Close)
	return store
}

func newCooldown(t *testing.T, clock *fakeClock) *ratelimiter.Cooldown {
	t.Helper()
	return newCooldownWithStore(t, clock, newMemoryStore(t, clock))
}

func newCooldownWithStore(t *testing.T, clock *fakeClock, store ratelimiter.Store) *ratelimiter.Cooldown {
	t.Helper()
	cd, err := ratelimiter.NewCooldown(store, 30*time.Second, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)
	return cd
}

type fixture struct {
	clock      *fakeClock
	relay      *mockRelay
	controller *contact.Controller
}

func newFixture(t *testing.T, secrets contact.Secrets, opts ...contact.Option) *fixture {
	t.Helper()
	clock := newFakeClock()
	return newFixtureWithCooldown(t, clock, newCooldown(t, clock), secrets, opts...)
}

func newFixtureWithCooldown(t *testing.T, clock *fakeClock, cd *ratelimiter.Cooldown, secrets contact.Secrets, opts ...contact.Option) *fixture {
	t.Helper()

	r := &mockRelay{}
	opts = append([]contact.Option{
		contact.WithClock(clock.Now),
		contact.WithRevertDelay(time.Hour),
	}, opts...)

	c, err := contact.New("visitor-1", cd, r, secrets, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return &fixture{clock: clock, relay: r, controller: c}
}
