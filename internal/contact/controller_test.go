package contact_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ppsprecycling/website/internal/contact"
	"github.com/ppsprecycling/website/pkg/relay"
)

func TestController_Success(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	clickedAt := f.clock.Now()
	f.relay.On("Send", mock.Anything, expectedMessage(validInput)).
		Run(func(mock.Arguments) { f.clock.Advance(10 * time.Second) }).
		Return(nil).Once()

	err := f.controller.Submit(context.Background(), validInput)
	require.NoError(t, err)

	snap := f.controller.Snapshot()
	assert.Equal(t, contact.StateSubmitted, snap.State)
	assert.True(t, snap.IsSubmitted())
	assert.True(t, snap.Input.IsZero(), "fields are reset")
	assert.Nil(t, snap.Error)
	assert.Empty(t, snap.ErrorMessage())
	assert.Equal(t, clickedAt, snap.LastSubmitAt, "cooldown starts at the click, not at delivery")
	f.relay.AssertExpectations(t)
}

func TestController_CooldownCountsFromClick(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	clickedAt := f.clock.Now()
	f.relay.On("Send", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { f.clock.Advance(10 * time.Second) }).
		Return(nil).Once()
	ctx := context.Background()

	require.NoError(t, f.controller.Submit(ctx, validInput))

	// 31s after the first click, 21s after the relay answered.
	f.clock.Advance(clickedAt.Add(31 * time.Second).Sub(f.clock.Now()))
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	require.NoError(t, f.controller.Submit(ctx, validInput))
	f.relay.AssertNumberOfCalls(t, "Send", 2)
}

func TestController_CooldownRecordedWithLiveContext(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cd := newCooldownWithStore(t, clock, ctxStore{Store: newMemoryStore(t, clock)})
	f := newFixtureWithCooldown(t, clock, cd, testSecrets)
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	require.NoError(t, f.controller.Submit(ctx, validInput))

	res, err := cd.Check(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), res.LastAt, "cooldown is stored after delivery")

	clock.Advance(5 * time.Second)
	err = f.controller.Submit(ctx, validInput)
	assert.ErrorIs(t, err, contact.ErrRateLimited)
	f.relay.AssertNumberOfCalls(t, "Send", 1)
}

func TestController_RateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	require.NoError(t, f.controller.Submit(ctx, validInput))
	first := f.controller.Snapshot().LastSubmitAt

	f.clock.Advance(5 * time.Second)
	err := f.controller.Submit(ctx, validInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, contact.ErrRateLimited)

	serr, ok := contact.AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, contact.KindRateLimited, serr.Kind)
	assert.Equal(t, "Please wait 25 seconds before sending another message.", serr.Message)
	assert.Equal(t, 25*time.Second, serr.RetryAfter)

	snap := f.controller.Snapshot()
	assert.Equal(t, contact.StateIdle, snap.State, "the form is shown again")
	assert.Equal(t, validInput, snap.Input, "fields are left as typed")
	assert.Equal(t, serr, snap.Error)
	assert.Equal(t, first, snap.LastSubmitAt)
	f.relay.AssertNumberOfCalls(t, "Send", 1)

	f.clock.Advance(25 * time.Second)
	require.NoError(t, f.controller.Submit(ctx, validInput), "allowed once the cooldown has passed")
	f.relay.AssertNumberOfCalls(t, "Send", 2)
}

func TestController_RateLimitedDismissesSuccessPanel(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	require.NoError(t, f.controller.Submit(ctx, validInput))
	require.Equal(t, contact.StateSubmitted, f.controller.Snapshot().State)

	f.clock.Advance(time.Second)
	err := f.controller.Submit(ctx, validInput)
	assert.ErrorIs(t, err, contact.ErrRateLimited)
	assert.Equal(t, contact.StateIdle, f.controller.Snapshot().State)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, f.controller.WaitRevert(waitCtx))
}

func TestController_InvalidInput(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	in := contact.FormInput{Name: "A", Email: "a@b.com", Message: "short"}

	err := f.controller.Submit(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, contact.ErrInvalidInput)

	serr, ok := contact.AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, contact.MessageInvalidInput, serr.Message)

	snap := f.controller.Snapshot()
	assert.Equal(t, contact.StateIdle, snap.State)
	assert.Equal(t, in, snap.Input)
	assert.True(t, snap.LastSubmitAt.IsZero())
	f.relay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestController_LengthBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   contact.FormInput
		wantErr bool
	}{
		{"minimum lengths", contact.FormInput{Name: "Jo", Message: "0123456789"}, false},
		{"name of one character", contact.FormInput{Name: "J", Message: "0123456789"}, true},
		{"message of nine characters", contact.FormInput{Name: "Jo", Message: "012345678"}, true},
		{"lengths counted after trimming", contact.FormInput{Name: "  J  ", Message: "  012345678  "}, true},
		{"brackets do not count", contact.FormInput{Name: "<J>", Message: "<012345678>"}, true},
		{"multibyte characters", contact.FormInput{Name: "Zoë", Message: "ÄÖÜäöüßéèê"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, testSecrets)
			f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)

			err := f.controller.Submit(context.Background(), tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, contact.ErrInvalidInput)
				f.relay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			f.relay.AssertNumberOfCalls(t, "Send", 1)
		})
	}
}

func TestController_SanitizesBeforeDelivery(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	in := contact.FormInput{
		Name:    "  <b>Jo</b> ",
		Email:   " <a@b.com> ",
		Message: "<script>alert(1)</script> hello",
	}

	var got relay.Message
	f.relay.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(relay.Message)
	}).Return(nil).Once()

	require.NoError(t, f.controller.Submit(context.Background(), in))

	assert.Equal(t, "bJo/b", got.Params.Name)
	assert.Equal(t, " <a@b.com> ", got.Params.Email, "email is passed through unchanged")
	assert.Equal(t, "scriptalert(1)/script hello", got.Params.Message)
	assert.Equal(t, testSecrets.ServiceID, got.ServiceID)
	assert.Equal(t, testSecrets.TemplateID, got.TemplateID)
	assert.Equal(t, testSecrets.PublicKey, got.PublicKey)
}

func TestController_ConfigMissing(t *testing.T) {
	t.Parallel()

	secrets := testSecrets
	secrets.TemplateID = ""
	f := newFixture(t, secrets)

	err := f.controller.Submit(context.Background(), validInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, contact.ErrConfigMissing)

	serr, ok := contact.AsSubmissionError(err)
	require.True(t, ok)
	assert.Equal(t, contact.MessageDeliveryFailed, serr.Message)
	assert.NotContains(t, serr.Message, "template")

	snap := f.controller.Snapshot()
	assert.Equal(t, contact.StateFailed, snap.State)
	assert.Equal(t, validInput, snap.Input)
	f.relay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestController_DeliveryFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	cause := errors.New("status 400: The service ID is invalid")
	f.relay.On("Send", mock.Anything, mock.Anything).Return(cause).Once()
	ctx := context.Background()

	err := f.controller.Submit(ctx, validInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, contact.ErrDeliveryFailed)
	assert.ErrorIs(t, err, cause)

	snap := f.controller.Snapshot()
	assert.Equal(t, contact.StateFailed, snap.State)
	assert.True(t, snap.IsFailed())
	assert.Equal(t, contact.MessageDeliveryFailed, snap.ErrorMessage())
	assert.Equal(t, validInput, snap.Input, "fields are kept for a retry")
	assert.True(t, snap.LastSubmitAt.IsZero(), "a failure does not start the cooldown")

	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
	require.NoError(t, f.controller.Submit(ctx, snap.Input), "retry from the failure panel")
	assert.Equal(t, contact.StateSubmitted, f.controller.Snapshot().State)
}

func TestController_DeliveryTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets, contact.WithDeliveryTimeout(20*time.Millisecond))
	f.relay.On("Send", mock.Anything, mock.Anything).Return(context.DeadlineExceeded).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Once()

	err := f.controller.Submit(context.Background(), validInput)
	assert.ErrorIs(t, err, contact.ErrDeliveryFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, contact.StateFailed, f.controller.Snapshot().State)
}

func TestController_SingleInFlight(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	release := make(chan struct{})
	f.relay.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		<-release
	}).Return(nil)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = f.controller.Submit(context.Background(), validInput)
	}()

	require.Eventually(t, func() bool {
		return f.controller.Snapshot().IsSubmitting()
	}, time.Second, 5*time.Millisecond)

	err := f.controller.Submit(context.Background(), validInput)
	assert.ErrorIs(t, err, contact.ErrSubmissionInFlight)
	_, isSubmissionErr := contact.AsSubmissionError(err)
	assert.False(t, isSubmissionErr)

	f.controller.Update(contact.FormInput{Name: "ignored"})
	assert.Equal(t, validInput, f.controller.Snapshot().Input)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	f.relay.AssertNumberOfCalls(t, "Send", 1)
}

func TestController_DeliveryOutlivesCaller(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	release := make(chan struct{})
	f.relay.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-release
		assert.NoError(t, args.Get(0).(context.Context).Err(), "delivery context is detached from the caller")
	}).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.controller.Submit(ctx, validInput) }()

	require.Eventually(t, func() bool {
		return f.controller.Snapshot().IsSubmitting()
	}, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	close(release)

	assert.Eventually(t, func() bool {
		return f.controller.Snapshot().IsSubmitted()
	}, time.Second, 5*time.Millisecond)
}

func TestController_RevertsAfterDisplay(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets, contact.WithRevertDelay(20*time.Millisecond))
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.controller.Submit(context.Background(), validInput))
	assert.Equal(t, contact.StateSubmitted, f.controller.Snapshot().State)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.controller.WaitRevert(ctx))

	snap := f.controller.Snapshot()
	assert.Equal(t, contact.StateIdle, snap.State)
	assert.Nil(t, snap.Error)
	assert.False(t, snap.LastSubmitAt.IsZero(), "reverting keeps the cooldown")
}

func TestController_WaitRevertHonoursContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, f.controller.Submit(context.Background(), validInput))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.controller.WaitRevert(ctx), context.DeadlineExceeded)
}

func TestController_WaitRevertWhenIdle(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	assert.NoError(t, f.controller.WaitRevert(context.Background()))
}

func TestController_CloseCancelsRevert(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets, contact.WithRevertDelay(30*time.Millisecond))
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, f.controller.Submit(context.Background(), validInput))

	waitErr := make(chan error, 1)
	go func() { waitErr <- f.controller.WaitRevert(context.Background()) }()

	f.controller.Close()
	f.controller.Close()

	assert.ErrorIs(t, <-waitErr, contact.ErrControllerClosed)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, contact.StateSubmitted, f.controller.Snapshot().State, "timer no longer fires")

	err := f.controller.Submit(context.Background(), validInput)
	assert.ErrorIs(t, err, contact.ErrControllerClosed)
}

func TestController_Update(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testSecrets)
	in := contact.FormInput{Name: "Sam", Message: "typing..."}
	f.controller.Update(in)

	snap := f.controller.Snapshot()
	assert.Equal(t, in, snap.Input)
	assert.Equal(t, contact.StateIdle, snap.State)
}

func TestController_OutcomeHook(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var outcomes []string
	hook := contact.WithOutcomeHook(func(outcome string) {
		mu.Lock()
		defer mu.Unlock()
		outcomes = append(outcomes, outcome)
	})

	f := newFixture(t, testSecrets, hook)
	f.relay.On("Send", mock.Anything, mock.Anything).Return(nil)
	ctx := context.Background()

	_ = f.controller.Submit(ctx, contact.FormInput{Name: "A"})
	_ = f.controller.Submit(ctx, validInput)
	_ = f.controller.Submit(ctx, validInput)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"invalid_input", contact.OutcomeDelivered, "rate_limited"}, outcomes)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cd := newCooldown(t, clock)

	_, err := contact.New("", cd, &mockRelay{}, testSecrets)
	assert.ErrorIs(t, err, contact.ErrEmptyVisitorID)

	_, err = contact.New("v", nil, &mockRelay{}, testSecrets)
	assert.ErrorIs(t, err, contact.ErrInvalidConfig)

	_, err = contact.New("v", cd, nil, testSecrets)
	assert.ErrorIs(t, err, contact.ErrInvalidConfig)
}
