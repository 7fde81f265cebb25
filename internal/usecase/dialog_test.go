package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dining-concierge/internal/domain"
)

type fakeQueue struct {
	enqueued []domain.DiningRequest
	err      error
}

func (f *fakeQueue) Enqueue(_ context.Context, req domain.DiningRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.enqueued = append(f.enqueued, req)
	return "msg-1", nil
}

type fakePrefReader struct {
	rec *domain.PreferenceRecord
	err error
}

func (f *fakePrefReader) GetPreference(_ context.Context, _ string) (*domain.PreferenceRecord, error) {
	return f.rec, f.err
}

type fakeRecommender struct {
	calls []RecommendInput
	res   RecommendResult
	err   error
}

func (f *fakeRecommender) Recommend(_ context.Context, in RecommendInput) (RecommendResult, error) {
	f.calls = append(f.calls, in)
	return f.res, f.err
}

func fixedNow() time.Time { return testNow }

func newTestDialogService(t *testing.T, queue *fakeQueue, prefs *fakePrefReader, rec *fakeRecommender) *DialogService {
	t.Helper()
	svc, err := NewDialogService(queue, prefs, rec, fixedNow)
	require.NoError(t, err)
	return svc
}

func TestNewDialogService_ValidatesDependencies(t *testing.T) {
	_, err := NewDialogService(nil, &fakePrefReader{}, &fakeRecommender{}, fixedNow)
	require.Error(t, err)

	_, err = NewDialogService(&fakeQueue{}, nil, &fakeRecommender{}, fixedNow)
	require.Error(t, err)

	_, err = NewDialogService(&fakeQueue{}, &fakePrefReader{}, nil, fixedNow)
	require.Error(t, err)
}

func TestDiningTurn_DialogHook_ElicitsViolatedSlot(t *testing.T) {
	queue := &fakeQueue{}
	svc := newTestDialogService(t, queue, &fakePrefReader{}, &fakeRecommender{})

	slots := completeSlots()
	slots.Cuisine = ptr("thai")
	directive, err := svc.DiningTurn(context.Background(), DiningTurnInput{
		Source: SourceDialogHook,
		Slots:  slots,
	})
	require.NoError(t, err)
	require.Equal(t, DirectiveElicitSlot, directive.Kind)
	require.Equal(t, domain.FieldCuisine, directive.SlotToElicit)
	require.Nil(t, directive.Slots.Cuisine, "violated slot must be cleared before re-eliciting")
	require.NotNil(t, directive.Slots.Location, "other slots must be preserved")
	require.NotNil(t, directive.Message)
	require.Empty(t, queue.enqueued, "nothing may be enqueued mid-dialog")
}

func TestDiningTurn_DialogHook_MalformedTimeElicitsWithoutMessage(t *testing.T) {
	svc := newTestDialogService(t, &fakeQueue{}, &fakePrefReader{}, &fakeRecommender{})

	slots := completeSlots()
	slots.DiningTime = ptr("25:99")
	directive, err := svc.DiningTurn(context.Background(), DiningTurnInput{Source: SourceDialogHook, Slots: slots})
	require.NoError(t, err)
	require.Equal(t, DirectiveElicitSlot, directive.Kind)
	require.Equal(t, domain.FieldDiningTime, directive.SlotToElicit)
	require.Nil(t, directive.Message)
}

func TestDiningTurn_DialogHook_AllValidDelegates(t *testing.T) {
	queue := &fakeQueue{}
	svc := newTestDialogService(t, queue, &fakePrefReader{}, &fakeRecommender{})

	directive, err := svc.DiningTurn(context.Background(), DiningTurnInput{
		Source: SourceDialogHook,
		Slots:  completeSlots(),
	})
	require.NoError(t, err)
	require.Equal(t, DirectiveDelegate, directive.Kind)
	require.Equal(t, completeSlots(), directive.Slots)
	require.Empty(t, queue.enqueued)
}

func TestDiningTurn_Fulfillment_EnqueuesAndCloses(t *testing.T) {
	queue := &fakeQueue{}
	svc := newTestDialogService(t, queue, &fakePrefReader{}, &fakeRecommender{})

	directive, err := svc.DiningTurn(context.Background(), DiningTurnInput{
		Source: SourceFulfillmentHook,
		Slots:  completeSlots(),
		Email:  ptr("a@b.com"),
	})
	require.NoError(t, err)
	require.Equal(t, DirectiveClose, directive.Kind)
	require.Equal(t, StateFulfilled, directive.FulfillmentState)
	require.Contains(t, *directive.Message, "a@b.com")

	require.Len(t, queue.enqueued, 1)
	require.Equal(t, domain.DiningRequest{
		Location:   "Manhattan",
		Cuisine:    "Italian",
		PartySize:  4,
		DiningDate: "2025-06-16",
		DiningTime: "19:00",
		Email:      "a@b.com",
	}, queue.enqueued[0])
}

func TestDiningTurn_Fulfillment_EnqueueFailureClosesFailed(t *testing.T) {
	queue := &fakeQueue{err: errors.New("sqs unavailable")}
	svc := newTestDialogService(t, queue, &fakePrefReader{}, &fakeRecommender{})

	directive, err := svc.DiningTurn(context.Background(), DiningTurnInput{
		Source: SourceFulfillmentHook,
		Slots:  completeSlots(),
		Email:  ptr("a@b.com"),
	})
	require.NoError(t, err, "queue failure must not surface as a system error")
	require.Equal(t, DirectiveClose, directive.Kind)
	require.Equal(t, StateFailed, directive.FulfillmentState)
	require.NotContains(t, *directive.Message, "suggestions", "must not claim success on a failed enqueue")
}

func TestDiningTurn_Fulfillment_MissingIdentityClosesFailed(t *testing.T) {
	queue := &fakeQueue{}
	svc := newTestDialogService(t, queue, &fakePrefReader{}, &fakeRecommender{})

	directive, err := svc.DiningTurn(context.Background(), DiningTurnInput{
		Source: SourceFulfillmentHook,
		Slots:  completeSlots(),
	})
	require.NoError(t, err)
	require.Equal(t, DirectiveClose, directive.Kind)
	require.Equal(t, StateFailed, directive.FulfillmentState)
	require.Empty(t, queue.enqueued)
}

func TestGreet_MissingEmailElicits(t *testing.T) {
	svc := newTestDialogService(t, &fakeQueue{}, &fakePrefReader{}, &fakeRecommender{})

	for _, email := range []*string{nil, ptr(""), ptr("   ")} {
		result, err := svc.Greet(context.Background(), email)
		require.NoError(t, err)
		require.Equal(t, DirectiveElicitSlot, result.Kind)
		require.Equal(t, domain.FieldEmail, result.SlotToElicit)
		require.Contains(t, *result.Message, "email address")
		require.Empty(t, result.Email)
	}
}

func TestGreet_InvalidEmailElicitsAgain(t *testing.T) {
	svc := newTestDialogService(t, &fakeQueue{}, &fakePrefReader{}, &fakeRecommender{})

	result, err := svc.Greet(context.Background(), ptr("not-an-email"))
	require.NoError(t, err)
	require.Equal(t, DirectiveElicitSlot, result.Kind)
	require.Equal(t, domain.FieldEmail, result.SlotToElicit)
	require.Empty(t, result.Email)
}

func TestGreet_ReturningUserRecommendsFromStoredPreference(t *testing.T) {
	prefs := &fakePrefReader{rec: &domain.PreferenceRecord{
		Email:    "x@y.com",
		Location: "Manhattan",
		Cuisine:  "Chinese",
	}}
	recommender := &fakeRecommender{res: RecommendResult{Notified: true}}
	svc := newTestDialogService(t, &fakeQueue{}, prefs, recommender)

	result, err := svc.Greet(context.Background(), ptr("x@y.com"))
	require.NoError(t, err)
	require.Equal(t, DirectiveClose, result.Kind)
	require.Equal(t, StateFulfilled, result.FulfillmentState)
	require.Contains(t, *result.Message, "previous search")
	require.Equal(t, "x@y.com", result.Email)

	require.Len(t, recommender.calls, 1)
	call := recommender.calls[0]
	require.Equal(t, "x@y.com", call.Email)
	require.Equal(t, "Chinese", call.Cuisine)
	require.Equal(t, "Manhattan", call.Location)
	require.True(t, call.FromPreviousSearch)
	require.Zero(t, call.PartySize, "stored preference carries no party size")
}

func TestGreet_NewUserClosesNeutrally(t *testing.T) {
	recommender := &fakeRecommender{}
	svc := newTestDialogService(t, &fakeQueue{}, &fakePrefReader{}, recommender)

	result, err := svc.Greet(context.Background(), ptr("new@user.com"))
	require.NoError(t, err)
	require.Equal(t, DirectiveClose, result.Kind)
	require.Contains(t, *result.Message, "new user")
	require.Equal(t, "new@user.com", result.Email)
	require.Empty(t, recommender.calls, "new users trigger no search or notification")
}

func TestGreet_PreferenceLookupFailureDegradesToNewUser(t *testing.T) {
	prefs := &fakePrefReader{err: errors.New("dynamodb down")}
	recommender := &fakeRecommender{}
	svc := newTestDialogService(t, &fakeQueue{}, prefs, recommender)

	result, err := svc.Greet(context.Background(), ptr("x@y.com"))
	require.NoError(t, err)
	require.Equal(t, DirectiveClose, result.Kind)
	require.Equal(t, StateFulfilled, result.FulfillmentState)
	require.Empty(t, recommender.calls)
}

func TestGreet_RecommendFailureStillCloses(t *testing.T) {
	prefs := &fakePrefReader{rec: &domain.PreferenceRecord{Email: "x@y.com", Cuisine: "Chinese"}}
	recommender := &fakeRecommender{err: errors.New("notifier down")}
	svc := newTestDialogService(t, &fakeQueue{}, prefs, recommender)

	result, err := svc.Greet(context.Background(), ptr("x@y.com"))
	require.NoError(t, err)
	require.Equal(t, DirectiveClose, result.Kind)
	require.NotContains(t, *result.Message, "have been emailed")
}

func TestThankYou(t *testing.T) {
	svc := newTestDialogService(t, &fakeQueue{}, &fakePrefReader{}, &fakeRecommender{})
	directive := svc.ThankYou()
	require.Equal(t, DirectiveClose, directive.Kind)
	require.Equal(t, StateFulfilled, directive.FulfillmentState)
	require.Equal(t, "You're welcome.", *directive.Message)
}
