package accrual

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

type MockIntentLister struct {
	mock.Mock
}

func (m *MockIntentLister) ListActiveBatch(ctx context.Context, afterID int64, limit int) ([]entities.DepositIntent, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DepositIntent), args.Error(1)
}

type MockYieldStore struct {
	mock.Mock
}

func (m *MockYieldStore) CreditYieldBatch(ctx context.Context, credits []entities.YieldCredit) error {
	args := m.Called(ctx, credits)
	return args.Error(0)
}

type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) Get(ctx context.Context) (*entities.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Settings), args.Error(1)
}

type stubLocker struct {
	available bool
	released  bool
}

func (l *stubLocker) TryAcquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	if !l.available {
		return nil, false, nil
	}
	return func() { l.released = true }, true, nil
}

func settings(percent string) *entities.Settings {
	return &entities.Settings{DailyPercent: decimal.RequireFromString(percent)}
}

func TestRun_LockUnavailableCreditsNothing(t *testing.T) {
	intents := new(MockIntentLister)
	store := new(MockYieldStore)
	cfg := new(MockSettingsStore)
	locker := &stubLocker{available: false}

	svc := NewService(intents, store, cfg, locker, 2, time.Minute, zap.NewNop())
	err := svc.Run(context.Background())

	assert.ErrorIs(t, err, entities.ErrLockUnavailable)
	store.AssertNotCalled(t, "CreditYieldBatch", mock.Anything, mock.Anything)
	intents.AssertNotCalled(t, "ListActiveBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_CreditsAmountTimesPercent(t *testing.T) {
	intents := new(MockIntentLister)
	store := new(MockYieldStore)
	cfg := new(MockSettingsStore)
	locker := &stubLocker{available: true}

	cfg.On("Get", mock.Anything).Return(settings("0.023"), nil)
	intents.On("ListActiveBatch", mock.Anything, int64(0), 10).Return([]entities.DepositIntent{
		{ID: 1, AccountID: 11, Amount: decimal.NewFromInt(1000), Currency: entities.CurrencyTON, Active: true},
		{ID: 2, AccountID: 12, Amount: decimal.NewFromInt(200), Currency: entities.CurrencyUSDT, Active: true},
	}, nil)

	var credited []entities.YieldCredit
	store.On("CreditYieldBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		credited = args.Get(1).([]entities.YieldCredit)
	}).Return(nil)

	svc := NewService(intents, store, cfg, locker, 10, time.Minute, zap.NewNop())
	err := svc.Run(context.Background())

	assert.NoError(t, err)
	assert.True(t, locker.released)
	assert.Len(t, credited, 2)
	assert.True(t, credited[0].Amount.Equal(decimal.RequireFromString("23")))
	assert.Equal(t, entities.CurrencyTON, credited[0].Currency)
	assert.True(t, credited[1].Amount.Equal(decimal.RequireFromString("4.6")))
	assert.Equal(t, entities.CurrencyUSDT, credited[1].Currency)
}

func TestRun_PagesThroughAllIntents(t *testing.T) {
	intents := new(MockIntentLister)
	store := new(MockYieldStore)
	cfg := new(MockSettingsStore)
	locker := &stubLocker{available: true}

	cfg.On("Get", mock.Anything).Return(settings("0.01"), nil)
	intents.On("ListActiveBatch", mock.Anything, int64(0), 2).Return([]entities.DepositIntent{
		{ID: 1, AccountID: 1, Amount: decimal.NewFromInt(100), Currency: entities.CurrencyTON},
		{ID: 2, AccountID: 2, Amount: decimal.NewFromInt(100), Currency: entities.CurrencyTON},
	}, nil)
	intents.On("ListActiveBatch", mock.Anything, int64(2), 2).Return([]entities.DepositIntent{
		{ID: 5, AccountID: 3, Amount: decimal.NewFromInt(100), Currency: entities.CurrencyTON},
	}, nil)
	store.On("CreditYieldBatch", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(intents, store, cfg, locker, 2, time.Minute, zap.NewNop())
	err := svc.Run(context.Background())

	assert.NoError(t, err)
	store.AssertNumberOfCalls(t, "CreditYieldBatch", 2)
	// The short final page ends the walk; no further listing past id 5.
	intents.AssertNumberOfCalls(t, "ListActiveBatch", 2)
}

func TestRun_NonPositivePercentSkips(t *testing.T) {
	intents := new(MockIntentLister)
	store := new(MockYieldStore)
	cfg := new(MockSettingsStore)
	locker := &stubLocker{available: true}

	cfg.On("Get", mock.Anything).Return(settings("0"), nil)

	svc := NewService(intents, store, cfg, locker, 10, time.Minute, zap.NewNop())
	err := svc.Run(context.Background())

	assert.NoError(t, err)
	intents.AssertNotCalled(t, "ListActiveBatch", mock.Anything, mock.Anything, mock.Anything)
}
