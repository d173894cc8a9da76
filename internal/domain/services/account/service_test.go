package account

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetOrCreate(ctx context.Context, telegramID int64) (*entities.Account, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountStore) GetByTelegramID(ctx context.Context, telegramID int64) (*entities.Account, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountStore) SetReferrer(ctx context.Context, accountID, referrerID int64) (bool, error) {
	args := m.Called(ctx, accountID, referrerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) CountInvited(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

type MockIntentCounter struct {
	mock.Mock
}

func (m *MockIntentCounter) CountActiveByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBonusStore struct {
	mock.Mock
}

func (m *MockBonusStore) BonusTotals(ctx context.Context, accountID int64) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func ref(id int64) *int64 { return &id }

func newService(accounts *MockAccountStore, intents *MockIntentCounter, bonuses *MockBonusStore) *Service {
	return NewService(accounts, intents, bonuses, zap.NewNop())
}

func TestRegisterOrGet_NewAccountWithoutReferrer(t *testing.T) {
	accounts := new(MockAccountStore)
	created := &entities.Account{ID: 1, TelegramID: 100}
	accounts.On("GetOrCreate", mock.Anything, int64(100)).Return(created, nil)

	svc := newService(accounts, new(MockIntentCounter), new(MockBonusStore))
	acc, err := svc.RegisterOrGet(context.Background(), 100, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), acc.ID)
	accounts.AssertNotCalled(t, "SetReferrer", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterOrGet_BindsReferrerFromInviteLink(t *testing.T) {
	accounts := new(MockAccountStore)
	created := &entities.Account{ID: 2, TelegramID: 100}
	referrer := &entities.Account{ID: 1, TelegramID: 50}
	bound := &entities.Account{ID: 2, TelegramID: 100, ReferrerID: ref(1)}

	accounts.On("GetOrCreate", mock.Anything, int64(100)).Return(created, nil)
	accounts.On("GetByID", mock.Anything, int64(2)).Return(created, nil).Once()
	accounts.On("GetByTelegramID", mock.Anything, int64(50)).Return(referrer, nil)
	accounts.On("SetReferrer", mock.Anything, int64(2), int64(1)).Return(true, nil)
	accounts.On("GetByID", mock.Anything, int64(2)).Return(bound, nil)

	svc := newService(accounts, new(MockIntentCounter), new(MockBonusStore))
	refID := int64(50)
	acc, err := svc.RegisterOrGet(context.Background(), 100, &refID)

	assert.NoError(t, err)
	assert.NotNil(t, acc.ReferrerID)
	assert.Equal(t, int64(1), *acc.ReferrerID)
}

func TestRegisterOrGet_BadReferrerDoesNotFailRegistration(t *testing.T) {
	accounts := new(MockAccountStore)
	created := &entities.Account{ID: 2, TelegramID: 100}

	accounts.On("GetOrCreate", mock.Anything, int64(100)).Return(created, nil)
	accounts.On("GetByID", mock.Anything, int64(2)).Return(created, nil)
	// Unknown referrer telegram id.
	accounts.On("GetByTelegramID", mock.Anything, int64(999)).Return(nil, nil)

	svc := newService(accounts, new(MockIntentCounter), new(MockBonusStore))
	refID := int64(999)
	acc, err := svc.RegisterOrGet(context.Background(), 100, &refID)

	assert.NoError(t, err)
	assert.Nil(t, acc.ReferrerID)
}

func TestBindReferrer_SelfReferralRejected(t *testing.T) {
	accounts := new(MockAccountStore)
	acc := &entities.Account{ID: 1, TelegramID: 100}
	accounts.On("GetByID", mock.Anything, int64(1)).Return(acc, nil)
	accounts.On("GetByTelegramID", mock.Anything, int64(100)).Return(acc, nil)

	svc := newService(accounts, new(MockIntentCounter), new(MockBonusStore))
	err := svc.BindReferrer(context.Background(), 1, 100)

	assert.ErrorIs(t, err, entities.ErrSelfReferral)
}

func TestBindReferrer_AlreadySetRejected(t *testing.T) {
	accounts := new(MockAccountStore)
	acc := &entities.Account{ID: 1, ReferrerID: ref(9)}
	accounts.On("GetByID", mock.Anything, int64(1)).Return(acc, nil)

	svc := newService(accounts, new(MockIntentCounter), new(MockBonusStore))
	err := svc.BindReferrer(context.Background(), 1, 50)

	assert.ErrorIs(t, err, entities.ErrReferrerAlreadySet)
}

func TestBindReferrer_CycleRejected(t *testing.T) {
	// Binding 3's referrer to 1 would close 1 -> 2 -> 3 -> 1.
	a1 := &entities.Account{ID: 1, TelegramID: 101, ReferrerID: ref(2)}
	a2 := &entities.Account{ID: 2, TelegramID: 102, ReferrerID: ref(3)}
	a3 := &entities.Account{ID: 3, TelegramID: 103}

	accounts := new(MockAccountStore)
	accounts.On("GetByID", mock.Anything, int64(3)).Return(a3, nil)
	accounts.On("GetByTelegramID", mock.Anything, int64(101)).Return(a1, nil)
	accounts.On("GetByID", mock.Anything, int64(2)).Return(a2, nil)

	svc := newService(accounts, new(MockIntentCounter), new(MockBonusStore))
	err := svc.BindReferrer(context.Background(), 3, 101)

	assert.ErrorIs(t, err, entities.ErrReferralCycle)
	accounts.AssertNotCalled(t, "SetReferrer", mock.Anything, mock.Anything, mock.Anything)
}

func TestBindReferrer_ConcurrentSetLoses(t *testing.T) {
	acc := &entities.Account{ID: 1}
	referrer := &entities.Account{ID: 2, TelegramID: 50}

	accounts := new(MockAccountStore)
	accounts.On("GetByID", mock.Anything, int64(1)).Return(acc, nil)
	accounts.On("GetByTelegramID", mock.Anything, int64(50)).Return(referrer, nil)
	// Another writer won the conditional update.
	accounts.On("SetReferrer", mock.Anything, int64(1), int64(2)).Return(false, nil)

	svc := newService(accounts, new(MockIntentCounter), new(MockBonusStore))
	err := svc.BindReferrer(context.Background(), 1, 50)

	assert.ErrorIs(t, err, entities.ErrReferrerAlreadySet)
}

func TestOverview(t *testing.T) {
	accounts := new(MockAccountStore)
	intents := new(MockIntentCounter)
	acc := &entities.Account{ID: 1, BalanceTON: decimal.NewFromInt(42)}

	accounts.On("GetByID", mock.Anything, int64(1)).Return(acc, nil)
	intents.On("CountActiveByAccount", mock.Anything, int64(1)).Return(int64(3), nil)

	svc := newService(accounts, intents, new(MockBonusStore))
	overview, err := svc.Overview(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), overview.ActiveDeposits)
	assert.True(t, overview.Account.BalanceTON.Equal(decimal.NewFromInt(42)))
}

func TestReferralStats(t *testing.T) {
	accounts := new(MockAccountStore)
	bonuses := new(MockBonusStore)
	acc := &entities.Account{ID: 1}

	accounts.On("GetByID", mock.Anything, int64(1)).Return(acc, nil)
	accounts.On("CountInvited", mock.Anything, int64(1)).Return(int64(4), nil)
	bonuses.On("BonusTotals", mock.Anything, int64(1)).Return(
		decimal.NewFromInt(12), decimal.NewFromInt(7), nil)

	svc := newService(accounts, new(MockIntentCounter), bonuses)
	stats, err := svc.ReferralStats(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), stats.Invited)
	assert.True(t, stats.BonusTON.Equal(decimal.NewFromInt(12)))
	assert.True(t, stats.BonusUSDT.Equal(decimal.NewFromInt(7)))
}
