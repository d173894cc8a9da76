package deposit

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

type MockIntentStore struct {
	mock.Mock
}

func (m *MockIntentStore) Create(ctx context.Context, intent *entities.DepositIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockIntentStore) GetByID(ctx context.Context, id int64) (*entities.DepositIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DepositIntent), args.Error(1)
}

func (m *MockIntentStore) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]entities.DepositIntent, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DepositIntent), args.Error(1)
}

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
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

var testWallets = map[entities.Currency]string{
	entities.CurrencyTON:  "ton-wallet-addr",
	entities.CurrencyUSDT: "tron-wallet-addr",
}

func newFixture() (*MockIntentStore, *MockAccountStore, *MockSettingsStore, *Service) {
	intents := new(MockIntentStore)
	accounts := new(MockAccountStore)
	settings := new(MockSettingsStore)
	settings.On("Get", mock.Anything).Return(&entities.Settings{
		MinDeposit: decimal.NewFromInt(10),
	}, nil).Maybe()
	svc := NewService(intents, accounts, settings, testWallets, zap.NewNop())
	return intents, accounts, settings, svc
}

func TestCreateIntent_ReturnsInstruction(t *testing.T) {
	intents, accounts, _, svc := newFixture()
	accounts.On("GetByID", mock.Anything, int64(1)).Return(&entities.Account{ID: 1}, nil)
	intents.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.DepositIntent).ID = 42
	}).Return(nil)

	instruction, err := svc.CreateIntent(context.Background(), 1, decimal.NewFromInt(100), entities.CurrencyUSDT)
	assert.NoError(t, err)
	assert.Equal(t, "42", instruction.Label)
	assert.Equal(t, "tron-wallet-addr", instruction.Address)
	assert.Equal(t, entities.CurrencyUSDT, instruction.Currency)
	assert.True(t, instruction.Amount.Equal(decimal.NewFromInt(100)))
}

func TestCreateIntent_BelowMinimum(t *testing.T) {
	_, accounts, _, svc := newFixture()
	accounts.On("GetByID", mock.Anything, int64(1)).Return(&entities.Account{ID: 1}, nil)

	_, err := svc.CreateIntent(context.Background(), 1, decimal.NewFromInt(5), entities.CurrencyTON)
	assert.ErrorIs(t, err, entities.ErrBelowMinimum)
}

func TestCreateIntent_UnsupportedCurrency(t *testing.T) {
	_, _, _, svc := newFixture()

	_, err := svc.CreateIntent(context.Background(), 1, decimal.NewFromInt(100), entities.Currency("DOGE"))
	assert.ErrorIs(t, err, entities.ErrUnsupportedCurrency)
}

func TestCreateIntent_BlockedAccount(t *testing.T) {
	_, accounts, _, svc := newFixture()
	accounts.On("GetByID", mock.Anything, int64(1)).Return(&entities.Account{ID: 1, Blocked: true}, nil)

	_, err := svc.CreateIntent(context.Background(), 1, decimal.NewFromInt(100), entities.CurrencyTON)
	assert.ErrorIs(t, err, entities.ErrAccountBlocked)
}

func TestGetIntent_NotFound(t *testing.T) {
	intents, _, _, svc := newFixture()
	intents.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	_, err := svc.GetIntent(context.Background(), 404)
	assert.ErrorIs(t, err, entities.ErrIntentNotFound)
}
