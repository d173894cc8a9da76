package reconciliation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tonforge/tonforge_service/internal/domain/entities"
)

// Resolution is a successfully resolved label: the account to credit and,
// when the label matched a deposit intent, the intent to activate.
type Resolution struct {
	Account  *entities.Account
	IntentID *int64
}

// Resolve maps an on-chain memo to an account. A numeric label is first
// tried as a deposit intent id and resolved to its owner; otherwise it is
// tried as the account's Telegram identity. Returns nil when neither
// resolves or the resolved account is blocked.
func (s *Service) Resolve(ctx context.Context, label string) (*Resolution, error) {
	id, err := strconv.ParseInt(label, 10, 64)
	if err != nil {
		return nil, nil
	}

	intent, err := s.intents.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up intent %d: %w", id, err)
	}
	if intent != nil {
		account, err := s.accounts.GetByID(ctx, intent.AccountID)
		if err != nil {
			return nil, fmt.Errorf("look up intent owner %d: %w", intent.AccountID, err)
		}
		if account == nil || account.Blocked {
			return nil, nil
		}
		intentID := intent.ID
		return &Resolution{Account: account, IntentID: &intentID}, nil
	}

	account, err := s.accounts.GetByTelegramID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up account by telegram id %d: %w", id, err)
	}
	if account == nil || account.Blocked {
		return nil, nil
	}
	return &Resolution{Account: account}, nil
}
