package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/metrics"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type AffiliateService struct {
	uow uow.UOW
}

func NewAffiliateService(u uow.UOW) *AffiliateService {
	return &AffiliateService{uow: u}
}

type SettleArgs struct {
	// Source юзер, чье действие породило комиссию. Резолвится ровно один реферальный
	// переход: пригласивший пригласившего не получает ничего.
	Source  *domain.User
	Amount  decimal.Decimal
	Percent decimal.Decimal
}

// Settle начисляет реферальную комиссию пригласившему юзеру. Алгоритм работы:
//  1. Нет пригласившего - no-op, это не ошибка.
//  2. commission = round(Amount * Percent / 100). Нулевая комиссия (процент 0 или
//     округление в 0) не порождает ни начисления, ни записи в журнале.
//  3. В одной транзакции кредитует пригласившего вместе со счетчиком total_commission
//     и пишет approved-запись типа commission с from_user = инвайт-код источника.
//
// Вызывается ПОСЛЕ коммита транзакции исходного события; сбой начисления комиссии
// не откатывает исходное событие (best-effort, решение за вызывающим).
func (a *AffiliateService) Settle(ctx context.Context, args SettleArgs) (*domain.Transaction, error) {
	if args.Source.ReferrerID == nil {
		return nil, nil
	}

	commission := args.Amount.Mul(args.Percent).Div(oneHundred).Round(2)
	if !commission.IsPositive() {
		return nil, nil
	}

	referrerID := *args.Source.ReferrerID

	var created *domain.Transaction
	txErr := a.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		transactionRepo, transactionRepoErr :=
			uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if transactionRepoErr != nil {
			return transactionRepoErr //nolint:wrapcheck
		}

		if _, creditErr := userRepo.CreditCommission(c, referrerID, commission); creditErr != nil {
			return creditErr //nolint:wrapcheck
		}

		var createErr error
		created, createErr = transactionRepo.Create(
			c,
			repoargs.NewCommission(referrerID, commission, args.Source.InviteCode),
		)
		return createErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("settling commission for referrer %d: %w", referrerID, txErr)
	}

	metrics.IncCommissionSettled()
	return created, nil
}
