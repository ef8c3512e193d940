package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/shopspring/decimal"
)

type WalletService struct {
	uow             uow.UOW
	userRepo        UserRepository
	transactionRepo TransactionRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	transactionRepo, transactionRepoErr :=
		uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if transactionRepoErr != nil {
		return nil, transactionRepoErr
	}
	return &WalletService{
		uow:             u,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}, nil
}

type DepositArgs struct {
	Amount      decimal.Decimal
	ProofImage  string
	SenderPhone string
}

// Deposit регистрирует pending-заявку на пополнение. Баланс не меняется до одобрения
// админом (AdminService.ReviewTransaction). Без пруфа оплаты - domain.ErrMissingProof,
// без телефона отправителя - domain.ErrMissingSender.
func (w *WalletService) Deposit(ctx context.Context, userID int64, args DepositArgs) (*domain.Transaction, error) {
	if args.ProofImage == "" {
		return nil, domain.ErrMissingProof
	}
	if args.SenderPhone == "" {
		return nil, domain.ErrMissingSender
	}
	if !args.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	user, userErr := w.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("creating deposit request: %w", userErr)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	t, createErr := w.transactionRepo.Create(ctx,
		repoargs.NewDeposit(userID, args.Amount, args.ProofImage, args.SenderPhone))
	if createErr != nil {
		return nil, fmt.Errorf("creating deposit request: %w", createErr)
	}
	return t, nil
}

type WithdrawArgs struct {
	Amount           decimal.Decimal
	DestinationName  string
	DestinationPhone string
}

// Withdraw регистрирует заявку на вывод со списанием средств сразу, отклонение заявки
// админом возвращает сумму на баланс. Алгоритм работы:
//  1. Читает юзера с блокировкой строки. Без назначенного плана вывод недоступен -
//     domain.ErrNoActivePlan.
//  2. Сверяет сумму с границами min_withdraw/max_withdraw плана -
//     domain.ErrWithdrawOutBounds.
//  3. Списывает сумму (при нехватке - domain.ErrNotEnoughBalance) и пишет
//     pending-запись типа withdrawal. Списание и запись в одной транзакции.
func (w *WalletService) Withdraw(ctx context.Context, userID int64, args WithdrawArgs) (*domain.Transaction, error) {
	var created *domain.Transaction

	txErr := w.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		planRepo, planRepoErr := uow.GetAs[PlanRepository](tx, uow.RepositoryName(repoargs.PlanRepoName))
		if planRepoErr != nil {
			return planRepoErr //nolint:wrapcheck
		}
		transactionRepo, transactionRepoErr :=
			uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if transactionRepoErr != nil {
			return transactionRepoErr //nolint:wrapcheck
		}

		user, userErr := userRepo.FindByIDForUpdate(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		if !user.IsActive {
			return domain.ErrAccountInactive
		}
		if user.PlanID == nil {
			return domain.ErrNoActivePlan
		}

		plan, planErr := planRepo.FindByID(c, *user.PlanID)
		if planErr != nil {
			return planErr //nolint:wrapcheck
		}
		if args.Amount.LessThan(plan.MinWithdraw) || args.Amount.GreaterThan(plan.MaxWithdraw) {
			return domain.ErrWithdrawOutBounds
		}

		if _, debitErr := userRepo.Debit(c, user.ID, args.Amount); debitErr != nil {
			return debitErr //nolint:wrapcheck
		}

		t, createErr := transactionRepo.Create(c,
			repoargs.NewWithdrawal(user.ID, args.Amount, args.DestinationName, args.DestinationPhone))
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}
		created = t
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating withdrawal request: %w", txErr)
	}
	return created, nil
}

// History возвращает журнал операций юзера, самые свежие первыми.
func (w *WalletService) History(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	transactions, err := w.transactionRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching transactions for user %d: %w", userID, err)
	}
	return transactions, nil
}
