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

type AdminService struct {
	uow             uow.UOW
	userRepo        UserRepository
	transactionRepo TransactionRepository
	psswd           PasswordHasher
}

func NewAdminService(u uow.UOW, psswd PasswordHasher) (*AdminService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	transactionRepo, transactionRepoErr :=
		uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if transactionRepoErr != nil {
		return nil, transactionRepoErr
	}
	return &AdminService{
		uow:             u,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		psswd:           psswd,
	}, nil
}

func (a *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := a.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UserDetails карточка юзера для админки: сам юзер, его журнал операций и приглашенные им.
type UserDetails struct {
	User         *domain.User
	Transactions []domain.Transaction
	Referrals    []domain.User
}

func (a *AdminService) UserDetails(ctx context.Context, userID int64) (*UserDetails, error) {
	user, userErr := a.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("fetching user %d: %w", userID, userErr)
	}
	transactions, transErr := a.transactionRepo.GetByUserID(ctx, userID)
	if transErr != nil {
		return nil, fmt.Errorf("fetching transactions for user %d: %w", userID, transErr)
	}
	referrals, refErr := a.userRepo.GetByReferrerID(ctx, userID)
	if refErr != nil {
		return nil, fmt.Errorf("fetching referrals of user %d: %w", userID, refErr)
	}
	return &UserDetails{
		User:         user,
		Transactions: transactions,
		Referrals:    referrals,
	}, nil
}

type AdminUpdateUserArgs struct {
	Balance  *decimal.Decimal
	IsActive *bool
	PlanID   *int64
	Password *string
}

// UpdateUser точечная правка юзера админом, nil-поля не трогаются. Пароль хешируется
// здесь, отрицательный баланс отклоняется до запроса к базе.
func (a *AdminService) UpdateUser(ctx context.Context, userID int64, args AdminUpdateUserArgs) (*domain.User, error) {
	if args.Balance != nil && args.Balance.IsNegative() {
		return nil, domain.ErrNegativeBalance
	}

	repoArgs := repoargs.AdminUpdateUser{
		Balance:  args.Balance,
		IsActive: args.IsActive,
		PlanID:   args.PlanID,
	}
	if args.Password != nil {
		hash, hashErr := a.psswd.HashPassword(*args.Password)
		if hashErr != nil {
			return nil, fmt.Errorf("hashing password: %w", hashErr)
		}
		repoArgs.Password = &hash
	}

	user, updErr := a.userRepo.AdminUpdate(ctx, userID, repoArgs)
	if updErr != nil {
		return nil, fmt.Errorf("updating user %d: %w", userID, updErr)
	}
	return user, nil
}

// ListPendingTransactions заявки в статусе pending, старые первыми. typeFilter nil - все типы.
func (a *AdminService) ListPendingTransactions(
	ctx context.Context,
	typeFilter *domain.TransactionType,
) ([]domain.Transaction, error) {
	transactions, err := a.transactionRepo.GetPending(ctx, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("listing pending transactions: %w", err)
	}
	return transactions, nil
}

type ReviewArgs struct {
	TransactionID int64
	Approve       bool
	AdminComment  string
}

// ReviewTransaction решение админа по pending-заявке. Статусы approved/rejected
// терминальные: повторное решение - domain.ErrAlreadyProcessed. Алгоритм работы:
//  1. Переводит заявку в новый статус. UPDATE защищен условием status = 'pending',
//     гонка двух админов разрешается в пользу первого.
//  2. Одобренный депозит кредитует баланс юзера, отклоненный вывод возвращает
//     списанную при заявке сумму. Остальные комбинации баланс не трогают.
//
// Смена статуса и движение средств происходят в одной транзакции.
func (a *AdminService) ReviewTransaction(ctx context.Context, args ReviewArgs) (*domain.Transaction, error) {
	status := domain.TransactionStatusRejected
	if args.Approve {
		status = domain.TransactionStatusApproved
	}

	var reviewed *domain.Transaction

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

		t, setErr := transactionRepo.SetStatus(c, repoargs.TransactionSetStatus{
			ID:           args.TransactionID,
			Status:       status,
			AdminComment: args.AdminComment,
		})
		if setErr != nil {
			return setErr //nolint:wrapcheck
		}

		switch {
		case t.Type == domain.TransactionDeposit && status == domain.TransactionStatusApproved:
			if _, creditErr := userRepo.Credit(c, t.UserID, t.Amount); creditErr != nil {
				return creditErr //nolint:wrapcheck
			}
		case t.Type == domain.TransactionWithdrawal && status == domain.TransactionStatusRejected:
			if _, refundErr := userRepo.Credit(c, t.UserID, t.Amount); refundErr != nil {
				return refundErr //nolint:wrapcheck
			}
		}

		reviewed = t
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("reviewing transaction %d: %w", args.TransactionID, txErr)
	}

	metrics.IncTransactionReviewed(string(reviewed.Type), string(status))
	return reviewed, nil
}
