package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	Profile(ctx context.Context, userID int64) (*service.UserProfile, error)
}

type PlanServicer interface {
	List(ctx context.Context, onlyActive bool) ([]domain.Plan, error)
	Acquire(ctx context.Context, userID, planID int64) (*domain.User, error)
	Create(ctx context.Context, args repoargs.CreatePlan) (*domain.Plan, error)
	Update(ctx context.Context, id int64, args repoargs.UpdatePlan) (*domain.Plan, error)
	Delete(ctx context.Context, id int64) error
}

type IncomeServicer interface {
	Collect(ctx context.Context, userID int64) (decimal.Decimal, error)
}

type WalletServicer interface {
	Deposit(ctx context.Context, userID int64, args service.DepositArgs) (*domain.Transaction, error)
	Withdraw(ctx context.Context, userID int64, args service.WithdrawArgs) (*domain.Transaction, error)
	History(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

type AdminServicer interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UserDetails(ctx context.Context, userID int64) (*service.UserDetails, error)
	UpdateUser(ctx context.Context, userID int64, args service.AdminUpdateUserArgs) (*domain.User, error)
	ListPendingTransactions(ctx context.Context, typeFilter *domain.TransactionType) ([]domain.Transaction, error)
	ReviewTransaction(ctx context.Context, args service.ReviewArgs) (*domain.Transaction, error)
}

type ConfigServicer interface {
	Get(ctx context.Context) (*domain.SystemConfig, error)
	Update(ctx context.Context, args service.UpdateConfigArgs) (*domain.SystemConfig, error)
}
