package service

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByInviteCode(ctx context.Context, code string) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByReferrerID(ctx context.Context, referrerID int64) ([]domain.User, error)
	Credit(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
	Debit(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
	CreditCommission(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error)
	SetPlan(ctx context.Context, args repoargs.SetUserPlan) (*domain.User, error)
	SetLastDailyCollection(ctx context.Context, id int64, at time.Time) error
	AdminUpdate(ctx context.Context, id int64, args repoargs.AdminUpdateUser) (*domain.User, error)
	PromoteToAdmin(ctx context.Context, id int64) error
}

type PlanRepository interface {
	Create(ctx context.Context, args repoargs.CreatePlan) (*domain.Plan, error)
	Update(ctx context.Context, id int64, args repoargs.UpdatePlan) (*domain.Plan, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Plan, error)
	GetAll(ctx context.Context, onlyActive bool) ([]domain.Plan, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error)
	FindByID(ctx context.Context, id int64) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)
	GetPending(ctx context.Context, typeFilter *domain.TransactionType) ([]domain.Transaction, error)
	SetStatus(ctx context.Context, args repoargs.TransactionSetStatus) (*domain.Transaction, error)
}

type SystemConfigRepository interface {
	Get(ctx context.Context) (*domain.SystemConfig, error)
	Ensure(ctx context.Context) (*domain.SystemConfig, error)
	Update(ctx context.Context, args repoargs.UpdateSystemConfig) (*domain.SystemConfig, error)
}
