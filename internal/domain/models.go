package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                  int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Name                string
	Phone               string
	Password            string
	Role                RoleType
	IsActive            bool
	Balance             decimal.Decimal
	PlanID              *int64
	PlanStartDate       *time.Time
	LastDailyCollection *time.Time
	ReferrerID          *int64
	TotalCommission     decimal.Decimal
	HasInvested         bool
	InviteCode          string
}

type Plan struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Name         string
	Price        decimal.Decimal
	DailyIncome  decimal.Decimal
	ValidityDays int32
	ImageURL     string
	MinWithdraw  decimal.Decimal
	MaxWithdraw  decimal.Decimal
	IsActive     bool
}

// Transaction запись журнала операций. Поля Deposit, Withdrawal и Commission взаимоисключающие:
// заполняется максимум одно, в зависимости от Type (см. конструкторы в repoargs).
type Transaction struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       int64
	Type         TransactionType
	Amount       decimal.Decimal
	Status       TransactionStatusType
	AdminComment string
	Deposit      *DepositDetails
	Withdrawal   *WithdrawalDetails
	Commission   *CommissionDetails
}

type DepositDetails struct {
	ProofImage  string
	SenderPhone string
}

type WithdrawalDetails struct {
	DestinationName  string
	DestinationPhone string
}

// CommissionDetails FromUser хранит инвайт-код юзера, чье действие породило комиссию.
type CommissionDetails struct {
	FromUser string
}

type DepositAccount struct {
	Network   string `json:"network"`
	Number    string `json:"number"`
	OwnerName string `json:"ownerName"`
}

// SystemConfig singleton-запись. Создается с дефолтами один раз на старте приложения.
type SystemConfig struct {
	ID                     int64
	UpdatedAt              time.Time
	WelcomeBonus           decimal.Decimal
	FirstInvestmentPercent decimal.Decimal
	DailyIncomePercent     decimal.Decimal
	DepositAccounts        []DepositAccount
}
