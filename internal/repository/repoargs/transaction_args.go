package repoargs

import (
	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionCreate собирается исключительно конструкторами ниже: каждый тип записи
// несет только свой набор деталей, невалидные комбинации полей собрать нельзя.
type TransactionCreate struct {
	UserID       int64
	Type         domain.TransactionType
	Amount       decimal.Decimal
	Status       domain.TransactionStatusType
	AdminComment string
	Deposit      *domain.DepositDetails
	Withdrawal   *domain.WithdrawalDetails
	Commission   *domain.CommissionDetails
}

// NewDeposit заявка на депозит. Создается в статусе pending, баланс не трогает.
func NewDeposit(userID int64, amount decimal.Decimal, proofImage, senderPhone string) TransactionCreate {
	return TransactionCreate{
		UserID: userID,
		Type:   domain.TransactionDeposit,
		Amount: amount,
		Status: domain.TransactionStatusPending,
		Deposit: &domain.DepositDetails{
			ProofImage:  proofImage,
			SenderPhone: senderPhone,
		},
	}
}

// NewWithdrawal заявка на вывод. Средства уже списаны на момент создания записи.
func NewWithdrawal(userID int64, amount decimal.Decimal, destName, destPhone string) TransactionCreate {
	return TransactionCreate{
		UserID: userID,
		Type:   domain.TransactionWithdrawal,
		Amount: amount,
		Status: domain.TransactionStatusPending,
		Withdrawal: &domain.WithdrawalDetails{
			DestinationName:  destName,
			DestinationPhone: destPhone,
		},
	}
}

// NewBonus системная запись, создается сразу одобренной.
func NewBonus(userID int64, amount decimal.Decimal, comment string) TransactionCreate {
	return TransactionCreate{
		UserID:       userID,
		Type:         domain.TransactionBonus,
		Amount:       amount,
		Status:       domain.TransactionStatusApproved,
		AdminComment: comment,
	}
}

// NewDaily системная запись о сборе дневного дохода, создается сразу одобренной.
func NewDaily(userID int64, amount decimal.Decimal) TransactionCreate {
	return TransactionCreate{
		UserID: userID,
		Type:   domain.TransactionDaily,
		Amount: amount,
		Status: domain.TransactionStatusApproved,
	}
}

// NewCommission запись о реферальной комиссии. fromUser - инвайт-код юзера-источника.
func NewCommission(userID int64, amount decimal.Decimal, fromUser string) TransactionCreate {
	return TransactionCreate{
		UserID: userID,
		Type:   domain.TransactionCommission,
		Amount: amount,
		Status: domain.TransactionStatusApproved,
		Commission: &domain.CommissionDetails{
			FromUser: fromUser,
		},
	}
}

type TransactionSetStatus struct {
	ID           int64
	Status       domain.TransactionStatusType
	AdminComment string
}
