package domain

type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionBonus      TransactionType = "bonus"
	TransactionDaily      TransactionType = "daily"
	TransactionCommission TransactionType = "commission"
)

type TransactionStatusType string

const (
	TransactionStatusPending  TransactionStatusType = "pending"
	TransactionStatusApproved TransactionStatusType = "approved"
	TransactionStatusRejected TransactionStatusType = "rejected"
)
