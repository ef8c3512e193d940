package api

import (
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
)

type UserResponse struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	Role                string     `json:"role"`
	IsActive            bool       `json:"isActive"`
	Balance             float64    `json:"balance"`
	PlanID              *int64     `json:"planId"`
	PlanStartDate       *time.Time `json:"planStartDate"`
	LastDailyCollection *time.Time `json:"lastDailyCollection"`
	TotalCommission     float64    `json:"totalCommission"`
	HasInvested         bool       `json:"hasInvested"`
	InviteCode          string     `json:"inviteCode"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Phone:               u.Phone,
		Role:                string(u.Role),
		IsActive:            u.IsActive,
		Balance:             u.Balance.InexactFloat64(),
		PlanID:              u.PlanID,
		PlanStartDate:       u.PlanStartDate,
		LastDailyCollection: u.LastDailyCollection,
		TotalCommission:     u.TotalCommission.InexactFloat64(),
		HasInvested:         u.HasInvested,
		InviteCode:          u.InviteCode,
		CreatedAt:           u.CreatedAt,
	}
}

type PlanResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DailyIncome  float64 `json:"dailyIncome"`
	ValidityDays int32   `json:"validityDays"`
	ImageURL     string  `json:"imageUrl"`
	MinWithdraw  float64 `json:"minWithdraw"`
	MaxWithdraw  float64 `json:"maxWithdraw"`
	IsActive     bool    `json:"isActive"`
}

func newPlanResponse(p *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price.InexactFloat64(),
		DailyIncome:  p.DailyIncome.InexactFloat64(),
		ValidityDays: p.ValidityDays,
		ImageURL:     p.ImageURL,
		MinWithdraw:  p.MinWithdraw.InexactFloat64(),
		MaxWithdraw:  p.MaxWithdraw.InexactFloat64(),
		IsActive:     p.IsActive,
	}
}

// TransactionResponse детали конкретного типа записи отдаются плоскими полями
// с omitempty, фронту не приходится разбирать вложенные варианты.
type TransactionResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"userId"`
	Type             string    `json:"type"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	AdminComment     string    `json:"adminComment,omitempty"`
	ProofImage       string    `json:"proofImage,omitempty"`
	SenderPhone      string    `json:"senderPhone,omitempty"`
	DestinationName  string    `json:"destinationName,omitempty"`
	DestinationPhone string    `json:"destinationPhone,omitempty"`
	FromUser         string    `json:"fromUser,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func newTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		Type:         string(t.Type),
		Amount:       t.Amount.InexactFloat64(),
		Status:       string(t.Status),
		AdminComment: t.AdminComment,
		CreatedAt:    t.CreatedAt,
	}
	switch {
	case t.Deposit != nil:
		resp.ProofImage = t.Deposit.ProofImage
		resp.SenderPhone = t.Deposit.SenderPhone
	case t.Withdrawal != nil:
		resp.DestinationName = t.Withdrawal.DestinationName
		resp.DestinationPhone = t.Withdrawal.DestinationPhone
	case t.Commission != nil:
		resp.FromUser = t.Commission.FromUser
	}
	return resp
}

func newTransactionResponses(transactions []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = newTransactionResponse(&transactions[i])
	}
	return responses
}
