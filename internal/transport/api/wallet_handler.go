package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletSvs WalletServicer
	incomeSvs IncomeServicer
}

func NewWalletHandler(walletSvs WalletServicer, incomeSvs IncomeServicer) *WalletHandler {
	return &WalletHandler{
		walletSvs: walletSvs,
		incomeSvs: incomeSvs,
	}
}

type DepositParams struct {
	Amount      decimal.Decimal `binding:"required"       json:"amount"`
	ProofImage  string          `binding:"required"       json:"proofImage"`
	SenderPhone string          `binding:"required,phone" json:"senderPhone"`
}

// Deposit POST RouteGroup + DepositRoute. Создает pending-заявку на пополнение,
// баланс меняется только после одобрения админом.
func (w *WalletHandler) Deposit(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params DepositParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := w.walletSvs.Deposit(reqCtx, currentUserID, service.DepositArgs{
		Amount:      params.Amount,
		ProofImage:  params.ProofImage,
		SenderPhone: params.SenderPhone,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingProof),
			errors.Is(err, domain.ErrMissingSender),
			errors.Is(err, domain.ErrInvalidAmount):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrAccountInactive):
			_ = c.AbortWithError(http.StatusForbidden, errors.New("account is blocked")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": newTransactionResponse(transaction)})
}

type WithdrawParams struct {
	Amount           decimal.Decimal `binding:"required"       json:"amount"`
	DestinationName  string          `binding:"required"       json:"destinationName"`
	DestinationPhone string          `binding:"required,phone" json:"destinationPhone"`
}

// Withdraw POST RouteGroup + WithdrawRoute. Создает заявку на вывод, сумма списывается
// с баланса сразу.
func (w *WalletHandler) Withdraw(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params WithdrawParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transaction, err := w.walletSvs.Withdraw(reqCtx, currentUserID, service.WithdrawArgs{
		Amount:           params.Amount,
		DestinationName:  params.DestinationName,
		DestinationPhone: params.DestinationPhone,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEnoughBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		case errors.Is(err, domain.ErrNoActivePlan), errors.Is(err, domain.ErrWithdrawOutBounds):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrAccountInactive):
			_ = c.AbortWithError(http.StatusForbidden, errors.New("account is blocked")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": newTransactionResponse(transaction)})
}

// Daily POST RouteGroup + DailyRoute. Сбор дневного дохода по плану, раз в календарные
// сутки UTC.
func (w *WalletHandler) Daily(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := w.incomeSvs.Collect(reqCtx, currentUserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoActivePlan):
			_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrAlreadyCollected):
			_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePublic)
		case errors.Is(err, domain.ErrAccountInactive):
			_ = c.AbortWithError(http.StatusForbidden, errors.New("account is blocked")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance.InexactFloat64()})
}

// History GET RouteGroup + HistoryRoute. Журнал операций юзера, свежие первыми.
func (w *WalletHandler) History(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := w.walletSvs.History(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(transactions) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, newTransactionResponses(transactions))
}
