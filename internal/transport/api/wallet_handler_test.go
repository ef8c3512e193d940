package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/service/tokens"
	"github.com/fsdevblog/groph-invest/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-invest/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var testJWTSecret = []byte("test-secret")

type WalletHandlerTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockWalletSvs *mocks.MockWalletServicer
	mockIncomeSvs *mocks.MockIncomeServicer
	router        *gin.Engine
}

func TestWalletHandlerSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}

func (s *WalletHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *WalletHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockWalletSvs = mocks.NewMockWalletServicer(s.mockCtrl)
	s.mockIncomeSvs = mocks.NewMockIncomeServicer(s.mockCtrl)

	router, err := New(RouterArgs{
		UserService:   mocks.NewMockUserServicer(s.mockCtrl),
		PlanService:   mocks.NewMockPlanServicer(s.mockCtrl),
		IncomeService: s.mockIncomeSvs,
		WalletService: s.mockWalletSvs,
		AdminService:  mocks.NewMockAdminServicer(s.mockCtrl),
		ConfigService: mocks.NewMockConfigServicer(s.mockCtrl),
		JWTSecretKey:  testJWTSecret,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *WalletHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *WalletHandlerTestSuite) authToken(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, domain.RoleUser, time.Hour, testJWTSecret)
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *WalletHandlerTestSuite) makeRequest(method, url, body, authHeader string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	opts := []func(*testutils.RequestOptions){
		testutils.WithHeader("Content-Type", "application/json"),
	}
	if authHeader != "" {
		opts = append(opts, testutils.WithHeader("Authorization", authHeader))
	}

	resp, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
		Body:   reader,
	}, opts...)
	s.Require().NoError(err)
	return resp
}

func (s *WalletHandlerTestSuite) TestWithdraw() {
	userID := int64(1)
	body := `{"amount": 200, "destinationName": "John Doe", "destinationPhone": "712345678"}`

	s.mockWalletSvs.EXPECT().
		Withdraw(gomock.Any(), userID, gomock.Any()).
		Return(&domain.Transaction{
			ID:     7,
			UserID: userID,
			Type:   domain.TransactionWithdrawal,
			Amount: decimal.NewFromInt(200),
			Status: domain.TransactionStatusPending,
		}, nil).Times(1)

	resp := s.makeRequest(http.MethodPost, RouteGroup+WithdrawRoute, body, s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var payload struct {
		Transaction TransactionResponse `json:"transaction"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&payload))
	s.Equal(int64(7), payload.Transaction.ID)
	s.Equal(string(domain.TransactionStatusPending), payload.Transaction.Status)
}

func (s *WalletHandlerTestSuite) TestWithdraw_NotEnoughBalance() {
	userID := int64(1)
	body := `{"amount": 200, "destinationName": "John Doe", "destinationPhone": "712345678"}`

	s.mockWalletSvs.EXPECT().
		Withdraw(gomock.Any(), userID, gomock.Any()).
		Return(nil, domain.ErrNotEnoughBalance).Times(1)

	resp := s.makeRequest(http.MethodPost, RouteGroup+WithdrawRoute, body, s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusPaymentRequired, resp.StatusCode)
}

func (s *WalletHandlerTestSuite) TestWithdraw_OutOfBounds() {
	userID := int64(1)
	body := `{"amount": 5, "destinationName": "John Doe", "destinationPhone": "712345678"}`

	s.mockWalletSvs.EXPECT().
		Withdraw(gomock.Any(), userID, gomock.Any()).
		Return(nil, domain.ErrWithdrawOutBounds).Times(1)

	resp := s.makeRequest(http.MethodPost, RouteGroup+WithdrawRoute, body, s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *WalletHandlerTestSuite) TestWithdraw_BadPhone() {
	// destinationPhone не проходит кастомный валидатор phone.
	body := `{"amount": 200, "destinationName": "John Doe", "destinationPhone": "+1-555"}`

	resp := s.makeRequest(http.MethodPost, RouteGroup+WithdrawRoute, body, s.authToken(1))
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *WalletHandlerTestSuite) TestWithdraw_Unauthorized() {
	body := `{"amount": 200, "destinationName": "John Doe", "destinationPhone": "712345678"}`

	resp := s.makeRequest(http.MethodPost, RouteGroup+WithdrawRoute, body, "")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *WalletHandlerTestSuite) TestDeposit() {
	userID := int64(2)
	body := `{"amount": 500, "proofImage": "uploads/receipt.jpg", "senderPhone": "712345678"}`

	s.mockWalletSvs.EXPECT().
		Deposit(gomock.Any(), userID, gomock.Any()).
		Return(&domain.Transaction{
			ID:     42,
			UserID: userID,
			Type:   domain.TransactionDeposit,
			Amount: decimal.NewFromInt(500),
			Status: domain.TransactionStatusPending,
		}, nil).Times(1)

	resp := s.makeRequest(http.MethodPost, RouteGroup+DepositRoute, body, s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *WalletHandlerTestSuite) TestDaily() {
	userID := int64(3)

	s.mockIncomeSvs.EXPECT().
		Collect(gomock.Any(), userID).
		Return(decimal.NewFromFloat(115.5), nil).Times(1)

	resp := s.makeRequest(http.MethodPost, RouteGroup+DailyRoute, "", s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var payload struct {
		Balance float64 `json:"balance"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&payload))
	s.InDelta(115.5, payload.Balance, 0.001)
}

func (s *WalletHandlerTestSuite) TestDaily_AlreadyCollected() {
	userID := int64(3)

	s.mockIncomeSvs.EXPECT().
		Collect(gomock.Any(), userID).
		Return(decimal.Zero, domain.ErrAlreadyCollected).Times(1)

	resp := s.makeRequest(http.MethodPost, RouteGroup+DailyRoute, "", s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *WalletHandlerTestSuite) TestDaily_NoActivePlan() {
	userID := int64(3)

	s.mockIncomeSvs.EXPECT().
		Collect(gomock.Any(), userID).
		Return(decimal.Zero, domain.ErrNoActivePlan).Times(1)

	resp := s.makeRequest(http.MethodPost, RouteGroup+DailyRoute, "", s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *WalletHandlerTestSuite) TestHistory() {
	userID := int64(4)

	s.mockWalletSvs.EXPECT().
		History(gomock.Any(), userID).
		Return([]domain.Transaction{
			{ID: 2, UserID: userID, Type: domain.TransactionDaily, Status: domain.TransactionStatusApproved},
			{ID: 1, UserID: userID, Type: domain.TransactionBonus, Status: domain.TransactionStatusApproved},
		}, nil).Times(1)

	resp := s.makeRequest(http.MethodGet, RouteGroup+HistoryRoute, "", s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var payload []TransactionResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&payload))
	s.Require().Len(payload, 2)
	s.Equal(int64(2), payload[0].ID)
}

func (s *WalletHandlerTestSuite) TestHistory_Empty() {
	userID := int64(4)

	s.mockWalletSvs.EXPECT().
		History(gomock.Any(), userID).
		Return(nil, nil).Times(1)

	resp := s.makeRequest(http.MethodGet, RouteGroup+HistoryRoute, "", s.authToken(userID))
	defer resp.Body.Close()

	s.Equal(http.StatusNoContent, resp.StatusCode)
}
