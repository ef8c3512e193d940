package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/internal/service/mocks"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-invest/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AdminServiceTestSuite struct {
	suite.Suite
	mockCtrl            *gomock.Controller
	mockUOW             *uowmocks.MockUOW
	mockTX              *uowmocks.MockTX
	mockUserRepo        *mocks.MockUserRepository
	mockTransactionRepo *mocks.MockTransactionRepository
	mockHasher          *mocks.MockPasswordHasher
	service             *AdminService
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}

func (s *AdminServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockTransactionRepo = mocks.NewMockTransactionRepository(s.mockCtrl)
	s.mockHasher = mocks.NewMockPasswordHasher(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransactionRepo, nil).AnyTimes()

	var err error
	s.service, err = NewAdminService(s.mockUOW, s.mockHasher)
	s.Require().NoError(err)
}

func (s *AdminServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *AdminServiceTestSuite) expectTx() {
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransactionRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).AnyTimes()
}

func (s *AdminServiceTestSuite) TestReviewTransaction_ApproveDeposit() {
	pending := domain.Transaction{
		ID:     10,
		UserID: 1,
		Type:   domain.TransactionDeposit,
		Amount: decimal.NewFromInt(300),
		Status: domain.TransactionStatusApproved,
	}

	s.expectTx()

	s.mockTransactionRepo.EXPECT().
		SetStatus(gomock.Any(), repoargs.TransactionSetStatus{
			ID:     pending.ID,
			Status: domain.TransactionStatusApproved,
		}).
		Return(&pending, nil).Times(1)
	s.mockUserRepo.EXPECT().
		Credit(gomock.Any(), pending.UserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
			s.True(pending.Amount.Equal(amount))
			return &domain.User{ID: id}, nil
		}).Times(1)

	reviewed, err := s.service.ReviewTransaction(s.T().Context(), ReviewArgs{
		TransactionID: pending.ID,
		Approve:       true,
	})
	s.Require().NoError(err)
	s.Equal(pending.ID, reviewed.ID)
}

func (s *AdminServiceTestSuite) TestReviewTransaction_RejectWithdrawalRefunds() {
	pending := domain.Transaction{
		ID:     11,
		UserID: 2,
		Type:   domain.TransactionWithdrawal,
		Amount: decimal.NewFromInt(150),
		Status: domain.TransactionStatusRejected,
	}

	s.expectTx()

	s.mockTransactionRepo.EXPECT().
		SetStatus(gomock.Any(), repoargs.TransactionSetStatus{
			ID:           pending.ID,
			Status:       domain.TransactionStatusRejected,
			AdminComment: "bad destination",
		}).
		Return(&pending, nil).Times(1)
	// Списанные при заявке средства возвращаются.
	s.mockUserRepo.EXPECT().
		Credit(gomock.Any(), pending.UserID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
			s.True(pending.Amount.Equal(amount))
			return &domain.User{ID: id}, nil
		}).Times(1)

	_, err := s.service.ReviewTransaction(s.T().Context(), ReviewArgs{
		TransactionID: pending.ID,
		Approve:       false,
		AdminComment:  "bad destination",
	})
	s.Require().NoError(err)
}

func (s *AdminServiceTestSuite) TestReviewTransaction_RejectDepositKeepsBalance() {
	pending := domain.Transaction{
		ID:     12,
		UserID: 3,
		Type:   domain.TransactionDeposit,
		Amount: decimal.NewFromInt(300),
		Status: domain.TransactionStatusRejected,
	}

	s.expectTx()

	// Баланс не менялся при заявке - возвращать нечего, Credit не зовется.
	s.mockTransactionRepo.EXPECT().
		SetStatus(gomock.Any(), gomock.Any()).
		Return(&pending, nil).Times(1)

	_, err := s.service.ReviewTransaction(s.T().Context(), ReviewArgs{
		TransactionID: pending.ID,
		Approve:       false,
	})
	s.Require().NoError(err)
}

func (s *AdminServiceTestSuite) TestReviewTransaction_ApproveWithdrawalKeepsBalance() {
	pending := domain.Transaction{
		ID:     13,
		UserID: 4,
		Type:   domain.TransactionWithdrawal,
		Amount: decimal.NewFromInt(150),
		Status: domain.TransactionStatusApproved,
	}

	s.expectTx()

	// Средства списаны еще при создании заявки.
	s.mockTransactionRepo.EXPECT().
		SetStatus(gomock.Any(), gomock.Any()).
		Return(&pending, nil).Times(1)

	_, err := s.service.ReviewTransaction(s.T().Context(), ReviewArgs{
		TransactionID: pending.ID,
		Approve:       true,
	})
	s.Require().NoError(err)
}

func (s *AdminServiceTestSuite) TestReviewTransaction_AlreadyProcessed() {
	s.expectTx()

	s.mockTransactionRepo.EXPECT().
		SetStatus(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrAlreadyProcessed).Times(1)

	_, err := s.service.ReviewTransaction(s.T().Context(), ReviewArgs{
		TransactionID: 99,
		Approve:       true,
	})
	s.Require().ErrorIs(err, domain.ErrAlreadyProcessed)
}

func (s *AdminServiceTestSuite) TestUpdateUser() {
	userID := int64(5)
	balance := decimal.NewFromInt(777)
	isActive := false
	password := "new-secret"
	hash := "$2a$10$fakehash"

	s.mockHasher.EXPECT().
		HashPassword(password).
		Return(hash, nil).Times(1)
	s.mockUserRepo.EXPECT().
		AdminUpdate(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, args repoargs.AdminUpdateUser) (*domain.User, error) {
			s.Require().NotNil(args.Balance)
			s.True(balance.Equal(*args.Balance))
			s.Require().NotNil(args.IsActive)
			s.False(*args.IsActive)
			s.Require().NotNil(args.Password)
			s.Equal(hash, *args.Password)
			s.Nil(args.PlanID)
			return &domain.User{ID: id, Balance: balance, IsActive: isActive}, nil
		}).Times(1)

	user, err := s.service.UpdateUser(s.T().Context(), userID, AdminUpdateUserArgs{
		Balance:  &balance,
		IsActive: &isActive,
		Password: &password,
	})
	s.Require().NoError(err)
	s.True(balance.Equal(user.Balance))
}

func (s *AdminServiceTestSuite) TestUpdateUser_NegativeBalance() {
	negative := decimal.NewFromInt(-1)

	// До базы дело не доходит.
	_, err := s.service.UpdateUser(s.T().Context(), 5, AdminUpdateUserArgs{Balance: &negative})
	s.Require().ErrorIs(err, domain.ErrNegativeBalance)
}

func (s *AdminServiceTestSuite) TestUserDetails() {
	userID := int64(6)
	user := domain.User{ID: userID, Name: "Alice"}
	transactions := []domain.Transaction{{ID: 1, UserID: userID}}
	referrals := []domain.User{{ID: 7}, {ID: 8}}

	s.mockUserRepo.EXPECT().
		FindByID(gomock.Any(), userID).
		Return(&user, nil).Times(1)
	s.mockTransactionRepo.EXPECT().
		GetByUserID(gomock.Any(), userID).
		Return(transactions, nil).Times(1)
	s.mockUserRepo.EXPECT().
		GetByReferrerID(gomock.Any(), userID).
		Return(referrals, nil).Times(1)

	details, err := s.service.UserDetails(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Equal(&user, details.User)
	s.Equal(transactions, details.Transactions)
	s.Len(details.Referrals, 2)
}

func (s *AdminServiceTestSuite) TestListPendingTransactions_TypeFilter() {
	depositType := domain.TransactionDeposit
	pending := []domain.Transaction{{ID: 1, Type: depositType}}

	s.mockTransactionRepo.EXPECT().
		GetPending(gomock.Any(), &depositType).
		Return(pending, nil).Times(1)

	got, err := s.service.ListPendingTransactions(s.T().Context(), &depositType)
	s.Require().NoError(err)
	s.Equal(pending, got)
}
