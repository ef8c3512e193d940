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

type AffiliateServiceTestSuite struct {
	suite.Suite
	mockCtrl            *gomock.Controller
	mockUOW             *uowmocks.MockUOW
	mockTX              *uowmocks.MockTX
	mockUserRepo        *mocks.MockUserRepository
	mockTransactionRepo *mocks.MockTransactionRepository
	service             *AffiliateService
}

func TestAffiliateServiceSuite(t *testing.T) {
	suite.Run(t, new(AffiliateServiceTestSuite))
}

func (s *AffiliateServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockTransactionRepo = mocks.NewMockTransactionRepository(s.mockCtrl)

	s.service = NewAffiliateService(s.mockUOW)
}

func (s *AffiliateServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTxRepos настраивает выдачу репозиториев из транзакции.
func (s *AffiliateServiceTestSuite) expectTxRepos() {
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

func (s *AffiliateServiceTestSuite) TestSettle() {
	referrerID := int64(7)
	source := domain.User{
		ID:         42,
		ReferrerID: &referrerID,
		InviteCode: "AB12CD34",
	}

	// 333.33 * 10% = 33.333, после округления 33.33.
	amount := decimal.NewFromFloat(333.33)
	percent := decimal.NewFromInt(10)
	wantCommission := decimal.NewFromFloat(33.33)

	s.expectTxRepos()

	s.mockUserRepo.EXPECT().
		CreditCommission(gomock.Any(), referrerID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, commission decimal.Decimal) (*domain.User, error) {
			s.True(wantCommission.Equal(commission))
			return &domain.User{ID: id}, nil
		}).Times(1)

	s.mockTransactionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(referrerID, args.UserID)
			s.Equal(domain.TransactionCommission, args.Type)
			s.Equal(domain.TransactionStatusApproved, args.Status)
			s.True(wantCommission.Equal(args.Amount))
			s.Require().NotNil(args.Commission)
			s.Equal(source.InviteCode, args.Commission.FromUser)
			return &domain.Transaction{ID: 1, UserID: args.UserID, Amount: args.Amount}, nil
		}).Times(1)

	created, err := s.service.Settle(s.T().Context(), SettleArgs{
		Source:  &source,
		Amount:  amount,
		Percent: percent,
	})
	s.Require().NoError(err)
	s.Require().NotNil(created)
	s.True(wantCommission.Equal(created.Amount))
}

func (s *AffiliateServiceTestSuite) TestSettle_NoReferrer() {
	source := domain.User{ID: 42}

	// без пригласившего не должно быть ни транзакции, ни запросов к базе.
	created, err := s.service.Settle(s.T().Context(), SettleArgs{
		Source:  &source,
		Amount:  decimal.NewFromInt(100),
		Percent: decimal.NewFromInt(10),
	})
	s.Require().NoError(err)
	s.Nil(created)
}

func (s *AffiliateServiceTestSuite) TestSettle_ZeroCommission() {
	referrerID := int64(7)
	source := domain.User{ID: 42, ReferrerID: &referrerID}

	cases := []struct {
		name    string
		amount  decimal.Decimal
		percent decimal.Decimal
	}{
		{name: "zero percent", amount: decimal.NewFromInt(100), percent: decimal.Zero},
		{name: "rounds to zero", amount: decimal.NewFromFloat(0.04), percent: decimal.NewFromInt(10)},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			created, err := s.service.Settle(s.T().Context(), SettleArgs{
				Source:  &source,
				Amount:  t.amount,
				Percent: t.percent,
			})
			s.Require().NoError(err)
			s.Nil(created)
		})
	}
}
