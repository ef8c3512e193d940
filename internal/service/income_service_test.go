package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/logger"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/internal/service/mocks"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-invest/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type IncomeServiceTestSuite struct {
	suite.Suite
	mockCtrl            *gomock.Controller
	mockUOW             *uowmocks.MockUOW
	mockTX              *uowmocks.MockTX
	mockUserRepo        *mocks.MockUserRepository
	mockPlanRepo        *mocks.MockPlanRepository
	mockTransactionRepo *mocks.MockTransactionRepository
	mockConfigRepo      *mocks.MockSystemConfigRepository
	service             *IncomeService
}

func TestIncomeServiceSuite(t *testing.T) {
	suite.Run(t, new(IncomeServiceTestSuite))
}

func (s *IncomeServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockPlanRepo = mocks.NewMockPlanRepository(s.mockCtrl)
	s.mockTransactionRepo = mocks.NewMockTransactionRepository(s.mockCtrl)
	s.mockConfigRepo = mocks.NewMockSystemConfigRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.SystemConfigRepoName)).
		Return(s.mockConfigRepo, nil).AnyTimes()

	affiliate := NewAffiliateService(s.mockUOW)

	var err error
	s.service, err = NewIncomeService(s.mockUOW, affiliate, logger.New(os.Stdout))
	s.Require().NoError(err)
}

func (s *IncomeServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *IncomeServiceTestSuite) expectTx() {
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.PlanRepoName)).
		Return(s.mockPlanRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransactionRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).AnyTimes()
}

func (s *IncomeServiceTestSuite) TestCollect() {
	planID := int64(10)
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	user := domain.User{
		ID:                  1,
		IsActive:            true,
		Balance:             decimal.NewFromInt(100),
		PlanID:              &planID,
		LastDailyCollection: &yesterday,
	}
	plan := domain.Plan{ID: planID, DailyIncome: decimal.NewFromInt(15)}
	wantBalance := decimal.NewFromInt(115)

	s.expectTx()

	s.mockUserRepo.EXPECT().
		FindByIDForUpdate(gomock.Any(), user.ID).
		Return(&user, nil).Times(1)
	s.mockPlanRepo.EXPECT().
		FindByID(gomock.Any(), planID).
		Return(&plan, nil).Times(1)
	s.mockUserRepo.EXPECT().
		Credit(gomock.Any(), user.ID, plan.DailyIncome).
		Return(&domain.User{ID: user.ID, Balance: wantBalance}, nil).Times(1)
	s.mockUserRepo.EXPECT().
		SetLastDailyCollection(gomock.Any(), user.ID, gomock.Any()).
		Return(nil).Times(1)
	s.mockTransactionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionDaily, args.Type)
			s.Equal(domain.TransactionStatusApproved, args.Status)
			s.True(plan.DailyIncome.Equal(args.Amount))
			return &domain.Transaction{ID: 1}, nil
		}).Times(1)

	// без пригласившего Settle завершается no-op'ом, но конфиг читается.
	s.mockConfigRepo.EXPECT().
		Get(gomock.Any()).
		Return(&domain.SystemConfig{DailyIncomePercent: decimal.NewFromInt(5)}, nil).Times(1)

	balance, err := s.service.Collect(s.T().Context(), user.ID)
	s.Require().NoError(err)
	s.True(wantBalance.Equal(balance))
}

func (s *IncomeServiceTestSuite) TestCollect_NoActivePlan() {
	user := domain.User{ID: 1, IsActive: true}

	s.expectTx()

	s.mockUserRepo.EXPECT().
		FindByIDForUpdate(gomock.Any(), user.ID).
		Return(&user, nil).Times(1)

	_, err := s.service.Collect(s.T().Context(), user.ID)
	s.Require().ErrorIs(err, domain.ErrNoActivePlan)
}

func (s *IncomeServiceTestSuite) TestCollect_SameDayGate() {
	planID := int64(10)
	today := time.Now().UTC()
	user := domain.User{
		ID:                  1,
		IsActive:            true,
		PlanID:              &planID,
		LastDailyCollection: &today,
	}

	s.expectTx()

	s.mockUserRepo.EXPECT().
		FindByIDForUpdate(gomock.Any(), user.ID).
		Return(&user, nil).Times(1)

	_, err := s.service.Collect(s.T().Context(), user.ID)
	s.Require().ErrorIs(err, domain.ErrAlreadyCollected)
}

func (s *IncomeServiceTestSuite) TestCollect_CommissionForReferrer() {
	planID := int64(10)
	referrerID := int64(7)
	user := domain.User{
		ID:         1,
		IsActive:   true,
		PlanID:     &planID,
		ReferrerID: &referrerID,
		InviteCode: "AB12CD34",
	}
	plan := domain.Plan{ID: planID, DailyIncome: decimal.NewFromInt(20)}
	percent := decimal.NewFromInt(5)

	s.expectTx()

	s.mockUserRepo.EXPECT().
		FindByIDForUpdate(gomock.Any(), user.ID).
		Return(&user, nil).Times(1)
	s.mockPlanRepo.EXPECT().
		FindByID(gomock.Any(), planID).
		Return(&plan, nil).Times(1)
	s.mockUserRepo.EXPECT().
		Credit(gomock.Any(), user.ID, plan.DailyIncome).
		Return(&domain.User{ID: user.ID, Balance: decimal.NewFromInt(20)}, nil).Times(1)
	s.mockUserRepo.EXPECT().
		SetLastDailyCollection(gomock.Any(), user.ID, gomock.Any()).
		Return(nil).Times(1)

	dailyEntry := s.mockTransactionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionDaily, args.Type)
			return &domain.Transaction{ID: 1}, nil
		}).Times(1)

	s.mockConfigRepo.EXPECT().
		Get(gomock.Any()).
		Return(&domain.SystemConfig{DailyIncomePercent: percent}, nil).Times(1)

	// 20 * 5% = 1.00 пригласившему.
	s.mockUserRepo.EXPECT().
		CreditCommission(gomock.Any(), referrerID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64, commission decimal.Decimal) (*domain.User, error) {
			s.True(decimal.NewFromInt(1).Equal(commission))
			return &domain.User{ID: id}, nil
		}).Times(1)
	s.mockTransactionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionCommission, args.Type)
			s.Equal(user.InviteCode, args.Commission.FromUser)
			return &domain.Transaction{ID: 2}, nil
		}).Times(1).After(dailyEntry)

	_, err := s.service.Collect(s.T().Context(), user.ID)
	s.Require().NoError(err)
}

func TestSameUTCDay(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same day",
			a:    time.Date(2025, 3, 1, 0, 10, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "midnight straddle",
			a:    time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 2, 0, 30, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "same instant in different zones",
			a:    time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC),
			b:    time.Date(2025, 3, 2, 1, 30, 0, 0, time.FixedZone("CEST", 2*3600)),
			want: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sameUTCDay(c.a, c.b); got != c.want {
				t.Errorf("sameUTCDay(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}
