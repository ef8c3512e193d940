package service

import (
	"context"
	"testing"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/internal/service/mocks"
	"github.com/fsdevblog/groph-invest/internal/service/tokens"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-invest/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl            *gomock.Controller
	mockUOW             *uowmocks.MockUOW
	mockTX              *uowmocks.MockTX
	mockUserRepo        *mocks.MockUserRepository
	mockPlanRepo        *mocks.MockPlanRepository
	mockTransactionRepo *mocks.MockTransactionRepository
	mockConfigRepo      *mocks.MockSystemConfigRepository
	mockHasher          *mocks.MockPasswordHasher
	service             *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockPlanRepo = mocks.NewMockPlanRepository(s.mockCtrl)
	s.mockTransactionRepo = mocks.NewMockTransactionRepository(s.mockCtrl)
	s.mockConfigRepo = mocks.NewMockSystemConfigRepository(s.mockCtrl)
	s.mockHasher = mocks.NewMockPasswordHasher(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.PlanRepoName)).
		Return(s.mockPlanRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.SystemConfigRepoName)).
		Return(s.mockConfigRepo, nil).AnyTimes()

	var err error
	s.service, err = NewUserService(s.mockUOW, []byte("super secret key"), s.mockHasher)
	s.Require().NoError(err)
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) expectTx() {
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

func (s *UserServiceTestSuite) TestRegister() {
	bonus := decimal.NewFromInt(50)
	referrer := domain.User{ID: 7, InviteCode: "REF12345"}

	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), "912345678").
		Return(nil, domain.ErrRecordNotFound).Times(1)
	s.mockHasher.EXPECT().
		HashPassword("password1").
		Return("$2a$hashed", nil).Times(1)
	s.mockConfigRepo.EXPECT().
		Get(gomock.Any()).
		Return(&domain.SystemConfig{WelcomeBonus: bonus}, nil).Times(1)
	s.mockUserRepo.EXPECT().
		FindByInviteCode(gomock.Any(), referrer.InviteCode).
		Return(&referrer, nil).Times(1)

	s.expectTx()

	s.mockUserRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Equal("alice", args.Name)
			s.Equal("912345678", args.Phone)
			s.Equal("$2a$hashed", args.Password)
			s.Equal(domain.RoleUser, args.Role)
			s.True(bonus.Equal(args.Balance))
			s.Require().NotNil(args.ReferrerID)
			s.Equal(referrer.ID, *args.ReferrerID)
			s.NotEmpty(args.InviteCode)
			return &domain.User{
				ID:         1,
				Name:       args.Name,
				Phone:      args.Phone,
				Role:       args.Role,
				IsActive:   true,
				Balance:    args.Balance,
				ReferrerID: args.ReferrerID,
				InviteCode: args.InviteCode,
			}, nil
		}).Times(1)

	// приветственный бонус фиксируется approved-записью типа bonus.
	s.mockTransactionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.TransactionCreate) (*domain.Transaction, error) {
			s.Equal(domain.TransactionBonus, args.Type)
			s.Equal(domain.TransactionStatusApproved, args.Status)
			s.True(bonus.Equal(args.Amount))
			return &domain.Transaction{ID: 1}, nil
		}).Times(1)

	user, token, err := s.service.Register(s.T().Context(), RegisterUserArgs{
		Name:         "alice",
		Phone:        "912345678",
		Password:     "password1",
		ReferralCode: referrer.InviteCode,
	})
	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.True(bonus.Equal(user.Balance))

	// токен выписан на созданного юзера и подписан ключом сервиса.
	parsed, parseErr := tokens.ValidateUserJWT(token, []byte("super secret key"))
	s.Require().NoError(parseErr)
	claims, ok := parsed.Claims.(*tokens.UserClaims)
	s.Require().True(ok)
	s.Equal(user.ID, claims.ID)
	s.Equal(domain.RoleUser, claims.Role)
}

func (s *UserServiceTestSuite) TestRegister_UnknownReferralCode() {
	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), "912345678").
		Return(nil, domain.ErrRecordNotFound).Times(1)
	s.mockHasher.EXPECT().HashPassword(gomock.Any()).Return("$2a$hashed", nil).Times(1)
	s.mockConfigRepo.EXPECT().
		Get(gomock.Any()).
		Return(&domain.SystemConfig{WelcomeBonus: decimal.Zero}, nil).Times(1)
	// неизвестный код молча игнорируется.
	s.mockUserRepo.EXPECT().
		FindByInviteCode(gomock.Any(), "NOPE0000").
		Return(nil, domain.ErrRecordNotFound).Times(1)

	s.expectTx()

	s.mockUserRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Nil(args.ReferrerID)
			s.True(args.Balance.IsZero())
			return &domain.User{ID: 1, InviteCode: args.InviteCode}, nil
		}).Times(1)
	// нулевой бонус записи в журнале не порождает.

	_, token, err := s.service.Register(s.T().Context(), RegisterUserArgs{
		Name:         "bob",
		Phone:        "912345678",
		Password:     "password1",
		ReferralCode: "NOPE0000",
	})
	s.Require().NoError(err)
	s.NotEmpty(token)
}

func (s *UserServiceTestSuite) TestRegister_DuplicatePhone() {
	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), "912345678").
		Return(&domain.User{ID: 1}, nil).Times(1)

	_, _, err := s.service.Register(s.T().Context(), RegisterUserArgs{
		Name:     "alice",
		Phone:    "912345678",
		Password: "password1",
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *UserServiceTestSuite) TestRegister_InvalidPhone() {
	cases := []string{"12345678", "1234567890", "9123456a8", ""}

	for _, phone := range cases {
		s.Run(phone, func() {
			_, _, err := s.service.Register(s.T().Context(), RegisterUserArgs{
				Name:     "alice",
				Phone:    phone,
				Password: "password1",
			})
			s.Require().ErrorIs(err, domain.ErrInvalidPhone)
		})
	}
}

func (s *UserServiceTestSuite) TestLogin() {
	user := domain.User{
		ID:       1,
		Phone:    "912345678",
		Password: "$2a$hashed",
		IsActive: true,
		Role:     domain.RoleUser,
	}

	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), user.Phone).
		Return(&user, nil).Times(1)
	s.mockHasher.EXPECT().
		ComparePassword("password1", user.Password).
		Return(true).Times(1)

	got, token, err := s.service.Login(s.T().Context(), LoginUserArgs{
		Phone:    user.Phone,
		Password: "password1",
	})
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)
	s.NotEmpty(token)
}

func (s *UserServiceTestSuite) TestLogin_WrongPassword() {
	user := domain.User{ID: 1, Phone: "912345678", Password: "$2a$hashed", IsActive: true}

	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), user.Phone).
		Return(&user, nil).Times(1)
	s.mockHasher.EXPECT().
		ComparePassword("wrong", user.Password).
		Return(false).Times(1)

	_, _, err := s.service.Login(s.T().Context(), LoginUserArgs{
		Phone:    user.Phone,
		Password: "wrong",
	})
	s.Require().ErrorIs(err, domain.ErrPasswordMissMatch)
}

func (s *UserServiceTestSuite) TestLogin_InactiveAccount() {
	user := domain.User{ID: 1, Phone: "912345678", Password: "$2a$hashed", IsActive: false}

	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), user.Phone).
		Return(&user, nil).Times(1)

	_, _, err := s.service.Login(s.T().Context(), LoginUserArgs{
		Phone:    user.Phone,
		Password: "password1",
	})
	s.Require().ErrorIs(err, domain.ErrAccountInactive)
}

func (s *UserServiceTestSuite) TestEnsureAdmin_PromotesExisting() {
	existing := domain.User{ID: 3, Phone: "900000000", Role: domain.RoleUser}

	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), existing.Phone).
		Return(&existing, nil).Times(1)
	s.mockUserRepo.EXPECT().
		PromoteToAdmin(gomock.Any(), existing.ID).
		Return(nil).Times(1)

	s.Require().NoError(s.service.EnsureAdmin(s.T().Context(), existing.Phone, "password1"))
}

func (s *UserServiceTestSuite) TestEnsureAdmin_CreatesNew() {
	s.mockUserRepo.EXPECT().
		FindByPhone(gomock.Any(), "900000000").
		Return(nil, domain.ErrRecordNotFound).Times(1)
	s.mockHasher.EXPECT().HashPassword("password1").Return("$2a$hashed", nil).Times(1)
	s.mockUserRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateUser) (*domain.User, error) {
			s.Equal(domain.RoleAdmin, args.Role)
			s.Equal("900000000", args.Phone)
			return &domain.User{ID: 9, Role: args.Role}, nil
		}).Times(1)

	s.Require().NoError(s.service.EnsureAdmin(s.T().Context(), "900000000", "password1"))
}
