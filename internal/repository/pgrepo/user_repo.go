package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, created_at, updated_at, name, phone, encrypted_password, role, is_active,
	balance, plan_id, plan_start_date, last_daily_collection, referrer_id, total_commission,
	has_invested, invite_code`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create создает юзера. В случае конфликта телефона или инвайт-кода возвращает ошибку
// domain.ErrDuplicateKey, во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		INSERT INTO users (name, phone, encrypted_password, role, balance, referrer_id, invite_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		args.Name, args.Phone, args.Password, args.Role, args.Balance, args.ReferrerID, args.InviteCode,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user with phone %s", args.Phone)
	}
	return user, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// FindByIDForUpdate читает юзера с блокировкой строки (FOR UPDATE). Имеет смысл только внутри
// uow-транзакции: сериализует конкурентные операции над одним счетом.
func (u *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "locking user by id %d", id)
	}
	return user, nil
}

func (u *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by phone %s", phone)
	}
	return user, nil
}

func (u *UserRepository) FindByInviteCode(ctx context.Context, code string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE invite_code = $1`, code)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by invite code %s", code)
	}
	return user, nil
}

// GetAll возвращает всех юзеров, отсортированных по дате создания по убыванию.
func (u *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	rows, err := u.conn.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, convertErr(err, "getting users")
	}
	return collectUsers(rows, "getting users")
}

// GetByReferrerID возвращает прямых рефералов юзера.
func (u *UserRepository) GetByReferrerID(ctx context.Context, referrerID int64) ([]domain.User, error) {
	rows, err := u.conn.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE referrer_id = $1 ORDER BY created_at DESC`, referrerID)
	if err != nil {
		return nil, convertErr(err, "getting referrals of user %d", referrerID)
	}
	return collectUsers(rows, "getting referrals")
}

// Credit атомарно увеличивает баланс активного счета. Возвращает domain.ErrRecordNotFound
// если юзера нет и domain.ErrAccountInactive если счет деактивирован.
func (u *UserRepository) Credit(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+userColumns,
		id, amount,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, u.classifyBalanceFailure(ctx, id, nil)
		}
		return nil, convertErr(err, "crediting user %d", id)
	}
	return user, nil
}

// Debit атомарно списывает средства, гарантируя balance >= 0 одним guarded-стейтментом.
// Возвращает domain.ErrNotEnoughBalance когда средств не хватает.
func (u *UserRepository) Debit(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = now()
		WHERE id = $1 AND is_active AND balance >= $2
		RETURNING `+userColumns,
		id, amount,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, u.classifyBalanceFailure(ctx, id, domain.ErrNotEnoughBalance)
		}
		return nil, convertErr(err, "debiting user %d", id)
	}
	return user, nil
}

// CreditCommission как Credit, но дополнительно увеличивает display-счетчик total_commission.
func (u *UserRepository) CreditCommission(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		UPDATE users SET balance = balance + $2, total_commission = total_commission + $2, updated_at = now()
		WHERE id = $1 AND is_active
		RETURNING `+userColumns,
		id, amount,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, u.classifyBalanceFailure(ctx, id, nil)
		}
		return nil, convertErr(err, "crediting commission to user %d", id)
	}
	return user, nil
}

// SetPlan назначает план и выставляет has_invested. Флаг назад не сбрасывается.
func (u *UserRepository) SetPlan(ctx context.Context, args repoargs.SetUserPlan) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		UPDATE users SET plan_id = $2, plan_start_date = $3, has_invested = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		args.UserID, args.PlanID, args.StartDate,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "setting plan %d for user %d", args.PlanID, args.UserID)
	}
	return user, nil
}

// SetLastDailyCollection двигает отметку последнего сбора только вперед.
func (u *UserRepository) SetLastDailyCollection(ctx context.Context, id int64, at time.Time) error {
	tag, err := u.conn.Exec(ctx, `
		UPDATE users SET last_daily_collection = $2, updated_at = now()
		WHERE id = $1 AND (last_daily_collection IS NULL OR last_daily_collection <= $2)`,
		id, at,
	)
	if err != nil {
		return convertErr(err, "setting last daily collection for user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "setting last daily collection for user %d", id)
	}
	return nil
}

// AdminUpdate прямое административное редактирование полей. nil-поля не трогаются.
func (u *UserRepository) AdminUpdate(ctx context.Context, id int64, args repoargs.AdminUpdateUser) (*domain.User, error) {
	var planStart *time.Time
	if args.PlanID != nil {
		now := time.Now().UTC()
		planStart = &now
	}
	row := u.conn.QueryRow(ctx, `
		UPDATE users SET
			balance = COALESCE($2::numeric, balance),
			is_active = COALESCE($3::boolean, is_active),
			plan_id = COALESCE($4::bigint, plan_id),
			plan_start_date = COALESCE($5::timestamptz, plan_start_date),
			encrypted_password = COALESCE($6::varchar, encrypted_password),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, args.Balance, args.IsActive, args.PlanID, planStart, args.Password,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "admin updating user %d", id)
	}
	return user, nil
}

// PromoteToAdmin используется бутстрапом админа на старте приложения.
func (u *UserRepository) PromoteToAdmin(ctx context.Context, id int64) error {
	tag, err := u.conn.Exec(ctx, `UPDATE users SET role = 'admin', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "promoting user %d to admin", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "promoting user %d to admin", id)
	}
	return nil
}

// classifyBalanceFailure разбирает причину неуспеха guarded-апдейта баланса: юзера нет,
// счет деактивирован или (для списаний) не хватает средств.
func (u *UserRepository) classifyBalanceFailure(ctx context.Context, id int64, insufficient error) error {
	user, err := u.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return fmt.Errorf("[repository/balance mutation for user %d] %w", id, domain.ErrAccountInactive)
	}
	if insufficient != nil {
		return fmt.Errorf("[repository/balance mutation for user %d] %w", id, insufficient)
	}
	return fmt.Errorf("[repository/balance mutation for user %d] %w", id, domain.ErrUnknown)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Name, &u.Phone, &u.Password, &u.Role, &u.IsActive,
		&u.Balance, &u.PlanID, &u.PlanStartDate, &u.LastDailyCollection, &u.ReferrerID,
		&u.TotalCommission, &u.HasInvested, &u.InviteCode,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows, msg string) ([]domain.User, error) {
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, convertErr(err, "%s", msg)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "%s", msg)
	}
	return users, nil
}
