package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-invest/internal/domain"
	"github.com/fsdevblog/groph-invest/internal/repository/repoargs"
	"github.com/fsdevblog/groph-invest/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, created_at, updated_at, user_id, type, amount, status,
	proof_image, sender_phone, destination_name, destination_phone, from_user, admin_comment`

type TransactionRepository struct {
	conn uow.DBTX
}

func NewTransactionRepository(conn uow.DBTX) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

// Create добавляет запись в журнал. Журнал append-only: единственная последующая
// мутация - смена статуса через SetStatus.
func (t *TransactionRepository) Create(
	ctx context.Context,
	args repoargs.TransactionCreate,
) (*domain.Transaction, error) {
	var proofImage, senderPhone, destName, destPhone, fromUser *string
	if args.Deposit != nil {
		proofImage = &args.Deposit.ProofImage
		senderPhone = &args.Deposit.SenderPhone
	}
	if args.Withdrawal != nil {
		destName = &args.Withdrawal.DestinationName
		destPhone = &args.Withdrawal.DestinationPhone
	}
	if args.Commission != nil {
		fromUser = &args.Commission.FromUser
	}

	row := t.conn.QueryRow(ctx, `
		INSERT INTO transactions
			(user_id, type, amount, status, proof_image, sender_phone,
			 destination_name, destination_phone, from_user, admin_comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+transactionColumns,
		args.UserID, args.Type, args.Amount, args.Status, proofImage, senderPhone,
		destName, destPhone, fromUser, args.AdminComment,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating %s transaction for user %d", args.Type, args.UserID)
	}
	return transaction, nil
}

func (t *TransactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "finding transaction by id %d", id)
	}
	return transaction, nil
}

// GetByUserID история операций юзера, новые сверху.
func (t *TransactionRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := t.conn.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting transactions of user %d", userID)
	}
	return collectTransactions(rows, "getting transactions")
}

// GetPending очередь на ревью для админа, старые сверху. typeFilter nil - без фильтра.
func (t *TransactionRepository) GetPending(
	ctx context.Context,
	typeFilter *domain.TransactionType,
) ([]domain.Transaction, error) {
	rows, err := t.conn.Query(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE status = 'pending' AND ($1::transaction_type IS NULL OR type = $1)
		ORDER BY created_at ASC`,
		typeFilter,
	)
	if err != nil {
		return nil, convertErr(err, "getting pending transactions")
	}
	return collectTransactions(rows, "getting pending transactions")
}

// SetStatus переводит запись из pending в терминальный статус. Guard по status = 'pending'
// делает переход одноразовым: повторное ревью вернет domain.ErrAlreadyProcessed.
func (t *TransactionRepository) SetStatus(
	ctx context.Context,
	args repoargs.TransactionSetStatus,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx, `
		UPDATE transactions SET status = $2, admin_comment = $3, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+transactionColumns,
		args.ID, args.Status, args.AdminComment,
	)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, findErr := t.FindByID(ctx, args.ID); findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("[repository/reviewing transaction %d] %w", args.ID, domain.ErrAlreadyProcessed)
		}
		return nil, convertErr(err, "reviewing transaction %d", args.ID)
	}
	return transaction, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var proofImage, senderPhone, destName, destPhone, fromUser *string

	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.UserID, &t.Type, &t.Amount, &t.Status,
		&proofImage, &senderPhone, &destName, &destPhone, &fromUser, &t.AdminComment,
	)
	if err != nil {
		return nil, err
	}

	switch t.Type {
	case domain.TransactionDeposit:
		t.Deposit = &domain.DepositDetails{
			ProofImage:  stringOrEmpty(proofImage),
			SenderPhone: stringOrEmpty(senderPhone),
		}
	case domain.TransactionWithdrawal:
		t.Withdrawal = &domain.WithdrawalDetails{
			DestinationName:  stringOrEmpty(destName),
			DestinationPhone: stringOrEmpty(destPhone),
		}
	case domain.TransactionCommission:
		t.Commission = &domain.CommissionDetails{
			FromUser: stringOrEmpty(fromUser),
		}
	case domain.TransactionBonus, domain.TransactionDaily:
	}
	return &t, nil
}

func collectTransactions(rows pgx.Rows, msg string) ([]domain.Transaction, error) {
	defer rows.Close()
	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, convertErr(err, "%s", msg)
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "%s", msg)
	}
	return transactions, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
