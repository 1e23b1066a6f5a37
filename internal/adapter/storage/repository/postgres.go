package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/govalues/decimal"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ktosdespidoras/roblox/internal/adapter/storage"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

// Repository is the Postgres remote store.
type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	statement := r.db.QueryBuilder.Insert("app_users").
		Columns("username", "password").
		Values(user.Username, user.Password).
		Suffix("RETURNING id")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	statement := r.db.QueryBuilder.
		Select("id", "username", "password").
		From("app_users").
		Where(sq.Eq{"username": username})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	user := domain.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *Repository) InsertOrder(ctx context.Context, order *domain.RemoteOrder) error {
	statement := r.db.QueryBuilder.Insert("orders").
		Columns("owner", "target_account", "card_last4", "card_expiry",
			"amount", "price", "currency", "created_at").
		Values(order.Owner, order.TargetAccount, order.CardLast4, order.CardExpiry,
			order.Amount, order.PriceValue.String(), string(order.Currency), order.CreatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *Repository) ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.RemoteOrder, error) {
	statement := r.db.QueryBuilder.
		Select("owner", "target_account", "card_last4", "card_expiry",
			"amount", "price::text", "currency", "created_at").
		From("orders").
		Where(sq.Eq{"owner": owner}).
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.RemoteOrder, 0)
	for rows.Next() {
		var price string
		order := domain.RemoteOrder{}
		err := rows.Scan(
			&order.Owner,
			&order.TargetAccount,
			&order.CardLast4,
			&order.CardExpiry,
			&order.Amount,
			&price,
			&order.Currency,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		order.PriceValue, err = decimal.Parse(price)
		if err != nil {
			return nil, err
		}
		list = append(list, &order)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return list, nil
}
