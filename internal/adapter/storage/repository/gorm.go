package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/govalues/decimal"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type userRow struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
}

func (userRow) TableName() string { return "app_users" }

type orderRow struct {
	ID            uint64    `gorm:"primaryKey"`
	Owner         string    `gorm:"index:orders_owner_created_at;not null"`
	TargetAccount string    `gorm:"not null"`
	CardLast4     string    `gorm:"size:4;not null"`
	CardExpiry    string    `gorm:"not null"`
	Amount        int64     `gorm:"not null"`
	Price         string    `gorm:"not null"`
	Currency      string    `gorm:"size:3;not null"`
	CreatedAt     time.Time `gorm:"index:orders_owner_created_at;not null"`
}

func (orderRow) TableName() string { return "orders" }

// GormRepository is the SQLite remote store used for single-host setups.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(dsn string) (*GormRepository, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	err = db.AutoMigrate(&userRow{}, &orderRow{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}

	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *GormRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := userRow{Username: user.Username, Password: user.Password}
	err := r.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	user.ID = row.ID
	return user, nil
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &domain.User{ID: row.ID, Username: row.Username, Password: row.Password}, nil
}

func (r *GormRepository) InsertOrder(ctx context.Context, order *domain.RemoteOrder) error {
	row := orderRow{
		Owner:         order.Owner,
		TargetAccount: order.TargetAccount,
		CardLast4:     order.CardLast4,
		CardExpiry:    order.CardExpiry,
		Amount:        order.Amount,
		Price:         order.PriceValue.String(),
		Currency:      string(order.Currency),
		CreatedAt:     order.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *GormRepository) ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.RemoteOrder, error) {
	var rows []orderRow
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := make([]*domain.RemoteOrder, 0, len(rows))
	for _, row := range rows {
		price, err := decimal.Parse(row.Price)
		if err != nil {
			return nil, fmt.Errorf("order %d price: %w", row.ID, err)
		}
		list = append(list, &domain.RemoteOrder{
			Owner:         row.Owner,
			TargetAccount: row.TargetAccount,
			CardLast4:     row.CardLast4,
			CardExpiry:    row.CardExpiry,
			Amount:        row.Amount,
			PriceValue:    price,
			Currency:      domain.Currency(row.Currency),
			CreatedAt:     row.CreatedAt,
		})
	}
	return list, nil
}
