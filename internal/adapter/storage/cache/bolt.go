// Package cache keeps the checkout's local durable state in a BoltDB file.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/ktosdespidoras/roblox/internal/core/domain"
)

var (
	ordersBucket   = []byte("orders")
	sessionsBucket = []byte("sessions")

	// ordersKey holds the whole order list as one JSON array.
	ordersKey = []byte("orders")
)

type Store struct {
	db *bolt.DB
}

func New(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{ordersBucket, sessionsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AppendOrder reads the list, appends and writes it back in one transaction.
func (s *Store) AppendOrder(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(ordersBucket)
		orders, err := decodeOrders(b.Get(ordersKey))
		if err != nil {
			return err
		}
		orders = append(orders, order)

		data, err := json.Marshal(orders)
		if err != nil {
			return fmt.Errorf("encode orders: %w", err)
		}
		return b.Put(ordersKey, data)
	})
}

func (s *Store) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var orders []*domain.Order
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		orders, err = decodeOrders(tx.Bucket(ordersBucket).Get(ordersKey))
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) SaveSession(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(session.Username), data)
	})
}

func (s *Store) LoadSession(ctx context.Context, username string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var session *domain.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get([]byte(username))
		if v == nil {
			return domain.ErrDataNotFound
		}
		session = &domain.Session{}
		if err := json.Unmarshal(v, session); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Store) ClearSession(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(username))
	})
}

func decodeOrders(data []byte) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0)
	if data == nil {
		return orders, nil
	}
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
