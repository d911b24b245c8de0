package repositories

import (
	"campusfood/domain"
	"campusfood/errors"
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// OrderRepository reads and mutates order rows through the external
// PostgreSQL pool. Queries are parameterized; the repository performs no
// ownership checks itself, that is the engine's job.
type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return OrderRepository{db: db}
}

// OpenOrderDB opens and pings the relational pool. Callers treat a nil
// repository as "orders upstream unavailable" rather than failing boot.
func OpenOrderDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open order db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping order db: %w", err)
	}
	return db, nil
}

func (r OrderRepository) Find(ctx context.Context, orderID int64) (domain.Order, error) {
	var order domain.Order
	row := r.db.QueryRowContext(ctx,
		`SELECT order_id, user_id, store_id FROM orders WHERE order_id = $1`, orderID)
	if err := row.Scan(&order.ID, &order.UserID, &order.StoreID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, errors.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return order, nil
}

func (r OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE order_id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("update order %d: %w", orderID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.ErrOrderNotFound
	}
	return nil
}
