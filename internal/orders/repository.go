package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Cristian668/VentaX/internal/platform/db"
)

const uniqueViolation = "23505"

// ErrDuplicateCode indicates an order code collision.
var ErrDuplicateCode = errors.New("orders: duplicate order code")

// Repository provides PostgreSQL backed persistence for orders.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the order and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, order Order) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (
				id, code, session_id,
				cedula, nombres, direccion, provincia, ciudad, whatsapp, email,
				subtotal, shipping, total, status, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			order.ID, order.Code, order.SessionID,
			order.Customer.Cedula, order.Customer.Nombres, order.Customer.Direccion,
			order.Customer.Provincia, order.Customer.Ciudad, order.Customer.Whatsapp,
			order.Customer.Email,
			order.Subtotal, order.Shipping, order.Total, order.Status, order.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrDuplicateCode
			}
			return fmt.Errorf("insert order: %w", err)
		}

		for _, line := range order.Lines {
			_, err = tx.Exec(ctx, `
				INSERT INTO order_lines (order_id, product_id, name, quantity, unit_price, line_total)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				order.ID, line.ProductID, line.Name, line.Quantity, line.UnitPrice, line.LineTotal,
			)
			if err != nil {
				return fmt.Errorf("insert order line: %w", err)
			}
		}
		return nil
	})
}

// ListBySession returns the session's orders, newest first, lines included.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, session_id, cedula, nombres, direccion, provincia, ciudad,
		       whatsapp, email, subtotal, shipping, total, status, created_at
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	for i := range out {
		lines, err := r.linesFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

// GetBySessionAndID fetches one order, scoped to the owning session.
func (r *Repository) GetBySessionAndID(ctx context.Context, sessionID, id string) (Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, session_id, cedula, nombres, direccion, provincia, ciudad,
		       whatsapp, email, subtotal, shipping, total, status, created_at
		FROM orders
		WHERE session_id = $1 AND (id::text = $2 OR code = $2)`, sessionID, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	order.Lines, err = r.linesFor(ctx, order.ID)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// GetByID fetches one order regardless of session, for background jobs.
func (r *Repository) GetByID(ctx context.Context, id string) (Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, session_id, cedula, nombres, direccion, provincia, ciudad,
		       whatsapp, email, subtotal, shipping, total, status, created_at
		FROM orders
		WHERE id::text = $1 OR code = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	order.Lines, err = r.linesFor(ctx, order.ID)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// ListPending returns pending orders, oldest first, for the sync job.
func (r *Repository) ListPending(ctx context.Context, limit int) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, session_id, cedula, nombres, direccion, provincia, ciudad,
		       whatsapp, email, subtotal, shipping, total, status, created_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`, StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order to a new status.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id::text = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) linesFor(ctx context.Context, orderID any) ([]OrderLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, name, quantity, unit_price, line_total
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.Code, &o.SessionID,
		&o.Customer.Cedula, &o.Customer.Nombres, &o.Customer.Direccion,
		&o.Customer.Provincia, &o.Customer.Ciudad, &o.Customer.Whatsapp,
		&o.Customer.Email,
		&o.Subtotal, &o.Shipping, &o.Total, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}
