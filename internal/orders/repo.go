package orders

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// PlaceOrder validates stock, writes the pedido header and its lines and
// decrements product stock, all inside one transaction. The FOR UPDATE read
// keeps the touched producto rows locked until commit, so concurrent
// placements for the same product serialize and stock can never go negative.
func (r *Repo) PlaceOrder(ctx context.Context, customerID, statusID int64, lines []Line) (int64, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyOrder
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return 0, &InvalidQuantityError{ProductID: l.ProductID, Quantity: l.Quantity}
		}
	}

	// Lock rows in product-id order; two orders listing the same products
	// in opposite order would otherwise deadlock. Sorting a copy keeps the
	// caller's line order intact.
	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, l := range sorted {
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT stock_prod FROM producto WHERE id_prod=$1 FOR UPDATE`,
			l.ProductID).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &UnknownProductError{ProductID: l.ProductID}
		}
		if err != nil {
			return 0, err
		}
		if stock < l.Quantity {
			return 0, &InsufficientStockError{
				ProductID: l.ProductID,
				Requested: l.Quantity,
				Available: stock,
			}
		}
	}

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO pedido (id_cliente, id_estadoped)
		VALUES ($1, $2)
		RETURNING id_pedido`, customerID, statusID).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	for _, l := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO pedido_producto (id_pedido, id_prod, cantidad, precio_unitario)
			VALUES ($1, $2, $3, $4)`,
			orderID, l.ProductID, l.Quantity, l.UnitPrice)
		if err != nil {
			return 0, err
		}
	}

	for _, l := range lines {
		// Conditional decrement re-checks stock in the same statement; it
		// also covers an order repeating the same product across lines,
		// which the per-line validation above sees one line at a time.
		ct, err := tx.Exec(ctx, `
			UPDATE producto SET stock_prod = stock_prod - $2
			WHERE id_prod = $1 AND stock_prod >= $2`,
			l.ProductID, l.Quantity)
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() != 1 {
			return 0, &InsufficientStockError{ProductID: l.ProductID, Requested: l.Quantity}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *Repo) GetOrder(ctx context.Context, orderID int64) (Order, []Line, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT p.id_pedido, p.id_cliente, e.nombre_estadoped, p.fecha_pedido
		FROM pedido p
		JOIN estado_pedido e ON e.id_estadoped = p.id_estadoped
		WHERE p.id_pedido = $1`, orderID).
		Scan(&o.ID, &o.CustomerID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, nil, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id_prod, cantidad, precio_unitario
		FROM pedido_producto
		WHERE id_pedido = $1
		ORDER BY id_prod`, orderID)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return Order{}, nil, err
		}
		lines = append(lines, l)
	}
	return o, lines, rows.Err()
}

// Total sums cantidad*precio_unitario over the order's lines.
func (r *Repo) Total(ctx context.Context, orderID int64) (int64, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pedido WHERE id_pedido=$1)`, orderID).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrOrderNotFound
	}
	var total int64
	err = r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(cantidad * precio_unitario), 0)
		FROM pedido_producto WHERE id_pedido = $1`, orderID).Scan(&total)
	return total, err
}

// UpdateStatus moves an order through the status machine. The header row is
// locked so concurrent updates see each other's transitions.
func (r *Repo) UpdateStatus(ctx context.Context, orderID int64, to Status) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx, `
		SELECT e.nombre_estadoped
		FROM pedido p
		JOIN estado_pedido e ON e.id_estadoped = p.id_estadoped
		WHERE p.id_pedido = $1
		FOR UPDATE OF p`, orderID).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if from == to {
		return nil // already there, nothing to do
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}

	ct, err := tx.Exec(ctx, `
		UPDATE pedido
		SET id_estadoped = (SELECT id_estadoped FROM estado_pedido WHERE nombre_estadoped = $2)
		WHERE id_pedido = $1`, orderID, string(to))
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrOrderNotFound
	}
	return tx.Commit(ctx)
}
