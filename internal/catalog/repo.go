package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id_prod, p.nombre_prod, p.precio_prod, p.stock_prod,
		       p.id_tipoprod, tp.nombre_tipoprod, p.imagen_url, p.destacado_prod
		FROM producto p
		LEFT JOIN tipo_producto tp ON p.id_tipoprod = tp.id_tipoprod
		ORDER BY p.id_prod`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *Repo) Featured(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id_prod, p.nombre_prod, p.precio_prod, p.stock_prod,
		       p.id_tipoprod, tp.nombre_tipoprod, p.imagen_url, p.destacado_prod
		FROM producto p
		LEFT JOIN tipo_producto tp ON p.id_tipoprod = tp.id_tipoprod
		WHERE p.destacado_prod = true
		ORDER BY p.id_prod
		LIMIT 4`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *Repo) Get(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT p.id_prod, p.nombre_prod, p.precio_prod, p.stock_prod,
		       p.id_tipoprod, tp.nombre_tipoprod, p.imagen_url, p.destacado_prod
		FROM producto p
		LEFT JOIN tipo_producto tp ON p.id_tipoprod = tp.id_tipoprod
		WHERE p.id_prod = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.TypeID, &p.TypeName, &p.ImageURL, &p.Featured)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		INSERT INTO producto (nombre_prod, precio_prod, stock_prod, id_tipoprod, imagen_url, destacado_prod)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_prod, nombre_prod, precio_prod, stock_prod, id_tipoprod, imagen_url, destacado_prod`,
		in.Name, in.Price, in.Stock, in.TypeID, in.ImageURL, in.Featured).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.TypeID, &p.ImageURL, &p.Featured)
	return p, err
}

func (r *Repo) Update(ctx context.Context, id int64, in ProductInput) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		UPDATE producto
		SET nombre_prod = $1, precio_prod = $2, stock_prod = $3,
		    id_tipoprod = $4, imagen_url = $5, destacado_prod = $6
		WHERE id_prod = $7
		RETURNING id_prod, nombre_prod, precio_prod, stock_prod, id_tipoprod, imagen_url, destacado_prod`,
		in.Name, in.Price, in.Stock, in.TypeID, in.ImageURL, in.Featured, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.TypeID, &p.ImageURL, &p.Featured)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *Repo) Delete(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		DELETE FROM producto WHERE id_prod = $1
		RETURNING id_prod, nombre_prod, precio_prod, stock_prod, id_tipoprod, imagen_url, destacado_prod`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.TypeID, &p.ImageURL, &p.Featured)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *Repo) ListTypes(ctx context.Context) ([]ProductType, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id_tipoprod, nombre_tipoprod FROM tipo_producto ORDER BY id_tipoprod`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductType
	for rows.Next() {
		var t ProductType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock,
			&p.TypeID, &p.TypeName, &p.ImageURL, &p.Featured); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
