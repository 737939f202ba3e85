package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID             int64
	Email          string
	PassHash       string
	Name           string
	LastName       string
	SecondLastName string
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM usuario WHERE correo_user = $1)`, email).Scan(&exists)
	return exists, err
}

// CreateUser inserts the usuario row and its cliente row in one transaction,
// so every registered account can place orders.
func (r *Repo) CreateUser(ctx context.Context, u User) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO usuario (correo_user, pass_hash_user, nombre_user, apellido_user, apellido2_user)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id_usuario`,
		u.Email, u.PassHash, u.Name, u.LastName, u.SecondLastName).Scan(&id)
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO cliente (id_usuario) VALUES ($1)`, id); err != nil {
		return 0, err
	}
	return id, tx.Commit(ctx)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id_usuario, correo_user, pass_hash_user, nombre_user, apellido_user, apellido2_user
		FROM usuario WHERE correo_user = $1`, email).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.Name, &u.LastName, &u.SecondLastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (r *Repo) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id_usuario, correo_user, pass_hash_user, nombre_user, apellido_user, apellido2_user
		FROM usuario WHERE id_usuario = $1`, id).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.Name, &u.LastName, &u.SecondLastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// Role resolves the account's main role: administrador wins over empleado,
// everyone else is a cliente.
func (r *Repo) Role(ctx context.Context, userID int64) (string, error) {
	var isAdmin bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM administrador WHERE id_admin = $1)`, userID).Scan(&isAdmin)
	if err != nil {
		return "", err
	}
	if isAdmin {
		return RoleAdmin, nil
	}
	var isEmployee bool
	err = r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM empleado WHERE id_usuario = $1)`, userID).Scan(&isEmployee)
	if err != nil {
		return "", err
	}
	if isEmployee {
		return RoleEmployee, nil
	}
	return RoleCustomer, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, id int64, name, lastName, secondLastName string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		UPDATE usuario
		SET nombre_user = $1, apellido_user = $2, apellido2_user = $3
		WHERE id_usuario = $4
		RETURNING id_usuario, correo_user, pass_hash_user, nombre_user, apellido_user, apellido2_user`,
		name, lastName, secondLastName, id).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.Name, &u.LastName, &u.SecondLastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (r *Repo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE usuario SET pass_hash_user = $1 WHERE id_usuario = $2`, hash, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrUserNotFound
	}
	return nil
}
