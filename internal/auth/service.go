package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password does not match")
)

// Store is the persistence surface the service needs; *Repo satisfies it.
type Store interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u User) (int64, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Role(ctx context.Context, userID int64) (string, error)
	UpdateProfile(ctx context.Context, id int64, name, lastName, secondLastName string) (User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type Service struct {
	Store  Store
	Tokens *TokenManager
}

type RegisterInput struct {
	Email          string `json:"correo"`
	Password       string `json:"password"`
	Name           string `json:"nombre"`
	LastName       string `json:"apellido"`
	SecondLastName string `json:"apellido2"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Profile struct {
	Name           string `json:"nombre"`
	LastName       string `json:"apellido"`
	SecondLastName string `json:"apellido2"`
	Email          string `json:"correo"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	taken, err := s.Store.EmailExists(ctx, in.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.Store.CreateUser(ctx, User{
		Email:          in.Email,
		PassHash:       string(hash),
		Name:           in.Name,
		LastName:       in.LastName,
		SecondLastName: in.SecondLastName,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.Store.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	role, err := s.Store.Role(ctx, u.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("resolve role: %w", err)
	}
	access, err := s.Tokens.Access(u.ID, u.Email, role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Tokens.Refresh(u.ID, u.Email, role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh mints a new access token from a valid refresh token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	claims, err := s.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	return s.Tokens.Access(claims.UserID(), claims.Email, claims.Role)
}

func (s *Service) Profile(ctx context.Context, userID int64) (Profile, error) {
	u, err := s.Store.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Name:           u.Name,
		LastName:       u.LastName,
		SecondLastName: u.SecondLastName,
		Email:          u.Email,
	}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, name, lastName, secondLastName string) (Profile, error) {
	u, err := s.Store.UpdateProfile(ctx, userID, name, lastName, secondLastName)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Name:           u.Name,
		LastName:       u.LastName,
		SecondLastName: u.SecondLastName,
		Email:          u.Email,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.Store.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PassHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.UpdatePassword(ctx, userID, string(hash))
}
