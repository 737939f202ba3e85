package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lukelektro/storefront-api/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = 0

type AuthHandler struct {
	Service *auth.Service
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/refresh", h.refresh)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)
		r.Get("/api/auth/me", h.me)
		r.Get("/api/auth/profile", h.profile)
		r.Put("/api/auth/profile", h.updateProfile)
		r.Put("/api/auth/password", h.changePassword)
	})
}

// Authenticate rejects requests without a valid bearer access token and
// stashes the parsed claims in the request context.
func (h *AuthHandler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "Token requerido")
			return
		}
		claims, err := h.Service.Tokens.ParseAccess(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func claimsFrom(r *http.Request) auth.Claims {
	c, _ := r.Context().Value(claimsKey).(auth.Claims)
	return c
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if in.Email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Correo y contraseña requeridos")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Service.Register(ctx, in)
	if errors.Is(err, auth.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "Correo ya registrado")
		return
	}
	if err != nil {
		log.Printf("register: %v", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registro exitoso"})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"correo"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Service.Login(ctx, in.Email, in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	if err != nil {
		log.Printf("login: %v", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Refresh == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token requerido")
		return
	}

	access, err := h.Service.Refresh(in.Refresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Refresh token inválido")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	c := claimsFrom(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     c.UserID(),
		"correo": c.Email,
		"rol":    c.Role,
	})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.Profile(ctx, claimsFrom(r).UserID())
	if errors.Is(err, auth.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		log.Printf("profile: %v", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name           string `json:"nombre"`
		LastName       string `json:"apellido"`
		SecondLastName string `json:"apellido2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.UpdateProfile(ctx, claimsFrom(r).UserID(), in.Name, in.LastName, in.SecondLastName)
	if errors.Is(err, auth.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		log.Printf("update profile: %v", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Perfil actualizado correctamente",
		"user":    p,
	})
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Current string `json:"currentPassword"`
		Next    string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Next == "" {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Service.ChangePassword(ctx, claimsFrom(r).UserID(), in.Current, in.Next)
	switch {
	case errors.Is(err, auth.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, "Contraseña actual incorrecta")
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
	case err != nil:
		log.Printf("change password: %v", err)
		writeError(w, http.StatusInternalServerError, "Error interno del servidor")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Contraseña actualizada correctamente"})
	}
}
