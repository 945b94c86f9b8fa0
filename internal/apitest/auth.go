package apitest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey struct{}

func currentUser(r *http.Request) models.User {
	u, _ := r.Context().Value(ctxKey{}).(models.User)
	return u
}

// AddUser registers an active user and returns it.
func (b *Backend) AddUser(username, password string, role models.Role) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := models.User{
		ID:        b.id(),
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		IsActive:  true,
		CreatedAt: b.stamp(),
	}
	b.users[u.ID] = &userRecord{user: u, password: password}
	return u
}

// SetActive enables or disables a user.
func (b *Backend) SetActive(userID int64, active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rec, ok := b.users[userID]; ok {
		rec.user.IsActive = active
	}
}

func (b *Backend) findUser(username string) *userRecord {
	for _, rec := range b.users {
		if rec.user.Username == username {
			return rec
		}
	}
	return nil
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			message(w, http.StatusUnauthorized, "Token is missing")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 {
			message(w, http.StatusUnauthorized, "Token format invalid")
			return
		}
		id, err := userIDFromToken(parts[1], b.secret)
		if errors.Is(err, jwt.ErrTokenExpired) {
			message(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		if err != nil {
			message(w, http.StatusUnauthorized, "Token is invalid")
			return
		}

		b.mu.Lock()
		rec, ok := b.users[id]
		var user models.User
		if ok {
			user = rec.user
		}
		b.mu.Unlock()

		if !ok || !user.IsActive {
			message(w, http.StatusUnauthorized, "Token is invalid")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r).Role != models.RoleAdmin {
			message(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authRoutes(r chi.Router) {
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
	r.Post("/auth/change-password", b.changePassword)
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/auth/users", b.listUsers)
		r.Post("/auth/users/{id}/toggle-status", b.toggleUser)
		r.Delete("/auth/users/{id}", b.deleteUser)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decode(r, &creds); err != nil || creds.Username == "" || creds.Password == "" {
		message(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	b.mu.Lock()
	rec := b.findUser(creds.Username)
	if rec == nil || rec.password != creds.Password {
		b.mu.Unlock()
		message(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !rec.user.IsActive {
		b.mu.Unlock()
		message(w, http.StatusUnauthorized, "Account is disabled")
		return
	}
	rec.user.LastLogin = b.stamp()
	user := rec.user
	b.mu.Unlock()

	token, err := generateToken(user.ID, b.secret, 24*time.Hour)
	if err != nil {
		message(w, http.StatusInternalServerError, "Erro no servidor: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: user})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in models.NewUser
	if err := decode(r, &in); err != nil || in.Username == "" || in.Email == "" || in.Password == "" {
		message(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	if in.Role == "" {
		in.Role = models.RoleAdmin
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rec := range b.users {
		if rec.user.Username == in.Username {
			message(w, http.StatusBadRequest, "Username already exists")
			return
		}
		if rec.user.Email == in.Email {
			message(w, http.StatusBadRequest, "Email already exists")
			return
		}
	}
	u := models.User{ID: b.id(), Username: in.Username, Email: in.Email, Role: in.Role, IsActive: true, CreatedAt: b.stamp()}
	b.users[u.ID] = &userRecord{user: u, password: in.Password}
	writeJSON(w, http.StatusCreated, models.UserChange{Message: "User created successfully", User: &u})
}

func (b *Backend) changePassword(w http.ResponseWriter, r *http.Request) {
	var in models.PasswordChange
	if err := decode(r, &in); err != nil || in.Current == "" || in.New == "" {
		message(w, http.StatusBadRequest, "Current password and new password are required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	rec := b.users[currentUser(r).ID]
	if rec.password != in.Current {
		message(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	rec.password = in.New
	message(w, http.StatusOK, "Password changed successfully")
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.User, 0, len(b.users))
	for id := int64(1); id <= b.nextID; id++ {
		if rec, ok := b.users[id]; ok {
			out = append(out, rec.user)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) userFromPath(w http.ResponseWriter, r *http.Request) *userRecord {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	rec, ok := b.users[id]
	if err != nil || !ok {
		message(w, http.StatusNotFound, "Not Found")
		return nil
	}
	return rec
}

func (b *Backend) toggleUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec := b.userFromPath(w, r)
	if rec == nil {
		return
	}
	if rec.user.ID == currentUser(r).ID {
		message(w, http.StatusBadRequest, "Cannot disable your own account")
		return
	}
	rec.user.IsActive = !rec.user.IsActive
	status := "deactivated"
	if rec.user.IsActive {
		status = "activated"
	}
	u := rec.user
	writeJSON(w, http.StatusOK, models.UserChange{Message: "User " + status + " successfully", User: &u})
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec := b.userFromPath(w, r)
	if rec == nil {
		return
	}
	if rec.user.ID == currentUser(r).ID {
		message(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}
	delete(b.users, rec.user.ID)
	message(w, http.StatusOK, "User deleted successfully")
}
