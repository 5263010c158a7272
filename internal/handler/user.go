package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tablebook/restaurant-reservation/internal/config"
	"github.com/tablebook/restaurant-reservation/internal/model"
	"github.com/tablebook/restaurant-reservation/internal/repository"
	"github.com/tablebook/restaurant-reservation/internal/utils"
)

// phonePattern matches the accepted national formats: +420/+421
// followed by nine digits.
var phonePattern = regexp.MustCompile(`^\+42[01][0-9]{9}$`)

// UserHandler bundles dependencies for registration and user
// management endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(cfg config.Config, users *repository.UserRepo) *UserHandler {
	if users == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Cfg: cfg, Users: users}
}

type registerReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// Register handles POST /api/register.  Registration is public and
// always creates a guest account; admins promote accounts through the
// update endpoint.  Phone and last name are required, email and
// password optional (phone-only guests are valid reservation targets
// but cannot log in).
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "last_name is required"})
	}
	if !phonePattern.MatchString(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number"})
	}
	if req.Password != "" && len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	var firstName, email, passwordHash *string
	if s := strings.TrimSpace(req.FirstName); s != "" {
		firstName = &s
	}
	if req.Email != "" {
		email = &req.Email
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		passwordHash = &hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, firstName, req.LastName, email, req.Phone, passwordHash, model.RoleGuest); err != nil {
		if errors.Is(err, repository.ErrPhoneExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already registered"})
		}
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered"})
}

type userResp struct {
	ID        uint64  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
	Phone     string  `json:"phone"`
	Role      string  `json:"role"`
}

// List handles GET /api/users (admin only).
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, userResp{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.Phone, Role: u.Role})
	}
	return c.JSON(http.StatusOK, out)
}

// Selectable handles GET /api/users/selectable (admin only).  It
// returns id/name pairs of guest accounts for the admin booking form.
func (h *UserHandler) Selectable(c echo.Context) error {
	users, err := h.Users.ListSelectable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	return c.JSON(http.StatusOK, users)
}

type updateUserReq struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
}

// Update handles PUT /api/users/:id.  A user may update their own
// profile; admins may update anyone and change roles.  The phone
// number is immutable here since it anchors guest reservation history.
func (h *UserHandler) Update(c echo.Context) error {
	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	isAdmin := getRole(c) == model.RoleAdmin

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if !isAdmin && callerID != targetID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	if req.FirstName != nil {
		s := strings.TrimSpace(*req.FirstName)
		if s == "" {
			u.FirstName = nil
		} else {
			u.FirstName = &s
		}
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) != "" {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		s := strings.ToLower(strings.TrimSpace(*req.Email))
		if s == "" {
			u.Email = nil
		} else {
			u.Email = &s
		}
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
		}
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		u.PasswordHash = &hash
	}
	if req.Role != nil && isAdmin {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if role != model.RoleGuest && role != model.RoleAdmin {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
		}
		u.Role = role
	}

	if err := h.Users.Update(ctx, u); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User updated"})
}
