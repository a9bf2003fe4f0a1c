package v1

import (
	"context"
	"net/http"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/docpoint/docpoint-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, cmd *user.UpdateUserCommand, ip string) (*user.User, error)
}

type UserAuthService interface {
	RegisterUser(ctx context.Context, cmd *service.RegisterUserCommand, ip string) (*domain.TokenPair, error)
	LoginUser(ctx context.Context, email, password, ip string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

type UserHandler struct {
	svc  UserService
	auth UserAuthService
}

func NewUserHandler(svc UserService, auth UserAuthService) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

type registerUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a patient account and returns a token pair.
// POST /api/user/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerUserRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.auth.RegisterUser(c.Request.Context(), &service.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, pair)
}

// Login authenticates a patient.
// POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.auth.LoginUser(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh exchanges a refresh token for a new pair. Works for either role;
// the role travels in the token itself.
// POST /api/auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

// GetProfile returns the authenticated patient's record.
// GET /api/user/get-profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	u, err := h.svc.GetProfile(c.Request.Context(), claims.PrincipalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, u)
}

type updateUserRequest struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *domain.Address `json:"address"`
	DOB     *string         `json:"dob"`
	Gender  *string         `json:"gender"`
}

// UpdateProfile applies partial profile updates.
// POST /api/user/update-profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), claims.PrincipalID, &user.UpdateUserCommand{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		DOB:     req.DOB,
		Gender:  req.Gender,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, u)
}
