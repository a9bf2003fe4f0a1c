package v1

import (
	"context"
	"net/http"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DoctorService interface {
	List(ctx context.Context) ([]*doctor.Doctor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand, ip string) (*doctor.Doctor, error)
	ToggleAvailability(ctx context.Context, id uuid.UUID, ip string) (bool, error)
}

type DoctorAuthService interface {
	RegisterDoctor(ctx context.Context, cmd *service.RegisterDoctorCommand, ip string) (*domain.TokenPair, error)
	LoginDoctor(ctx context.Context, email, password, ip string) (*domain.TokenPair, error)
}

type DoctorHandler struct {
	svc  DoctorService
	auth DoctorAuthService
}

func NewDoctorHandler(svc DoctorService, auth DoctorAuthService) *DoctorHandler {
	return &DoctorHandler{svc: svc, auth: auth}
}

type registerDoctorRequest struct {
	Name       string          `json:"name" binding:"required"`
	Email      string          `json:"email" binding:"required,email"`
	Password   string          `json:"password" binding:"required,min=8"`
	Image      string          `json:"image"`
	Speciality string          `json:"speciality" binding:"required"`
	Degree     string          `json:"degree" binding:"required"`
	Experience string          `json:"experience" binding:"required"`
	About      string          `json:"about" binding:"required"`
	Fees       float64         `json:"fees" binding:"required,gt=0"`
	Available  bool            `json:"available"`
	Address    *domain.Address `json:"address" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a doctor account and returns a token pair.
// POST /api/doctor/register
func (h *DoctorHandler) Register(c *gin.Context) {
	var req registerDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.auth.RegisterDoctor(c.Request.Context(), &service.RegisterDoctorCommand{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Image:      req.Image,
		Speciality: req.Speciality,
		Degree:     req.Degree,
		Experience: req.Experience,
		About:      req.About,
		Fee:        req.Fees,
		Available:  req.Available,
		Address:    req.Address,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, pair)
}

// Login authenticates a doctor.
// POST /api/doctor/login
func (h *DoctorHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.auth.LoginDoctor(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, pair)
}

// List is the public doctor directory.
// GET /api/doctor/list
func (h *DoctorHandler) List(c *gin.Context) {
	docs, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, docs)
}

// GetByID is the public doctor detail view.
// GET /api/doctor/:id
func (h *DoctorHandler) GetByID(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

// GetProfile returns the authenticated doctor's full record.
// GET /api/doctor/get-profile
func (h *DoctorHandler) GetProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	d, err := h.svc.GetProfile(c.Request.Context(), claims.PrincipalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

type updateDoctorRequest struct {
	Fees      *float64        `json:"fees"`
	About     *string         `json:"about"`
	Address   *domain.Address `json:"address"`
	Available *bool           `json:"available"`
}

// UpdateProfile applies partial profile updates.
// POST /api/doctor/update-profile
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.UpdateProfile(c.Request.Context(), claims.PrincipalID, &doctor.UpdateDoctorCommand{
		Fee:       req.Fees,
		About:     req.About,
		Address:   req.Address,
		Available: req.Available,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

// ChangeAvailability flips the booking flag.
// POST /api/doctor/change-availability
func (h *DoctorHandler) ChangeAvailability(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	available, err := h.svc.ToggleAvailability(c.Request.Context(), claims.PrincipalID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"available": available})
}
