package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/docpoint/docpoint-api/internal/config"
	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/pkg/auth"
	"github.com/docpoint/docpoint-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(
	cfg *config.Config,
	db *gorm.DB,
	collector *metrics.Collector,
	jwtManager *auth.JWTManager,
	appointmentH *AppointmentHandler,
	doctorH *DoctorHandler,
	userH *UserHandler,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS(cfg.CORS))
	r.Use(RateLimit(cfg.RateLimit))
	r.Use(Metrics(collector))

	r.GET("/healthz", healthz(db))
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authn := Authenticate(jwtManager)
	patientOnly := RequireRole(domain.RolePatient)
	doctorOnly := RequireRole(domain.RoleDoctor)

	api := r.Group("/api")

	userAPI := api.Group("/user")
	{
		userAPI.POST("/register", userH.Register)
		userAPI.POST("/login", userH.Login)
		userAPI.GET("/get-profile", authn, patientOnly, userH.GetProfile)
		userAPI.POST("/update-profile", authn, patientOnly, userH.UpdateProfile)
	}

	api.POST("/auth/refresh", userH.Refresh)

	doctorAPI := api.Group("/doctor")
	{
		doctorAPI.POST("/register", doctorH.Register)
		doctorAPI.POST("/login", doctorH.Login)
		doctorAPI.GET("/list", doctorH.List)
		doctorAPI.GET("/get-profile", authn, doctorOnly, doctorH.GetProfile)
		doctorAPI.POST("/update-profile", authn, doctorOnly, doctorH.UpdateProfile)
		doctorAPI.POST("/change-availability", authn, doctorOnly, doctorH.ChangeAvailability)
		doctorAPI.DELETE("/cancel/:id", authn, doctorOnly, appointmentH.CancelByDoctor)
		doctorAPI.GET("/:id", doctorH.GetByID)
	}

	appointmentAPI := api.Group("/appointment")
	{
		appointmentAPI.POST("/create", authn, patientOnly, appointmentH.Create)
		appointmentAPI.GET("/user", authn, patientOnly, appointmentH.ListForUser)
		appointmentAPI.GET("/doctor", authn, doctorOnly, appointmentH.ListForDoctor)
		appointmentAPI.PUT("/cancel/:appointmentId", authn, patientOnly, appointmentH.Cancel)
		appointmentAPI.GET("/earnings", authn, doctorOnly, appointmentH.Earnings)
	}

	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			respondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(ctx); err != nil {
			respondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		respondOK(c, gin.H{"status": "ok"})
	}
}
