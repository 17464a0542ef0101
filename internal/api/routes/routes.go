package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"fleetdesk-api-server/config"
	"fleetdesk-api-server/internal/api/handlers"
	"fleetdesk-api-server/internal/api/middleware"
	"fleetdesk-api-server/internal/email"
	"fleetdesk-api-server/internal/models"
	"fleetdesk-api-server/internal/ratelimit"
	"fleetdesk-api-server/internal/s3"
	"fleetdesk-api-server/internal/socket"
)

const authWindow = 15 * time.Minute

// SetupRouter wires handlers, middleware and dependencies into the
// gin engine.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	limiter *ratelimit.Limiter,
	mailer *email.Sender,
	hub *socket.Hub,
	s3Uploader *s3.Uploader,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.Server.AppURL != "" {
		corsConfig.AllowOrigins = []string{cfg.Server.AppURL}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg, Mailer: mailer}
	userHandler := &handlers.UserHandler{DB: db}
	driverHandler := &handlers.DriverHandler{DB: db, S3Uploader: s3Uploader}
	vehicleHandler := &handlers.VehicleHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db, Hub: hub}
	summaryHandler := &handlers.SummaryHandler{DB: db}

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Client().Ping(c.Request.Context(), nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register",
				middleware.RateLimit(limiter, "register", authWindow, 5),
				authHandler.Register)
			auth.POST("/login",
				middleware.RateLimit(limiter, "login", authWindow, 10),
				authHandler.Login)
			auth.POST("/verify-email",
				middleware.RateLimit(limiter, "verify", authWindow, 10),
				authHandler.VerifyEmail)
			auth.POST("/forgot-password",
				middleware.RateLimit(limiter, "request-reset", authWindow, 5),
				authHandler.RequestPasswordReset)
			auth.POST("/reset-password",
				middleware.RateLimit(limiter, "reset-password", authWindow, 5),
				authHandler.ResetPassword)
		}

		protected := apiV1.Group("/")
		protected.Use(middleware.Authenticate())
		{
			protected.GET("/ws", handlers.ServeWs(hub))
			protected.GET("/summary", summaryHandler.GetSummary)

			orders := protected.Group("/orders")
			{
				orders.GET("/", orderHandler.GetAllOrders)
				orders.GET("/:id", orderHandler.GetOrder)

				mutate := orders.Group("/")
				mutate.Use(middleware.Authorize(models.RoleAdmin, models.RoleDispatcher, models.RoleManager))
				{
					mutate.POST("/", orderHandler.CreateOrder)
					mutate.PUT("/:id", orderHandler.UpdateOrder)
					mutate.PATCH("/:id/status", orderHandler.UpdateStatus)
					mutate.PATCH("/:id/assign", orderHandler.Assign)
					mutate.PUT("/:id/items", orderHandler.UpdateItems)
					mutate.POST("/:id/activity", orderHandler.AddActivity)
				}

				remove := orders.Group("/")
				remove.Use(middleware.Authorize(models.RoleAdmin, models.RoleManager))
				{
					remove.DELETE("/:id", orderHandler.DeleteOrder)
				}
			}

			drivers := protected.Group("/drivers")
			{
				drivers.GET("/", driverHandler.GetAllDrivers)
				drivers.GET("/:id", driverHandler.GetDriverByID)
				drivers.GET("/:id/location", driverHandler.GetLocation)
				drivers.PUT("/:id/location", driverHandler.UpdateLocation)

				manage := drivers.Group("/")
				manage.Use(middleware.Authorize(models.RoleAdmin, models.RoleManager))
				{
					manage.POST("/", driverHandler.CreateDriver)
					manage.PUT("/:id", driverHandler.UpdateDriver)
					manage.DELETE("/:id", driverHandler.DeleteDriver)
					manage.POST("/:id/documents", driverHandler.UploadDocument)
				}
			}

			vehicles := protected.Group("/vehicles")
			{
				vehicles.GET("/", vehicleHandler.GetAllVehicles)
				vehicles.GET("/:id", vehicleHandler.GetVehicleByID)

				manage := vehicles.Group("/")
				manage.Use(middleware.Authorize(models.RoleAdmin, models.RoleManager))
				{
					manage.POST("/", vehicleHandler.CreateVehicle)
					manage.PUT("/:id", vehicleHandler.UpdateVehicle)
					manage.DELETE("/:id", vehicleHandler.DeleteVehicle)
					manage.POST("/:id/maintenance", vehicleHandler.AddMaintenance)
				}
			}

			users := protected.Group("/users")
			users.Use(middleware.Authorize(models.RoleAdmin))
			{
				users.GET("/", userHandler.GetAllUsers)
				users.POST("/", userHandler.CreateUser)
				users.GET("/:id", userHandler.GetUserByID)
				users.PUT("/:id", userHandler.UpdateUser)
				users.DELETE("/:id", userHandler.DeleteUser)
			}
		}
	}

	return router
}
