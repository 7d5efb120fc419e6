package routing

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"account-service/internal/handlers"
	"account-service/internal/managers"
	"account-service/internal/middleware"
	"account-service/internal/schemas"
	"account-service/internal/utils"
)

func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, resetTokenMgr managers.ResetTokenMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router)
	// Setup routes
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr, resetTokenMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	// The session cookie travels cross-site, so CORS must allow credentials
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr, resetTokenMgr managers.ResetTokenMgr) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		metadata := &schemas.MetadataDTO{
			ApiVersion: "v1",
			ApiName:    "Account Service",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		// Ping the database
		conn, err := databaseMgr.GetPool().Acquire(c)
		if err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		defer conn.Release()
		c.Status(http.StatusOK)
	})

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		// Set up user routes
		userRouter := apiRouter.Group("/users")
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &mailMgr, &resetTokenMgr)
		userRoutes(userRouter, userHdl, jwtMgr, databaseMgr)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, jwtMgr managers.JWTMgr, databaseMgr managers.DatabaseMgr) {
	userRouter.POST("/register", middleware.ValidateAndSanitizeStruct(&schemas.RegistrationRequest{}), userHdl.RegisterUser)
	userRouter.POST("/login", middleware.ValidateAndSanitizeStruct(&schemas.LoginRequest{}), userHdl.LoginUser)
	userRouter.GET("/logout", userHdl.LogoutUser)
	userRouter.GET("/get-status", userHdl.GetLoginStatus)
	userRouter.POST("/forgot-password", middleware.ValidateAndSanitizeStruct(&schemas.ForgotPasswordRequest{}), userHdl.ForgotPassword)
	userRouter.PUT("/reset-password/:"+utils.ResetTokenKey, middleware.ValidateAndSanitizeStruct(&schemas.ResetPasswordRequest{}), userHdl.ResetPassword)
	// The following routes require the user to be authenticated
	userRouter.Use(middleware.Authenticate(jwtMgr, databaseMgr))
	userRouter.GET("/get-user", userHdl.GetUser)
	userRouter.PATCH("/update-user", middleware.ValidateAndSanitizeStruct(&schemas.UpdateUserRequest{}), userHdl.UpdateUser)
	userRouter.PATCH("/change-password", middleware.ValidateAndSanitizeStruct(&schemas.ChangePasswordRequest{}), userHdl.ChangePassword)
	userRouter.DELETE("/delete-user", userHdl.DeleteUser)
}
