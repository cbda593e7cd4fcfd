package api

import (
	"net/http"
	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	clientService service.ClientService,
	catalogService service.CatalogService,
	programService service.ProgramService,
) {
	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	clientHandler := NewClientHandler(clientService)
	catalogHandler := NewCatalogHandler(catalogService)
	programHandler := NewProgramHandler(programService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Coach Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// Client roster
			coachGroup.POST("/clients", coachHandler.AddClientByEmail)
			coachGroup.GET("/clients", coachHandler.GetManagedClients)

			// Knowledge hub
			catalogGroup := coachGroup.Group("/catalog")
			{
				catalogGroup.POST("", catalogHandler.CreateItem)
				catalogGroup.GET("", catalogHandler.ListItems)
				catalogGroup.GET("/:id", catalogHandler.GetItem)
				catalogGroup.PUT("/:id", catalogHandler.UpdateItem)
				catalogGroup.DELETE("/:id", catalogHandler.DeleteItem)
			}

			// Program authoring and lifecycle
			programGroup := coachGroup.Group("/programs")
			{
				programGroup.POST("", programHandler.SaveProgram)       // First non-draft save
				programGroup.POST("/draft", programHandler.SaveDraft)   // Explicit draft save
				programGroup.GET("", programHandler.ListPrograms)       // Enriched listing
				programGroup.GET("/:id", programHandler.GetProgram)     // Resolved view
				programGroup.PUT("/:id", programHandler.SaveProgram)    // Content edit, state preserved
				programGroup.PUT("/:id/draft", programHandler.SaveDraft)
				programGroup.DELETE("/:id", programHandler.DeleteProgram)

				programGroup.POST("/:id/assign", programHandler.AssignProgram)
				programGroup.POST("/:id/publish", programHandler.PublishProgram)
				programGroup.POST("/:id/unassign", programHandler.UnassignProgram)
				programGroup.POST("/:id/delist", programHandler.DelistProgram)
				programGroup.POST("/:id/duplicate", programHandler.DuplicateProgram)
			}

			// Media uploads (header images, catalog media)
			mediaGroup := coachGroup.Group("/media")
			{
				mediaGroup.POST("/presign", coachHandler.RequestMediaUpload)
				mediaGroup.POST("/confirm", coachHandler.ConfirmMediaUpload)
				mediaGroup.GET("/:id/download", coachHandler.GetMediaDownloadURL)
			}
		}

		// --- Client Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/programs", clientHandler.GetMyPrograms)
			clientGroup.GET("/programs/:id", clientHandler.GetMyProgram)
		}
	}
}
