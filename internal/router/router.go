// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/greenbourne277/zbwcloud/internal/config"
	"github.com/greenbourne277/zbwcloud/internal/handlers"
	"github.com/greenbourne277/zbwcloud/internal/middleware"
	"github.com/greenbourne277/zbwcloud/internal/repository"
	"github.com/greenbourne277/zbwcloud/internal/services"
	"github.com/greenbourne277/zbwcloud/internal/utils"
)

func Initialize(stores *repository.Stores, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	// Initialize services
	searchService := services.NewSearchService(stores, logger)
	metadataService := services.NewMetadataService(stores, logger)
	rightService := services.NewRightService(stores, logger)
	groupService := services.NewGroupService(stores, logger)
	itemService := services.NewItemService(stores, logger)
	bookmarkService := services.NewBookmarkService(stores, logger)
	templateService := services.NewTemplateService(stores, searchService, logger, cfg.Template.ApplyWorkers)
	authService := services.NewAuthService(stores, logger, cfg.JWT.AccessTokenTTL)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	metadataHandler := handlers.NewMetadataHandler(metadataService)
	rightHandler := handlers.NewRightHandler(rightService)
	groupHandler := handlers.NewGroupHandler(groupService)
	itemHandler := handlers.NewItemHandler(itemService)
	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkService)
	templateHandler := handlers.NewTemplateHandler(templateService, bookmarkService)
	authHandler := handlers.NewAuthHandler(authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/password", middleware.AuthRequired(), authHandler.ChangePassword)
			auth.POST("/register", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.Register)
		}

		// Item search is readable without an account
		v1.GET("/items/search", middleware.OptionalAuth(), searchHandler.Search)

		// Item association routes
		items := v1.Group("/items")
		items.Use(middleware.AuthRequired())
		{
			items.GET("/:metadataId", itemHandler.GetItem)
			items.GET("/right/:rightId/count", itemHandler.CountByRight)

			write := items.Group("")
			write.Use(middleware.WriteAccessRequired())
			{
				write.POST("", itemHandler.LinkItem)
				write.DELETE("/:metadataId/:rightId", itemHandler.UnlinkItem)
				write.DELETE("/metadata/:metadataId", itemHandler.UnlinkByMetadata)
				write.DELETE("/right/:rightId", itemHandler.UnlinkByRight)
			}
		}

		// Metadata routes
		metadata := v1.Group("/metadata")
		metadata.Use(middleware.AuthRequired())
		{
			metadata.GET("", metadataHandler.ListMetadata)
			metadata.GET("/:id", metadataHandler.GetMetadata)

			write := metadata.Group("")
			write.Use(middleware.WriteAccessRequired())
			{
				write.POST("", metadataHandler.CreateMetadata)
				write.PUT("", metadataHandler.UpsertMetadata)
				write.PUT("/batch", metadataHandler.UpsertMetadataBatch)
				write.DELETE("/:id", metadataHandler.DeleteMetadata)
			}
		}

		// Right routes
		rights := v1.Group("/rights")
		rights.Use(middleware.AuthRequired())
		{
			rights.GET("/:id", rightHandler.GetRight)

			write := rights.Group("")
			write.Use(middleware.WriteAccessRequired())
			{
				write.POST("", rightHandler.CreateRight)
				write.PUT("", rightHandler.UpsertRight)
				write.DELETE("/:id", rightHandler.DeleteRight)
			}
		}

		// Access-restriction group routes
		groups := v1.Group("/groups")
		groups.Use(middleware.AuthRequired())
		{
			groups.GET("", groupHandler.ListGroups)
			groups.GET("/:id", groupHandler.GetGroup)

			write := groups.Group("")
			write.Use(middleware.WriteAccessRequired())
			{
				write.POST("", groupHandler.CreateGroup)
				write.PUT("/:id", groupHandler.UpdateGroup)
				write.DELETE("/:id", groupHandler.DeleteGroup)
			}
		}

		// Bookmark routes
		bookmarks := v1.Group("/bookmarks")
		bookmarks.Use(middleware.AuthRequired())
		{
			bookmarks.GET("", bookmarkHandler.ListBookmarks)
			bookmarks.GET("/:id", bookmarkHandler.GetBookmark)

			write := bookmarks.Group("")
			write.Use(middleware.WriteAccessRequired())
			{
				write.POST("", bookmarkHandler.CreateBookmark)
				write.PUT("/:id", bookmarkHandler.UpdateBookmark)
				write.DELETE("/:id", bookmarkHandler.DeleteBookmark)
			}
		}

		// Template routes
		templates := v1.Group("/templates")
		templates.Use(middleware.AuthRequired())
		{
			templates.GET("", rightHandler.ListTemplates)
			templates.GET("/:id/bookmarks", templateHandler.GetTemplateBookmarks)

			write := templates.Group("")
			write.Use(middleware.WriteAccessRequired())
			{
				write.PUT("/:id/bookmarks", templateHandler.ReplaceTemplateBookmarks)
				write.POST("/:id/bookmarks/:bookmarkId", templateHandler.AttachBookmark)
				write.DELETE("/:id/bookmarks/:bookmarkId", templateHandler.DetachBookmark)
				write.POST("/:id/apply", middleware.ApplyRateLimit(), templateHandler.ApplyTemplate)
				write.POST("/apply", middleware.ApplyRateLimit(), templateHandler.ApplyTemplates)
			}
		}
	}

	return r
}
