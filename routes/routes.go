package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"building-backend/controllers"
	"building-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSuffix(strings.TrimSpace(part), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Options carries the pieces of router wiring that depend on startup
// configuration. Maps is non-nil only for the GridFS asset store; the local
// store serves its upload directory statically instead.
type Options struct {
	Auth      *controllers.AuthController
	Buildings *controllers.BuildingController
	Floors    *controllers.FloorController
	Tokens    middleware.TokenVerifier
	Maps      controllers.MapOpener
	UploadDir string
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	if opts.Maps != nil {
		r.GET("/uploads/floor-maps/:name", controllers.ServeFloorMap(opts.Maps))
	} else {
		r.Static("/uploads/floor-maps", opts.UploadDir)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "3D Building Backend API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"health":    "/api/health",
				"auth":      "/api/auth",
				"buildings": "/api/buildings",
				"floors":    "/api/floors",
			},
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ok",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", opts.Auth.Register)
			auth.POST("/login", opts.Auth.Login)
			auth.GET("/verify", opts.Auth.Verify)
		}

		buildings := api.Group("/buildings")
		{
			buildings.GET("", opts.Buildings.GetBuildings)
			buildings.GET("/:id", opts.Buildings.GetBuilding)

			protected := buildings.Group("", middleware.RequireAuth(opts.Tokens))
			{
				protected.POST("", opts.Buildings.CreateBuilding)
				protected.PUT("/:id", opts.Buildings.UpdateBuilding)
				protected.DELETE("/:id", opts.Buildings.DeleteBuilding)
				protected.POST("/:id/floors", opts.Buildings.AddFloor)
				protected.PUT("/:id/floors/:floorId", opts.Buildings.UpdateFloor)
				protected.DELETE("/:id/floors/:floorId", opts.Buildings.DeleteFloor)
			}
		}

		floors := api.Group("/floors")
		{
			floors.GET("/:floorId", opts.Floors.GetFloor)
			floors.POST("/:floorId/upload-map", middleware.RequireAuth(opts.Tokens), opts.Floors.UploadFloorMap)
		}
	}

	return r
}
