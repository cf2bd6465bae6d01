package route

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"jwtpizza/controller"
	"jwtpizza/logger"
	"jwtpizza/metrics"
	"jwtpizza/utils"
)

type Options struct {
	AllowedOrigins []string
	Logger         logger.Logger
}

// NewRouter builds the engine with its middleware chain and all API routes.
func NewRouter(ctl *controller.Controller, authn utils.Authenticator, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(log))
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	api.Use(utils.IdentityMiddleware(authn))
	PizzaRoutes(api, ctl)
	return router
}

func PizzaRoutes(api *gin.RouterGroup, ctl *controller.Controller) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("", ctl.Register)
		authGroup.PUT("", ctl.Login)
		authGroup.DELETE("", ctl.Logout)
	}

	userGroup := api.Group("/user")
	userGroup.GET("/me", ctl.Me)
	userGroup.Use(utils.RequireAuth())
	{
		userGroup.GET("", ctl.ListUsers)
		userGroup.PUT("/:userId", ctl.UpdateUser)
		userGroup.DELETE("/:userId", ctl.DeleteUser)
	}

	orderGroup := api.Group("/order")
	orderGroup.GET("/menu", ctl.Menu)
	orderGroup.POST("", ctl.PlaceOrder)
	orderGroup.Use(utils.RequireAuth())
	{
		orderGroup.GET("", ctl.Orders)
		orderGroup.PUT("/menu", ctl.AddMenuItem)
		orderGroup.POST("/menu/import", ctl.ImportMenu)
	}

	franchiseGroup := api.Group("/franchise")
	franchiseGroup.GET("", ctl.ListFranchises)
	franchiseGroup.GET("/:id", ctl.UserFranchises)
	// role checks answer these with 403 even for anonymous callers
	franchiseGroup.POST("", ctl.CreateFranchise)
	franchiseGroup.DELETE("/:id", ctl.DeleteFranchise)
	franchiseGroup.POST("/:id/store", ctl.CreateStore)
	franchiseGroup.Use(utils.RequireAuth())
	{
		franchiseGroup.DELETE("/:id/store/:storeId", ctl.DeleteStore)
	}
}
