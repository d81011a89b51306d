package mockapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine. API routes live under /api; uploaded and
// placeholder images are served from the root like a static asset host.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.cfg.AllowedOrigins))
	if s.cfg.RateLimit > 0 {
		r.Use(NewRateLimiter(s.cfg.RateLimit, s.cfg.RateBurst, 5*time.Minute).Middleware())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/uploads/:name", s.ServeUpload)
	r.GET("/images/no-image.png", s.ServePlaceholder)

	api := r.Group("/api")
	s.registerUserRoutes(api)
	s.registerProductRoutes(api)
	s.registerCategoryRoutes(api)
	s.registerCartRoutes(api)
	s.registerOrderRoutes(api)
	api.POST("/chatbot", s.Chat)
	return r
}

func (s *Server) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	users.POST("/login", s.Login)
	users.POST("/register", s.Register)
	users.POST("/forgot-password", s.ForgotPassword)
	users.POST("/reset-password/:token", s.ResetPassword)

	authed := users.Group("", s.AuthRequired())
	{
		authed.PUT("/update-password", s.UpdatePassword)
		authed.GET("/profile", s.GetProfile)
		authed.PUT("/profile", s.UpdateProfile)
	}

	admin := users.Group("", s.AuthRequired(), AdminOnly())
	{
		admin.GET("", s.ListUsers)
		admin.GET("/search", s.SearchUsers)
		admin.GET("/:id", s.GetUser)
		admin.PUT("/:id", s.UpdateUser)
		admin.DELETE("/:id", s.DeleteUser)
	}
}

func (s *Server) registerProductRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	products.GET("", s.ListProducts)
	products.GET("/:id", s.GetProduct)
	products.GET("/:id/reviews", s.ListReviews)
	products.POST("/:id/reviews", s.AuthRequired(), s.AddReview)

	admin := products.Group("", s.AuthRequired(), AdminOnly())
	{
		admin.POST("", s.CreateProduct)
		admin.PUT("/:id", s.UpdateProduct)
		admin.DELETE("/:id", s.DeleteProduct)
	}
}

func (s *Server) registerCategoryRoutes(api *gin.RouterGroup) {
	categories := api.Group("/categories")
	categories.GET("", s.ListCategories)

	admin := categories.Group("", s.AuthRequired(), AdminOnly())
	{
		admin.POST("", s.CreateCategory)
		admin.PUT("/:id", s.UpdateCategory)
		admin.DELETE("/:id", s.DeleteCategory)
	}
}

// Protected cart routes (require authentication)
func (s *Server) registerCartRoutes(api *gin.RouterGroup) {
	cart := api.Group("/cart", s.AuthRequired())
	{
		cart.GET("", s.GetCart)
		cart.POST("/add", s.AddToCart)
		cart.PUT("/update", s.UpdateCartItem)
		cart.DELETE("/remove/:productId", s.RemoveCartItem)
	}
}

func (s *Server) registerOrderRoutes(api *gin.RouterGroup) {
	orders := api.Group("/orders", s.AuthRequired())
	orders.POST("", s.CreateOrder)
	orders.GET("/myorders", s.MyOrders)
	orders.GET("/:id", s.GetOrder)
	orders.DELETE("/:id", s.CancelOrder)

	admin := orders.Group("", AdminOnly())
	{
		admin.GET("", s.ListOrders)
		admin.GET("/search", s.SearchOrders)
		admin.PUT("/:id/pay", s.MarkPaid)
		admin.PUT("/:id/deliver", s.MarkDelivered)
	}
}
