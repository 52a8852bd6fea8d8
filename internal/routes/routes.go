package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/rakshop/internal/config"
	"github.com/example/rakshop/internal/handlers"
	"github.com/example/rakshop/internal/middleware"
	"github.com/example/rakshop/internal/services"
)

// Register wires up all HTTP routes. The public routes below and the
// /uploads static prefix are the complete auth allow-list; everything else
// sits behind the bearer-token gate.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	bakong := services.NewBakongClient(cfg.BakongAPIURL, cfg.BakongToken)

	authService := services.NewAuthService(db, cfg)
	paymentService := services.NewPaymentService(db, cfg, bakong, telegram)

	authHandler := handlers.NewAuthHandler(authService, cfg.UploadDir)
	productHandler := handlers.NewProductHandler(db, cfg.UploadDir)
	slideshowHandler := handlers.NewSlideshowHandler(db, cfg.UploadDir)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Public routes.
	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Post("/logout", authHandler.Logout)
	app.Get("/getproduct", productHandler.GetProducts)
	app.Get("/getslides", slideshowHandler.GetSlides)
	app.Get("/chceck_payment_status", paymentHandler.CheckStatus)
	app.Static("/uploads", cfg.UploadDir)

	// Everything else requires a valid bearer token.
	protected := app.Group("", middleware.AuthMiddleware(db, cfg))

	protected.Post("/validate_token", authHandler.ValidateToken)
	protected.Post("/updateprofile", authHandler.UpdateProfile)

	protected.Post("/insertproduct", productHandler.InsertProduct)
	protected.Put("/updateproduct/:id", productHandler.UpdateProduct)
	protected.Delete("/deleteproduct/:id", productHandler.DeleteProduct)

	protected.Post("/insertslides", slideshowHandler.InsertSlide)
	protected.Put("/updateslides/:id", slideshowHandler.UpdateSlide)
	protected.Delete("/deleteslides/:id", slideshowHandler.DeleteSlide)

	protected.Post("/generate_qr", paymentHandler.GenerateQR)
}
