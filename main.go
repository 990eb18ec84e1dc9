package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/makotocarlos/backend-inspecciones-gas/config"
	"github.com/makotocarlos/backend-inspecciones-gas/routes"
	"github.com/makotocarlos/backend-inspecciones-gas/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Supabase client and the store on top of it
	supabaseClient := config.NewSupabaseClient(cfg)
	store, err := services.NewSupabaseStore(supabaseClient, cfg.UserCacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// Notification events go to RabbitMQ when enabled
	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.RabbitMQEnabled {
		amqpNotifier, err := services.NewAMQPNotifier(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, notifications disabled: %v", err)
		} else {
			defer amqpNotifier.Close()
			notifier = amqpNotifier
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(config.CORSMiddleware(cfg))

	routes.SetupRoutes(router, store, notifier, cfg)

	log.Printf("Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
