package main

import (
	"log"
	"os"
	"strings"

	"fiscal/internal/calendar"
	"fiscal/internal/handler"
	"fiscal/internal/middleware"
	"fiscal/internal/repository"
	"fiscal/internal/service"
	"fiscal/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	// Rule store starts from the built-in QC/CA rule set; RULES_FILE
	// overlays a previously exported set on top of it.
	store := repository.NewRuleStore()
	if rulesFile := os.Getenv("RULES_FILE"); rulesFile != "" {
		if err := store.ImportFile(rulesFile); err != nil {
			log.Fatalf("Failed to import rules from %s: %v", rulesFile, err)
		}
		log.Printf("Imported rules from %s (%d rules registered)", rulesFile, store.Count())
	}

	fiscalCalendar := calendar.New()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Store -> Service -> Handler)
	taxService := service.NewTaxService(store)
	deductionService := service.NewDeductionService(store)
	summaryService := service.NewSummaryService(taxService, fiscalCalendar)

	// Initialize Handlers
	ruleHandler := handler.NewRuleHandler(store, wsHub)
	taxHandler := handler.NewTaxHandler(taxService, deductionService)
	summaryHandler := handler.NewSummaryHandler(summaryService)
	calendarHandler := handler.NewCalendarHandler(fiscalCalendar)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = corsOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK", "rules": store.Count()})
	})

	// WebSocket endpoint: rule-change feed for dashboards
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	ruleHandler.RegisterRoutes(router.Group(""))
	taxHandler.RegisterRoutes(router.Group(""))
	summaryHandler.RegisterRoutes(router.Group(""))
	calendarHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func corsOrigins() []string {
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		return strings.Split(origins, ",")
	}
	return []string{"http://localhost:5173", "http://127.0.0.1:5173"}
}
