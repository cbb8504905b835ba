package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"go-updash-automation/internal/browser"
	"go-updash-automation/internal/config"
	"go-updash-automation/internal/pipeline"

	"github.com/gin-gonic/gin"
)

// Thin HTTP surface so the dashboard backend can trigger extraction runs
// and open conversations without shelling out to the CLI.
func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := config.Load()
	runner := pipeline.New(cfg)
	controller := browser.NewController(cfg.ChromeEndpoint)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Upwork dashboard automation is running!",
			"status":  "healthy",
			"modes":   runner.Modes(),
		})
	})

	r.POST("/api/extract/:mode", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
		defer cancel()

		result, err := runner.Run(ctx, c.Param("mode"))
		if err != nil {
			//the structured payload still goes out; the status code says
			//the run could not happen at all
			c.JSON(http.StatusServiceUnavailable, result)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	r.POST("/api/chrome/open-message", func(c *gin.Context) {
		var req struct {
			ConversationID string `json:"conversation_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		result := controller.OpenConversation(req.ConversationID)
		if !result.Success {
			c.JSON(http.StatusBadGateway, result)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	log.Printf("Server listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
