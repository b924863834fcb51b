// cmd/conferidor/main.go
package main

import (
	"log"
	"os"

	"conferidor-service/internal/api/handlers"
	"conferidor-service/internal/api/responses"
	"conferidor-service/internal/core/conferencia"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	responses.InitLogger()

	conferenciaService := conferencia.NewService()
	conferenciaHandler := handlers.NewConferenciaHandler(conferenciaService)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/conferencia/caixa", conferenciaHandler.HandleConferirCaixa)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "conferidor-service"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8084"
	}
	log.Printf("🚀 Conferidor Service (Go) iniciado e escutando na porta %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Falha ao iniciar o servidor de conferência: ", err)
	}
}
