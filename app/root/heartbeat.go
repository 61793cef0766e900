package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

const version = "1.0.0"

// Banner describes the running service
func Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "ScholaFlow Backend API",
		"version":     version,
		"status":      "running",
		"environment": viper.GetString("app.environment"),
	})
}

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
