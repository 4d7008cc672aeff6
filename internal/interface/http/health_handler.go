package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/pkg/response"
)

// Health GET /api/hello
func Health(c *gin.Context) {
	response.Success(c, http.StatusOK, "Hello world!", "ok", nil)
}
