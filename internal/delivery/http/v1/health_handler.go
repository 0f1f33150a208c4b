package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"natsu-gallery-backend/internal/usecase"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(r gin.IRoutes, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)
}

// Root godoc
// @Summary      Liveness text
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "Backend server is running!"
// @Router       / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Backend server is running!")
}

// Health godoc
// @Summary      Health report
// @Description  Reports process status and the state of the Redis rate-limit store (ok, down or disabled).
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthUC.Check(c.Request.Context()))
}
