package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/services"
	"github.com/MatthewCrocker7/bestball-backend/pkg/utils"
)

// AdminHandler exposes the sync scheduler for inspection and manual
// triggering.
type AdminHandler struct {
	scheduler *services.UpdateScheduler
	breaker   *services.CircuitBreakerService
	logger    *logrus.Logger
}

func NewAdminHandler(scheduler *services.UpdateScheduler, breaker *services.CircuitBreakerService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		scheduler: scheduler,
		breaker:   breaker,
		logger:    logger,
	}
}

// GetJobs returns the state of every scheduled sync job.
func (h *AdminHandler) GetJobs(c *gin.Context) {
	utils.SendSuccess(c, h.scheduler.GetJobs())
}

// TriggerJob runs one sync job immediately.
func (h *AdminHandler) TriggerJob(c *gin.Context) {
	id := c.Param("id")
	if err := h.scheduler.TriggerJob(id); err != nil {
		utils.SendNotFound(c, err.Error())
		return
	}

	h.logger.WithField("job_id", id).Info("Job triggered manually")
	utils.SendSuccess(c, gin.H{"triggered": id})
}

// GetBreakers returns the circuit breaker state per upstream feed area.
func (h *AdminHandler) GetBreakers(c *gin.Context) {
	states := make(map[string]string)
	for _, name := range []string{"rankings", "schedule", "tournaments", "scorecards"} {
		states[name] = h.breaker.GetState(name).String()
	}
	utils.SendSuccess(c, states)
}
