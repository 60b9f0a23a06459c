package handler

import (
	"log"
	"net/http"
	"time"

	"nido/internal/service"

	"github.com/gin-gonic/gin"
)

// JobsHandler exposes the two periodic jobs as HTTP-invocable endpoints so an
// external scheduler can drive them; the in-process cron hits the same
// services.
type JobsHandler struct {
	sweeper    *service.SweeperService
	dispatcher *service.DispatcherService
}

func NewJobsHandler(sweeper *service.SweeperService, dispatcher *service.DispatcherService) *JobsHandler {
	return &JobsHandler{sweeper: sweeper, dispatcher: dispatcher}
}

func (h *JobsHandler) SweepVerifications(c *gin.Context) {
	res, err := h.sweeper.ExpireOverdue(time.Now())
	if err != nil {
		log.Printf("[jobs] sweep: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                 true,
		"processed":               res.Processed,
		"errors":                  res.Errors,
		"listings_rejected":       res.ListingsRejected,
		"notifications_cancelled": res.NotificationsCancelled,
	})
}

func (h *JobsHandler) DispatchNotifications(c *gin.Context) {
	res, err := h.dispatcher.DispatchDue(c.Request.Context(), time.Now())
	if err != nil {
		log.Printf("[jobs] dispatch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "dispatch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": res.Processed,
		"sent":      res.Sent,
		"failed":    res.Failed,
		"skipped":   res.Skipped,
	})
}
