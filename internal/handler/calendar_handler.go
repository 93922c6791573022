package handler

import (
	"net/http"
	"strconv"

	"fiscal/internal/calendar"
	"fiscal/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendar *calendar.Calendar
}

func NewCalendarHandler(cal *calendar.Calendar) *CalendarHandler {
	return &CalendarHandler{calendar: cal}
}

func (h *CalendarHandler) RegisterRoutes(router *gin.RouterGroup) {
	cal := router.Group("/api/calendar")
	{
		cal.GET("/upcoming", h.Upcoming)
		cal.GET("/overdue", h.Overdue)
		cal.GET("/next", h.Next)
	}
}

// Upcoming returns the deadlines within ?days= days (default 30).
func (h *CalendarHandler) Upcoming(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "days must be a non-negative integer"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"deadlines": h.calendar.Upcoming(days),
	}))
}

func (h *CalendarHandler) Overdue(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"deadlines": h.calendar.Overdue(),
	}))
}

// Next returns the earliest future deadline, optionally filtered by
// ?type=quarterly|annual|monthly.
func (h *CalendarHandler) Next(c *gin.Context) {
	next := h.calendar.NextForType(c.Query("type"))
	if next == nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "no upcoming deadline found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, next))
}
