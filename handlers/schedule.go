// File: handlers/schedule.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"concierge/models"
	"concierge/services/scheduler"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulerEngine is assigned during startup wiring.
var SchedulerEngine scheduler.Engine

// GetAvailabilityHandler lists the free slots for a calendar day.
func GetAvailabilityHandler(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	slots, err := SchedulerEngine.QueryAvailable(date)
	if err != nil {
		utils.GetLogger().Error("Failed to query availability", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query availability"})
		return
	}
	out := make([]gin.H, 0, len(slots))
	for _, s := range slots {
		out = append(out, gin.H{
			"slotId": s.ID(),
			"date":   s.Date,
			"start":  models.MinutesToClock(s.Start),
			"end":    models.MinutesToClock(s.End),
		})
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "available": out})
}

// ListBookingsHandler returns bookings, optionally filtered by ?date= and ?status=.
func ListBookingsHandler(c *gin.Context) {
	filter := models.BookingFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	bookings, err := SchedulerEngine.ListBookings(filter)
	if err != nil {
		utils.GetLogger().Error("Failed to list bookings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBookingHandler cancels a booking by its ID.
func CancelBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := c.Param("id")

	if _, err := SchedulerEngine.Cancel(id); err != nil {
		if errors.Is(err, scheduler.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		logger.Error("Failed to cancel booking", zap.String("bookingID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "bookingId": id})
}
