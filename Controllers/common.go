package Controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"HospitalMS/Models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func today() string {
	return time.Now().Format(Models.DayFormat)
}

// respondTransitionError maps the model sentinel errors onto HTTP
// statuses: conflicts 409, missing rows 404, the rest 400.
func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, Models.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Selected slot is no longer available."})
	case errors.Is(err, Models.ErrAppointmentClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Appointment is already completed or cancelled."})
	case errors.Is(err, Models.ErrNoTreatmentRecord):
		c.JSON(http.StatusNotFound, gin.H{"error": "No treatment record found for this appointment."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Println(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
