package Controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"HospitalMS/Models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRespondTransitionError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"slot conflict", Models.ErrSlotUnavailable, http.StatusConflict},
		{"closed appointment", Models.ErrAppointmentClosed, http.StatusConflict},
		{"missing treatment record", Models.ErrNoTreatmentRecord, http.StatusNotFound},
		{"missing row", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"anything else", errors.New("bad input"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			respondTransitionError(c, tc.err)
			assert.Equal(t, tc.code, recorder.Code)
		})
	}
}
