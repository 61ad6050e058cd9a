package Controllers

import (
	"fmt"
	"log"
	"net/http"

	"HospitalMS/Models"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gin-gonic/gin"
)

// ExportAppointmentsTable writes the appointment book for a date range
// to an Excel sheet and serves the file.
func ExportAppointmentsTable(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := Models.DB.Model(&Models.Appointment{})
	if input.DateFrom != "" && input.DateTo != "" {
		query = query.Where("date BETWEEN ? AND ?", input.DateFrom, input.DateTo)
	}

	var appointments []Models.Appointment
	if err := query.Order("date ASC").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Models.AttachNames(Models.DB, appointments); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	headers := map[string]string{
		"A1": "Date",
		"B1": "Slot",
		"C1": "Doctor",
		"D1": "Patient",
		"E1": "Status",
		"F1": "Reason",
	}
	file := excelize.NewFile()
	sheet := "Appointments"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	for i := 0; i < len(appointments); i++ {
		appendRowAppointment(sheet, file, i, appointments)
	}

	var filename string = "./Appointments.xlsx"
	if err := file.SaveAs(filename); err != nil {
		log.Println(err)
	}
	c.File(filename)
}

func appendRowAppointment(sheet string, file *excelize.File, index int, rows []Models.Appointment) (fileWriter *excelize.File) {
	rowCount := index + 2
	file.SetCellValue(sheet, fmt.Sprintf("A%v", rowCount), rows[index].Date)
	file.SetCellValue(sheet, fmt.Sprintf("B%v", rowCount), rows[index].SlotLabel)
	file.SetCellValue(sheet, fmt.Sprintf("C%v", rowCount), rows[index].DoctorName)
	file.SetCellValue(sheet, fmt.Sprintf("D%v", rowCount), rows[index].PatientName)
	file.SetCellValue(sheet, fmt.Sprintf("E%v", rowCount), rows[index].Status)
	file.SetCellValue(sheet, fmt.Sprintf("F%v", rowCount), rows[index].Reason)
	return file
}
