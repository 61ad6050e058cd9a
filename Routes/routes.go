package Routes

import (
	"HospitalMS/Controllers"
	"HospitalMS/Middleware"
	"HospitalMS/Models"
	"HospitalMS/SSE"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func ConfigRoutes(router *gin.Engine) {
	// Gzip Compression
	router.Use(gzip.Gzip(gzip.BestSpeed))

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/home", Controllers.Home)
		public.POST("/register", Controllers.Register)
		public.POST("/login", Controllers.Login)
		public.POST("/logout", Controllers.Logout)
	}

	// Authorized routes
	authorized := router.Group("/api/protected")
	authorized.Use(Middleware.JwtAuthMiddleware())
	{
		// Shared account routes
		authorized.GET("/user", Controllers.CurrentUser)
		authorized.POST("/UpdateProfile", Controllers.UpdateProfile)
		authorized.GET("/RequestSSE", SSE.RequestSSE)
	}

	admin := authorized.Group("/admin")
	admin.Use(Middleware.RequireRole(Models.RoleAdmin))
	{
		// Doctor management
		admin.POST("/RegisterDoctor", Controllers.RegisterDoctor)
		admin.GET("/FetchDoctors", Controllers.FetchDoctors)
		admin.POST("/UpdateDoctor", Controllers.UpdateDoctor)
		admin.POST("/DeleteDoctor", Controllers.DeleteDoctor)
		admin.POST("/ToggleDoctorBlacklist", Controllers.ToggleDoctorBlacklist)

		// Patient management
		admin.GET("/FetchPatients", Controllers.FetchPatients)
		admin.POST("/UpdatePatient", Controllers.UpdatePatient)
		admin.POST("/DeletePatient", Controllers.DeletePatient)
		admin.POST("/TogglePatientBlacklist", Controllers.TogglePatientBlacklist)

		// Appointment oversight
		admin.GET("/FetchAllAppointments", Controllers.FetchAllAppointments)
		admin.POST("/FetchPatientHistory", Controllers.AdminPatientHistory)
		admin.POST("/ExportAppointmentsTable", Controllers.ExportAppointmentsTable)
	}

	doctor := authorized.Group("/doctor")
	doctor.Use(Middleware.RequireRole(Models.RoleDoctor))
	{
		// Weekly planner
		doctor.GET("/FetchWeeklyPlanner", Controllers.FetchWeeklyPlanner)
		doctor.POST("/SubmitWeeklyPlanner", Controllers.SubmitWeeklyPlanner)

		// Appointments
		doctor.GET("/FetchAppointments", Controllers.FetchDoctorAppointments)
		doctor.GET("/Dashboard", Controllers.DoctorDashboard)
		doctor.POST("/MarkAppointmentAsCompleted", Controllers.MarkAppointmentAsCompleted)
		doctor.POST("/CancelAppointment", Controllers.CancelDoctorAppointment)

		// Treatment history
		doctor.GET("/FetchAssignedPatients", Controllers.FetchAssignedPatients)
		doctor.POST("/FetchPatientHistory", Controllers.FetchDoctorPatientHistory)
		doctor.POST("/SaveTreatment", Controllers.SaveTreatment)
		doctor.POST("/EditTreatment", Controllers.EditTreatment)
	}

	patient := authorized.Group("/patient")
	patient.Use(Middleware.RequireRole(Models.RolePatient))
	{
		// Directory
		patient.GET("/FetchDepartments", Controllers.FetchDepartments)
		patient.POST("/FetchDepartmentDetail", Controllers.FetchDepartmentDetail)
		patient.GET("/FetchDoctors", Controllers.FetchActiveDoctors)
		patient.POST("/FetchDoctorProfile", Controllers.FetchDoctorProfile)
		patient.POST("/FetchDoctorAvailability", Controllers.FetchDoctorAvailability)

		// Booking
		patient.POST("/BookAppointment", Controllers.BookAppointment)
		patient.POST("/CancelAppointment", Controllers.CancelPatientAppointment)
		patient.GET("/Dashboard", Controllers.PatientDashboard)
		patient.GET("/FetchHistory", Controllers.FetchPatientHistory)
	}
}
