package http

import (
	"net/http"

	"clinic-management-api/internal/delivery/http/handler"
	"clinic-management-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router               *mux.Router
	authHandler          *handler.AuthHandler
	patientHandler       *handler.PatientHandler
	doctorHandler        *handler.DoctorHandler
	treatmentHandler     *handler.TreatmentHandler
	appointmentHandler   *handler.AppointmentHandler
	medicalRecordHandler *handler.MedicalRecordHandler
	reportHandler        *handler.ReportHandler
	auditLogHandler      *handler.AuditLogHandler
	authMiddleware       *middleware.AuthMiddleware
	corsMiddleware       *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	treatmentHandler *handler.TreatmentHandler,
	appointmentHandler *handler.AppointmentHandler,
	medicalRecordHandler *handler.MedicalRecordHandler,
	reportHandler *handler.ReportHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:               mux.NewRouter(),
		authHandler:          authHandler,
		patientHandler:       patientHandler,
		doctorHandler:        doctorHandler,
		treatmentHandler:     treatmentHandler,
		appointmentHandler:   appointmentHandler,
		medicalRecordHandler: medicalRecordHandler,
		reportHandler:        reportHandler,
		auditLogHandler:      auditLogHandler,
		authMiddleware:       authMiddleware,
		corsMiddleware:       corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Account registration (admin only)
	register := api.PathPrefix("/auth/register").Subrouter()
	register.Use(r.authMiddleware.Authenticate)
	register.Use(middleware.RequireAdmin)
	register.HandleFunc("/staff", r.authHandler.RegisterStaff).Methods(http.MethodPost)
	register.HandleFunc("/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)

	// Patient records (any clinic employee)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequireStaff)
	patients.HandleFunc("", r.patientHandler.Create).Methods(http.MethodPost)
	patients.HandleFunc("", r.patientHandler.GetAll).Methods(http.MethodGet)
	patients.HandleFunc("/search", r.patientHandler.Search).Methods(http.MethodGet)
	patients.HandleFunc("/statistics", r.patientHandler.Statistics).Methods(http.MethodGet)
	patients.HandleFunc("/by-nik/{nik}", r.patientHandler.GetByNIK).Methods(http.MethodGet)
	patients.HandleFunc("/by-medical-record/{number}", r.patientHandler.GetByMedicalRecordNumber).Methods(http.MethodGet)
	patients.HandleFunc("/by-doctor/{id}", r.patientHandler.GetByDoctor).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.GetByID).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.Update).Methods(http.MethodPatch)
	patients.HandleFunc("/{id}", r.patientHandler.Delete).Methods(http.MethodDelete)
	patients.HandleFunc("/{id}/medical-records", r.medicalRecordHandler.GetByPatient).Methods(http.MethodGet)

	// Restore and purge are admin operations
	patientsAdmin := api.PathPrefix("/patients").Subrouter()
	patientsAdmin.Use(r.authMiddleware.Authenticate)
	patientsAdmin.Use(middleware.RequireAdmin)
	patientsAdmin.HandleFunc("/{id}/restore", r.patientHandler.Restore).Methods(http.MethodPost)
	patientsAdmin.HandleFunc("/{id}/permanent", r.patientHandler.Purge).Methods(http.MethodDelete)

	// Doctor directory (any clinic employee)
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	doctors.Use(middleware.RequireStaff)
	doctors.HandleFunc("", r.doctorHandler.GetAll).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}", r.doctorHandler.GetByID).Methods(http.MethodGet)

	// Doctor self profile
	doctorSelf := api.PathPrefix("/doctors").Subrouter()
	doctorSelf.Use(r.authMiddleware.Authenticate)
	doctorSelf.Use(middleware.RequireDoctor)
	doctorSelf.HandleFunc("/me", r.doctorHandler.UpdateSelf).Methods(http.MethodPut)

	// Doctor management (admin)
	doctorsAdmin := api.PathPrefix("/admin/doctors").Subrouter()
	doctorsAdmin.Use(r.authMiddleware.Authenticate)
	doctorsAdmin.Use(middleware.RequireAdmin)
	doctorsAdmin.HandleFunc("/{id}", r.doctorHandler.Update).Methods(http.MethodPut)
	doctorsAdmin.HandleFunc("/{id}", r.doctorHandler.Delete).Methods(http.MethodDelete)

	// Treatment catalog: reads for everyone, writes for admin
	treatments := api.PathPrefix("/treatments").Subrouter()
	treatments.Use(r.authMiddleware.Authenticate)
	treatments.Use(middleware.RequireStaff)
	treatments.HandleFunc("", r.treatmentHandler.GetAll).Methods(http.MethodGet)
	treatments.HandleFunc("/{id}", r.treatmentHandler.GetByID).Methods(http.MethodGet)

	treatmentsAdmin := api.PathPrefix("/treatments").Subrouter()
	treatmentsAdmin.Use(r.authMiddleware.Authenticate)
	treatmentsAdmin.Use(middleware.RequireAdmin)
	treatmentsAdmin.HandleFunc("", r.treatmentHandler.Create).Methods(http.MethodPost)
	treatmentsAdmin.HandleFunc("/{id}", r.treatmentHandler.Update).Methods(http.MethodPut)
	treatmentsAdmin.HandleFunc("/{id}", r.treatmentHandler.Delete).Methods(http.MethodDelete)

	// Appointments: scheduling is front-desk work, reads for everyone
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(middleware.RequireStaff)
	appointments.HandleFunc("", r.appointmentHandler.GetAll).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetByID).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Update).Methods(http.MethodPut)

	appointmentsDesk := api.PathPrefix("/appointments").Subrouter()
	appointmentsDesk.Use(r.authMiddleware.Authenticate)
	appointmentsDesk.Use(middleware.RequireAdminOrStaff)
	appointmentsDesk.HandleFunc("", r.appointmentHandler.Create).Methods(http.MethodPost)

	// Medical records (doctors write, clinic staff read)
	records := api.PathPrefix("/medical-records").Subrouter()
	records.Use(r.authMiddleware.Authenticate)
	records.Use(middleware.RequireStaff)
	records.HandleFunc("/{id}", r.medicalRecordHandler.GetByID).Methods(http.MethodGet)

	recordsDoctor := api.PathPrefix("/medical-records").Subrouter()
	recordsDoctor.Use(r.authMiddleware.Authenticate)
	recordsDoctor.Use(middleware.RequireDoctor)
	recordsDoctor.HandleFunc("", r.medicalRecordHandler.Create).Methods(http.MethodPost)
	recordsDoctor.HandleFunc("/{id}", r.medicalRecordHandler.Update).Methods(http.MethodPut)

	// Reports and audit trail (admin)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/reports/revenue", r.reportHandler.Revenue).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetByID).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
