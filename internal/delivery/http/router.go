package http

import (
	"net/http"

	"cabinet-medical-api/internal/delivery/http/handler"
	"cabinet-medical-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                   *mux.Router
	authHandler              *handler.AuthHandler
	patientHandler           *handler.PatientHandler
	rendezVousHandler        *handler.RendezVousHandler
	queueHandler             *handler.QueueHandler
	biologicalRequestHandler *handler.BiologicalRequestHandler
	reminderHandler          *handler.ReminderHandler
	publicHandler            *handler.PublicHandler
	authMiddleware           *middleware.AuthMiddleware
	corsMiddleware           *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	rendezVousHandler *handler.RendezVousHandler,
	queueHandler *handler.QueueHandler,
	biologicalRequestHandler *handler.BiologicalRequestHandler,
	reminderHandler *handler.ReminderHandler,
	publicHandler *handler.PublicHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:                   mux.NewRouter(),
		authHandler:              authHandler,
		patientHandler:           patientHandler,
		rendezVousHandler:        rendezVousHandler,
		queueHandler:             queueHandler,
		biologicalRequestHandler: biologicalRequestHandler,
		reminderHandler:          reminderHandler,
		publicHandler:            publicHandler,
		authMiddleware:           authMiddleware,
		corsMiddleware:           corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public waiting-room display (no auth)
	public := api.PathPrefix("/public").Subrouter()
	public.HandleFunc("/waiting-line", r.publicHandler.GetWaitingLine).Methods(http.MethodGet)
	public.HandleFunc("/waiting-line/stats", r.publicHandler.GetWaitingLineStats).Methods(http.MethodGet)
	public.HandleFunc("/waiting-line/ws", r.publicHandler.WaitingLineSocket).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", r.authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentMedecin).Methods(http.MethodGet)

	// Medecin routes (protected)
	medecin := api.PathPrefix("/medecin").Subrouter()
	medecin.Use(r.authMiddleware.Authenticate)

	// Patient management. Route names follow the paths the cabinet frontend
	// already calls.
	medecin.HandleFunc("/create-patient", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	medecin.HandleFunc("/list-patients", r.patientHandler.ListPatients).Methods(http.MethodGet)
	medecin.HandleFunc("/profile-patient/{id}", r.patientHandler.GetPatientProfile).Methods(http.MethodGet)
	medecin.HandleFunc("/patients/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	medecin.HandleFunc("/patients/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)

	// Rendez-vous booking and history
	medecin.HandleFunc("/add-appointment", r.rendezVousHandler.CreateRendezVous).Methods(http.MethodPost)
	medecin.HandleFunc("/today-appointments", r.rendezVousHandler.TodayRendezVous).Methods(http.MethodGet)
	medecin.HandleFunc("/completed-appointments", r.rendezVousHandler.CompletedAppointments).Methods(http.MethodGet)
	medecin.HandleFunc("/rendez-vous/{id}/state", r.rendezVousHandler.GetState).Methods(http.MethodGet)

	// Waiting-queue transitions
	medecin.HandleFunc("/add-to-waiting-today", r.queueHandler.EnqueueToday).Methods(http.MethodPost)
	medecin.HandleFunc("/add-to-waiting", r.queueHandler.AdmitToWaiting).Methods(http.MethodPost)
	medecin.HandleFunc("/add-to-actif", r.queueHandler.AdmitToInProgress).Methods(http.MethodPost)
	medecin.HandleFunc("/finish-consultation", r.queueHandler.FinishConsultation).Methods(http.MethodPost)
	medecin.HandleFunc("/cancel-appointments", r.queueHandler.SweepExpired).Methods(http.MethodGet)

	// Biological requests
	medecin.HandleFunc("/biological-requests", r.biologicalRequestHandler.CreateBiologicalRequest).Methods(http.MethodPost)
	medecin.HandleFunc("/biological-requests/{patientId}", r.biologicalRequestHandler.ListByPatient).Methods(http.MethodGet)
	medecin.HandleFunc("/biological-requests/{requestId}", r.biologicalRequestHandler.UpdateBiologicalRequest).Methods(http.MethodPut)

	// WhatsApp reminders
	medecin.HandleFunc("/send-reminders", r.reminderHandler.SendReminders).Methods(http.MethodPost)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
