package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"clinicare/internal/api"
	"clinicare/internal/auth"
	"clinicare/internal/repository"
	"clinicare/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Printf("Migration file not found, skipping: %v", err)
	} else if _, err := db.Exec(string(migration)); err != nil {
		log.Printf("Migration warning: %v", err)
	} else {
		log.Println("Migration applied")
	}

	bookingRepo := repository.NewBookingRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	userAuthRepo := repository.NewUserAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	sender := service.NewSenderService()
	bookingSvc := service.NewBookingService(bookingRepo, sender)
	directorySvc := service.NewDirectoryService(directoryRepo)
	userAuthSvc := service.NewUserAuthService(userAuthRepo)
	jobSvc := service.NewJobService(jobRepo, sender)
	predictionSvc := service.NewMockPredictionService()

	bookingHandler := api.NewBookingHandler(bookingSvc)
	directoryHandler := api.NewDirectoryHandler(directorySvc)
	authHandler := api.NewAuthHandler(userAuthSvc)
	predictionHandler := api.NewPredictionHandler(predictionSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/doctors", directoryHandler.ListDoctors).Methods("GET")
	r.HandleFunc("/api/doctors/{id}", directoryHandler.GetDoctor).Methods("GET")
	r.HandleFunc("/api/doctors/{id}/slots", bookingHandler.ListSlots).Methods("GET")
	r.HandleFunc("/api/specialties", directoryHandler.ListSpecialties).Methods("GET")
	r.HandleFunc("/api/departments", directoryHandler.ListDepartments).Methods("GET")
	r.HandleFunc("/api/services", directoryHandler.ListServices).Methods("GET")
	r.HandleFunc("/api/availability", bookingHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/predict", predictionHandler.Predict).Methods("POST")

	// Patient endpoints (authenticated)
	patient := r.PathPrefix("/api/appointments").Subrouter()
	patient.Use(auth.UserAuthMiddleware)
	patient.HandleFunc("", bookingHandler.BookAppointment).Methods("POST")
	patient.HandleFunc("", bookingHandler.ListMyAppointments).Methods("GET")
	patient.HandleFunc("/{id}", bookingHandler.CancelAppointment).Methods("DELETE")

	// Staff endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.StaffAuthMiddleware)
	admin.HandleFunc("/appointments/{id}/confirm", bookingHandler.ConfirmAppointment).Methods("POST")

	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if err := jobSvc.CancelStalePendingAppointments(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule stale appointment job: %v", err)
	}
	if _, err := c.AddFunc("0 9 * * *", func() {
		if err := jobSvc.SendUpcomingAppointmentReminders(); err != nil {
			log.Printf("Cron Job error: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
