package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/vehicle-tracker/internal/auth"
	"github.com/ukydev/vehicle-tracker/internal/db"
	"github.com/ukydev/vehicle-tracker/internal/handlers"
	"github.com/ukydev/vehicle-tracker/internal/ingest"
	"github.com/ukydev/vehicle-tracker/internal/license"
	"github.com/ukydev/vehicle-tracker/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Info("loaded configuration from .env")
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	log.Info("connected to MongoDB")

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "vehicle_tracker"
	}
	database := client.Database(dbName)

	recordsCollection := database.Collection("tracking_records")
	if err := db.EnsureIndexes(context.Background(), recordsCollection); err != nil {
		log.WithError(err).Error("failed to create indexes")
	} else {
		log.Info("database indexes created")
	}

	users := &db.MongoUserCollection{Collection: database.Collection("users")}
	licenses := &db.MongoLicenseCollection{Collection: database.Collection("licenses")}
	records := &db.MongoTrackingCollection{Collection: recordsCollection}
	system := &db.MongoSystemCollection{Collection: database.Collection("system")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("failed to create auth service")
	}
	licenseService := license.NewService(licenses)
	ingestService := ingest.NewService(records)

	authHandler := handlers.NewAuthHandler(authService, licenseService, users)
	systemHandler := handlers.NewSystemHandler(authService, licenseService, users, records, system)
	usersHandler := handlers.NewUsersHandler(authService, users)
	licenseHandler := handlers.NewLicenseHandler(licenseService)
	trackingHandler := handlers.NewTrackingHandler(ingestService, records)
	backupHandler := handlers.NewBackupHandler(users, licenses, records, system)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	licenseMiddleware := middleware.NewLicenseMiddleware(licenseService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	withLicense := func(h http.HandlerFunc) http.Handler {
		return licenseMiddleware.RequireValidLicense(h)
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAdmin(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/api/auth/login", rateLimiter.RateLimit(10, 60)(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("/api/system/status", systemHandler.Status)
	mux.HandleFunc("/api/setup/initial", systemHandler.InitialSetup)

	mux.Handle("/api/users/create", withLicense(usersHandler.Create))
	mux.Handle("/api/users/list", withLicense(usersHandler.List))
	mux.Handle("/api/users/", withLicense(usersHandler.Delete))

	mux.HandleFunc("/api/license/current", licenseHandler.Current)
	mux.Handle("/api/license/renew", adminOnly(licenseHandler.Renew))

	mux.Handle("/api/tracking/upload", withLicense(trackingHandler.Upload))
	mux.Handle("/api/tracking/add-manual", withLicense(trackingHandler.AddManual))
	mux.Handle("/api/tracking/records", withLicense(trackingHandler.Records))
	mux.Handle("/api/tracking/identifiers", withLicense(trackingHandler.Identifiers))
	mux.Handle("/api/tracking/stats", withLicense(trackingHandler.Stats))

	mux.Handle("/api/backup/create", adminOnly(backupHandler.Create))
	mux.Handle("/api/backup/restore", adminOnly(backupHandler.Restore))

	handler := authMiddleware.Authenticate(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
