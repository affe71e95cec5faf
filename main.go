package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/Saketh0903/Chat-Application-groups-full/internal/auth"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/blob"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/chat"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/handlers"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/middleware"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/store/sqlstore"
	"github.com/Saketh0903/Chat-Application-groups-full/internal/ws"
)

var addr = flag.String("addr", ":8080", "http service address")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}
	auth.SetSecret(os.Getenv("COOKIE_SECRET"))

	// Initialize Database
	driver := os.Getenv("DB_DRIVER")
	dsn := os.Getenv("DB_DSN")
	if driver == "" {
		driver = "sqlite3"
		dsn = "chat.db"
	}
	store, err := sqlstore.New(driver, dsn)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize blob storage: S3 when configured, local files otherwise.
	var blobs blob.Store
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		blobs, err = blob.NewS3Store(context.Background(), bucket)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		blobs, err = blob.NewLocalStore("uploads", "/files")
		if err != nil {
			log.Fatal(err)
		}
	}

	// Initialize realtime hub and message router. The router fans out
	// through the hub; the hub dispatches socket sends to the router.
	hub := ws.NewHub()
	router := chat.NewRouter(store, hub)
	hub.Router = router
	groups := chat.NewGroups(store)

	// Initialize Handlers
	authHandler := &handlers.AuthHandler{Store: store}
	messageHandler := &handlers.MessageHandler{Store: store, Router: router, Hub: hub, Blobs: blobs}
	groupHandler := &handlers.GroupHandler{Groups: groups}
	keyHandler := &handlers.KeyHandler{Store: store}

	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	// Auth endpoints
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Authenticated API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware)
	api.HandleFunc("/messages/users", messageHandler.ListUsers).Methods("GET")
	api.HandleFunc("/messages/upload", messageHandler.Upload).Methods("POST")
	api.HandleFunc("/messages/download", messageHandler.Download).Methods("GET")
	api.HandleFunc("/messages/send/{id}", messageHandler.Send).Methods("POST")
	api.HandleFunc("/messages/{id}", messageHandler.GetMessages).Methods("GET")
	api.HandleFunc("/groups", groupHandler.Create).Methods("POST")
	api.HandleFunc("/groups/my", groupHandler.My).Methods("GET")
	api.HandleFunc("/groups/join/{id}", groupHandler.Join).Methods("POST")
	api.HandleFunc("/groups/leave/{id}", groupHandler.Leave).Methods("POST")
	api.HandleFunc("/keys", keyHandler.Put).Methods("PUT")
	api.HandleFunc("/keys/{id}", keyHandler.Get).Methods("GET")

	// Locally stored attachments
	r.PathPrefix("/files/").HandlerFunc(messageHandler.ServeObject).Methods("GET")

	// WebSocket Endpoint
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.UserIDFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ws.ServeWs(hub, w, r, userID)
	})

	// Static client
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("static")))

	log.Println("Starting server on", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
