package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"cloud_drive_agent/internal/pkg/mock_backend/handlers"
)

func main() {
	port := os.Getenv("MOCK_BACKEND_PORT")
	if port == "" {
		port = "4000"
	}

	agentURL := os.Getenv("AGENT_URL")
	if agentURL == "" {
		agentURL = "http://localhost:8090"
	}

	server := handlers.NewServer(agentURL)

	fmt.Printf("Mock backend listening on port %s\n", port)
	fmt.Println("Available endpoints:")
	fmt.Println("   POST /api/auth/register")
	fmt.Println("   POST /api/auth/login")
	fmt.Println("   GET  /api/auth/me")
	fmt.Println("   GET  /api/auth/google")
	fmt.Println("   GET  /api/files")
	fmt.Println("   POST /api/files/upload")
	fmt.Println("   POST /api/files/folders")
	fmt.Println("   GET  /api/shares/shared-with-me")
	fmt.Println("   GET  /api/shares/shared-by-me")
	fmt.Println("   WS   /realtime")
	fmt.Println("   GET  /health")

	log.Fatal(http.ListenAndServe(":"+port, corsMiddleware(server.Router())))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
