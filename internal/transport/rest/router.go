package rest

import (
	_ "adaptivequiz/docs"
	"adaptivequiz/internal/service"
	"adaptivequiz/internal/transport/rest/handler"
	"adaptivequiz/internal/transport/rest/middleware"
	"adaptivequiz/internal/transport/ws"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	QuizService    *service.QuizService
	SessionService *service.SessionService
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
	WSHub          *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(c.QuizService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	wsHandler := ws.NewHandler(c.WSHub, c.SessionService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()
	if c.RateLimiter != nil {
		v1.Use(c.RateLimiter.Limit)
	}

	// Stateless quiz procedures
	v1.HandleFunc("/quiz/content", quizHandler.Content).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/outline", quizHandler.Outline).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/generateQuestion", quizHandler.GenerateQuestion).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/validateAnswer", quizHandler.ValidateAnswer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/checkCompletion", quizHandler.CheckCompletion).Methods("POST", "OPTIONS")

	// Public session routes
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/results", sessionHandler.Results).Methods("GET", "OPTIONS")

	// Session routes (require the session token)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}", sessionHandler.Delete).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/answers", sessionHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/retry", sessionHandler.Retry).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/sessions/{id}/result", sessionHandler.Result).Methods("GET", "OPTIONS")

	// WebSocket feed (token in query param)
	sessionRoutes.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	return r
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
