package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/simplemeal/internal/auth"
	"github.com/fdg312/simplemeal/internal/blob"
	"github.com/fdg312/simplemeal/internal/config"
	"github.com/fdg312/simplemeal/internal/entitlement"
	"github.com/fdg312/simplemeal/internal/exports"
	"github.com/fdg312/simplemeal/internal/items"
	"github.com/fdg312/simplemeal/internal/meals"
	"github.com/fdg312/simplemeal/internal/schedule"
	"github.com/fdg312/simplemeal/internal/sharing"
	"github.com/fdg312/simplemeal/internal/shoppinglist"
	"github.com/fdg312/simplemeal/internal/storage"
	"github.com/fdg312/simplemeal/internal/storage/memory"
	"github.com/fdg312/simplemeal/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Подключение к PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("Ошибка подключения к PostgreSQL: %v", err)
		log.Println("Fallback на in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("PostgreSQL подключен успешно")
	s.storage = pgStorage
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Entitlement API
	policy := entitlement.Policy{
		FreeHorizonDays:    s.config.EntitlementFreeHorizonDays,
		FreeMealsPerDay:    s.config.EntitlementFreeMealsPerDay,
		PremiumMealsPerDay: s.config.EntitlementPremiumMealsPerDay,
		FreePlanDays:       s.config.EntitlementFreePlanDays,
		PremiumPlanDays:    s.config.EntitlementPremiumPlanDays,
	}
	entitlementService := entitlement.NewService(s.storage, policy, nil)
	entitlementHandler := entitlement.NewHandlers(entitlementService)

	// GET /v1/entitlement - current entitlement and limits
	s.mux.HandleFunc("GET /v1/entitlement", entitlementHandler.HandleGet)

	// PUT /v1/entitlement - set premium state
	s.mux.HandleFunc("PUT /v1/entitlement", entitlementHandler.HandleUpdate)

	// POST /v1/entitlement/refresh - re-pull from provider
	s.mux.HandleFunc("POST /v1/entitlement/refresh", entitlementHandler.HandleRefresh)

	// Items library API
	itemsService := items.NewService(s.storage)
	itemsHandler := items.NewHandlers(itemsService)
	s.mux.HandleFunc("GET /v1/items", itemsHandler.HandleList)
	s.mux.HandleFunc("POST /v1/items", itemsHandler.HandleCreate)
	s.mux.HandleFunc("PUT /v1/items/{id}", itemsHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/items/{id}", itemsHandler.HandleDelete)

	// Meals API
	mealsService := meals.NewService(s.storage)
	mealsHandler := meals.NewHandlers(mealsService)

	// GET /v1/meals/categories - before {id} to avoid pattern conflicts
	s.mux.HandleFunc("GET /v1/meals/categories", mealsHandler.HandleCategories)
	s.mux.HandleFunc("GET /v1/meals", mealsHandler.HandleList)
	s.mux.HandleFunc("POST /v1/meals", mealsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/meals/{id}", mealsHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/meals/{id}", mealsHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", mealsHandler.HandleDelete)

	// Plan API (calendar + settings)
	scheduleService := schedule.NewService(s.storage, s.storage, s.storage, entitlementService, s.config.PlanDefaultDays)
	scheduleHandler := schedule.NewHandlers(scheduleService)
	s.mux.HandleFunc("GET /v1/plan", scheduleHandler.HandlePlan)
	s.mux.HandleFunc("POST /v1/plan/meals", scheduleHandler.HandleCreate)
	s.mux.HandleFunc("DELETE /v1/plan/meals/{id}", scheduleHandler.HandleDelete)
	s.mux.HandleFunc("GET /v1/plan/settings", scheduleHandler.HandleGetSettings)
	s.mux.HandleFunc("PUT /v1/plan/settings", scheduleHandler.HandleUpdateSettings)

	// Shopping list API
	aggregator := shoppinglist.NewAggregator(s.storage, s.storage)
	shoppingService := shoppinglist.NewService(s.storage, aggregator)
	shoppingHandler := shoppinglist.NewHandlers(shoppingService)
	s.mux.HandleFunc("GET /v1/shopping-list", shoppingHandler.HandleList)
	s.mux.HandleFunc("DELETE /v1/shopping-list", shoppingHandler.HandleClear)
	s.mux.HandleFunc("POST /v1/shopping-list/items", shoppingHandler.HandleCreate)
	s.mux.HandleFunc("PATCH /v1/shopping-list/items/{id}", shoppingHandler.HandleUpdate)
	s.mux.HandleFunc("POST /v1/shopping-list/items/{id}/toggle", shoppingHandler.HandleToggle)
	s.mux.HandleFunc("DELETE /v1/shopping-list/items/{id}", shoppingHandler.HandleDelete)

	// POST /v1/shopping-list/generate - rebuild from the meal plan
	s.mux.HandleFunc("POST /v1/shopping-list/generate", shoppingHandler.HandleGenerate)

	// Sharing API (deep links)
	codec := sharing.NewCodec(s.config.ShareScheme)
	sharingService := sharing.NewService(codec, s.storage, s.storage, s.storage)
	sharingHandler := sharing.NewHandlers(sharingService)
	s.mux.HandleFunc("GET /v1/share/meal-plan", sharingHandler.HandleShareMealPlan)
	s.mux.HandleFunc("GET /v1/share/shopping-list", sharingHandler.HandleShareShoppingList)
	s.mux.HandleFunc("GET /v1/share/meals/{id}", sharingHandler.HandleShareMeal)
	s.mux.HandleFunc("POST /v1/share/import/preview", sharingHandler.HandleImportPreview)
	s.mux.HandleFunc("POST /v1/share/import/apply", sharingHandler.HandleImportApply)

	// Exports API (text/CSV/PDF, optionally delivered via blob storage)
	exportsBlobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("blob store initialization failed: %v", err)
	}
	log.Printf("INFO: exports delivery mode=%s", blobMode)

	exportsService := exports.NewService(s.storage, s.storage, s.storage, exportsBlobStore, s.config.Blob.S3.PresignTTLSeconds)
	exportsHandler := exports.NewHandlers(exportsService)
	s.mux.HandleFunc("GET /v1/exports/meal-plan", exportsHandler.HandleMealPlan)
	s.mux.HandleFunc("GET /v1/exports/shopping-list", exportsHandler.HandleShoppingList)
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Meals API: http://localhost%s/v1/meals\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
