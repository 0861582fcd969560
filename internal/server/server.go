package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/pricecheck/internal/account"
	"github.com/dukerupert/pricecheck/internal/auth"
	"github.com/dukerupert/pricecheck/internal/barcode"
	"github.com/dukerupert/pricecheck/internal/captcha"
	"github.com/dukerupert/pricecheck/internal/config"
	"github.com/dukerupert/pricecheck/internal/email"
	"github.com/dukerupert/pricecheck/internal/handler"
	"github.com/dukerupert/pricecheck/internal/middleware"
	"github.com/dukerupert/pricecheck/internal/store"
	"github.com/dukerupert/pricecheck/internal/token"
)

type Server struct {
	db            *sql.DB
	authH         *handler.AuthHandler
	groceryH      *handler.GroceryHandler
	shopH         *handler.ShopHandler
	shoppingListH *handler.ShoppingListHandler
	contactH      *handler.ContactHandler
	tokenManager  *auth.TokenManager
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	groceryStore := store.NewGroceryStore(db)
	shopStore := store.NewShopStore(db)
	listStore := store.NewShoppingListStore(db)
	priceStore := store.NewPriceStore(db)
	messageStore := store.NewMessageStore(db)
	emailListStore := store.NewEmailListStore(db)

	tokenManager := auth.NewTokenManager(cfg.JWTSecret)
	tokenMaker := token.NewMaker(cfg.TokenSecret)
	emailClient := email.NewClient(cfg.PostmarkToken, cfg.FromEmail, cfg.BaseURL)
	verifier := captcha.NewVerifier(cfg.RecaptchaSecret)

	barcodeClient := barcode.NewClient(barcode.Config{
		BaseURL: cfg.BarcodeAPIURL,
		APIKey:  cfg.BarcodeAPIKey,
	})
	barcodeSvc := barcode.NewService(groceryStore, barcodeClient, logger.With("component", "barcode"))

	accountSvc := account.NewService(
		db, userStore, tokenMaker, tokenManager, emailClient,
		account.Config{SignupEnabled: cfg.SignupEnabled},
		logger.With("component", "account"),
	)

	return &Server{
		db:            db,
		authH:         handler.NewAuthHandler(accountSvc, logger.With("component", "auth")),
		groceryH:      handler.NewGroceryHandler(groceryStore, barcodeSvc, logger.With("component", "grocery")),
		shopH:         handler.NewShopHandler(shopStore, logger.With("component", "shop")),
		shoppingListH: handler.NewShoppingListHandler(listStore, priceStore, shopStore, logger.With("component", "shopping_list")),
		contactH:      handler.NewContactHandler(messageStore, emailListStore, verifier, emailClient, cfg.ContactEmail, logger.With("component", "contact")),
		tokenManager:  tokenManager,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/signup", s.ipLimited(s.authH.Signup))
	outerMux.HandleFunc("POST /api/token", s.ipLimited(s.authH.Token))
	outerMux.HandleFunc("POST /api/token/refresh", s.authH.TokenRefresh)
	outerMux.HandleFunc("POST /api/confirm-email", s.authH.ConfirmEmail)
	outerMux.HandleFunc("POST /api/forgot-password", s.emailLimited(s.authH.ForgotPassword))
	outerMux.HandleFunc("POST /api/reset-password", s.authH.ResetPassword)
	outerMux.HandleFunc("POST /api/contact-us", s.ipLimited(s.contactH.ContactUs))
	outerMux.HandleFunc("POST /api/email-list", s.ipLimited(s.contactH.EmailListSignup))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokenManager)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) ipLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

// emailLimited throttles by the email address in the request body, one
// request per address per 30 seconds. Requests without an email pass through
// and fail validation in the handler instead.
func (s *Server) emailLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.BodyEmailKey, 1, 30*time.Second)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Grocery API routes
	mux.HandleFunc("GET /api/groceries", s.groceryH.List)
	mux.HandleFunc("POST /api/groceries", s.groceryH.Create)
	mux.HandleFunc("GET /api/groceries/{id}", s.groceryH.Get)
	mux.HandleFunc("PUT /api/groceries/{id}", s.groceryH.Update)
	mux.HandleFunc("DELETE /api/groceries/{id}", s.groceryH.Delete)
	mux.HandleFunc("POST /api/product-from-barcode", s.groceryH.ProductFromBarcode)

	// Shop API routes
	mux.HandleFunc("GET /api/shops", s.shopH.List)
	mux.HandleFunc("POST /api/shops", s.shopH.Create)
	mux.HandleFunc("GET /api/shops/{id}", s.shopH.Get)
	mux.HandleFunc("PUT /api/shops/{id}", s.shopH.Update)
	mux.HandleFunc("DELETE /api/shops/{id}", s.shopH.Delete)

	// Shopping list API routes
	mux.HandleFunc("GET /api/shopping-lists", s.shoppingListH.List)
	mux.HandleFunc("POST /api/shopping-lists", s.shoppingListH.Create)
	mux.HandleFunc("GET /api/shopping-lists/{id}", s.shoppingListH.Get)
	mux.HandleFunc("PUT /api/shopping-lists/{id}", s.shoppingListH.Update)
	mux.HandleFunc("DELETE /api/shopping-lists/{id}", s.shoppingListH.Delete)
	mux.HandleFunc("GET /api/shopping-lists/{id}/entries", s.shoppingListH.ListEntries)
	mux.HandleFunc("POST /api/shopping-lists/{id}/entries", s.shoppingListH.CreateEntry)
	mux.HandleFunc("DELETE /api/entries/{entry_id}", s.shoppingListH.DeleteEntry)

	// Item API routes
	mux.HandleFunc("GET /api/entries/{entry_id}/items", s.shoppingListH.ListItems)
	mux.HandleFunc("POST /api/entries/{entry_id}/items", s.shoppingListH.CreateItem)
	mux.HandleFunc("GET /api/items/{id}", s.shoppingListH.GetItem)
	mux.HandleFunc("PUT /api/items/{id}", s.shoppingListH.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.shoppingListH.DeleteItem)

	// Price API routes
	mux.HandleFunc("GET /api/entries/{entry_id}/prices", s.shoppingListH.ListPrices)
	mux.HandleFunc("POST /api/entries/{entry_id}/prices", s.shoppingListH.CreatePrice)
	mux.HandleFunc("DELETE /api/prices/{price_id}", s.shoppingListH.DeletePrice)
	mux.HandleFunc("GET /api/prices/{price_id}/shops", s.shoppingListH.ListPriceShops)
	mux.HandleFunc("POST /api/prices/{price_id}/shops", s.shoppingListH.AttachPriceShop)
}
