package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"nivesh/internal/config"
	"nivesh/internal/handlers"
	"nivesh/internal/logger"
	"nivesh/internal/middleware"
	"nivesh/internal/services"
	"nivesh/internal/testutil"
	"nivesh/internal/validator"
)

const serviceKey = "integration-service-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Redis  *miniredis.Miniredis
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:        "integration-secret",
		JWTExpirationDur: time.Hour,
		IdempotencyTTL:   5 * time.Minute,
		ServiceAPIKey:    serviceKey,
	})
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and an in-memory Redis.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// Services
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	clientService := services.NewClientService(db)
	avenueService := services.NewAvenueService(db)
	investmentService := services.NewInvestmentService(db)
	portfolioService := services.NewPortfolioService(investmentService)

	if _, err := avenueService.SeedDefaults(); err != nil {
		t.Fatalf("failed to seed avenues: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	clientHandler := handlers.NewClientHandler(clientService, auditService)
	avenueHandler := handlers.NewAvenueHandler(avenueService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api.GET("/investment-avenues/", avenueHandler.ListAvenues)
	api.GET("/investment-avenues/:id/", avenueHandler.GetAvenue)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.Me)

	clients := protected.Group("/clients")
	clients.GET("/", clientHandler.ListClients)
	clients.POST("/", clientHandler.CreateClient)
	clients.GET("/:code/", clientHandler.GetClient)
	clients.PUT("/:code/", clientHandler.UpdateClient)
	clients.DELETE("/:code/", clientHandler.DeleteClient)

	avenues := protected.Group("/investment-avenues")
	avenues.POST("/", avenueHandler.CreateAvenue)
	avenues.PUT("/:id/", avenueHandler.UpdateAvenue)
	avenues.DELETE("/:id/", avenueHandler.DeleteAvenue)

	investments := protected.Group("/investments")
	investments.GET("/", investmentHandler.ListInvestments)
	investments.POST("/", middleware.Idempotency(rdb, config.Get().IdempotencyTTL), investmentHandler.CreateInvestment)
	investments.GET("/:id/", investmentHandler.GetInvestment)
	investments.PUT("/:id/", investmentHandler.UpdateInvestment)
	investments.DELETE("/:id/", investmentHandler.DeleteInvestment)
	investments.GET("/:id/history/", investmentHandler.InvestmentHistory)

	protected.GET("/portfolio/summary/", portfolioHandler.Summary)
	protected.GET("/portfolio/holdings/", portfolioHandler.Holdings)
	protected.GET("/dashboard/maturities/", portfolioHandler.Maturities)
	protected.GET("/reports/holdings.csv", portfolioHandler.HoldingsCSV)

	pipeline := api.Group("/pipeline")
	pipeline.Use(middleware.ServiceKeyMiddleware(serviceKey))
	pipeline.GET("/reports/holdings.csv", portfolioHandler.HoldingsCSV)

	return &testApp{DB: db, Redis: mr, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	return app.requestWithHeaders(method, path, body, token, nil)
}

func (app *testApp) requestWithHeaders(method, path, body, token string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice of objects.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(result map[string]interface{}) string {
	errObj, _ := result["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test Advisor"}`, email, password)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createClient adds a client through the API.
func (app *testApp) createClient(t *testing.T, token, code, name string) {
	t.Helper()
	body := fmt.Sprintf(`{"client_code":%q,"client_name":%q,"pan":"ABCDE1234F"}`, code, name)
	rec := app.request("POST", "/api/clients/", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client failed: %d %s", rec.Code, rec.Body.String())
	}
}
