package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sniplink/snip/pkg/snip/admin"
	"github.com/sniplink/snip/pkg/snip/auth"
	"github.com/sniplink/snip/pkg/snip/clicks"
	"github.com/sniplink/snip/pkg/snip/links"
	"github.com/sniplink/snip/pkg/snip/models"
	"github.com/sniplink/snip/pkg/snip/redirect"
	"github.com/sniplink/snip/pkg/snip/shortid"
	"github.com/sniplink/snip/pkg/snip/store"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// setupFullServer creates a Gin engine with all routes registered
// This mirrors the setup in cmd/snip-server/main.go
func setupFullServer(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	logger := zap.NewNop()
	linkStore := store.NewLinkStore(db, shortid.New())
	clickRecorder := store.NewClickRecorder(db, linkStore, logger)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Admin routes (JWT, admin flag required)
		adminHandler := admin.NewHandler(db, linkStore)
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin())
		adminHandler.RegisterRoutes(adminGroup)
	}

	// Link management and click history at the root
	authed := r.Group("", auth.AuthMiddleware())
	{
		linksHandler := links.NewHandler(linkStore)
		linksHandler.RegisterRoutes(authed)

		clicksHandler := clicks.NewHandler(clickRecorder)
		clicksHandler.RegisterRoutes(authed)
	}

	// Redirect routes (public, must be registered LAST to avoid conflicts)
	redirectHandler := redirect.NewHandler(linkStore, clickRecorder, logger)
	redirectHandler.RegisterRoutes(r)

	return r
}

// TestServerStartup verifies that all routes can be registered without conflicts
func TestServerStartup(t *testing.T) {
	db := setupTestDB(t)

	// This will panic if there are route conflicts
	router := setupFullServer(db)

	if router == nil {
		t.Fatal("Expected router to be created")
	}
}

// TestHealthEndpoint verifies the health endpoint responds correctly
func TestHealthEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)

	req, _ := http.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Code)
	}
}

// register creates an account and returns its bearer token
func register(t *testing.T, router *gin.Engine, email string) string {
	body := map[string]string{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	}
	jsonBody, _ := json.Marshal(body)

	req, _ := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Registration failed: %d %s", resp.Code, resp.Body.String())
	}

	var response struct {
		Token string `json:"token"`
	}
	json.Unmarshal(resp.Body.Bytes(), &response)
	return "Bearer " + response.Token
}

// TestCreateAndResolveFlow walks the full lifecycle: register, shorten,
// visit, inspect click history, delete.
func TestCreateAndResolveFlow(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)
	token := register(t, router, "test@example.com")

	// Create a short link
	jsonBody, _ := json.Marshal(map[string]string{"target": "https://example.com"})
	req, _ := http.NewRequest("POST", "/create", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Create failed: %d %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ID         uint   `json:"id"`
		Identifier string `json:"identifier"`
		Target     string `json:"target"`
	}
	json.Unmarshal(resp.Body.Bytes(), &created)

	if created.Target != "https://example.com" {
		t.Fatalf("Expected target https://example.com, got %s", created.Target)
	}

	// Visit the short link as an anonymous client
	req, _ = http.NewRequest("GET", "/"+created.Identifier, nil)
	req.RemoteAddr = "1.2.3.4:5678"
	req.Header.Set("User-Agent", testDesktopUA)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Fatalf("Expected redirect 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "https://example.com" {
		t.Fatalf("Expected redirect to https://example.com, got %s", loc)
	}

	// The click shows up in the owner's history with the visitor's IP
	req, _ = http.NewRequest("GET", fmt.Sprintf("/clicks/url/%d", created.ID), nil)
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Clicks listing failed: %d %s", resp.Code, resp.Body.String())
	}

	var events []struct {
		ID        uint   `json:"id"`
		IPAddress string `json:"ip_address"`
		Browser   string `json:"browser"`
	}
	json.Unmarshal(resp.Body.Bytes(), &events)

	if len(events) != 1 {
		t.Fatalf("Expected 1 click event, got %d", len(events))
	}
	if events[0].IPAddress != "1.2.3.4" {
		t.Errorf("Expected IP 1.2.3.4, got %s", events[0].IPAddress)
	}
	if events[0].Browser != "Chrome" {
		t.Errorf("Expected browser Chrome, got %s", events[0].Browser)
	}

	// Dashboard shows the click count
	req, _ = http.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var dashboard struct {
		TotalURLs   int  `json:"total_urls"`
		TotalClicks uint `json:"total_clicks"`
	}
	json.Unmarshal(resp.Body.Bytes(), &dashboard)
	if dashboard.TotalURLs != 1 || dashboard.TotalClicks != 1 {
		t.Errorf("Expected 1 URL / 1 click, got %d / %d", dashboard.TotalURLs, dashboard.TotalClicks)
	}

	// Delete the link; its click history must go with it
	req, _ = http.NewRequest("POST", fmt.Sprintf("/delete/%d", created.ID), nil)
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Delete failed: %d %s", resp.Code, resp.Body.String())
	}

	var residual int64
	db.Model(&models.ClickEvent{}).Count(&residual)
	if residual != 0 {
		t.Errorf("Expected no residual click events after delete, got %d", residual)
	}

	// The identifier no longer resolves
	req, _ = http.NewRequest("GET", "/"+created.Identifier, nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", resp.Code)
	}
}

// TestOwnershipBoundary verifies one user cannot touch another's links
func TestOwnershipBoundary(t *testing.T) {
	db := setupTestDB(t)
	router := setupFullServer(db)
	ownerToken := register(t, router, "owner@example.com")
	otherToken := register(t, router, "other@example.com")

	jsonBody, _ := json.Marshal(map[string]string{"target": "https://example.com"})
	req, _ := http.NewRequest("POST", "/create", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", ownerToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var created struct {
		ID uint `json:"id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &created)

	// Another user cannot edit it
	jsonBody, _ = json.Marshal(map[string]string{"target": "https://evil.example.com"})
	req, _ = http.NewRequest("POST", fmt.Sprintf("/edit/%d", created.ID), bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", otherToken)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-owner edit, got %d", resp.Code)
	}

	// Nor delete it
	req, _ = http.NewRequest("POST", fmt.Sprintf("/delete/%d", created.ID), nil)
	req.Header.Set("Authorization", otherToken)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-owner delete, got %d", resp.Code)
	}
}
