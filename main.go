package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinevault/api"
	"cinevault/config"
	"cinevault/handlers"
	"cinevault/internal/database"
	"cinevault/services/catalog"
	"cinevault/services/staging"
	"cinevault/utils"
)

func main() {

	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 CineVault Backend Starting...")

	// Optional .env for local development
	_ = godotenv.Load()

	// Determine config path (env or default)
	configPath := os.Getenv("CINEVAULT_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	// Apply port override if specified
	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	// Generate admin credentials if missing
	settings.Server.PIN = strings.TrimSpace(settings.Server.PIN)
	if settings.Server.PIN == "" {
		pin, err := utils.GeneratePIN()
		if err != nil {
			log.Fatalf("failed to generate PIN: %v", err)
		}
		settings.Server.PIN = pin
		fmt.Println("📱 Configure your admin client to use this 6-digit PIN.")
	}
	settings.Server.APIKey = strings.TrimSpace(settings.Server.APIKey)
	if settings.Server.APIKey == "" {
		key, err := utils.GenerateAPIKey()
		if err != nil {
			log.Fatalf("failed to generate API key: %v", err)
		}
		settings.Server.APIKey = key
	}
	if err := cfgManager.Save(settings); err != nil {
		log.Fatalf("failed to persist settings: %v", err)
	}
	fmt.Printf("🔑 CineVault admin PIN: %s\n", settings.Server.PIN)

	// Open the durable catalog store and run migrations
	db, err := database.Open(settings.Database.Path)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer db.Close()

	store := database.NewStore(db.Connection(), utils.Slugify)

	// The staging buffer is deliberately process-lifetime only: items staged
	// during a durable-store outage vanish on restart.
	stagingSvc := staging.NewService()
	catalogSvc := catalog.NewService(store, stagingSvc)

	contentHandler := handlers.NewContentHandler(catalogSvc, store.Content, stagingSvc)
	categoriesHandler := handlers.NewCategoriesHandler(store.Categories)

	// Credential getters reload config per request for hot reload support
	getPIN := func() string {
		s, err := cfgManager.Load()
		if err != nil {
			return settings.Server.PIN
		}
		return s.Server.PIN
	}
	getAPIKey := func() string {
		s, err := cfgManager.Load()
		if err != nil {
			return settings.Server.APIKey
		}
		return s.Server.APIKey
	}

	r := utils.NewRouter()
	api.Register(r, contentHandler, categoriesHandler, getPIN, getAPIKey)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if staged := stagingSvc.Len(); staged > 0 {
		log.Printf("⚠️ %d staged item(s) were never migrated to the durable store and will be lost", staged)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
