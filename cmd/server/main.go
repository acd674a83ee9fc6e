package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/neptino/neptino/editor-go/internal/asset"
	"github.com/neptino/neptino/editor-go/internal/auth"
	"github.com/neptino/neptino/editor-go/internal/config"
	"github.com/neptino/neptino/editor-go/internal/db"
	"github.com/neptino/neptino/editor-go/internal/document"
	mw "github.com/neptino/neptino/editor-go/internal/middleware"
	"github.com/neptino/neptino/editor-go/internal/page"
	"github.com/neptino/neptino/editor-go/internal/session"
	"github.com/neptino/neptino/editor-go/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := db.NewStore(pool)

	authService := auth.NewService(store, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	pageService := page.NewService(store)
	pageHandler := page.NewHandler(pageService)

	// Document loader for the session hub
	docLoader := func(pageID string) (*document.PageDocument, error) {
		// Background context since this runs in the hub goroutine
		snap, err := store.GetLatestSnapshot(context.Background(), pageID)
		if err != nil {
			return nil, err
		}
		var doc document.PageDocument
		if err := json.Unmarshal(snap.Document, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	// Document saver for the session hub
	docSaver := func(pageID string, doc *document.PageDocument) error {
		docJSON, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}

		currentSnap, err := store.GetLatestSnapshot(context.Background(), pageID)
		nextVersion := int32(1)
		if err == nil {
			nextVersion = currentSnap.Version + 1
		}

		_, err = store.CreateSnapshot(context.Background(), db.Snapshot{
			ID:       typeid.NewSnapshotID(),
			PageID:   pageID,
			Version:  nextVersion,
			Document: docJSON,
		})
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}

		return store.TouchPage(context.Background(), pageID)
	}

	hub := session.NewHub(docLoader, docSaver, nil, cfg.HistoryDepth)
	go hub.Run()

	assetHandler := asset.NewHandler(cfg.AssetDir)

	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.NewCORS(allowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/pages", pageHandler.List).Methods("GET")
	api.HandleFunc("/pages", pageHandler.Create).Methods("POST")
	api.HandleFunc("/pages/{pageId}", pageHandler.Get).Methods("GET")
	api.HandleFunc("/pages/{pageId}", pageHandler.Delete).Methods("DELETE")
	api.HandleFunc("/pages/{pageId}/invite", pageHandler.Invite).Methods("POST")
	api.HandleFunc("/pages/{pageId}/members", pageHandler.ListMembers).Methods("GET")
	api.HandleFunc("/pages/{pageId}/members/{userId}", pageHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/pages/{pageId}/snapshots/latest", pageHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/page/{pageId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, pageService, allowedOrigins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first so every dirty page gets a final snapshot
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, pageSvc *page.Service, allowedOrigins []string) {
	pageID := mux.Vars(r)["pageId"]

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	role, err := pageSvc.Role(r.Context(), pageID, userID)
	if err != nil {
		http.Error(w, "not a page member", http.StatusForbidden)
		return
	}

	user, err := authSvc.GetUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "user not found", http.StatusInternalServerError)
		return
	}

	patterns := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		patterns = append(patterns, strings.TrimPrefix(strings.TrimPrefix(o, "http://"), "https://"))
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: patterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := session.NewClient(hub, conn, userID, user.DisplayName, pageID, clientID, role)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
