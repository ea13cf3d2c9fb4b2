package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insights-cli/internal/render"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only metrics API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/users/{userID}/metrics", func(w http.ResponseWriter, req *http.Request) {
			userID := chi.URLParam(req, "userID")
			query := req.URL.Query().Get("query")

			var platforms []string
			if raw := req.URL.Query().Get("platforms"); raw != "" {
				platforms = strings.Split(raw, ",")
			}

			if req.URL.Query().Get("source") == "bridge" {
				unified, err := env.Bridge.UnifiedPlatformData(req.Context(), userID)
				if err != nil {
					zap.L().Error("serve: bridge fetch failed", zap.String("user", userID), zap.Error(err))
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "bridge fetch failed"})
					return
				}
				writeJSON(w, http.StatusOK, unified)
				return
			}

			if len(platforms) == 0 && strings.TrimSpace(query) != "" {
				connected, err := env.Registry.ConnectedPlatforms(req.Context(), userID)
				if err != nil {
					zap.L().Error("serve: discovery failed", zap.String("user", userID), zap.Error(err))
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "discovery failed"})
					return
				}
				for _, c := range env.Registry.SelectRelevant(query, connected) {
					platforms = append(platforms, c.Info().ID)
				}
			}

			unified, err := env.Registry.FetchUnified(req.Context(), userID, platforms...)
			if err != nil {
				zap.L().Error("serve: unified fetch failed", zap.String("user", userID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unified fetch failed"})
				return
			}

			if req.URL.Query().Get("narrate") == "true" && cfg.Registry.NarrationEnabled {
				writeJSON(w, http.StatusOK, map[string]any{
					"metrics":   unified,
					"narration": render.Narration(unified),
				})
				return
			}

			writeJSON(w, http.StatusOK, unified)
		})

		r.Get("/users/{userID}/sources", func(w http.ResponseWriter, req *http.Request) {
			userID := chi.URLParam(req, "userID")
			connected, err := env.Registry.ConnectedPlatforms(req.Context(), userID)
			if err != nil {
				zap.L().Error("serve: discovery failed", zap.String("user", userID), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "discovery failed"})
				return
			}
			if q := req.URL.Query().Get("query"); strings.TrimSpace(q) != "" {
				connected = env.Registry.SelectRelevant(q, connected)
			}

			infos := make([]any, 0, len(connected))
			for _, c := range connected {
				infos = append(infos, map[string]any{
					"info":         c.Info(),
					"capabilities": c.Capabilities(),
					"metrics":      c.SupportedMetrics(),
				})
			}
			writeJSON(w, http.StatusOK, infos)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("serving metrics API", zap.Int("port", port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return eris.Wrap(err, "serve")
		}
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}
