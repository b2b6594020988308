package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nutrixpro/nutrix-backend/config"
	"github.com/nutrixpro/nutrix-backend/routes"
	"github.com/nutrixpro/nutrix-backend/services"
	"github.com/nutrixpro/nutrix-backend/store"
	"github.com/nutrixpro/nutrix-backend/utils"
)

const serviceName = "nutrix-api"

func main() {
	rootCmd := &cobra.Command{
		Use:           "nutrix",
		Short:         "NutriX calorie tracking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), goalCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := config.NewLogger(serviceName, cfg.LogLevel)
			// OpenDB migrates on connect
			db, err := config.OpenDB(cfg, log)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			log.Info().Str("db_driver", cfg.DBDriver).Msg("schema migrated")
			return nil
		},
	}
}

func goalCmd() *cobra.Command {
	var p struct {
		weight, height, age     float64
		sex, activity, goalText string
	}
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Compute a daily calorie goal from profile answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := utils.BreakdownCalories(utils.CalorieProfile{
				WeightKg: p.weight,
				HeightCm: p.height,
				AgeYears: p.age,
				Sex:      utils.ParseSex(p.sex),
				Activity: utils.ParseActivityLevel(p.activity),
				Goal:     utils.ParseGoal(p.goalText),
			})
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}
	cmd.Flags().Float64Var(&p.weight, "weight", 0, "Weight in kg")
	cmd.Flags().Float64Var(&p.height, "height", 0, "Height in cm")
	cmd.Flags().Float64Var(&p.age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&p.sex, "sex", "", `Sex, e.g. "Masculino" or "female"`)
	cmd.Flags().StringVar(&p.activity, "activity", "", `Activity level, e.g. "Moderadamente ativo (3–4x por semana)" or "moderate"`)
	cmd.Flags().StringVar(&p.goalText, "goal", "", `Goal, e.g. "Emagrecimento" or "maintenance"`)
	return cmd
}

func serve(cfg *config.Config) error {
	log := config.NewLogger(serviceName, cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg, log)
	if err != nil {
		return err
	}
	st := store.NewGorm(db, store.WithMaxAttempts(cfg.LedgerTxMaxAttempts), store.WithLogger(log))

	ctx := context.Background()
	var uploader services.ImageUploader
	if cfg.S3Bucket != "" {
		s3, err := utils.NewS3Uploader(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3BaseURL)
		if err != nil {
			return fmt.Errorf("s3 uploader: %w", err)
		}
		uploader = s3
	} else {
		log.Warn().Msg("S3_BUCKET not set, profile image uploads disabled")
	}

	gen := textGenerator(cfg)
	hub := services.NewRealtimeHub(log)
	ledger := services.NewLedgerService(st, hub, log)
	profiles := services.NewProfileService(st, uploader, cfg.DefaultTimeZone, log)

	router := routes.SetupRouter(routes.Deps{
		Auth:      services.NewAuthService(st, []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.DefaultTimeZone),
		Profiles:  profiles,
		Ledger:    ledger,
		Summary:   services.NewSummaryService(ledger, st),
		Analytics: services.NewAnalyticsService(st, st),
		Estimator: services.NewEstimatorService(gen, log),
		Weights:   services.NewWeightService(st),
		Tips:      services.NewTipsService(st, gen, cfg.TipsTTL, log),
		JWTSecret: []byte(cfg.JWTSecret),
		Log:       log,
		Health:    st.HealthPing,
	})

	server := &http.Server{
		Addr:        cfg.GetHTTPAddr(),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: it would cut live WebSocket streams
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Str("textgen_provider", cfg.TextGenProvider).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("Server exited")
	return nil
}

func textGenerator(cfg *config.Config) services.TextGenerator {
	if cfg.TextGenProvider == "ollama" {
		return services.NewOllamaGenerator(cfg.OllamaURL, cfg.OllamaModel, cfg.TextGenTimeout)
	}
	return services.NewOpenAIGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.TextGenTimeout)
}
