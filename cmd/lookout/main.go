package main

import (
	"fmt"

	"frameworks/api_lookout/internal/aggregate"
	"frameworks/api_lookout/internal/analysis"
	lookoutconfig "frameworks/api_lookout/internal/config"
	"frameworks/api_lookout/internal/handlers"
	"frameworks/api_lookout/internal/metrics"
	"frameworks/api_lookout/internal/notify"
	"frameworks/api_lookout/internal/pipeline"
	"frameworks/api_lookout/internal/ranking"
	"frameworks/api_lookout/internal/scheduler"
	"frameworks/api_lookout/internal/sources"
	"frameworks/api_lookout/internal/trends"
	"frameworks/api_lookout/pkg/config"
	"frameworks/api_lookout/pkg/database"
	"frameworks/api_lookout/pkg/email"
	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/monitoring"
	"frameworks/api_lookout/pkg/server"
	"frameworks/api_lookout/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("lookout")

	// Load environment variables
	config.LoadEnv(logger)

	logger.Info("Starting Lookout (AI Trend Scanner API)")

	cfg := lookoutconfig.LoadConfig()

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("lookout", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("lookout", version.Version, version.GitCommit)
	pipelineMetrics := metrics.New(metricsCollector)

	// Add health checks
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL":      cfg.DatabaseURL,
		"ANTHROPIC_API_KEY": cfg.AnthropicAPIKey,
	}))

	// Alerting over SMTP; without a recipient the pipeline still runs,
	// failures just stay in the logs.
	var alerter notify.Alerter = &notify.NoopAlerter{Logger: logger}
	if cfg.SMTPHost != "" && cfg.AlertTo != "" {
		sender := email.NewSender(email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: "Lookout Alerts",
		})
		alerter = notify.NewEmailAlerter(sender, cfg.AlertTo, logger)
		logger.WithField("to", cfg.AlertTo).Info("Email alerting enabled")
	} else {
		logger.Warn("Email alerting not configured")
	}

	// Source adapters share one HTTP client.
	httpClient := sources.NewHTTPClient()
	rankingConfig := ranking.DefaultConfig()
	watchlistHandles := make([]string, 0, len(rankingConfig.TrustedAuthors))
	for handle := range rankingConfig.TrustedAuthors {
		watchlistHandles = append(watchlistHandles, handle)
	}

	collector := aggregate.New([]sources.Adapter{
		sources.NewHackerNews(httpClient, logger),
		sources.NewReddit(httpClient, logger),
		sources.NewBluesky(httpClient, logger),
		sources.NewRSS(httpClient, logger),
		sources.NewWatchlist(watchlistHandles),
	}, rankingConfig.KeyTerms, logger)

	analyzer := analysis.NewAnalyzer(analysis.NewClient(analysis.ClientConfig{
		APIURL: cfg.AnthropicAPIURL,
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.AnthropicModel,
	}), alerter, logger)

	scanner := pipeline.NewScanner(collector, analyzer, rankingConfig, logger)
	scanner.Metrics = pipelineMetrics

	store := trends.NewStore(db, logger)

	// Setup router with unified monitoring (health/metrics/version)
	router := server.SetupServiceRouter(logger, "lookout", healthChecker, metricsCollector)

	h := handlers.New(scanner, store, rankingConfig, cfg.CronSecret, logger)
	h.Metrics = pipelineMetrics
	router.POST("/scan", h.Scan)
	router.GET("/scan", h.Scan)
	router.GET("/trends", h.Trends)

	serverConfig := server.DefaultConfig("lookout", cfg.Port)

	// Daily scan trigger through the service's own endpoint.
	if cfg.ScanSchedule != "" {
		scanURL := fmt.Sprintf("http://127.0.0.1:%s/scan", serverConfig.Port)
		sched := scheduler.New(scanURL, cfg.CronSecret, logger)
		if err := sched.Schedule(cfg.ScanSchedule); err != nil {
			logger.WithError(err).Fatal("Invalid scan schedule")
		}
		sched.Start()
		defer sched.Stop()
	}

	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
