package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/querypilot/querypilot/core/application/services"
	"github.com/querypilot/querypilot/core/config"
	"github.com/querypilot/querypilot/core/infrastructure/logging"
	httptransport "github.com/querypilot/querypilot/core/infrastructure/transport/http"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/handlers"
	httpmiddleware "github.com/querypilot/querypilot/core/infrastructure/transport/http/middleware"
	"github.com/querypilot/querypilot/core/infrastructure/transport/http/ui"
	"github.com/querypilot/querypilot/core/llm"
	"github.com/querypilot/querypilot/core/runtime/advisor"
	"github.com/querypilot/querypilot/core/runtime/connectors"
	"github.com/querypilot/querypilot/core/runtime/executor"
	"github.com/querypilot/querypilot/core/runtime/generate"
	"github.com/querypilot/querypilot/core/runtime/schema"
)

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Start the querypilot HTTP server",
	RunE:          runServe,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides PORT env var)")
	serveCmd.Flags().IntVar(&logLevel, "log-level", 0, "Log level: 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG")
	serveCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging (sets log level to DEBUG)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.New("serve")

	LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if verbose {
		logging.SetLogLevel(logging.LogLevelDebug)
	} else if logLevel > 0 {
		logging.SetLogLevel(logLevel)
	} else {
		logging.SetLogLevel(cfg.Server.LogLevel)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	// Connect eagerly but keep serving when the database is down, so
	// the health endpoint can report the degraded state.
	manager := connectors.NewManager(&cfg.Database)
	if err := manager.Init(cmd.Context()); err != nil {
		log.Warnf("Database not reachable at startup: %v", err)
	}
	defer manager.CloseAll()

	llmClient := llm.NewOpenAIClient(&cfg.LLM)
	discovery := schema.NewDiscovery(manager)
	queryAdvisor := advisor.NewAdvisor(llmClient, manager)
	assistant := services.NewAssistant(
		generate.NewGenerator(llmClient, discovery),
		executor.NewExecutor(manager),
		queryAdvisor,
	)

	uiHandler, err := ui.NewHandler(cfg.Database.Name)
	if err != nil {
		return err
	}

	server := httptransport.NewServer(cfg.Server.Port, rateLimitMiddleware(cfg)...)
	httptransport.RegisterRoutes(server.Router(), httptransport.Handlers{
		Schema:  handlers.NewSchemaHandler(discovery),
		Query:   handlers.NewQueryHandler(assistant),
		Advisor: handlers.NewAdvisorHandler(queryAdvisor),
		System:  handlers.NewSystemHandler(manager, llmClient),
		UI:      uiHandler,
	})

	if err := server.Start(); err != nil {
		return err
	}

	// Block until interrupted
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return server.Stop()
}

// rateLimitMiddleware builds the optional redis-backed limiter
func rateLimitMiddleware(cfg *config.Config) []func(http.Handler) http.Handler {
	if cfg.Redis.URL == "" {
		return nil
	}

	log := logging.New("serve")
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Warnf("Invalid REDIS_URL, rate limiting disabled: %v", err)
		return nil
	}

	limiter := httpmiddleware.NewRedisLimiter(redis.NewClient(opts), cfg.Redis.RateLimit, cfg.Redis.RateWindow)
	log.Infof("Rate limiting enabled: %d requests per %s", cfg.Redis.RateLimit, cfg.Redis.RateWindow)
	return []func(http.Handler) http.Handler{limiter.Middleware}
}
