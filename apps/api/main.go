package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"dogmail/libs/mailer"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	siteOrigin               = "https://westdaledogrescue.org"
	siteOriginWWW            = "https://www.westdaledogrescue.org"
	applicationRoute         = "/api/dog-application"
	legacyApplicationRoute   = "/api/dog_email"
	maxSubmissionBytes       = 1 << 20
	defaultDeliveryTimeout   = 15 * time.Second
	defaultSMTPPort          = 587
	requestIDHeader          = "X-Request-ID"
	trustedProxyLoopbackIPv4 = "127.0.0.1"
	trustedProxyLoopbackIPv6 = "::1"
)

var mailProviders = []string{"resend", "smtp", "log"}

type Config struct {
	Addr                 string
	Env                  string
	MailProvider         string
	ResendAPIKey         string
	ResendBaseURL        string
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	MailerFromAddresses  map[string]string
	ApplicationToAddress string
	AttachApplicationPDF bool
	DeliveryTimeout      time.Duration
}

type App struct {
	cfg    *Config
	log    *slog.Logger
	mailer *mailer.Mailer

	// test hook, defaults to buildApplicationPDF
	renderApplicationPDF func(sub Submission) ([]byte, error)
}

type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "dogmail",
		Short:        "Relay dog-adoption form submissions to the shelter inbox",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP relay",
			Args:  cobra.NoArgs,
			RunE:  runServe,
		},
		newRenderCommand(),
	)
	return root
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	mailClient, err := newMailer(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("mailer initialized", "provider", mailClient.ProviderName(), "from", mailClient.FromAddress())

	app := newApp(cfg, logger, mailClient)

	logger.Info(
		"runtime configuration",
		"env",
		cfg.Env,
		"addr",
		cfg.Addr,
		"attach_pdf",
		cfg.AttachApplicationPDF,
		"delivery_timeout",
		cfg.DeliveryTimeout.String(),
	)

	if !strings.EqualFold(cfg.Env, "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	r := app.routes()
	if err := r.SetTrustedProxies([]string{trustedProxyLoopbackIPv4, trustedProxyLoopbackIPv6}); err != nil {
		return err
	}

	app.log.Info("starting gin API", "addr", cfg.Addr)
	return r.Run(cfg.Addr)
}

func newApp(cfg *Config, logger *slog.Logger, mailClient *mailer.Mailer) *App {
	return &App{
		cfg:                  cfg,
		log:                  logger,
		mailer:               mailClient,
		renderApplicationPDF: buildApplicationPDF,
	}
}

func (a *App) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(a.loggingMiddleware())
	r.Use(a.originGuard())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST(applicationRoute, a.dogApplicationHandler)
	r.POST(legacyApplicationRoute, a.dogApplicationHandler)

	return r
}

func newMailer(cfg *Config, logger *slog.Logger) (*mailer.Mailer, error) {
	var mailProvider mailer.Provider
	switch cfg.MailProvider {
	case "resend":
		resendProvider := mailer.NewResendProvider(cfg.ResendAPIKey)
		if cfg.ResendBaseURL != "" {
			if err := resendProvider.SetBaseURL(cfg.ResendBaseURL); err != nil {
				return nil, err
			}
		}
		if cfg.ResendAPIKey == "" {
			logger.Warn("RESEND_API_KEY is empty, deliveries will be rejected by the provider")
		}
		mailProvider = resendProvider
	case "smtp":
		mailProvider = mailer.NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	case "log":
		mailProvider = mailer.NewLogProvider(logger)
	default:
		return nil, fmt.Errorf("unsupported mail provider %q", cfg.MailProvider)
	}
	return mailer.New(mailProvider, cfg.MailerFromAddresses[mailProvider.Name()]), nil
}

func loadConfig() (*Config, error) {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	cfg := &Config{
		Addr:          valueOrDefault("GIN_ADDR", ":8080"),
		Env:           env,
		MailProvider:  strings.ToLower(valueOrDefault("MAIL_PROVIDER", "resend")),
		ResendAPIKey:  strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		ResendBaseURL: strings.TrimSpace(os.Getenv("RESEND_BASE_URL")),
		SMTPHost:      strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:      defaultSMTPPort,
		SMTPUser:      strings.TrimSpace(os.Getenv("SMTP_USER")),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		MailerFromAddresses: map[string]string{
			"resend": valueOrDefault("MAILER_FROM_ADDRESS_RESEND", "applications@mail.westdaledogrescue.org"),
			"smtp":   valueOrDefault("MAILER_FROM_ADDRESS_SMTP", "applications@westdaledogrescue.org"),
			"log":    valueOrDefault("MAILER_FROM_ADDRESS_LOG", "applications@westdale.local"),
		},
		ApplicationToAddress: valueOrDefault("APPLICATION_TO_ADDRESS", "adoptions@westdaledogrescue.org"),
		DeliveryTimeout:      defaultDeliveryTimeout,
	}

	if !containsString(mailProviders, cfg.MailProvider) {
		return nil, fmt.Errorf("MAIL_PROVIDER must be one of %s", strings.Join(mailProviders, ", "))
	}

	if rawPort := strings.TrimSpace(os.Getenv("SMTP_PORT")); rawPort != "" {
		port, err := strconv.Atoi(rawPort)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("SMTP_PORT must be a valid port number")
		}
		cfg.SMTPPort = port
	}
	if cfg.MailProvider == "smtp" && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST must be configured when MAIL_PROVIDER is smtp")
	}

	if rawAttach := strings.TrimSpace(os.Getenv("ATTACH_APPLICATION_PDF")); rawAttach != "" {
		attach, err := strconv.ParseBool(rawAttach)
		if err != nil {
			return nil, fmt.Errorf("ATTACH_APPLICATION_PDF must be a boolean")
		}
		cfg.AttachApplicationPDF = attach
	}

	if rawTimeout := strings.TrimSpace(os.Getenv("DELIVERY_TIMEOUT")); rawTimeout != "" {
		timeout, err := time.ParseDuration(rawTimeout)
		if err != nil {
			return nil, fmt.Errorf("DELIVERY_TIMEOUT must be a valid duration")
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("DELIVERY_TIMEOUT must be > 0")
		}
		cfg.DeliveryTimeout = timeout
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func containsString(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (a *App) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"request_id", c.GetString("requestID"),
		)
	}
}

func writeAPIError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
