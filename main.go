package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-service/attachments"
	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/logger"
	"checkout-service/middleware"
	aws_pkg "checkout-service/pkg/aws"
	"checkout-service/providers"
	"checkout-service/routes"
	"checkout-service/sender"
	servicepkg "checkout-service/services"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// AWS is only touched when a feature that needs it is switched on.
	var awsCfg *sdkaws.Config
	if needsAWS(cfg) {
		c, err := aws_pkg.LoadAWSConfig(context.Background())
		if err != nil {
			log.Printf("AWS config unavailable, AWS features disabled: %v", err)
		} else {
			awsCfg = &c
		}
	}

	var cwWriter io.Writer
	if cfg.CloudWatchEnabled && awsCfg != nil {
		w, err := aws_pkg.NewCloudWatchLogsWriter(context.Background(), *awsCfg, cfg.CloudWatchLogGroup, config.ServiceName)
		if err != nil {
			log.Printf("CloudWatch Logs unavailable: %v", err)
		} else {
			cwWriter = w
		}
	}

	zapLogger, err := logger.New(cfg.Env, cwWriter)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.UseSecretsManager && awsCfg != nil {
		cfg.ApplySecrets(context.Background(), aws_pkg.NewSecretsClient(*awsCfg))
		zapLogger.Info("Loaded credentials from Secrets Manager")
	}

	var metricsClient *aws_pkg.MetricsClient
	if cfg.CloudWatchEnabled && awsCfg != nil {
		metricsClient = aws_pkg.NewMetricsClient(*awsCfg, cfg.CloudWatchNamespace, true)
	}

	policy, err := servicepkg.ParseContactFailurePolicy(cfg.ContactFailurePolicy)
	if err != nil {
		zapLogger.Fatal("Invalid contact failure policy", zap.Error(err))
	}

	// Providers
	paymentProvider := providers.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeAPIURL, zapLogger.Sugar())
	mailingList := providers.NewGetResponseProvider(cfg.GetResponseAPIKey, cfg.GetResponseBaseURL)

	smtpSender, err := sender.NewSMTPSender(sender.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SenderEmail,
		Password:    cfg.SenderPassword,
		FromName:    cfg.SenderName,
		ImplicitTLS: cfg.SMTPImplicitTLS,
	})
	if err != nil {
		zapLogger.Fatal("Failed to configure SMTP sender", zap.Error(err))
	}
	zapLogger.Info("SMTP sender configured",
		zap.String("from", smtpSender.From()),
		zap.String("host", cfg.SMTPHost),
		zap.Int("port", cfg.SMTPPort),
		zap.Bool("implicit_tls", cfg.SMTPImplicitTLS),
	)

	var source attachments.Source = attachments.NewFileSource(cfg.AttachmentPath)
	if cfg.AttachmentS3Bucket != "" && cfg.AttachmentS3Key != "" && awsCfg != nil {
		source = attachments.NewS3Source(aws_pkg.NewObjectReader(*awsCfg), cfg.AttachmentS3Bucket, cfg.AttachmentS3Key)
		zapLogger.Info("Serving plan attachment from S3",
			zap.String("bucket", cfg.AttachmentS3Bucket),
			zap.String("key", cfg.AttachmentS3Key),
		)
	}

	var publisher servicepkg.EventPublisher
	if cfg.FulfillmentTopicARN != "" && awsCfg != nil {
		publisher = servicepkg.NewSNSEventPublisher(aws_pkg.NewSNSClient(*awsCfg), cfg.FulfillmentTopicARN)
	}

	var metrics servicepkg.MetricsRecorder
	if metricsClient != nil {
		metrics = metricsClient
	}

	// DI chain
	mailer := servicepkg.NewPlanMailer(source, smtpSender, servicepkg.MailTemplate{
		Subject: cfg.MailSubject,
		Body:    cfg.MailBody,
	}, zapLogger)

	checkoutService := servicepkg.NewCheckoutService(paymentProvider, servicepkg.CheckoutOptions{
		Currency:      cfg.Currency,
		PublicBaseURL: cfg.PublicBaseURL,
	}, metrics, zapLogger)

	fulfillmentService := servicepkg.NewFulfillmentService(
		servicepkg.AllowAllGuard{},
		mailingList,
		mailer,
		publisher,
		metrics,
		servicepkg.FulfillmentOptions{CampaignID: cfg.GetResponseCampaignID, Policy: policy},
		zapLogger,
	)

	checkoutController := controllers.NewCheckoutController(checkoutService, fulfillmentService, controllers.Messages{
		Success: cfg.SuccessMessage,
		Cancel:  cfg.CancelMessage,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(metricsClient, config.ServiceName))

	// 60-second request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterCheckoutRoutes(r, checkoutController, cfg.CheckoutRatePerMinute)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	zapLogger.Info("Checkout service started",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("currency", cfg.Currency),
	)
	<-quit
	zapLogger.Info("Shutting down checkout service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited cleanly")
}

func needsAWS(cfg *config.Config) bool {
	return cfg.UseSecretsManager ||
		cfg.CloudWatchEnabled ||
		cfg.FulfillmentTopicARN != "" ||
		(cfg.AttachmentS3Bucket != "" && cfg.AttachmentS3Key != "")
}
