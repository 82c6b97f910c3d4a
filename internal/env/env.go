package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/distr-sh/recoverd/internal/envparse"
	"github.com/distr-sh/recoverd/internal/envutil"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

var (
	databaseUrl                       string
	databaseMaxConns                  *int
	host                              string
	listenAddr                        string
	logLevel                          zapcore.Level
	developmentLogging                bool
	mailerConfig                      MailerConfig
	recoveryTokenValidDuration        time.Duration
	recoveryRateLimit                 int
	sentryDSN                         string
	sentryDebug                       bool
	sentryEnvironment                 string
	otelExporterOtlpEnabled           bool
	serverShutdownDelayDuration       *time.Duration
	cleanupAuthenticationTokenCron    *string
	cleanupAuthenticationTokenTimeout time.Duration
	autoMigrate                       bool
)

func Initialize() {
	if currentEnv, ok := os.LookupEnv("RECOVERD_ENV"); ok {
		fmt.Fprintf(os.Stderr, "environment=%v\n", currentEnv)
		if err := godotenv.Load(currentEnv); err != nil {
			fmt.Fprintf(os.Stderr, "environment %v not loaded: %v\n", currentEnv, err)
		}
		secretEnv := currentEnv + ".secret"
		if err := godotenv.Load(secretEnv); err != nil {
			fmt.Fprintf(os.Stderr, "environment %v not loaded: %v\n", secretEnv, err)
		}
		developmentLogging = true
	}

	databaseUrl = envutil.GetEnv("DATABASE_URL")
	databaseMaxConns = envutil.GetEnvParsedOrNil("DATABASE_MAX_CONNS", envparse.PositiveNumber)
	autoMigrate = envutil.GetEnvParsedOrDefault("DATABASE_AUTO_MIGRATE", strconv.ParseBool, false)
	host = envutil.GetEnvOrDefault("RECOVERD_HOST", "http://localhost:8080")
	listenAddr = envutil.GetEnvOrDefault("LISTEN_ADDR", ":8080")
	logLevel = envutil.GetEnvParsedOrDefault("LOG_LEVEL", zapcore.ParseLevel, zapcore.InfoLevel)
	serverShutdownDelayDuration = envutil.GetEnvParsedOrNil("SERVER_SHUTDOWN_DELAY_DURATION", envparse.PositiveDuration)

	recoveryTokenValidDuration = envutil.GetEnvParsedOrDefault(
		"RECOVERY_TOKEN_VALID_DURATION", envparse.NonNegativeDuration, 24*time.Hour,
	)
	recoveryRateLimit = envutil.GetEnvParsedOrDefault("RECOVERY_RATE_LIMIT", envparse.PositiveNumber, 10)

	mailerConfig.Type = envutil.GetEnvParsedOrDefault("MAILER_TYPE", parseMailerType, MailerTypeUnspecified)
	if mailerConfig.Type != MailerTypeUnspecified {
		mailerConfig.FromAddress = envutil.RequireEnvParsed("MAILER_FROM_ADDRESS", envparse.MailAddress)
	}
	if mailerConfig.Type == MailerTypeSMTP {
		mailerConfig.SmtpConfig = &MailerSMTPConfig{
			Host:        envutil.GetEnv("MAILER_SMTP_HOST"),
			Port:        envutil.RequireEnvParsed("MAILER_SMTP_PORT", strconv.Atoi),
			Username:    envutil.GetEnv("MAILER_SMTP_USERNAME"),
			Password:    envutil.GetEnv("MAILER_SMTP_PASSWORD"),
			ImplicitTLS: envutil.GetEnvParsedOrDefault("MAILER_SMTP_IMPLICIT_TLS", strconv.ParseBool, false),
		}
	}

	sentryDSN = envutil.GetEnv("SENTRY_DSN")
	sentryDebug = envutil.GetEnvParsedOrDefault("SENTRY_DEBUG", strconv.ParseBool, false)
	sentryEnvironment = envutil.GetEnv("SENTRY_ENVIRONMENT")
	otelExporterOtlpEnabled = envutil.GetEnvParsedOrDefault("OTEL_EXPORTER_OTLP_ENABLED", strconv.ParseBool, false)

	cleanupAuthenticationTokenCron = envutil.GetEnvOrNil("CLEANUP_AUTHENTICATION_TOKEN_CRON")
	cleanupAuthenticationTokenTimeout = envutil.GetEnvParsedOrDefault("CLEANUP_AUTHENTICATION_TOKEN_TIMEOUT",
		envparse.PositiveDuration, time.Minute)
}

// DatabaseUrl is empty when the service runs with the in-memory store.
func DatabaseUrl() string {
	return databaseUrl
}

func DatabaseMaxConns() *int {
	return databaseMaxConns
}

func DatabaseAutoMigrate() bool {
	return autoMigrate
}

func Host() string { return host }

func ListenAddr() string { return listenAddr }

func LogLevel() zapcore.Level {
	return logLevel
}

func DevelopmentLogging() bool {
	return developmentLogging
}

func GetMailerConfig() MailerConfig {
	return mailerConfig
}

// RecoveryTokenValidDuration returns 0 if recovery tokens never expire.
func RecoveryTokenValidDuration() time.Duration {
	return recoveryTokenValidDuration
}

// RecoveryRateLimit is the number of recovery requests allowed per client IP and minute.
func RecoveryRateLimit() int {
	return recoveryRateLimit
}

func SentryDSN() string {
	return sentryDSN
}

func SentryDebug() bool {
	return sentryDebug
}

func SentryEnvironment() string {
	return sentryEnvironment
}

func OtelExporterOtlpEnabled() bool {
	return otelExporterOtlpEnabled
}

func ServerShutdownDelayDuration() *time.Duration {
	return serverShutdownDelayDuration
}

func CleanupAuthenticationTokenCron() *string {
	return cleanupAuthenticationTokenCron
}

func CleanupAuthenticationTokenTimeout() time.Duration {
	return cleanupAuthenticationTokenTimeout
}
