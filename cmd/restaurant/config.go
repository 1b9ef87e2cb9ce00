package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/app"
)

const (
	envLogLevel          = "RESTAURANT_LOG_LEVEL"
	envLogFormat         = "RESTAURANT_LOG_FORMAT"
	envBulkDiscount      = "RESTAURANT_BULK_DISCOUNT"
	envMetricsAddr       = "RESTAURANT_METRICS_ADDR"
	envKafkaBrokers      = "RESTAURANT_KAFKA_BROKERS"
	envKafkaTopic        = "RESTAURANT_KAFKA_TOPIC"
	envOutboxMaxAttempts = "RESTAURANT_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay  = "RESTAURANT_OUTBOX_RETRY_DELAY"
	envOutboxPoll        = "RESTAURANT_OUTBOX_POLL_INTERVAL"
)

type envLookup func(key string) (string, bool)

// readConfig формирует конфигурацию приложения из переменных окружения.
func readConfig() (app.Config, []string) {
	return readConfigFromEnv(os.LookupEnv)
}

// readConfigFromEnv применяет переопределения поверх app.DefaultConfig().
// Некорректные значения игнорируются, для каждого возвращается предупреждение.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	warn := func(key, value string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, value, err))
	}

	if v, ok := lookupTrimmed(lookup, envLogLevel); ok {
		if level, err := log.ParseLevel(v); err != nil {
			warn(envLogLevel, v, err)
		} else {
			cfg.LogLevel = level.String()
		}
	}
	if v, ok := lookupTrimmed(lookup, envLogFormat); ok {
		if format, err := parseLogFormat(v); err != nil {
			warn(envLogFormat, v, err)
		} else {
			cfg.LogFormat = format
		}
	}
	if v, ok := lookupTrimmed(lookup, envBulkDiscount); ok {
		if pct, err := parseInt(v, nil, ""); err != nil {
			warn(envBulkDiscount, v, err)
		} else {
			cfg.BulkDiscount = pct
		}
	}
	if v, ok := lookupTrimmed(lookup, envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := lookupTrimmed(lookup, envKafkaBrokers); ok {
		cfg.KafkaBrokers = parseList(v)
	}
	if v, ok := lookupTrimmed(lookup, envKafkaTopic); ok {
		cfg.KafkaTopic = v
	}
	if v, ok := lookupTrimmed(lookup, envOutboxMaxAttempts); ok {
		if attempts, err := parseInt(v, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warn(envOutboxMaxAttempts, v, err)
		} else {
			cfg.OutboxMaxAttempts = attempts
		}
	}
	if v, ok := lookupTrimmed(lookup, envOutboxRetryDelay); ok {
		if delay, err := parseDuration(v, func(d time.Duration) bool { return d >= 0 }, "must be >= 0"); err != nil {
			warn(envOutboxRetryDelay, v, err)
		} else {
			cfg.OutboxRetryDelay = delay
		}
	}
	if v, ok := lookupTrimmed(lookup, envOutboxPoll); ok {
		if interval, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0"); err != nil {
			warn(envOutboxPoll, v, err)
		} else {
			cfg.OutboxPollInterval = interval
		}
	}

	return cfg, warnings
}

// lookupTrimmed возвращает значение без пробелов; пустое значение считается отсутствующим.
func lookupTrimmed(lookup envLookup, key string) (string, bool) {
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func parseLogFormat(value string) (string, error) {
	switch format := strings.ToLower(strings.TrimSpace(value)); format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported log format %q", value)
	}
}

func parseInt(value string, valid func(int) bool, constraint string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if valid != nil && !valid(parsed) {
		return 0, fmt.Errorf("%d %s", parsed, constraint)
	}
	return parsed, nil
}

func parseDuration(value string, valid func(time.Duration) bool, constraint string) (time.Duration, error) {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if valid != nil && !valid(parsed) {
		return 0, fmt.Errorf("%s %s", parsed, constraint)
	}
	return parsed, nil
}

func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
