package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Значения по умолчанию.
const (
	defaultBaseURL      = "https://api.smartsheet.com/2.0"
	defaultBindTimeout  = 30 * time.Second
	defaultPollSpec     = "@every 1m"
	defaultTimezone     = "America/Mexico_City"
	defaultDrainTimeout = 30 * time.Second
	defaultAPIPort      = "8080"
	defaultSchedPort    = "8081"
)

// Config — конфигурация сервисов из переменных окружения.
type Config struct {
	// SmartsheetToken — bearer token Smartsheet API. Обязателен.
	SmartsheetToken string

	// ControlSheetID — id контрольной таблицы (SMARTSHEET_CONFIG_ID).
	// 0 означает «не задан»: API поднимется, но /config, /jobs и
	// планировщик работать не будут.
	ControlSheetID int64

	// SmartsheetBaseURL — базовый URL Smartsheet REST API.
	SmartsheetBaseURL string

	// BindTimeout — таймаут HTTP запросов к Bind API (BIND_TIMEOUT, секунды).
	BindTimeout time.Duration

	// JobEnabled — глобальный выключатель планировщика (JOB_ENABLED).
	// Ложные значения: "0", "false", "no" (без регистра).
	JobEnabled bool

	// PollSpec — расписание циклов планировщика в формате robfig/cron
	// (POLL_SPEC, по умолчанию "@every 1m").
	PollSpec string

	// DefaultTimezone — IANA-зона для строк без колонки "Zona horaria".
	DefaultTimezone string

	// MaxConcurrent — предел одновременных задач в цикле.
	// 0 — без предела: все due задачи стартуют сразу.
	MaxConcurrent int

	// DrainTimeout — сколько ждать завершения текущего цикла при shutdown.
	DrainTimeout time.Duration

	// APIPort, SchedPort — порты HTTP серверов.
	APIPort   string
	SchedPort string
}

// Load читает конфигурацию из .env (если есть) и переменных окружения.
//
// Возвращает ошибку только при отсутствии SMARTSHEET_TOKEN —
// без него ни один вызов Smartsheet не пройдёт.
func Load() (*Config, error) {
	// .env опционален: в контейнере конфигурация приходит из окружения
	_ = godotenv.Load()

	token := os.Getenv("SMARTSHEET_TOKEN")
	if token == "" {
		return nil, ErrTokenMissing
	}

	cfg := &Config{
		SmartsheetToken:   token,
		SmartsheetBaseURL: getEnv("SMARTSHEET_BASE_URL", defaultBaseURL),
		BindTimeout:       getSeconds("BIND_TIMEOUT", defaultBindTimeout),
		JobEnabled:        getBool("JOB_ENABLED", true),
		PollSpec:          getEnv("POLL_SPEC", defaultPollSpec),
		DefaultTimezone:   getEnv("DEFAULT_TIMEZONE", defaultTimezone),
		MaxConcurrent:     getInt("MAX_CONCURRENT", 0),
		DrainTimeout:      getSeconds("DRAIN_TIMEOUT", defaultDrainTimeout),
		APIPort:           getEnv("API_PORT", defaultAPIPort),
		SchedPort:         getEnv("SCHED_PORT", defaultSchedPort),
	}

	if raw := os.Getenv("SMARTSHEET_CONFIG_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse SMARTSHEET_CONFIG_ID %q: %w", raw, err)
		}
		cfg.ControlSheetID = id
	}

	return cfg, nil
}

// getEnv возвращает значение переменной или default.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt возвращает целое значение переменной или default.
func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// getSeconds возвращает длительность из переменной, заданной в секундах.
func getSeconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

// getBool возвращает булево значение переменной.
// Ложные значения: "0", "false", "no" (без регистра), остальные — true.
func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "0", "false", "no":
		return false
	default:
		return true
	}
}
