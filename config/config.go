package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/LilVoxy/chatrelay/errors"
)

// EnvPrefix - префикс переменных окружения
const EnvPrefix = "CHATRELAY_"

// Config содержит конфигурацию ретранслятора
type Config struct {
	// Адрес и порт, на которых принимаются соединения чата
	Host string `json:"host"`
	Port int    `json:"port"`

	// Адрес служебного HTTP-сервера (статус, метрики); пустая строка отключает его
	AdminAddr string `json:"admin_addr"`

	// Каталог файлов журналов
	LogDir string `json:"log_dir"`

	// Уровень консольного журнала: debug, info, warn, error
	LogLevel string `json:"log_level"`

	// Сжимать журнал отладки snappy
	CompressDebugLog bool `json:"compress_debug_log"`

	// Интервал сброса буферов журналов и записи статистики
	FlushInterval time.Duration `json:"flush_interval"`

	// Журнал событий в MySQL; nil отключает его
	MySQL *MySQLConfig `json:"mysql,omitempty"`
}

// MySQLConfig содержит настройки подключения к базе данных журнала
type MySQLConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// DSN формирует строку подключения для драйвера MySQL
func (c MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Значения конфигурации по умолчанию
var (
	DefaultMySQLConfig = MySQLConfig{
		Host:   "localhost",
		Port:   3306,
		User:   "root",
		DBName: "chatrelay",
	}
)

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Host:          "127.0.0.1",
		Port:          8080,
		LogDir:        "/tmp",
		LogLevel:      "info",
		FlushInterval: 10 * time.Second,
	}
}

// ListenAddr возвращает адрес прослушивания в виде host:port
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate проверяет конфигурацию
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range: %w", c.Port, errors.ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q: %w", c.LogLevel, errors.ErrInvalidConfig)
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be positive, got %v: %w", c.FlushInterval, errors.ErrInvalidConfig)
	}
	if c.LogDir == "" {
		return fmt.Errorf("log dir is empty: %w", errors.ErrInvalidConfig)
	}
	if c.MySQL != nil && c.MySQL.DBName == "" {
		return fmt.Errorf("mysql dbname is empty: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// LoadEnv читает необязательные .env-файлы, затем применяет переменные окружения
// CHATRELAY_* поверх cfg. Флаги командной строки применяются после этого вызова.
func LoadEnv(cfg *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("ошибка чтения %s: %w", f, err)
		}
	}
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("HOST"); ok {
		cfg.Host = v
	}
	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT=%q: %w", EnvPrefix, v, errors.ErrInvalidConfig)
		}
		cfg.Port = port
	}
	if v, ok := get("ADMIN_ADDR"); ok {
		cfg.AdminAddr = v
	}
	if v, ok := get("LOG_DIR"); ok {
		cfg.LogDir = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := get("COMPRESS_DEBUG_LOG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCOMPRESS_DEBUG_LOG=%q: %w", EnvPrefix, v, errors.ErrInvalidConfig)
		}
		cfg.CompressDebugLog = b
	}
	if v, ok := get("FLUSH_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sFLUSH_INTERVAL=%q: %w", EnvPrefix, v, errors.ErrInvalidConfig)
		}
		cfg.FlushInterval = d
	}

	// MySQL включается, если задан хотя бы хост или имя базы
	host, hasHost := get("MYSQL_HOST")
	dbName, hasDB := get("MYSQL_DBNAME")
	if hasHost || hasDB {
		my := DefaultMySQLConfig
		if cfg.MySQL != nil {
			my = *cfg.MySQL
		}
		if hasHost {
			my.Host = host
		}
		if hasDB {
			my.DBName = dbName
		}
		if v, ok := get("MYSQL_PORT"); ok {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%sMYSQL_PORT=%q: %w", EnvPrefix, v, errors.ErrInvalidConfig)
			}
			my.Port = port
		}
		if v, ok := get("MYSQL_USER"); ok {
			my.User = v
		}
		if v, ok := lookup(EnvPrefix + "MYSQL_PASSWORD"); ok {
			my.Password = v
		}
		cfg.MySQL = &my
	}
	return nil
}
