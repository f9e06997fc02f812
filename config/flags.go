package config

import (
	"github.com/spf13/pflag"
)

// InstallFlags регистрирует флаги командной строки поверх значений cfg
func InstallFlags(cfg *Config, flags *pflag.FlagSet) {
	flags.StringVar(&cfg.Host, "host", cfg.Host, "Address to accept chat connections on")
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Port to accept chat connections on")
	flags.StringVar(&cfg.AdminAddr, "admin-addr", cfg.AdminAddr, "Address of the status/metrics HTTP server (empty disables it)")
	flags.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for websocket_error.log, websocket_debug.log and websocket.log")
	flags.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, `Console log level ("debug"|"info"|"warn"|"error")`)
	flags.BoolVar(&cfg.CompressDebugLog, "compress-debug-log", cfg.CompressDebugLog, "Write the debug log as a snappy stream")
	flags.DurationVar(&cfg.FlushInterval, "flush-interval", cfg.FlushInterval, "How often buffered logs are flushed")
}
