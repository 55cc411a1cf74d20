package config

import (
	"time"

	"github.com/ndn-lite/ndnlite-go/internal/cs"
	"github.com/ndn-lite/ndnlite-go/internal/face"
	"github.com/ndn-lite/ndnlite-go/internal/fib"
	"github.com/ndn-lite/ndnlite-go/internal/msgqueue"
	"github.com/ndn-lite/ndnlite-go/internal/pit"
)

// ApplyDefaults fills any zero-valued fields with sensible defaults,
// mirroring each table's own built-in DefaultCapacity so a config file
// that omits "tables" entirely still produces a working node.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyHTTPAPIDefaults(&cfg.HTTPAPI)
	applyTablesDefaults(&cfg.Tables)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyHTTPAPIDefaults(cfg *HTTPAPIConfig) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8756"
	}
}

func applyTablesDefaults(cfg *TablesConfig) {
	if cfg.FaceCapacity == 0 {
		cfg.FaceCapacity = face.DefaultCapacity
	}
	if cfg.FIBCapacity == 0 {
		cfg.FIBCapacity = fib.DefaultCapacity
	}
	if cfg.PITCapacity == 0 {
		cfg.PITCapacity = pit.DefaultCapacity
	}
	if cfg.CSCapacity == 0 {
		cfg.CSCapacity = cs.DefaultCapacity
	}
	if cfg.NameTreeCapacity == 0 {
		// nametree.New(0) means unbounded; give the daemon a concrete
		// default sized for the FIB+PIT+CS capacities above it.
		cfg.NameTreeCapacity = cfg.FIBCapacity + cfg.PITCapacity + cfg.CSCapacity
	}
	if cfg.MsgQueueCapacity == 0 {
		cfg.MsgQueueCapacity = msgqueue.Capacity
	}
	if cfg.PITSweepInterval == 0 {
		cfg.PITSweepInterval = time.Second
	}
}

// GetDefaultConfig returns a Config with every default applied, useful
// for generating a starter config file or for tests.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
