package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type DBType string

const (
	DBTypeFile   DBType = "file"
	DBTypeMemory DBType = "memory"
)

type Config struct {
	DBType DBType

	HttpHostPort string
	GrpcHostPort string

	DefaultRate  float64
	DefaultBurst int

	// empty means the embedded default templates
	TemplatesPath string

	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string

	CRMBaseURL string
	CRMToken   string

	SyncQueueSize int
}

// LoadConfig reads the process environment. Callers load .env first.
func LoadConfig() (*Config, error) {
	var err error

	cfg := &Config{
		DBType:          DBType(strings.TrimSpace(os.Getenv(EnvKeyDBType))),
		HttpHostPort:    strings.TrimSpace(os.Getenv(EnvKeyHttpHostPort)),
		GrpcHostPort:    strings.TrimSpace(os.Getenv(EnvKeyGrpcHostPort)),
		TemplatesPath:   strings.TrimSpace(os.Getenv(EnvKeyTemplatesPath)),
		MQTTBroker:      strings.TrimSpace(os.Getenv(EnvKeyMQTTBroker)),
		MQTTClientID:    strings.TrimSpace(os.Getenv(EnvKeyMQTTClientID)),
		MQTTTopicPrefix: strings.TrimSpace(os.Getenv(EnvKeyMQTTTopicPrefix)),
		CRMBaseURL:      strings.TrimSpace(os.Getenv(EnvKeyCRMBaseURL)),
		CRMToken:        strings.TrimSpace(os.Getenv(EnvKeyCRMToken)),
	}

	switch cfg.DBType {
	case DBTypeFile, DBTypeMemory:
	default:
		return nil, fmt.Errorf("unknown %s: %q", EnvKeyDBType, cfg.DBType)
	}

	if cfg.HttpHostPort == "" {
		// fallback to default http port
		cfg.HttpHostPort = ":1080"
	}

	if cfg.MQTTClientID == "" {
		cfg.MQTTClientID = "commissioning-service"
	}
	if cfg.MQTTTopicPrefix == "" {
		cfg.MQTTTopicPrefix = "devices"
	}

	if cfg.DefaultRate, err = strconv.ParseFloat(os.Getenv(EnvKeyDefaultRate), 64); err != nil {
		return nil, fmt.Errorf("invalid %s, should be a float64 value: %w", EnvKeyDefaultRate, err)
	}

	if cfg.DefaultBurst, err = strconv.Atoi(os.Getenv(EnvKeyDefaultBurst)); err != nil {
		return nil, fmt.Errorf("invalid %s, should be an int value: %w", EnvKeyDefaultBurst, err)
	}

	cfg.SyncQueueSize = 64
	if raw := strings.TrimSpace(os.Getenv(EnvKeySyncQueueSize)); raw != "" {
		if cfg.SyncQueueSize, err = strconv.Atoi(raw); err != nil || cfg.SyncQueueSize <= 0 {
			return nil, fmt.Errorf("invalid %s, should be a positive int", EnvKeySyncQueueSize)
		}
	}

	return cfg, nil
}
