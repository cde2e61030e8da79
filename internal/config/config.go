// Package config resolves runtime settings from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config captures all runtime settings. It is read once at startup and
// immutable afterwards.
type Config struct {
	// GPIOPin is the BCM pin number the sensor's data line is wired to.
	GPIOPin int
	// Interval is the time between sample attempts.
	Interval time.Duration
	// HTTPPort and HTTPAddr define where metrics are served.
	HTTPPort int
	HTTPAddr string
	// DummyMode substitutes the synthetic pulse source for real hardware.
	DummyMode bool
	// BitThresholdUS is the microsecond cutoff between 0 and 1 pulses.
	BitThresholdUS int64
	// SensorID identifies this sensor in forwarded telemetry.
	SensorID string
	// MQTTBroker enables MQTT forwarding when non-empty.
	MQTTBroker string
	MQTTTopic  string
	// KafkaBrokers enables Kafka forwarding when non-empty.
	KafkaBrokers []string
	KafkaTopic   string
}

const (
	defaultGPIOPin     = 4
	defaultInterval    = 10 * time.Second
	defaultHTTPPort    = 9200
	defaultHTTPAddr    = "0.0.0.0"
	defaultThresholdUS = 50
	defaultMQTTTopic   = "sensors/readings"
	defaultKafkaTopic  = "sensors.readings"
)

// Load resolves configuration by layering environment variables over
// defaults. Invalid values are errors, not silent fallbacks: a process
// started with a broken configuration must not come up half-configured.
func Load() (Config, error) {
	cfg := Config{
		GPIOPin:        defaultGPIOPin,
		Interval:       defaultInterval,
		HTTPPort:       defaultHTTPPort,
		HTTPAddr:       defaultHTTPAddr,
		BitThresholdUS: defaultThresholdUS,
		SensorID:       "dht22-" + uuid.NewString(),
		MQTTTopic:      defaultMQTTTopic,
		KafkaTopic:     defaultKafkaTopic,
	}

	if v := os.Getenv("GPIO_PIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("GPIO_PIN: %q is not a valid pin number", v)
		}
		cfg.GPIOPin = n
	}
	if v := os.Getenv("INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("INTERVAL_SECONDS: %q must be an integer >= 1", v)
		}
		cfg.Interval = time.Duration(n) * time.Second
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 65535 {
			return Config{}, fmt.Errorf("HTTP_PORT: %q is not a valid port", v)
		}
		cfg.HTTPPort = n
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DUMMY_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("DUMMY_MODE: %q is not a boolean", v)
		}
		cfg.DummyMode = b
	}
	if v := os.Getenv("BIT_THRESHOLD_US"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("BIT_THRESHOLD_US: %q must be a positive integer", v)
		}
		cfg.BitThresholdUS = n
	}
	if v := strings.TrimSpace(os.Getenv("SENSOR_ID")); v != "" {
		cfg.SensorID = v
	}
	if v := strings.TrimSpace(os.Getenv("MQTT_BROKER")); v != "" {
		cfg.MQTTBroker = v
	}
	if v := strings.TrimSpace(os.Getenv("MQTT_TOPIC")); v != "" {
		cfg.MQTTTopic = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers := splitAndTrim(v)
		if len(brokers) == 0 {
			return Config{}, fmt.Errorf("KAFKA_BROKERS: %q contains no brokers", v)
		}
		cfg.KafkaBrokers = brokers
	}
	if v := strings.TrimSpace(os.Getenv("KAFKA_TOPIC")); v != "" {
		cfg.KafkaTopic = v
	}

	return cfg, nil
}

// ListenAddr combines the configured bind address and port.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.HTTPAddr, strconv.Itoa(c.HTTPPort))
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
