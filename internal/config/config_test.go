package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GPIOPin != 4 {
		t.Errorf("default pin: got %d want 4", cfg.GPIOPin)
	}
	if cfg.Interval != 10*time.Second {
		t.Errorf("default interval: got %v want 10s", cfg.Interval)
	}
	if got, want := cfg.ListenAddr(), "0.0.0.0:9200"; got != want {
		t.Errorf("default listen addr: got %s want %s", got, want)
	}
	if cfg.DummyMode {
		t.Error("dummy mode must default to off")
	}
	if cfg.BitThresholdUS != 50 {
		t.Errorf("default threshold: got %d want 50", cfg.BitThresholdUS)
	}
	if !strings.HasPrefix(cfg.SensorID, "dht22-") {
		t.Errorf("default sensor id: got %s", cfg.SensorID)
	}
	if cfg.MQTTBroker != "" || cfg.KafkaBrokers != nil {
		t.Errorf("telemetry must default to off: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GPIO_PIN", "17")
	t.Setenv("INTERVAL_SECONDS", "30")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("HTTP_ADDR", "127.0.0.1")
	t.Setenv("DUMMY_MODE", "true")
	t.Setenv("BIT_THRESHOLD_US", "48")
	t.Setenv("SENSOR_ID", "greenhouse-1")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GPIOPin != 17 || cfg.Interval != 30*time.Second {
		t.Errorf("pin/interval overrides not applied: %+v", cfg)
	}
	if got, want := cfg.ListenAddr(), "127.0.0.1:8080"; got != want {
		t.Errorf("listen addr: got %s want %s", got, want)
	}
	if !cfg.DummyMode {
		t.Error("DUMMY_MODE=true not applied")
	}
	if cfg.BitThresholdUS != 48 {
		t.Errorf("threshold override: got %d", cfg.BitThresholdUS)
	}
	if cfg.SensorID != "greenhouse-1" {
		t.Errorf("sensor id override: got %s", cfg.SensorID)
	}
	if cfg.MQTTBroker != "tcp://broker:1883" || cfg.MQTTTopic != "sensors/readings" {
		t.Errorf("mqtt settings: %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("kafka brokers not split: %v", cfg.KafkaBrokers)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"GPIO_PIN", "four"},
		{"GPIO_PIN", "-1"},
		{"INTERVAL_SECONDS", "0"},
		{"INTERVAL_SECONDS", "fast"},
		{"HTTP_PORT", "0"},
		{"HTTP_PORT", "70000"},
		{"DUMMY_MODE", "maybe"},
		{"BIT_THRESHOLD_US", "-50"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
