package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector adapts a Store to the Prometheus scrape path. Each Collect
// reads one snapshot, so every scrape sees a consistent set of values.
// The humidity, temperature and last-success series appear only after
// the first successful read; serving nothing is clearer than serving a
// zero that looks like a measurement.
type Collector struct {
	store *Store

	humidity    *prometheus.Desc
	temperature *prometheus.Desc
	readErrors  *prometheus.Desc
	lastSuccess *prometheus.Desc
}

// NewCollector returns a Collector exporting the fixed series for store.
func NewCollector(store *Store) *Collector {
	return &Collector{
		store: store,
		humidity: prometheus.NewDesc(
			"humidity",
			"Relative humidity in percent as read by the sensor.",
			nil, nil,
		),
		temperature: prometheus.NewDesc(
			"temperature",
			"Temperature in degrees Celsius as read by the sensor.",
			nil, nil,
		),
		readErrors: prometheus.NewDesc(
			"read_errors_total",
			"Total number of failed sensor read attempts.",
			nil, nil,
		),
		lastSuccess: prometheus.NewDesc(
			"last_success_timestamp",
			"Unix timestamp of the last successful sensor read.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.humidity
	ch <- c.temperature
	ch <- c.readErrors
	ch <- c.lastSuccess
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.store.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.readErrors, prometheus.CounterValue, float64(s.ReadErrorsTotal))
	if !s.HasReading {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.humidity, prometheus.GaugeValue, s.Humidity)
	ch <- prometheus.MustNewConstMetric(c.temperature, prometheus.GaugeValue, s.Temperature)
	ch <- prometheus.MustNewConstMetric(c.lastSuccess, prometheus.GaugeValue, s.LastSuccessUnix)
}
