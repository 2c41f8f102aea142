// Package metrics provides Prometheus metrics for device and control activity.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	devicesPresent = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camctl",
		Subsystem: "devices",
		Name:      "present",
		Help:      "Number of capture devices currently present",
	})

	hotplugEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camctl",
		Subsystem: "devices",
		Name:      "hotplug_events_total",
		Help:      "Device attach and detach events",
	}, []string{"action"})

	controlOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camctl",
		Subsystem: "controls",
		Name:      "operations_total",
		Help:      "Control read and write operations",
	}, []string{"op"})

	controlErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camctl",
		Subsystem: "controls",
		Name:      "errors_total",
		Help:      "Failed control read and write operations",
	}, []string{"op"})

	// Local cache for the status API.
	statsMu sync.RWMutex
	stats   Stats
)

// Stats holds current counter values for API consumers.
type Stats struct {
	DevicesPresent int
	Attached       uint64
	Detached       uint64
	ControlReads   uint64
	ControlWrites  uint64
	ControlFailed  uint64
}

// SetDevicesPresent records how many devices are currently known.
func SetDevicesPresent(n int) {
	devicesPresent.Set(float64(n))
	statsMu.Lock()
	stats.DevicesPresent = n
	statsMu.Unlock()
}

// DeviceAttached records a device attach event.
func DeviceAttached() {
	hotplugEvents.WithLabelValues("attached").Inc()
	statsMu.Lock()
	stats.Attached++
	statsMu.Unlock()
}

// DeviceDetached records a device detach event.
func DeviceDetached() {
	hotplugEvents.WithLabelValues("detached").Inc()
	statsMu.Lock()
	stats.Detached++
	statsMu.Unlock()
}

// ControlRead records a control read, failed or not.
func ControlRead(err error) {
	controlOps.WithLabelValues("read").Inc()
	statsMu.Lock()
	stats.ControlReads++
	statsMu.Unlock()
	if err != nil {
		controlErrors.WithLabelValues("read").Inc()
		statsMu.Lock()
		stats.ControlFailed++
		statsMu.Unlock()
	}
}

// ControlWrite records a control write, failed or not.
func ControlWrite(err error) {
	controlOps.WithLabelValues("write").Inc()
	statsMu.Lock()
	stats.ControlWrites++
	statsMu.Unlock()
	if err != nil {
		controlErrors.WithLabelValues("write").Inc()
		statsMu.Lock()
		stats.ControlFailed++
		statsMu.Unlock()
	}
}

// GetStats returns a snapshot of the current counters.
func GetStats() Stats {
	statsMu.RLock()
	defer statsMu.RUnlock()
	return stats
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
