package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas del pipeline de reportes. Paquete standalone para evitar ciclos
// de import entre dispatch y las capas HTTP.

var (
	ReportsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reports_accepted_total",
		Help: "Reportes aceptados y entregados al transporte de mail",
	})

	ReportsRateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reports_rate_limited_total",
		Help: "Despachos rechazados por la ventana por identidad",
	})

	ReportsDeliveryFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reports_delivery_failed_total",
		Help: "Despachos aceptados cuyo hand-off de mail falló",
	})

	AuthAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Intentos de autenticación por operación y resultado",
	}, []string{"op", "result"})
)

// Register registra las métricas del pipeline en el registry dado
// (default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		ReportsAccepted,
		ReportsRateLimited,
		ReportsDeliveryFailed,
		AuthAttempts,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
