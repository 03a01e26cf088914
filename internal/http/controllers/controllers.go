// Package controllers agrupa todos los controllers HTTP.
// Es el composition root: main crea los services, los inyecta acá y el
// router recibe este aggregator ya armado.
package controllers

import (
	authctrl "github.com/xenocrypt01/smile-report-dash/internal/http/controllers/auth"
	healthctrl "github.com/xenocrypt01/smile-report-dash/internal/http/controllers/health"
	reportsctrl "github.com/xenocrypt01/smile-report-dash/internal/http/controllers/reports"
	authsvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/auth"
	healthsvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/health"
	reportssvc "github.com/xenocrypt01/smile-report-dash/internal/http/services/reports"
)

// Controllers contiene todos los controllers de la API.
type Controllers struct {
	Auth    *authctrl.Controller
	Reports *reportsctrl.Controller
	Health  *healthctrl.Controller
}

// Services contiene los services que consumen los controllers.
type Services struct {
	Auth    authsvc.Service
	Reports reportssvc.Service
	Health  healthsvc.Service
}

// New arma el aggregator de controllers a partir de los services.
func New(s Services) *Controllers {
	return &Controllers{
		Auth:    authctrl.NewController(s.Auth),
		Reports: reportsctrl.NewController(s.Reports),
		Health:  healthctrl.NewController(s.Health),
	}
}
