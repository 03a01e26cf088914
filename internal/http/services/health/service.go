// Package health implementa el service de health checks.
package health

import (
	"context"
	"time"

	dto "github.com/xenocrypt01/smile-report-dash/internal/http/dto/health"
)

// Checker es una dependencia verificable (cache, base de datos, etc).
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapta una función a Checker.
type CheckerFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (c CheckerFunc) Name() string                    { return c.Label }
func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

// Service es el contrato del service de health.
type Service interface {
	Check(ctx context.Context) dto.Response
}

type service struct {
	version  string
	checkers []Checker
}

// NewService crea el service con las dependencias a verificar.
func NewService(version string, checkers ...Checker) Service {
	return &service{version: version, checkers: checkers}
}

const checkTimeout = 2 * time.Second

func (s *service) Check(ctx context.Context) dto.Response {
	resp := dto.Response{Status: "ready", Version: s.version}

	failed := 0
	for _, c := range s.checkers {
		comp := dto.Component{Name: c.Name(), Status: "ok"}

		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		if err := c.Check(cctx); err != nil {
			comp.Status = "error"
			comp.Error = err.Error()
			failed++
		}
		cancel()

		resp.Components = append(resp.Components, comp)
	}

	switch {
	case failed == 0:
	case failed < len(s.checkers):
		resp.Status = "degraded"
	default:
		resp.Status = "unavailable"
	}
	return resp
}
