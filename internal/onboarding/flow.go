// Package onboarding implementa el tour de bienvenida de primer uso: una
// secuencia lineal de pasos que se muestra una sola vez por instalación.
// La marca de "ya visto" vive en el KV store inyectado, no acá.
package onboarding

import (
	"context"
	"sync"

	"github.com/xenocrypt01/smile-report-dash/internal/cache"
	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// Step es un paso del tour.
type Step struct {
	Title string
	Body  string
}

// DefaultSteps es el tour estándar de la herramienta de reportes.
var DefaultSteps = []Step{
	{
		Title: "Bienvenido",
		Body:  "Esta herramienta envía reportes de cuentas de WhatsApp al canal de soporte correspondiente.",
	},
	{
		Title: "Completá el reporte",
		Body:  "Ingresá el número a reportar, el motivo y un mail de contacto. Todos los campos obligatorios se validan antes de enviar.",
	},
	{
		Title: "Un envío por minuto",
		Body:  "Para evitar abuso solo se acepta un reporte por cuenta cada 60 segundos. Si llegás al límite, la herramienta te dice cuánto esperar.",
	},
}

const seenKey = "onboarding:seen"

// Flow es el estado de un recorrido en curso. No es seguro para uso
// concurrente entre goroutines distintas salvo por el candado interno;
// el caller típico (la CLI) lo maneja secuencialmente.
type Flow struct {
	store cache.Client
	steps []Step

	mu     sync.Mutex
	idx    int
	active bool
	marked bool
}

// New arma un Flow sobre el KV dado. Con steps vacío usa DefaultSteps.
func New(store cache.Client, steps []Step) *Flow {
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	return &Flow{store: store, steps: steps}
}

// Begin consulta la marca persistida y decide si el tour corre. Retorna
// false si el usuario ya lo vio. Un error de lectura del store se trata
// como "no visto": mejor repetir el tour que esconderlo.
func (f *Flow) Begin(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen, err := f.store.Exists(ctx, seenKey)
	if err != nil {
		logger.From(ctx).Warn("onboarding: seen flag read failed", logger.Err(err))
	} else if seen {
		return false
	}
	f.idx = 0
	f.active = true
	return true
}

// Current retorna el paso actual y la posición 1-based sobre el total.
func (f *Flow) Current() (step Step, pos, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return Step{}, 0, len(f.steps)
	}
	return f.steps[f.idx], f.idx + 1, len(f.steps)
}

// Next avanza al siguiente paso. En el último paso cierra el tour y
// persiste la marca. Retorna false cuando el tour terminó.
func (f *Flow) Next(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return false
	}
	if f.idx+1 >= len(f.steps) {
		f.finish(ctx)
		return false
	}
	f.idx++
	return true
}

// Skip abandona el tour desde cualquier paso. Saltear cuenta como visto:
// el tour no reaparece en el próximo arranque.
func (f *Flow) Skip(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return
	}
	f.finish(ctx)
}

// Close termina el tour desde el último paso (o cualquier otro). Misma
// semántica de persistencia que Skip.
func (f *Flow) Close(ctx context.Context) {
	f.Skip(ctx)
}

// finish cierra el tour y escribe la marca exactamente una vez.
// Requiere f.mu tomado.
func (f *Flow) finish(ctx context.Context) {
	f.active = false
	if f.marked {
		return
	}
	f.marked = true
	if err := f.store.Set(ctx, seenKey, "1", 0); err != nil {
		logger.From(ctx).Warn("onboarding: seen flag write failed", logger.Err(err))
	}
}
