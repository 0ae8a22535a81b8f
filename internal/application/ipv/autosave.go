package ipv

import (
	"sync"
	"time"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// Autosaver agrupa guardados por área: cada Schedule reinicia la espera y solo el último
// dispara save. Con delay <= 0 guarda en el acto.
type Autosaver struct {
	delay time.Duration
	save  func(entity.Section)

	mu      sync.Mutex
	pending map[entity.Section]*time.Timer
}

// NewAutosaver construye el autosaver.
func NewAutosaver(delay time.Duration, save func(entity.Section)) *Autosaver {
	return &Autosaver{
		delay:   delay,
		save:    save,
		pending: make(map[entity.Section]*time.Timer),
	}
}

// Schedule programa el guardado del área.
func (a *Autosaver) Schedule(section entity.Section) {
	if a.delay <= 0 {
		a.save(section)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if prev, ok := a.pending[section]; ok {
		prev.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(a.delay, func() {
		a.mu.Lock()
		if a.pending[section] != t {
			a.mu.Unlock()
			return
		}
		delete(a.pending, section)
		a.mu.Unlock()
		a.save(section)
	})
	a.pending[section] = t
}

// Pending cantidad de áreas con guardado en espera.
func (a *Autosaver) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Flush cancela las esperas y guarda ahora las áreas pendientes.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	sections := make([]entity.Section, 0, len(a.pending))
	for section, t := range a.pending {
		t.Stop()
		sections = append(sections, section)
	}
	a.pending = make(map[entity.Section]*time.Timer)
	a.mu.Unlock()

	for _, section := range sections {
		a.save(section)
	}
}
