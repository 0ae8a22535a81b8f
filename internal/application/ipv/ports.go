package ipv

import (
	"context"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
)

// Severity nivel de una notificación al usuario.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification mensaje para el operador del área.
type Notification struct {
	Section  entity.Section `json:"section"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
}

// Notifier puerto de notificaciones (la presentación queda fuera del servicio).
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// SectionLocker serializa las operaciones sobre el IPV de un área.
// unlock debe llamarse siempre que err sea nil.
type SectionLocker interface {
	Lock(ctx context.Context, section entity.Section) (unlock func(), err error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}
