package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestor-ipv/internal/application/ipv"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

var _ ipv.Notifier = (*LogNotifier)(nil)

// LogNotifier registra las notificaciones en el log con el nivel según la severidad.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, note ipv.Notification) {
	var ev *zerolog.Event
	switch note.Severity {
	case ipv.SeverityError:
		ev = n.log.Error()
	case ipv.SeverityWarning:
		ev = n.log.Warn()
	default:
		ev = n.log.Info()
	}
	ev.Str("section", string(note.Section)).Str("severity", string(note.Severity)).Msg(note.Message)
}
