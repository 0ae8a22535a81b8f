package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-ipv/internal/application/ipv"
	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/internal/infrastructure/notify"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

func TestLogNotifier_NivelSegunSeveridad(t *testing.T) {
	cases := map[ipv.Severity]string{
		ipv.SeverityInfo:    "info",
		ipv.SeverityWarning: "warn",
		ipv.SeverityError:   "error",
	}
	for severity, level := range cases {
		var buf bytes.Buffer
		n := notify.NewLogNotifier(logger.New(logger.Config{Env: "production", Level: "debug", Output: &buf}))
		n.Notify(context.Background(), ipv.Notification{Section: entity.SectionCocina, Message: "stock insuficiente", Severity: severity})

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, level, line["level"])
		assert.Equal(t, "cocina", line["section"])
		assert.Equal(t, "stock insuficiente", line["message"])
	}
}
