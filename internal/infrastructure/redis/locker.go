package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestor-ipv/internal/domain/entity"
	"github.com/jhoicas/gestor-ipv/pkg/logger"
)

// ErrLockTimeout no se obtuvo el lock del área dentro del tiempo de espera.
var ErrLockTimeout = errors.New("área ocupada por otra instancia")

// SectionLocker lock distribuido por área (clave ipv:lock:<área>) sobre redislock.
// Satisface ipv.SectionLocker.
type SectionLocker struct {
	locks *redislock.Client
	ttl   time.Duration
	wait  time.Duration
	log   *logger.Logger
}

// NewSectionLocker ttl es la vida máxima del lock; se espera hasta ttl para obtenerlo.
func NewSectionLocker(client goredis.UniversalClient, ttl time.Duration, log *logger.Logger) *SectionLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &SectionLocker{
		locks: redislock.New(client),
		ttl:   ttl,
		wait:  ttl,
		log:   log,
	}
}

func lockKey(section entity.Section) string {
	return keyPrefix + "lock:" + string(section)
}

func (l *SectionLocker) Lock(ctx context.Context, section entity.Section) (func(), error) {
	backoff := redislock.LimitRetry(redislock.ExponentialBackoff(10*time.Millisecond, 250*time.Millisecond), int(l.wait/(10*time.Millisecond)))
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lock, err := l.locks.Obtain(waitCtx, lockKey(section), l.ttl, &redislock.Options{RetryStrategy: backoff})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, section)
		}
		return nil, fmt.Errorf("obtener lock %s: %w", lockKey(section), err)
	}

	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("section", string(section)).Msg("liberar lock del área")
		}
	}, nil
}
