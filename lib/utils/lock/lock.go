package lock

import (
	"context"
	"sync"
	"time"
)

const pollInterval = 50 * time.Millisecond

var keys sync.Map

// WithDelay выполняет safeCode, удерживая ключ в пределах процесса.
// Если ключ не освободился за wait, возвращает success=false без вызова safeCode
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if _, loaded := keys.LoadOrStore(key, struct{}{}); !loaded {
			break
		}
		select {
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
	}
	defer keys.Delete(key)
	return true, safeCode()
}
