package erpconnector

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestConnector(cfg Config, open openFunc) (*impl, *[]time.Duration) {
	sleeps := []time.Duration{}
	i := &impl{
		cfg:  cfg,
		open: open,
		sleep: func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	}
	i.breaker = newBreaker(cfg)
	return i, &sleeps
}

func TestConnector(t *testing.T) {
	t.Run(`подключение повторяется с экспоненциальной задержкой`, func(t *testing.T) {
		calls := 0
		i, sleeps := newTestConnector(Config{ConnectAttempts: 3, ConnectBackoff: 100 * time.Millisecond, BreakerFailures: 5}, func(ctx context.Context) (*gorm.DB, error) {
			calls++
			if calls < 3 {
				return nil, errors.New("dial tcp: connection refused")
			}
			return &gorm.DB{Config: &gorm.Config{}}, nil
		})
		conn, err := i.getConn(context.Background())
		require.NoError(t, err)
		require.NotNil(t, conn)
		require.Equal(t, 3, calls)
		require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *sleeps)

		// повторно пул не создается
		_, err = i.getConn(context.Background())
		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})
	t.Run(`после исчерпания попыток возвращается причина`, func(t *testing.T) {
		i, sleeps := newTestConnector(Config{ConnectAttempts: 2, BreakerFailures: 5}, func(ctx context.Context) (*gorm.DB, error) {
			return nil, errors.New("login failed")
		})
		err := i.Do(context.Background(), func(tx *gorm.DB) error { return nil })
		require.Error(t, err)
		require.Contains(t, err.Error(), "login failed")
		require.Len(t, *sleeps, 1)
	})
	t.Run(`предохранитель размыкается после серии ошибок`, func(t *testing.T) {
		calls := 0
		i, _ := newTestConnector(Config{ConnectAttempts: 1, BreakerFailures: 2, BreakerOpen: time.Minute}, func(ctx context.Context) (*gorm.DB, error) {
			calls++
			return nil, errors.New("timeout")
		})
		for n := 0; n < 2; n++ {
			require.Error(t, i.Do(context.Background(), func(tx *gorm.DB) error { return nil }))
		}
		err := i.Do(context.Background(), func(tx *gorm.DB) error { return nil })
		require.ErrorIs(t, err, ErrUnavailable)
		require.Equal(t, 2, calls)
	})
}

func TestBackoff(t *testing.T) {
	require.Equal(t, 500*time.Millisecond, backoff(1, 0))
	require.Equal(t, 2*time.Second, backoff(3, 500*time.Millisecond))
	require.Equal(t, 5*time.Second, backoff(10, 500*time.Millisecond))
}
