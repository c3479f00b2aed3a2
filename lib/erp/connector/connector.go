package erpconnector

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// Provider пул подключений к ERP (MSSQL). Все запросы идут через предохранитель и с таймаутом
type Provider interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
	Close() error
}

// ErrUnavailable предохранитель разомкнут, ERP временно не опрашивается
var ErrUnavailable = errors.New("ERP временно недоступна")

type Config struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	QueryTimeout    time.Duration
	ConnectAttempts int
	ConnectBackoff  time.Duration
	BreakerFailures uint32
	BreakerOpen     time.Duration
}

type openFunc func(ctx context.Context) (*gorm.DB, error)

func New(cfg Config) Provider {
	i := &impl{
		cfg:   cfg,
		sleep: sleepCtx,
	}
	i.open = i.openSQLServer
	i.breaker = newBreaker(cfg)
	return i
}

type impl struct {
	cfg     Config
	mu      sync.Mutex
	conn    *gorm.DB
	open    openFunc
	sleep   func(ctx context.Context, d time.Duration) error
	breaker *gobreaker.CircuitBreaker
}

func newBreaker(cfg Config) *gobreaker.CircuitBreaker {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "erp",
		Timeout: cfg.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.
				WithField("breaker", name).
				WithField("from", from.String()).
				WithField("to", to.String()).
				Warn("изменено состояние предохранителя ERP")
		},
	})
}

func (i *impl) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	_, err := i.breaker.Execute(func() (interface{}, error) {
		conn, err := i.getConn(ctx)
		if err != nil {
			return nil, err
		}
		queryCtx, cancel := context.WithTimeout(ctx, i.queryTimeout())
		defer cancel()
		return nil, fn(conn.WithContext(queryCtx))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ErrUnavailable
		}
		return errors.Wrap(err, "ошибка запроса к ERP")
	}
	return nil
}

func (i *impl) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.conn == nil {
		return nil
	}
	sqlDB, err := i.conn.DB()
	if err != nil {
		return err
	}
	i.conn = nil
	return sqlDB.Close()
}

// getConn подключается при первом обращении, ожидающие вызовы блокируются до результата
func (i *impl) getConn(ctx context.Context) (*gorm.DB, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.conn != nil {
		return i.conn, nil
	}
	attempts := i.cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := i.open(ctx)
		if err == nil {
			i.conn = conn
			log.Info("подключение к ERP установлено")
			return conn, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("ошибка подключения к ERP")
		if attempt == attempts {
			break
		}
		if err = i.sleep(ctx, backoff(attempt, i.cfg.ConnectBackoff)); err != nil {
			return nil, err
		}
	}
	return nil, errors.Wrapf(lastErr, "не удалось подключиться к ERP за %d попыток", attempts)
}

func (i *impl) openSQLServer(ctx context.Context) (*gorm.DB, error) {
	query := url.Values{}
	query.Add("database", i.cfg.Name)
	query.Add("connection timeout", fmt.Sprintf("%d", int(i.queryTimeout().Seconds())))
	dsn := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(i.cfg.User, i.cfg.Password),
		Host:     fmt.Sprintf("%s:%d", i.cfg.Host, i.cfg.Port),
		RawQuery: query.Encode(),
	}
	conn, err := gorm.Open(sqlserver.Open(dsn.String()), &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := i.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, i.queryTimeout())
	defer cancel()
	if err = sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return conn, nil
}

func (i *impl) queryTimeout() time.Duration {
	if i.cfg.QueryTimeout <= 0 {
		return 10 * time.Second
	}
	return i.cfg.QueryTimeout
}

// backoff base * 2^(attempt-1), не более 5 секунд
func backoff(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	d := base << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
