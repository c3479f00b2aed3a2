package erpcache

import (
	"context"
	"encoding/json"
	erpstore "flyer-backend/lib/erp/store"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Provider кэш результатов поиска EAN. Хранятся только ответы ERP (найден / не найден), недоступность не кэшируется
type Provider interface {
	Get(ctx context.Context, ean string, actionID *string) (rec *erpstore.ErpProduct, hit bool, err error)
	Set(ctx context.Context, ean string, actionID *string, rec *erpstore.ErpProduct) error
}

func NewInstance(client *redis.Client, ttl time.Duration) Provider {
	return &impl{
		client: client,
		ttl:    ttl,
	}
}

type impl struct {
	client *redis.Client
	ttl    time.Duration
}

type entry struct {
	Found   bool                 `json:"found"`
	Product *erpstore.ErpProduct `json:"product,omitempty"`
}

func (i impl) Get(ctx context.Context, ean string, actionID *string) (*erpstore.ErpProduct, bool, error) {
	data, err := i.client.Get(ctx, key(ean, actionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	item := entry{}
	if err = json.Unmarshal(data, &item); err != nil {
		return nil, false, errors.Wrap(err, "некорректная запись кэша ERP")
	}
	if !item.Found {
		return nil, true, nil
	}
	return item.Product, true, nil
}

func (i impl) Set(ctx context.Context, ean string, actionID *string, rec *erpstore.ErpProduct) error {
	data, err := json.Marshal(entry{Found: rec != nil, Product: rec})
	if err != nil {
		return err
	}
	return i.client.Set(ctx, key(ean, actionID), data, i.ttl).Err()
}

func key(ean string, actionID *string) string {
	action := "-"
	if actionID != nil {
		action = *actionID
	}
	return fmt.Sprintf("erp:ean:%s:%s", ean, action)
}
