package activationworker

import (
	"context"
	flyerhandler "flyer-backend/lib/flyer"
	baseworker "flyer-backend/lib/utils/base-worker"
	"time"
)

const (
	firstRunDelay = 30 * time.Second
	runInterval   = 10 * time.Minute
)

// StartWorker периодически переводит согласованные листовки в активные по наступлении даты начала действия
func StartWorker(ctx context.Context) {
	worker := baseworker.NewInstance("FlyerActivationJob", firstRunDelay, runInterval)
	go worker.Run(ctx, func(ctx context.Context) {
		activated, err := flyerhandler.Instance.ActivateDue(ctx)
		if err != nil {
			worker.GetLogger().WithError(err).Error("ошибка активации листовок")
			return
		}
		if activated > 0 {
			worker.GetLogger().WithField("activated", activated).Info("листовки активированы")
		}
	})
}
