package jobs

import (
	"context"
	"time"

	"github.com/bortnikova888-creator/SupplierCheck-UK/services"
	"github.com/sirupsen/logrus"
)

type CacheCleanupJob struct {
	Cache *services.FetchCacheService
}

func NewCacheCleanupJob(cache *services.FetchCacheService) *CacheCleanupJob {
	return &CacheCleanupJob{Cache: cache}
}

func (j *CacheCleanupJob) Run() {
	logrus.Info("Starting Cache Cleanup Job")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	removed, err := j.Cache.CleanExpired(ctx)
	if err != nil {
		logrus.WithError(err).Error("Cache Cleanup Job failed")
		return
	}

	logrus.WithField("removed", removed).Info("Cache Cleanup Job completed")
}
