package service

import (
	"context"
	"fmt"

	"catalog-service/internal/core"

	"go.uber.org/zap"
)

// publish emits a change event after a successful commit. The write is
// already durable, so a failed publish is logged and not returned.
func publish(ctx context.Context, p core.EventProducer, log *zap.Logger, eventType, key string, payload interface{}) {
	if err := p.Publish(ctx, eventType, key, payload); err != nil {
		log.Warn("failed to publish catalog event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func companyKey(code int) string {
	return fmt.Sprintf("companies/%d", code)
}

func storeKey(companyCode, code int) string {
	return fmt.Sprintf("companies/%d/stores/%d", companyCode, code)
}

func productKey(companyCode, storeCode, code int) string {
	return fmt.Sprintf("companies/%d/stores/%d/products/%d", companyCode, storeCode, code)
}
