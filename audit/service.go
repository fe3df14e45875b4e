package audit

import (
	"context"
	"sync"
	"time"

	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	batchSize     = 100
	flushInterval = 2 * time.Second
)

// Service journals auto-eat events asynchronously in batches. It implements
// lunchbox.Observer; AutoAte never blocks the host.
type Service struct {
	db     *gorm.DB
	ch     chan *model.ConsumptionLog
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a new audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	svc := &Service{
		db:     db,
		ch:     make(chan *model.ConsumptionLog, 1024),
		stopCh: make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// AutoAte enqueues ev for an async DB write. Events are dropped with a
// warning when the queue is full or the service has stopped.
func (svc *Service) AutoAte(ev lunchbox.AutoEatEvent) {
	record := &model.ConsumptionLog{
		ContainerID:  ev.ContainerID.String(),
		LunchboxCode: ev.LunchboxCode,
		EntityID:     ev.EntityID,
		SlotIndex:    ev.SlotIndex,
		FoodCode:     ev.FoodCode,
		Saturation:   ev.Saturation,
		Served:       ev.Served,
		CreatedAt:    ev.At,
	}
	select {
	case <-svc.stopCh:
		return
	default:
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("audit channel full, dropping entry",
			zap.String("container", record.ContainerID),
			zap.String("food", record.FoodCode))
	}
}

// Recent returns the newest consumption rows for a container, newest first.
func (svc *Service) Recent(ctx context.Context, containerID string, limit int) ([]model.ConsumptionLog, error) {
	var rows []model.ConsumptionLog
	err := svc.db.WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	svc.once.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*model.ConsumptionLog, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Error(err), zap.Int("rows", len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			// Drain remaining entries.
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
