package commerce

import (
	"log"
	"time"

	"github.com/MeMoElprince/QA-Game/internal/db"
)

// CancelStalePending cancels every pending order created before the cutoff.
// It returns the number of orders swept.
func (s *Service) CancelStalePending(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res := s.db.Model(&db.Order{}).
		Where("status = ? AND created_at < ?", db.OrderStatusPending, cutoff).
		Update("status", db.OrderStatusCancelled)
	return res.RowsAffected, res.Error
}

// StartSweeper runs CancelStalePending on a fixed interval until the
// returned stop function is called.
func (s *Service) StartSweeper(interval, olderThan time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := s.CancelStalePending(olderThan)
				if err != nil {
					log.Printf("order sweep failed err=%v", err)
					continue
				}
				if n > 0 {
					log.Printf("cancelled stale pending orders count=%d", n)
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
