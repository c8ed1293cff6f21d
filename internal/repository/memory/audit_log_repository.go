package memory

import (
	"context"
	"sync"
	"time"

	"go-medical-appointment/internal/domain/entity"
	domainRepo "go-medical-appointment/internal/domain/repository"
)

type AuditLogRepository struct {
	mu     sync.Mutex
	logs   []entity.AuditLog
	nextID int64
}

var _ domainRepo.AuditLogRepository = (*AuditLogRepository)(nil)

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	log.ID = r.nextID
	log.CreatedAt = time.Now()
	r.logs = append(r.logs, *log)
	return nil
}

// FindAll returns newest first.
func (r *AuditLogRepository) FindAll(ctx context.Context, action string, limit int) ([]entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entity.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if action != "" && r.logs[i].Action != action {
			continue
		}
		out = append(out, r.logs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *AuditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.logs {
		if r.logs[i].ID == id {
			found := r.logs[i]
			return &found, nil
		}
	}
	return nil, nil
}

// Actions lists recorded actions in insertion order.
func (r *AuditLogRepository) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	actions := make([]string, len(r.logs))
	for i, l := range r.logs {
		actions[i] = l.Action
	}
	return actions
}
