package service

import (
	"context"
	"testing"

	"go-medical-appointment/internal/domain/entity"
	"go-medical-appointment/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingAuditRepo rejects every write.
type failingAuditRepo struct {
	*memory.AuditLogRepository
}

func (failingAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	return assert.AnError
}

// ctxAuditRepo fails when handed a cancelled context.
type ctxAuditRepo struct {
	*memory.AuditLogRepository
}

func (r ctxAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.AuditLogRepository.Create(ctx, log)
}

func TestAuditService_RecordsOldAndNewValues(t *testing.T) {
	repo := memory.NewAuditLogRepository()
	svc := NewAuditService(newTestLogger(), repo)
	actor := uuid.New()

	svc.LogUpdate(context.Background(), &actor, entity.AuditActionAppointmentMove, "appointment", "a-1", "before", "after")

	logs, err := repo.FindAll(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionAppointmentMove, logs[0].Action)
	assert.Equal(t, &actor, logs[0].UserID)
	assert.Equal(t, "appointment", logs[0].Metadata["entity"])
	assert.Equal(t, "a-1", logs[0].Metadata["entity_id"])
	assert.Equal(t, "before", logs[0].Metadata["old_value"])
	assert.Equal(t, "after", logs[0].Metadata["new_value"])
}

func TestAuditService_WriteFailureIsSwallowed(t *testing.T) {
	svc := NewAuditService(newTestLogger(), failingAuditRepo{memory.NewAuditLogRepository()})

	assert.NotPanics(t, func() {
		svc.LogCreate(context.Background(), nil, entity.AuditActionAppointmentBook, "appointment", "a-1", nil)
	})
}

func TestAuditService_SurvivesCancelledRequest(t *testing.T) {
	repo := ctxAuditRepo{memory.NewAuditLogRepository()}
	svc := NewAuditService(newTestLogger(), repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.LogDelete(ctx, nil, entity.AuditActionDoctorDelete, "doctor", "d-1", "gone")

	assert.Equal(t, []string{entity.AuditActionDoctorDelete}, repo.Actions())
}
