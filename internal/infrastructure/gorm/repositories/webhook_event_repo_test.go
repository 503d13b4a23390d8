package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/mirola777/payhook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestWebhookEventCreate_And_FindByID(t *testing.T) {
	repo := NewWebhookEventRepo(setupDB(t))
	ctx := context.Background()

	record := &domain.WebhookEventRecord{
		EventID:     "evt_1",
		Provider:    "simulator",
		EventType:   string(domain.EventPaymentSucceeded),
		PaymentID:   "pay_42",
		Outcome:     "succeeded",
		Payload:     datatypes.JSON(`{"id":"evt_1"}`),
		ProcessedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, record))

	found, err := repo.FindByID(ctx, "evt_1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "pay_42", found.PaymentID)
	assert.Equal(t, "succeeded", found.Outcome)
	assert.JSONEq(t, `{"id":"evt_1"}`, string(found.Payload))
}

func TestWebhookEventFindByID_NotFound(t *testing.T) {
	repo := NewWebhookEventRepo(setupDB(t))

	found, err := repo.FindByID(context.Background(), "evt_missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestWebhookEventCreate_KeepsFirstRecord(t *testing.T) {
	db := setupDB(t)
	repo := NewWebhookEventRepo(db)
	ctx := context.Background()

	first := &domain.WebhookEventRecord{EventID: "evt_1", Provider: "simulator", EventType: "payment_succeeded", Outcome: "succeeded", ProcessedAt: time.Now().UTC()}
	second := &domain.WebhookEventRecord{EventID: "evt_1", Provider: "simulator", EventType: "payment_succeeded", Outcome: "noop", ProcessedAt: time.Now().UTC()}

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	var count int64
	require.NoError(t, db.Model(&domain.WebhookEventRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByID(ctx, "evt_1")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", found.Outcome)
}
