package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "barberbook/pkg/errors"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStorageError(t *testing.T) {
	assert.NoError(t, StorageError("find", nil))

	conflict := apperrors.SlotConflict("taken")
	assert.Same(t, conflict, StorageError("insert", conflict))

	err := StorageError("find", fmt.Errorf("wrapped: %w", context.DeadlineExceeded))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStorageUnavailable))
	assert.True(t, apperrors.AsAppError(err).Retryable())

	err = StorageError("find", mongo.ErrClientDisconnected)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStorageUnavailable))

	err = StorageError("decode", errors.New("bad document"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestWithTimeout_RespectsShorterParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, cancelChild := WithTimeout(parent, time.Hour)
	defer cancelChild()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
}

func TestWithTimeout_AddsDeadline(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}
