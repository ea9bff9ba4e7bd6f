package mongo

import (
	"context"
	"errors"

	apperrors "barberbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsUnavailable reports failures of the datastore itself: network errors
// and timeouts.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, mongo.ErrClientDisconnected) {
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}

// StorageError converts a raw driver error into an AppError. Errors that
// already are AppErrors pass through.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if IsUnavailable(err) {
		return apperrors.StorageUnavailable(op+": storage unavailable", err)
	}
	return apperrors.Internal(op+" failed", err)
}
