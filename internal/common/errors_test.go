package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("tesseract missing")
	err := fmt.Errorf("scan: %w", NewAppError("OCR_FAILED", "Error scanning image.", cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "OCR_FAILED", ErrorCode(err))
	assert.Equal(t, "Error scanning image.", UserMessage(err, "fallback"))
	assert.Equal(t, "scan: OCR_FAILED: Error scanning image.: tesseract missing", err.Error())

	bare := NewAppError("NO_TEXT", "No ingredients detected.", nil)
	assert.Equal(t, "NO_TEXT: No ingredients detected.", bare.Error())
	assert.NoError(t, bare.Unwrap())
}

func TestUserMessageFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "fallback"},
		{name: "plain error", err: errors.New("boom"), want: "fallback"},
		{name: "empty message", err: NewAppError("X", "", nil), want: "fallback"},
		{name: "app error", err: NewAppError("X", "shown", nil), want: "shown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "fallback"))
		})
	}
	assert.Empty(t, ErrorCode(errors.New("boom")))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))
	err := WrapError(ErrNotFound, "load rules")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "load rules: resource not found", err.Error())
}

func TestGRPCErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{InvalidArgumentError("x"), codes.InvalidArgument},
		{InvalidArgumentErrorf("bad %s", "ext"), codes.InvalidArgument},
		{NotFoundError("x"), codes.NotFound},
		{InternalError("x"), codes.Internal},
		{InternalErrorf("x %d", 1), codes.Internal},
		{UnavailableError("x"), codes.Unavailable},
		{FailedPreconditionError("x"), codes.FailedPrecondition},
		{AbortedError("x"), codes.Aborted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, status.Code(tt.err), tt.err.Error())
	}
	assert.Equal(t, "bad ext", status.Convert(InvalidArgumentErrorf("bad %s", "ext")).Message())
}

func TestContextValues(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	same, again := EnsureRequestID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, ctx, same)

	_, ok := ScanIDFromContext(ctx)
	assert.False(t, ok)
	token := uuid.New()
	got, ok := ScanIDFromContext(WithScanID(ctx, token))
	assert.True(t, ok)
	assert.Equal(t, token, got)
}

func TestWithTimeoutZeroMeansCancelOnly(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	_, has := ctx.Deadline()
	assert.False(t, has)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	ctx, cancel = WithTimeout(context.Background(), time.Hour)
	defer cancel()
	_, has = ctx.Deadline()
	assert.True(t, has)
}
