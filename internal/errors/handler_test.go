package errors

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/podcast-bot/internal/i18n"
	"github.com/Proton-105/podcast-bot/pkg/logger"
)

func hebrew(t *testing.T) *i18n.Catalog {
	t.Helper()
	c, err := i18n.Load()
	require.NoError(t, err)
	return c
}

func TestHandler_AppError(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewJSONHandler(&buf, nil)), false, hebrew(t))

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	cause := errors.New("status 503")

	msg, retryable := h.Handle(ctx, NewExternalAPIError("listennotes search", cause))

	assert.Equal(t, "אירעה שגיאה. נסה שוב מאוחר יותר.", msg, "lookup failures get the generic reply")
	assert.True(t, retryable)
	assert.Contains(t, buf.String(), `"code":"E300"`)
	assert.Contains(t, buf.String(), `"cause":"status 503"`)
	assert.Contains(t, buf.String(), `"correlation_id":"corr-1"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestHandler_LowSeverityLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewJSONHandler(&buf, nil)), false, hebrew(t))

	msg, retryable := h.Handle(context.Background(), NewMalformedSelectionError("", nil))

	assert.Equal(t, "הבחירה פגה. חפש שוב.", msg)
	assert.False(t, retryable)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"code":"E110"`)
}

func TestHandler_WrappedAppError(t *testing.T) {
	h := NewHandler(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), false, hebrew(t))

	wrapped := errors.Join(errors.New("context"), NewValidationError("empty query"))
	msg, _ := h.Handle(context.Background(), wrapped)

	assert.Equal(t, "מה הפודקאסט שתרצה לשמוע?", msg)
}

func TestHandler_UnknownError(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false, hebrew(t))

	msg, retryable := h.Handle(nil, errors.New("boom"))

	assert.Equal(t, "אירעה שגיאה. נסה שוב מאוחר יותר.", msg)
	assert.False(t, retryable)
	assert.Contains(t, buf.String(), "unknown error")
}

func TestHandler_NilError(t *testing.T) {
	h := NewHandler(nil, false, nil)

	msg, retryable := h.Handle(context.Background(), nil)
	assert.Empty(t, msg)
	assert.False(t, retryable)
}

func TestHandler_WithoutTranslatorRepliesWithKeys(t *testing.T) {
	msg, _ := NewHandler(nil, false, nil).Handle(context.Background(), NewStateError("old menu"))
	assert.Equal(t, MsgMenuInactive, msg)

	var nilHandler *Handler
	msg, _ = nilHandler.Handle(context.Background(), errors.New("boom"))
	assert.Equal(t, MsgGeneric, msg)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := NewStorageError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStorage, err.Code)
	assert.Contains(t, err.Error(), "redis down")

	var nilErr *AppError
	assert.Empty(t, nilErr.Error())
	assert.NoError(t, nilErr.Unwrap())
}
