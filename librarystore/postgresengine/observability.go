package postgresengine

import (
	"context"
	"math"
	"time"

	"github.com/bookstacks/circulation-engine-go/librarystore"
)

const (
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "engine operation: "
	logMsgBeginTxFailed    = "failed to begin transaction"
	logMsgCommitFailed     = "failed to commit transaction"
	logMsgRollbackFailed   = "failed to roll back transaction"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgBuildQueryFailed = "failed to build sql query"
	logMsgQueryFailed      = "database query execution failed"
	logMsgExecFailed       = "database statement execution failed"
	logMsgScanRowFailed    = "failed to scan database row"

	logAttrError      = "error"
	logAttrQuery      = "query"
	logAttrOperation  = "operation"
	logAttrDurationMS = "duration_ms"
	logAttrClass      = "class"

	metricOperationDuration = "librarystore_operation_duration_seconds"
	metricOperationOutcomes = "librarystore_operation_outcomes_total"

	spanNamePrefix    = "librarystore."
	spanAttrOperation = "operation"
	spanAttrErrorType = "error_type"

	statusSuccess = "success"
	statusError   = "error"
)

// logDebug logs at debug level, preferring the contextual logger when configured.
func (e *Engine) logDebug(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}

	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// logInfo logs at info level, preferring the contextual logger when configured.
func (e *Engine) logInfo(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

// logWarn logs at warn level, preferring the contextual logger when configured.
func (e *Engine) logWarn(ctx context.Context, msg string, args ...any) {
	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (e *Engine) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if e.logger != nil {
		e.logger.Error(msg, allArgs...)
	}
}

// logQueryWithDuration logs SQL queries with execution time at debug level.
func (e *Engine) logQueryWithDuration(ctx context.Context, operation string, sqlQuery string, duration time.Duration) {
	e.logDebug(ctx, logMsgSQLExecuted+operation, logAttrDurationMS, e.toMilliseconds(duration), logAttrQuery, sqlQuery)
}

// recordOperation emits the per-operation log line and metrics after the
// transaction has been resolved either way.
func (e *Engine) recordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}

	if err == nil {
		e.logInfo(ctx, logMsgOperation+operation, logAttrDurationMS, e.toMilliseconds(duration))
	} else {
		e.logInfo(ctx, logMsgOperation+operation,
			logAttrDurationMS, e.toMilliseconds(duration),
			logAttrError, err.Error(),
			logAttrClass, librarystore.Classify(err).String(),
		)
	}

	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	e.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)

	if err != nil {
		labels[spanAttrErrorType] = librarystore.Classify(err).String()
	}
	e.metricsCollector.IncrementCounter(metricOperationOutcomes, labels)
}

// startSpan opens a tracing span for one engine operation if tracing is configured.
func (e *Engine) startSpan(ctx context.Context, operation string) (context.Context, librarystore.SpanContext) {
	if e.tracingCollector == nil {
		return ctx, nil
	}

	return e.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
		spanAttrOperation: operation,
	})
}

// finishSpan closes the span with its final status if tracing is configured.
func (e *Engine) finishSpan(span librarystore.SpanContext, err error) {
	if e.tracingCollector == nil || span == nil {
		return
	}

	if err == nil {
		e.tracingCollector.FinishSpan(span, statusSuccess, nil)
		return
	}

	e.tracingCollector.FinishSpan(span, statusError, map[string]string{
		spanAttrErrorType: librarystore.Classify(err).String(),
	})
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (e *Engine) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
