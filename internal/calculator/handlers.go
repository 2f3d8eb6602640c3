package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"wrong-calculator/internal/core"
	"wrong-calculator/internal/handlers"
	"wrong-calculator/internal/journal"
	"wrong-calculator/internal/observability"
	"wrong-calculator/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints.
type Handler struct {
	store   session.Store
	journal journal.Journal
	source  core.Source
	now     func() time.Time
}

// NewHandler wires the calculator endpoints to a session store, a journal
// and the randomness used for corruption.
func NewHandler(store session.Store, j journal.Journal, src core.Source) *Handler {
	if j == nil {
		j = journal.Nop{}
	}
	if src == nil {
		src = core.ClockSource{}
	}
	return &Handler{store: store, journal: j, source: src, now: time.Now}
}

// ---------------------------------------------------------------------------
// Handlers — sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "calculator.session.create")
	defer span.End()

	id, st, err := h.store.Create(ctx)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create_session", "could not create session", err, http.StatusInternalServerError, w)
		return
	}

	span.SetAttributes(attribute.String("session.id", id))
	span.SetStatus(codes.Ok, "")
	logger.Info("session created", zap.String("session_id", id))

	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{ID: id, Display: st.Display})
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "calculator.session.get")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	st, err := h.store.Get(ctx, id)
	if err != nil {
		h.sessionError(ctx, span, logger, w, "get_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, Display: st.Display})
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "calculator.session.delete")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	if err := h.store.Delete(ctx, id); err != nil {
		h.sessionError(ctx, span, logger, w, "delete_session", err)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("session ended", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/events. It applies one or
// more key presses to a session, in order, and renders the new display.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "calculator.session.events")
	defer span.End()

	id := chi.URLParam(r, "id")
	span.SetAttributes(attribute.String("session.id", id))

	var req EventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "events", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	keys := req.keys()
	if len(keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "events", "no events provided", errors.New("event and events are empty"), http.StatusBadRequest, w)
		return
	}

	events, err := core.ParseKeys(keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "events", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	// Folds are collected per attempt: the store may rerun the update.
	var folds []core.Fold
	machine := core.NewMachine(h.source).WithObserver(func(f core.Fold) {
		folds = append(folds, f)
	})

	st, err := h.store.Update(ctx, id, func(cur core.State) core.State {
		folds = folds[:0]
		return machine.Run(cur, events...)
	})
	if err != nil {
		h.sessionError(ctx, span, logger, w, "events", err)
		return
	}

	for _, e := range events {
		eventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", e.Kind.String())))
	}
	h.record(ctx, logger, id, folds)

	span.SetAttributes(
		attribute.Int("calculator.events", len(events)),
		attribute.Int("calculator.operations", len(folds)),
		attribute.String("calculator.display", st.Display),
	)
	span.SetStatus(codes.Ok, "")

	logger.Debug("keys applied",
		zap.String("session_id", id),
		zap.Strings("keys", keys),
		zap.String("display", st.Display),
	)

	handlers.WriteJSON(w, http.StatusOK, SessionResponse{ID: id, Display: st.Display})
}

// ---------------------------------------------------------------------------
// Handler — stateless replay (one child span per completed operation)
// ---------------------------------------------------------------------------

// Press handles POST /calculator/press. It replays a key sequence on a fresh
// calculator and returns the final display and every operation it completed.
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "calculator.press")
	defer span.End()

	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	events, err := core.ParseKeyString(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "press", err.Error(), err, http.StatusBadRequest, w)
		return
	}
	if len(events) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "press", "no keys provided", errors.New("keys is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("press.keys_count", len(events)))

	var folds []core.Fold
	machine := core.NewMachine(h.source).WithObserver(func(f core.Fold) {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.press.fold.%d.%s", len(folds), f.Operator),
			trace.WithAttributes(
				attribute.Int("fold.index", len(folds)),
				attribute.String("fold.operation", f.Operator.String()),
				attribute.Float64("fold.left", f.Left),
				attribute.Float64("fold.right", f.Right),
			),
		)
		stepSpan.AddEvent("fold.corrupted", trace.WithAttributes(
			attribute.String("strategy", f.Strategy.String()),
			attribute.Int("precision", f.Precision),
		))
		stepSpan.SetAttributes(attribute.Float64("fold.result", f.Value))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		folds = append(folds, f)
	})

	st := machine.Run(core.NewState(), events...)
	for _, e := range events {
		eventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", e.Kind.String())))
	}
	h.record(ctx, logger, "", folds)

	results := make([]FoldResult, 0, len(folds))
	for _, f := range folds {
		results = append(results, FoldResult{Op: f.Operator.String(), Left: f.Left, Right: f.Right, Result: f.Value})
	}

	span.AddEvent("press.complete", trace.WithAttributes(
		attribute.String("display", st.Display),
		attribute.Int("operations", len(folds)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("key sequence replayed",
		zap.String("keys", req.Keys),
		zap.String("display", st.Display),
		zap.Int("operations", len(folds)),
	)

	handlers.WriteJSON(w, http.StatusOK, PressResponse{Keys: req.Keys, Display: st.Display, Operations: results})
}

// ---------------------------------------------------------------------------
// Handlers — binary operations
// ---------------------------------------------------------------------------

// BinaryOp handles POST /calculator/{add,subtract,multiply,divide}: a single
// operation, answered as wrongly as the keypad would.
func (h *Handler) BinaryOp(op core.Operator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.handleBinaryOp(w, r, op)
	}
}

func (h *Handler) handleBinaryOp(w http.ResponseWriter, r *http.Request, op core.Operator) {
	opName := op.String()
	ctx, span, logger := h.start(r, "calculator."+opName)
	defer span.End()

	span.SetAttributes(attribute.String("calculator.operation", opName))

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if math.IsNaN(req.A) || math.IsInf(req.A, 0) || math.IsNaN(req.B) || math.IsInf(req.B, 0) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", fmt.Errorf("a=%g b=%g", req.A, req.B), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("calculator.operand.a", req.A),
		attribute.Float64("calculator.operand.b", req.B),
	)

	start := time.Now()
	c := core.Corrupt(core.Apply(op, req.A, req.B), h.source.Draw())
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	opsHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("operation", opName)))
	h.record(ctx, logger, "", []core.Fold{{Operator: op, Left: req.A, Right: req.B, Corruption: c}})

	span.SetAttributes(attribute.Float64("calculator.result", c.Value))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		A:         req.A,
		B:         req.B,
		Result:    c.Value,
		Display:   c.Text(),
		Precision: c.Precision,
	})
}

// ---------------------------------------------------------------------------
// Shared plumbing
// ---------------------------------------------------------------------------

// start opens the handler span and returns a trace-correlated logger. A
// session id in the route is carried on the returned context.
func (h *Handler) start(r *http.Request, spanName string) (context.Context, trace.Span, *zap.Logger) {
	ctx := r.Context()
	if id := chi.URLParam(r, "id"); id != "" {
		ctx = observability.ContextWithSessionID(ctx, id)
	}
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithAttributes(attribute.String("request.id", observability.RequestIDFromContext(ctx))),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

func (h *Handler) sessionError(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName string, err error) {
	if errors.Is(err, session.ErrNotFound) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return
	}
	observability.RecordError(ctx, span, logger, errorCounter, opName, "session store unavailable", err, http.StatusInternalServerError, w)
}

// record counts, logs and journals completed operations. Journal failures
// are logged and otherwise ignored.
func (h *Handler) record(ctx context.Context, logger *zap.Logger, sessionID string, folds []core.Fold) {
	if len(folds) == 0 {
		return
	}

	now := h.now()
	records := make([]journal.Record, 0, len(folds))
	for _, f := range folds {
		attrs := metric.WithAttributes(
			attribute.String("operation", f.Operator.String()),
			attribute.String("strategy", f.Strategy.String()),
		)
		corruptionsCounter.Add(ctx, 1, attrs)
		precisionHistogram.Record(ctx, int64(f.Precision), attrs)
		resultGauge.Record(ctx, f.Value, metric.WithAttributes(attribute.String("operation", f.Operator.String())))

		logger.Info("calculator operation completed",
			append(observability.RequestFields(ctx),
				zap.String("operation", f.Operator.String()),
				zap.Float64("a", f.Left),
				zap.Float64("b", f.Right),
				zap.Float64("result", f.Value),
				zap.String("strategy", f.Strategy.String()),
				zap.Int("precision", f.Precision),
			)...,
		)

		records = append(records, journal.NewRecord(sessionID, f, now))
	}

	if err := h.journal.Write(ctx, records...); err != nil {
		logger.Warn("journal write failed", zap.Error(err), zap.Int("records", len(records)))
	}
}
