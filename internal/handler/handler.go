package handler

import (
	"log"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"fasttrack-engine/internal/engine"
	"fasttrack-engine/internal/export"
	"fasttrack-engine/internal/model"
	"fasttrack-engine/internal/refdata"
)

type Handler struct {
	engine    *engine.Engine
	registry  *refdata.Registry
	formatter *export.Formatter
}

func New(eng *engine.Engine, registry *refdata.Registry, formatter *export.Formatter) *Handler {
	return &Handler{engine: eng, registry: registry, formatter: formatter}
}

// Routes returns the request handler with logging and panic recovery applied.
func (h *Handler) Routes() fasthttp.RequestHandler {
	return withLogging(withRecovery(h.route))
}

func (h *Handler) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/calculate":
		h.handleCalculation(ctx, false)
	case "/compare":
		h.handleCalculation(ctx, true)
	case "/export":
		h.handleExport(ctx)
	case "/reference-data":
		h.handleReferenceData(ctx)
	case "/reference-data/reload":
		h.handleReload(ctx)
	case "/healthz":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) handleCalculation(ctx *fasthttp.RequestCtx, withComparison bool) {
	req, ok := decodeRequest(ctx)
	if !ok {
		return
	}
	if withComparison && req.Comparison == nil {
		req.Comparison = &model.ComparisonGrid{}
	}
	writeJSON(ctx, fasthttp.StatusOK, h.engine.Process(req))
}

func (h *Handler) handleExport(ctx *fasthttp.RequestCtx) {
	req, ok := decodeRequest(ctx)
	if !ok {
		return
	}
	resp := h.engine.Process(req)
	if ev := resp.CalculationResult.Evaluation; ev != nil {
		resp.CalculationResult.Export = h.formatter.Rows(req.Policy, *ev)
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleReferenceData(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, h.registry.Current())
}

func (h *Handler) handleReload(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	tables, err := h.registry.Reload()
	if err != nil {
		log.Printf("Reference data reload failed: %v", err)
		writeError(ctx, fasthttp.StatusBadGateway, "Reference data reload failed: "+err.Error())
		return
	}
	log.Printf("Reference data %s loaded", tables.Version)
	writeJSON(ctx, fasthttp.StatusOK, tables)
}

func decodeRequest(ctx *fasthttp.RequestCtx) (*model.CalculationRequest, bool) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return nil, false
	}

	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	return &req, true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("Encode response failed: %v", err)
		ctx.Error(`{"status":500,"message":"Internal server error"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}
