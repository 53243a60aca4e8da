package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/awmpietro/under5-screening/internal/app"
	"github.com/awmpietro/under5-screening/internal/logger"
	"github.com/awmpietro/under5-screening/internal/metrics"
	"github.com/awmpietro/under5-screening/internal/transport/screendto"
)

type Handler struct {
	svc app.ScreenService
	log logger.Logger
}

func NewHandler(svc app.ScreenService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{svc: svc, log: log}
}

// Handle dispatches an API Gateway v2 request on method and path.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := req.RequestContext.HTTP.Method
	path := strings.TrimSuffix(req.RawPath, "/")

	switch {
	case path == "/screen" && method == http.MethodPost:
		return h.Screen(ctx, req)
	case path == "/screen/form" && method == http.MethodPost:
		return h.ScreenForm(ctx, req)
	case path == "/history" && method == http.MethodGet:
		return h.History(ctx, req)
	case path == "/screen" || path == "/screen/form" || path == "/history":
		return jsonResp(http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"}), nil
	default:
		return jsonResp(http.StatusNotFound, map[string]any{"error": "not found"}), nil
	}
}

func (h *Handler) Screen(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	defer observe(time.Now())

	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}

	var in screendto.ScreenRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()}), nil
	}

	sreq, err := in.ToApp(header(req, "accept-language"))
	if err != nil {
		metrics.RecordRejectedInput(err)
		return h.errorResp(err), nil
	}
	return h.screen(ctx, sreq), nil
}

func (h *Handler) ScreenForm(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	defer observe(time.Now())

	body, err := readBody(req)
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid body", "details": err.Error()}), nil
	}
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return jsonResp(http.StatusBadRequest, map[string]any{"error": "invalid form", "details": err.Error()}), nil
	}

	sreq, err := screendto.FormRequest(form, header(req, "accept-language"))
	if err != nil {
		metrics.RecordRejectedInput(err)
		return h.errorResp(err), nil
	}
	return h.screen(ctx, sreq), nil
}

func (h *Handler) History(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	limit, err := screendto.HistoryLimit(req.QueryStringParameters["limit"])
	if err != nil {
		return h.errorResp(err), nil
	}
	patient := req.QueryStringParameters["patient"]
	records, err := h.svc.History(ctx, patient, limit)
	if err != nil {
		return h.errorResp(err), nil
	}
	return jsonResp(http.StatusOK, screendto.HistoryResponse{PatientRef: patient, Records: records}), nil
}

func (h *Handler) screen(ctx context.Context, req app.ScreenRequest) events.APIGatewayV2HTTPResponse {
	resp, err := h.svc.Screen(ctx, req)
	if err != nil {
		return h.errorResp(err)
	}
	return jsonResp(http.StatusOK, resp)
}

func (h *Handler) errorResp(err error) events.APIGatewayV2HTTPResponse {
	status, body := screendto.ErrorResponse(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed", nil)
	}
	return jsonResp(status, body)
}

// API Gateway v2 lower-cases header names.
func header(req events.APIGatewayV2HTTPRequest, name string) string {
	return req.Headers[name]
}

func observe(start time.Time) {
	metrics.ScreeningDuration.WithLabelValues("lambda").Observe(time.Since(start).Seconds())
}

func readBody(req events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if req.IsBase64Encoded {
		return base64.StdEncoding.DecodeString(req.Body)
	}
	return []byte(req.Body), nil
}

func jsonResp(status int, body any) events.APIGatewayV2HTTPResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"content-type": "application/json"},
		Body:       string(b),
	}
}
