package lambdatransport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/awmpietro/under5-screening/internal/app"
	"github.com/awmpietro/under5-screening/internal/history"
	"github.com/awmpietro/under5-screening/internal/metrics"
	"github.com/awmpietro/under5-screening/internal/triage"
)

type svcStub struct {
	screenFn  func(ctx context.Context, req app.ScreenRequest) (*app.ScreenResponse, error)
	historyFn func(ctx context.Context, patientRef string, limit int) ([]history.Record, error)
}

func (s *svcStub) Screen(ctx context.Context, req app.ScreenRequest) (*app.ScreenResponse, error) {
	return s.screenFn(ctx, req)
}

func (s *svcStub) History(ctx context.Context, patientRef string, limit int) ([]history.Record, error) {
	return s.historyFn(ctx, patientRef, limit)
}

func newStub(seen *app.ScreenRequest) *svcStub {
	return &svcStub{
		screenFn: func(ctx context.Context, req app.ScreenRequest) (*app.ScreenResponse, error) {
			*seen = req
			return &app.ScreenResponse{ScreeningID: "id-1", Result: triage.Result{Tier: triage.RiskHigh}}, nil
		},
		historyFn: func(ctx context.Context, patientRef string, limit int) ([]history.Record, error) {
			return []history.Record{{PatientRef: patientRef}}, nil
		},
	}
}

func request(method, path, body string) events.APIGatewayV2HTTPRequest {
	req := events.APIGatewayV2HTTPRequest{RawPath: path, Body: body}
	req.RequestContext.HTTP.Method = method
	return req
}

const validBody = `{"answers":{"age_group":"child","convulsions":true,"muac_color":"not_measured","rdt_result":"not_done"},"debug":true}`

func TestHandler_Screen_InvalidJSON(t *testing.T) {
	var seen app.ScreenRequest
	h := NewHandler(newStub(&seen), nil)

	resp, err := h.Handle(context.Background(), request("POST", "/screen", "{"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

func TestHandler_Screen_OK(t *testing.T) {
	var seen app.ScreenRequest
	h := NewHandler(newStub(&seen), nil)

	req := request("POST", "/screen", validBody)
	req.Headers = map[string]string{"accept-language": "sw-KE"}
	resp, err := h.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if !seen.Debug || !seen.Answers.Convulsions || seen.Language != "sw-KE" {
		t.Fatalf("unexpected service request: %+v", seen)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatal(err)
	}
	if out["screening_id"] != "id-1" {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestHandler_Screen_Base64Body(t *testing.T) {
	var seen app.ScreenRequest
	h := NewHandler(newStub(&seen), nil)

	req := request("POST", "/screen", base64.StdEncoding.EncodeToString([]byte(validBody)))
	req.IsBase64Encoded = true
	resp, err := h.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestHandler_Screen_ValidationError(t *testing.T) {
	var seen app.ScreenRequest
	h := NewHandler(newStub(&seen), nil)

	body := `{"answers":{"age_group":"child","muac_color":"blue","rdt_result":"not_done"}}`
	resp, err := h.Handle(context.Background(), request("POST", "/screen", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatal(err)
	}
	if out["field"] != triage.FieldMUAC || out["value"] != "blue" {
		t.Fatalf("unexpected body: %v", out)
	}
}

func TestHandler_RejectedInputIsCounted(t *testing.T) {
	h := NewHandler(app.NewService(triage.NewScorer(), nil), nil)

	jsonRDT := metrics.ValidationErrorsTotal.WithLabelValues(triage.FieldRDT)
	formRDT := metrics.ValidationErrorsTotal.WithLabelValues("rdt")
	jsonBefore, formBefore := testutil.ToFloat64(jsonRDT), testutil.ToFloat64(formRDT)

	body := `{"answers":{"age_group":"child","muac_color":"green","rdt_result":"maybe"}}`
	resp, err := h.Handle(context.Background(), request("POST", "/screen", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	form := url.Values{"age_group": {"child"}, "muac": {"green"}, "rdt": {"maybe"}}
	resp, err = h.Handle(context.Background(), request("POST", "/screen/form", form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	if got := testutil.ToFloat64(jsonRDT); got != jsonBefore+1 {
		t.Fatalf("rdt_result rejections: got %v, want %v", got, jsonBefore+1)
	}
	if got := testutil.ToFloat64(formRDT); got != formBefore+1 {
		t.Fatalf("rdt rejections: got %v, want %v", got, formBefore+1)
	}
}

func TestHandler_ScreenForm(t *testing.T) {
	var seen app.ScreenRequest
	h := NewHandler(newStub(&seen), nil)

	form := url.Values{"age_group": {"2_12m"}, "fever": {"yes"}, "muac": {"yellow"}, "rdt": {"negative"}}
	resp, err := h.Handle(context.Background(), request("POST", "/screen/form", form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if seen.Answers.AgeGroup != triage.AgeInfant || seen.Answers.MUAC != triage.MUACYellow {
		t.Fatalf("unexpected answers: %+v", seen.Answers)
	}
}

func TestHandler_History(t *testing.T) {
	var seen app.ScreenRequest
	h := NewHandler(newStub(&seen), nil)

	req := request("GET", "/history", "")
	req.QueryStringParameters = map[string]string{"patient": "P-9"}
	resp, err := h.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestHandler_Routing(t *testing.T) {
	var seen app.ScreenRequest
	h := NewHandler(newStub(&seen), nil)

	cases := []struct {
		method, path string
		status       int
	}{
		{"GET", "/screen", 405},
		{"POST", "/history", 405},
		{"GET", "/nope", 404},
	}
	for _, tc := range cases {
		resp, err := h.Handle(context.Background(), request(tc.method, tc.path, ""))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, resp.StatusCode)
		}
	}
}
