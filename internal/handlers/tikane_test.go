package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sosol/internal/services"

	"github.com/go-chi/chi/v5"
)

func routedRequest(method, target, body string, params map[string]string) *http.Request {
	req := authedRequest(method, target, body)
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateTiKanePlanRejectsBadFrequency(t *testing.T) {
	handler := newTestHandler(Deps{TiKaneService: stubTiKaneService{}})
	rr := httptest.NewRecorder()
	body := `{"name":"Lekòl","amount_per_payment":"50.00","frequency":"hourly","total_payments":30,"start_date":"2026-09-01"}`
	handler.CreateTiKanePlan(rr, authedRequest(http.MethodPost, "/tikane", body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateTiKanePlanPassesParsedFields(t *testing.T) {
	var captured services.CreatePlanRequest
	handler := newTestHandler(Deps{
		TiKaneService: stubTiKaneService{
			createFn: func(ctx context.Context, req services.CreatePlanRequest) (string, error) {
				captured = req
				return "tk-1", nil
			},
		},
	})
	rr := httptest.NewRecorder()
	body := `{"name":"Lekòl","amount_per_payment":"50.00","frequency":"daily","total_payments":30,"start_date":"2026-09-01"}`
	handler.CreateTiKanePlan(rr, authedRequest(http.MethodPost, "/tikane", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.AmountPerPayment != 5_000 || captured.TotalPayments != 30 || captured.Frequency != "daily" {
		t.Fatalf("unexpected request: %+v", captured)
	}
	if captured.StartDate.Format("2006-01-02") != "2026-09-01" {
		t.Fatalf("start date = %v", captured.StartDate)
	}
}

func TestMarkTiKanePaidRejectsBadDayNumber(t *testing.T) {
	handler := newTestHandler(Deps{TiKaneService: stubTiKaneService{}})
	rr := httptest.NewRecorder()
	req := routedRequest(http.MethodPost, "/tikane/tk-1/payments/zero/pay", "", map[string]string{"id": "tk-1", "day": "zero"})
	handler.MarkTiKanePaid(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMarkTiKanePaidAlreadyPaid(t *testing.T) {
	handler := newTestHandler(Deps{
		TiKaneService: stubTiKaneService{
			markPaidFn: func(ctx context.Context, req services.MarkPaidRequest) (services.MarkPaidResult, error) {
				return services.MarkPaidResult{AlreadyPaid: true}, nil
			},
		},
	})
	rr := httptest.NewRecorder()
	req := routedRequest(http.MethodPost, "/tikane/tk-1/payments/3/pay", "", map[string]string{"id": "tk-1", "day": "3"})
	handler.MarkTiKanePaid(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for a repeat submit, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "already_paid") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestWithdrawTiKaneMapsImmaturePlan(t *testing.T) {
	handler := newTestHandler(Deps{
		TiKaneService: stubTiKaneService{
			withdrawFn: func(ctx context.Context, req services.PlanWithdrawRequest) (string, int64, error) {
				return "", 0, services.ErrPlanNotMature
			},
		},
	})
	rr := httptest.NewRecorder()
	req := routedRequest(http.MethodPost, "/tikane/tk-1/withdraw", "", map[string]string{"id": "tk-1"})
	handler.WithdrawTiKane(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "plan_not_mature") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}
