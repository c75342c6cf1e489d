package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/investment"
	"nivesh/internal/models"
	"nivesh/internal/services"
)

// --- mock investment service ---

type mockInvestmentService struct {
	createInvestmentFn func(sub *investment.Submission) (investment.Record, error)
	listInvestmentsFn  func(filter services.InvestmentFilter) ([]investment.Record, error)
	getInvestmentFn    func(id uint) (investment.Record, error)
	updateInvestmentFn func(id uint, detail *services.DetailUpdate, data map[string]any) (investment.Record, error)
	deleteInvestmentFn func(id uint) error
}

func (m *mockInvestmentService) CreateInvestment(sub *investment.Submission) (investment.Record, error) {
	if m.createInvestmentFn != nil {
		return m.createInvestmentFn(sub)
	}
	return investment.Record{"detail_id": uint(1)}, nil
}

func (m *mockInvestmentService) ListInvestments(filter services.InvestmentFilter) ([]investment.Record, error) {
	if m.listInvestmentsFn != nil {
		return m.listInvestmentsFn(filter)
	}
	return []investment.Record{}, nil
}

func (m *mockInvestmentService) GetInvestment(id uint) (investment.Record, error) {
	if m.getInvestmentFn != nil {
		return m.getInvestmentFn(id)
	}
	return investment.Record{"detail_id": id}, nil
}

func (m *mockInvestmentService) UpdateInvestment(id uint, detail *services.DetailUpdate, data map[string]any) (investment.Record, error) {
	if m.updateInvestmentFn != nil {
		return m.updateInvestmentFn(id, detail, data)
	}
	return investment.Record{"detail_id": id}, nil
}

func (m *mockInvestmentService) DeleteInvestment(id uint) error {
	if m.deleteInvestmentFn != nil {
		return m.deleteInvestmentFn(id)
	}
	return nil
}

// --- helpers ---

func setupInvestmentRouter(handler *InvestmentHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/investments/", handler.CreateInvestment)
	auth.GET("/investments/", handler.ListInvestments)
	auth.GET("/investments/:id/", handler.GetInvestment)
	auth.PUT("/investments/:id/", handler.UpdateInvestment)
	auth.DELETE("/investments/:id/", handler.DeleteInvestment)
	auth.GET("/investments/:id/history/", handler.InvestmentHistory)
	return r
}

const fdBody = `{
	"client_detail": {"client_code": "C001", "avenue_id": 4, "start_date": "2024-01-15"},
	"investment_type": "fixed_deposit",
	"investment_data": {"bank_name": "HDFC", "principal": 100000, "interest_rate": 7.1}
}`

// --- tests ---

func TestInvestmentHandler_CreateInvestment(t *testing.T) {
	t.Run("returns 201 with the flat record", func(t *testing.T) {
		audit := &mockAuditService{}
		var got *investment.Submission
		svc := &mockInvestmentService{
			createInvestmentFn: func(sub *investment.Submission) (investment.Record, error) {
				got = sub
				return investment.Record{
					"detail_id":       uint(12),
					"investment_type": "fixed_deposit",
					"client_code":     "C001",
					"bank_name":       "HDFC",
				}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, audit))

		rec := doRequest(r, "POST", "/investments/", fdBody)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got == nil || got.InvestmentType != models.TypeFixedDeposit || got.ClientDetail.AvenueID != 4 {
			t.Fatalf("submission not passed through: %+v", got)
		}
		if got.InvestmentData["bank_name"] != "HDFC" {
			t.Errorf("expected investment_data to carry bank_name, got %v", got.InvestmentData)
		}
		result := parseJSON(t, rec)
		if result["detail_id"] != float64(12) || result["bank_name"] != "HDFC" {
			t.Errorf("unexpected record: %v", result)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_INVESTMENT" || audit.entries[0].resourceID != "12" {
			t.Errorf("expected CREATE_INVESTMENT audit for 12, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on unknown investment type", func(t *testing.T) {
		called := false
		svc := &mockInvestmentService{
			createInvestmentFn: func(*investment.Submission) (investment.Record, error) {
				called = true
				return nil, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments/", `{
			"client_detail": {"client_code": "C001", "avenue_id": 4, "start_date": "2024-01-15"},
			"investment_type": "crypto",
			"investment_data": {"coin": "BTC"}
		}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "VALIDATION_ERROR")
		assertErrorField(t, result, "investment_type")
		if called {
			t.Error("service should not be called for an invalid body")
		}
	})

	t.Run("returns 400 on missing start date", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments/", `{
			"client_detail": {"client_code": "C001", "avenue_id": 4},
			"investment_type": "fixed_deposit",
			"investment_data": {"bank_name": "HDFC"}
		}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "start_date")
	})

	t.Run("returns 400 on avenue type mismatch", func(t *testing.T) {
		svc := &mockInvestmentService{
			createInvestmentFn: func(*investment.Submission) (investment.Record, error) {
				return nil, apperrors.ErrAvenueTypeMismatch
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments/", fdBody)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "AVENUE_TYPE_MISMATCH")
	})

	t.Run("returns 404 when the client does not exist", func(t *testing.T) {
		svc := &mockInvestmentService{
			createInvestmentFn: func(*investment.Submission) (investment.Record, error) {
				return nil, apperrors.ErrClientNotFound
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/investments/", fdBody)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CLIENT_NOT_FOUND")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/investments/", handler.CreateInvestment)

		rec := doRequest(r, "POST", "/investments/", fdBody)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_ListInvestments(t *testing.T) {
	t.Run("returns a bare array and passes filters", func(t *testing.T) {
		var got services.InvestmentFilter
		svc := &mockInvestmentService{
			listInvestmentsFn: func(filter services.InvestmentFilter) ([]investment.Record, error) {
				got = filter
				return []investment.Record{{"detail_id": uint(2)}, {"detail_id": uint(1)}}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/?client_code=C001&investment_type=equity", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if items := parseJSONArray(t, rec); len(items) != 2 {
			t.Errorf("expected 2 records, got %d", len(items))
		}
		if got.ClientCode != "C001" || got.InvestmentType != models.TypeEquity {
			t.Errorf("unexpected filter: %+v", got)
		}
	})

	t.Run("returns 400 on unsupported investment type filter", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/?investment_type=crypto", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNSUPPORTED_VARIANT")
	})
}

func TestInvestmentHandler_GetInvestment(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/9/", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["detail_id"] != float64(9) {
			t.Error("expected detail_id 9")
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockInvestmentService{
			getInvestmentFn: func(uint) (investment.Record, error) { return nil, apperrors.ErrInvestmentNotFound },
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/9/", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVESTMENT_NOT_FOUND")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		for _, path := range []string{"/investments/abc/", "/investments/0/"} {
			rec := doRequest(r, "GET", path, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", path, rec.Code)
			}
		}
	})
}

func TestInvestmentHandler_UpdateInvestment(t *testing.T) {
	t.Run("returns 200 and forwards both parts", func(t *testing.T) {
		audit := &mockAuditService{}
		var gotDetail *services.DetailUpdate
		var gotData map[string]any
		svc := &mockInvestmentService{
			updateInvestmentFn: func(id uint, detail *services.DetailUpdate, data map[string]any) (investment.Record, error) {
				gotDetail, gotData = detail, data
				return investment.Record{"detail_id": id, "current_price": 1600}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, audit))

		rec := doRequest(r, "PUT", "/investments/5/",
			`{"client_detail":{"folio_no":"F-77"},"investment_data":{"current_price":1600}}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDetail == nil || gotDetail.FolioNo == nil || *gotDetail.FolioNo != "F-77" {
			t.Errorf("expected folio_no update, got %+v", gotDetail)
		}
		if gotData["current_price"] != float64(1600) {
			t.Errorf("expected current_price in data, got %v", gotData)
		}
		if len(audit.entries) != 1 || audit.entries[0].changes["current_price"] != float64(1600) {
			t.Errorf("expected audit with changes, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on malformed start date", func(t *testing.T) {
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/investments/5/", `{"client_detail":{"start_date":"15/01/2024"}}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorField(t, parseJSON(t, rec), "start_date")
	})

	t.Run("returns 400 on validation errors from the service", func(t *testing.T) {
		svc := &mockInvestmentService{
			updateInvestmentFn: func(uint, *services.DetailUpdate, map[string]any) (investment.Record, error) {
				return nil, apperrors.WithFields(apperrors.ErrValidation, map[string]string{"units": "must be 0 or more"})
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/investments/5/", `{"investment_data":{"units":-1}}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "VALIDATION_ERROR")
		assertErrorField(t, result, "units")
	})
}

func TestInvestmentHandler_DeleteInvestment(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		var deleted uint
		svc := &mockInvestmentService{
			deleteInvestmentFn: func(id uint) error {
				deleted = id
				return nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/investments/8/", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if deleted != 8 {
			t.Errorf("expected delete of 8, got %d", deleted)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockInvestmentService{
			deleteInvestmentFn: func(uint) error { return apperrors.ErrInvestmentNotFound },
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/investments/8/", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_InvestmentHistory(t *testing.T) {
	t.Run("returns the trail with decoded changes", func(t *testing.T) {
		var gotType, gotID string
		audit := &mockAuditService{
			historyFn: func(resourceType, resourceID string) ([]models.AuditLog, error) {
				gotType, gotID = resourceType, resourceID
				return []models.AuditLog{
					{Base: models.Base{ID: 1}, UserID: 1, Action: "CREATE_INVESTMENT", Changes: `{"avenue_id":4}`},
					{Base: models.Base{ID: 2}, UserID: 1, Action: "DELETE_INVESTMENT"},
				}, nil
			},
		}
		r := setupInvestmentRouter(NewInvestmentHandler(&mockInvestmentService{}, audit))

		rec := doRequest(r, "GET", "/investments/7/history/", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotType != "investment" || gotID != "7" {
			t.Errorf("unexpected lookup %s/%s", gotType, gotID)
		}
		items := parseJSONArray(t, rec)
		if len(items) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(items))
		}
		first := items[0].(map[string]interface{})
		changes, ok := first["changes"].(map[string]interface{})
		if !ok || changes["avenue_id"] != float64(4) {
			t.Errorf("expected decoded changes, got %v", first["changes"])
		}
		if _, ok := items[1].(map[string]interface{})["changes"]; ok {
			t.Error("entries without changes should omit the key")
		}
	})

	t.Run("returns 404 for an unknown investment without history", func(t *testing.T) {
		svc := &mockInvestmentService{
			getInvestmentFn: func(uint) (investment.Record, error) { return nil, apperrors.ErrInvestmentNotFound },
		}
		r := setupInvestmentRouter(NewInvestmentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/investments/99/history/", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
