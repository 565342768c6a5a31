package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inshare/goshare/internal/share"
)

var errTransportDown = errors.New("smtp: connection refused")

func newTestRouter(t *testing.T) (*gin.Engine, *fakeStore, *fakeMailer, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	mailer := &fakeMailer{}

	id := uuid.New()
	store.records[id] = share.FileRecord{UUID: id, SizeBytes: 10}

	service := NewService(store, mailer, testBaseURL, 48*time.Hour, nil)
	router := gin.New()
	RegisterRoutes(router, service)
	return router, store, mailer, id
}

func postSend(t *testing.T, router *gin.Engine, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/files/send", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSendEndpointSuccess(t *testing.T) {
	router, _, mailer, id := newTestRouter(t)

	rr := postSend(t, router, map[string]string{
		"uuid":      id.String(),
		"emailTo":   "b@x.com",
		"emailFrom": "a@x.com",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Fatalf("expected {success:true}, got %s", rr.Body.String())
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(mailer.sent))
	}
}

func TestSendEndpointMissingFields(t *testing.T) {
	router, _, _, id := newTestRouter(t)

	for _, payload := range []map[string]string{
		{"emailTo": "b@x.com", "emailFrom": "a@x.com"},
		{"uuid": id.String(), "emailFrom": "a@x.com"},
		{"uuid": id.String(), "emailTo": "b@x.com"},
	} {
		rr := postSend(t, router, payload)
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("payload %v: expected 422, got %d", payload, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "All fields are required.") {
			t.Fatalf("unexpected body: %s", rr.Body.String())
		}
	}
}

func TestSendEndpointRepeatIs422(t *testing.T) {
	router, _, _, id := newTestRouter(t)

	payload := map[string]string{
		"uuid":      id.String(),
		"emailTo":   "b@x.com",
		"emailFrom": "a@x.com",
	}

	if rr := postSend(t, router, payload); rr.Code != http.StatusOK {
		t.Fatalf("first send: expected 200, got %d", rr.Code)
	}

	rr := postSend(t, router, payload)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("second send: expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Email already sent once.") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestSendEndpointUnknownRecordIs404(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rr := postSend(t, router, map[string]string{
		"uuid":      uuid.NewString(),
		"emailTo":   "b@x.com",
		"emailFrom": "a@x.com",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSendEndpointMalformedUUIDIs404(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	rr := postSend(t, router, map[string]string{
		"uuid":      "definitely-not-issued",
		"emailTo":   "b@x.com",
		"emailFrom": "a@x.com",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestSendEndpointTransportFailureIs500(t *testing.T) {
	router, store, mailer, id := newTestRouter(t)
	mailer.err = errTransportDown

	rr := postSend(t, router, map[string]string{
		"uuid":      id.String(),
		"emailTo":   "b@x.com",
		"emailFrom": "a@x.com",
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if store.records[id].Sent() {
		t.Fatalf("record must not stay claimed after a failed transport")
	}
}
