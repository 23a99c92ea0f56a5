package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollector_Scrape(t *testing.T) {
	c := NewCollector()
	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordRefresh(true)
	c.RecordRevocations(3)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(401)
	c.RecordRequestDuration(42 * time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("scrape status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`sessiongate_logins_total{result="success"} 1`,
		`sessiongate_logins_total{result="failure"} 1`,
		`sessiongate_refreshes_total{result="success"} 1`,
		`sessiongate_session_revocations_total 3`,
		`sessiongate_http_responses_total{status_code="200"} 1`,
		`sessiongate_http_responses_total{status_code="401"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}
