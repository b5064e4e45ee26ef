package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestWithContextFallsBackToStandardLogger(t *testing.T) {
	e := WithContext(context.Background())
	if e.Logger != logrus.StandardLogger() {
		t.Fatalf("expected standard logger")
	}
}

func TestMiddlewareLogsRequestWithID(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	var inner *logrus.Entry
	h := middleware.RequestID(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = WithContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/grade", nil))

	if inner == nil || inner.Data["request_id"] == "" {
		t.Fatalf("handler did not see a request-scoped entry: %+v", inner)
	}
	last := hook.LastEntry()
	if last == nil {
		t.Fatalf("no log entry written")
	}
	if last.Level != logrus.WarnLevel {
		t.Fatalf("level = %s, want warning for 404", last.Level)
	}
	if last.Data["status"] != http.StatusNotFound {
		t.Fatalf("status field = %v", last.Data["status"])
	}
	if last.Data["path"] != "/api/grade" {
		t.Fatalf("path field = %v", last.Data["path"])
	}
}
