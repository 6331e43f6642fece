package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	SPAHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSPAServesIndex(t *testing.T) {
	for _, path := range []string{"/", "/history", "/some/client/route"} {
		w := get(t, path)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", path, w.Code)
			continue
		}
		if !strings.Contains(w.Body.String(), `id="coef-a"`) {
			t.Errorf("%s: did not serve index.html", path)
		}
	}
}

func TestSPAServesAssets(t *testing.T) {
	w := get(t, "/app.js")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/ws/solve") {
		t.Errorf("app.js status = %d", w.Code)
	}
}

func TestSPADoesNotShadowAPI(t *testing.T) {
	for _, path := range []string{"/api/unknown", "/ws/nothing"} {
		if w := get(t, path); w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, w.Code)
		}
	}
}
