// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/examguard/proctoring/internal/credential"
)

func TestIssueDevCredential_NilIssuerIsNotFound(t *testing.T) {
	h := &Handler{devIssuer: nil}
	req := httptest.NewRequest(http.MethodPost, "/dev/credential", strings.NewReader(`{"tenantId":"t1","examScheduleId":"ex1","userId":"u1","attemptNo":1}`))
	w := httptest.NewRecorder()

	h.IssueDevCredential(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestIssueDevCredential_MissingFields(t *testing.T) {
	h := &Handler{devIssuer: credential.NewDevIssuer("test-secret", time.Hour)}
	req := httptest.NewRequest(http.MethodPost, "/dev/credential", strings.NewReader(`{"tenantId":"t1"}`))
	w := httptest.NewRecorder()

	h.IssueDevCredential(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestIssueDevCredential_Success(t *testing.T) {
	h := &Handler{devIssuer: credential.NewDevIssuer("test-secret", time.Hour)}
	req := httptest.NewRequest(http.MethodPost, "/dev/credential", strings.NewReader(`{"tenantId":"t1","examScheduleId":"ex1","userId":"u1","attemptNo":1}`))
	w := httptest.NewRecorder()

	h.IssueDevCredential(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"token":`) {
		t.Errorf("body missing token: %s", w.Body.String())
	}
}
