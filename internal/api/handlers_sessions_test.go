// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/examguard/proctoring/internal/credential"
	"github.com/examguard/proctoring/internal/session"
)

type fakeSessionLifecycle struct {
	startFn     func(ctx context.Context, claims *credential.Claims, cfg []byte) (*session.Session, error)
	endFn       func(ctx context.Context, claims *credential.Claims) (*session.Session, error)
	heartbeatFn func(ctx context.Context, claims *credential.Claims) (*session.Session, error)
	lookupFn    func(ctx context.Context, sessionID string) (*session.Session, error)
}

func (f *fakeSessionLifecycle) Start(ctx context.Context, claims *credential.Claims, cfg []byte) (*session.Session, error) {
	return f.startFn(ctx, claims, cfg)
}

func (f *fakeSessionLifecycle) End(ctx context.Context, claims *credential.Claims) (*session.Session, error) {
	return f.endFn(ctx, claims)
}

func (f *fakeSessionLifecycle) Heartbeat(ctx context.Context, claims *credential.Claims) (*session.Session, error) {
	return f.heartbeatFn(ctx, claims)
}

func (f *fakeSessionLifecycle) Lookup(ctx context.Context, sessionID string) (*session.Session, error) {
	return f.lookupFn(ctx, sessionID)
}

func testClaims() *credential.Claims {
	return &credential.Claims{TenantID: "tenant-a", ExamScheduleID: "ex1", UserID: "u1", AttemptNo: 1}
}

func TestStartSession_Unauthenticated(t *testing.T) {
	h := &Handler{sessions: &fakeSessionLifecycle{}}
	req := httptest.NewRequest(http.MethodPost, "/proctoring/sessions/start", nil)
	w := httptest.NewRecorder()

	h.StartSession(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestStartSession_Success(t *testing.T) {
	h := &Handler{sessions: &fakeSessionLifecycle{
		startFn: func(ctx context.Context, claims *credential.Claims, cfg []byte) (*session.Session, error) {
			return &session.Session{ID: "sess-1", Status: session.StatusActive}, nil
		},
	}}
	req := httptest.NewRequest(http.MethodPost, "/proctoring/sessions/start", strings.NewReader(`{"examConfig":{"foo":1}}`))
	req = addClaimsToRequest(req, testClaims())
	w := httptest.NewRecorder()

	h.StartSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"sessionId":"sess-1"`) {
		t.Errorf("body missing sessionId: %s", w.Body.String())
	}
}

func TestStartSession_EmptyBody(t *testing.T) {
	h := &Handler{sessions: &fakeSessionLifecycle{
		startFn: func(ctx context.Context, claims *credential.Claims, cfg []byte) (*session.Session, error) {
			return &session.Session{ID: "sess-1", Status: session.StatusActive}, nil
		},
	}}
	req := httptest.NewRequest(http.MethodPost, "/proctoring/sessions/start", nil)
	req.ContentLength = 0
	req = addClaimsToRequest(req, testClaims())
	w := httptest.NewRecorder()

	h.StartSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestEndSession_NotFound(t *testing.T) {
	h := &Handler{sessions: &fakeSessionLifecycle{
		endFn: func(ctx context.Context, claims *credential.Claims) (*session.Session, error) {
			return nil, session.ErrNotFound
		},
	}}
	req := httptest.NewRequest(http.MethodPost, "/proctoring/sessions/end", nil)
	req = addClaimsToRequest(req, testClaims())
	w := httptest.NewRecorder()

	h.EndSession(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestEndSession_Success(t *testing.T) {
	h := &Handler{sessions: &fakeSessionLifecycle{
		endFn: func(ctx context.Context, claims *credential.Claims) (*session.Session, error) {
			return &session.Session{ID: "sess-1", Status: session.StatusEnded}, nil
		},
	}}
	req := httptest.NewRequest(http.MethodPost, "/proctoring/sessions/end", nil)
	req = addClaimsToRequest(req, testClaims())
	w := httptest.NewRecorder()

	h.EndSession(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestHeartbeat_SessionEnded(t *testing.T) {
	h := &Handler{sessions: &fakeSessionLifecycle{
		heartbeatFn: func(ctx context.Context, claims *credential.Claims) (*session.Session, error) {
			return nil, session.ErrEnded
		},
	}}
	req := httptest.NewRequest(http.MethodPost, "/proctoring/sessions/heartbeat", nil)
	req = addClaimsToRequest(req, testClaims())
	w := httptest.NewRecorder()

	h.Heartbeat(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestHeartbeat_Success(t *testing.T) {
	now := time.Now()
	h := &Handler{sessions: &fakeSessionLifecycle{
		heartbeatFn: func(ctx context.Context, claims *credential.Claims) (*session.Session, error) {
			return &session.Session{ID: "sess-1", Status: session.StatusActive, LastHeartbeatAt: now}, nil
		},
	}}
	req := httptest.NewRequest(http.MethodPost, "/proctoring/sessions/heartbeat", nil)
	req = addClaimsToRequest(req, testClaims())
	w := httptest.NewRecorder()

	h.Heartbeat(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}
