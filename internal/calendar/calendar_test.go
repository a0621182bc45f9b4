package calendar

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSubmitPostsDigestAndReturnsBody(t *testing.T) {
	var gotPath, gotAccept, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("pending-body"))
	}))
	defer srv.Close()

	c := New(time.Second, time.Second, 0)
	body, err := c.Submit(context.Background(), srv.URL, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if string(body) != "pending-body" {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/digest" {
		t.Errorf("path = %q, want /digest", gotPath)
	}
	if gotAccept != acceptHeader {
		t.Errorf("Accept = %q, want %q", gotAccept, acceptHeader)
	}
	if gotContentType != "application/octet-stream" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if string(gotBody) != "\x01\x02\x03" {
		t.Errorf("posted body = %v, want [1 2 3]", gotBody)
	}
}

func TestSubmitErrorsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(time.Second, time.Second, 0)
	if _, err := c.Submit(context.Background(), srv.URL, []byte{1}); err == nil {
		t.Error("expected an error for a 500 response")
	}
}

func TestUpgradeReportsPendingOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(time.Second, time.Second, 0)
	body, pending, err := c.Upgrade(context.Background(), srv.URL, []byte{1, 2})
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if !pending || body != nil {
		t.Errorf("got body=%v pending=%v, want nil/true", body, pending)
	}
}

func TestUpgradeReportsPendingOnEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(time.Second, time.Second, 0)
	_, pending, err := c.Upgrade(context.Background(), srv.URL, []byte{1, 2})
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if !pending {
		t.Error("expected pending=true for an empty 200 body")
	}
}

func TestUpgradeReturnsBodyOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("resolved-body"))
	}))
	defer srv.Close()

	c := New(time.Second, time.Second, 0)
	body, pending, err := c.Upgrade(context.Background(), srv.URL, []byte{1, 2})
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if pending {
		t.Error("got pending=true, want false")
	}
	if string(body) != "resolved-body" {
		t.Errorf("body = %q", body)
	}
}

func TestUpgradeRequestsHexDigestPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(time.Second, time.Second, 0)
	if _, _, err := c.Upgrade(context.Background(), srv.URL, []byte{0xab, 0xcd}); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if gotPath != "/timestamp/abcd" {
		t.Errorf("path = %q, want /timestamp/abcd", gotPath)
	}
}
