package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL}, staticToken(token))
}

func writeEnvelope(w http.ResponseWriter, status int, env map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

func TestBearerHeaderInjection(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 7, "phone": "0812345678"},
		})
	}, "tok-abc")

	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if gotAuth != "Bearer tok-abc" {
		t.Fatalf("Authorization = %q, want Bearer tok-abc", gotAuth)
	}
	if user.ID != 7 || user.Phone != "0812345678" {
		t.Fatalf("user = %+v", user)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var sawHeader bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true})
	}, "")

	if err := client.ValidateToken(context.Background()); err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if sawHeader {
		t.Fatal("Authorization header must be absent when there is no token")
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusGone, KindAccountDeleted},
		{http.StatusInternalServerError, KindNetwork},
		{http.StatusBadGateway, KindNetwork},
		{http.StatusBadRequest, KindBusiness},
		{http.StatusConflict, KindBusiness},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tc.status, map[string]interface{}{
					"success": false,
					"error":   "backend says no",
				})
			}, "tok")

			_, err := client.Me(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %T, want *APIError", err)
			}
			if apiErr.Kind != tc.kind {
				t.Fatalf("kind = %d, want %d", apiErr.Kind, tc.kind)
			}
			if apiErr.Status != tc.status {
				t.Fatalf("status = %d, want %d", apiErr.Status, tc.status)
			}
		})
	}
}

func TestBusinessErrorSurfacedVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"error":   "A draft is already open for this resource",
		})
	}, "tok")

	_, err := client.Me(context.Background())
	if !IsBusiness(err) {
		t.Fatalf("IsBusiness = false for %v", err)
	}
	if err.Error() != "A draft is already open for this resource" {
		t.Fatalf("message = %q, want backend text verbatim", err.Error())
	}
}

func TestEnvelopeFailureOn200(t *testing.T) {
	// The backend contract allows success:false with a 200 status.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "nothing to submit",
		})
	}, "tok")

	err := client.ValidateToken(context.Background())
	if !IsBusiness(err) {
		t.Fatalf("IsBusiness = false for %v", err)
	}
	if err.Error() != "nothing to submit" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestMalformedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>oops</html>"))
	}, "tok")

	_, err := client.Me(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("IsNetwork = false for %v", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(Config{BaseURL: url}, staticToken("tok"))
	_, err := client.Me(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("IsNetwork = false for %v", err)
	}
}
