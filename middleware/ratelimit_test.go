package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitSansRedis(t *testing.T) {
	handler := RateLimit(nil, 1, time.Minute)(okHandler())

	// Sans Redis configuré, aucune limitation
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("requête %d: Code = %v, attendu 200", i, rr.Code)
		}
	}
}

func TestRateLimitSousLaLimite(t *testing.T) {
	client := newTestRedis(t)
	handler := RateLimit(client, 5, time.Minute)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("requête %d: Code = %v, attendu 200", i, rr.Code)
		}
	}
}

func TestRateLimitDepassement(t *testing.T) {
	client := newTestRedis(t)
	handler := RateLimit(client, 3, time.Minute)(okHandler())

	var last int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		last = rr.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("Code = %v, attendu 429", last)
	}
}

func TestRateLimitRetryAfter(t *testing.T) {
	client := newTestRedis(t)
	handler := RateLimit(client, 1, time.Minute)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if i == 1 {
			if rr.Code != http.StatusTooManyRequests {
				t.Fatalf("Code = %v, attendu 429", rr.Code)
			}
			if rr.Header().Get("Retry-After") != "60" {
				t.Errorf("Retry-After = %v, attendu 60", rr.Header().Get("Retry-After"))
			}
		}
	}
}

func TestRateLimitParIP(t *testing.T) {
	client := newTestRedis(t)
	handler := RateLimit(client, 1, time.Minute)(okHandler())

	// Première IP consomme sa limite
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Une autre IP n'est pas affectée
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.99:1234"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Code = %v, attendu 200 pour une IP différente", rr.Code)
	}
}

func TestRateLimitFenetreGlissante(t *testing.T) {
	client := newTestRedis(t)
	handler := RateLimit(client, 1, 50*time.Millisecond)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Dans la fenêtre : refusé
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Code = %v, attendu 429 dans la fenêtre", rr.Code)
	}

	// Après expiration de la fenêtre : de nouveau autorisé
	time.Sleep(60 * time.Millisecond)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Code = %v, attendu 200 après la fenêtre", rr.Code)
	}
}
