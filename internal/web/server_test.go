package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"arogyapath/internal/accounts"
	"arogyapath/internal/nearby"
	"arogyapath/internal/storage"
)

type fakeResolver struct {
	result nearby.Result
	calls  []nearby.Request
}

func (f *fakeResolver) Resolve(ctx context.Context, req nearby.Request) nearby.Result {
	f.calls = append(f.calls, req)
	return f.result
}

func newTestServer(t *testing.T, resolver PlaceResolver) *http.ServeMux {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	mux := http.NewServeMux()
	NewServer(&accounts.Service{Store: store, Cost: bcrypt.MinCost}, resolver).Routes(mux)
	return mux
}

func TestNearbyReturnsPlaces(t *testing.T) {
	resolver := &fakeResolver{result: nearby.Result{Places: []nearby.Place{{Name: "Park", DistanceM: 12, Types: []string{"park"}}}}}
	mux := newTestServer(t, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/nearby?lat=12.9716&lng=77.5946&filter=rest", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body nearby.Result
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Places) != 1 || body.Places[0].Name != "Park" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(resolver.calls) != 1 || resolver.calls[0].Filter != "rest" {
		t.Fatalf("unexpected resolver calls: %+v", resolver.calls)
	}
}

func TestNearbyUpstreamErrorIsStillOK(t *testing.T) {
	resolver := &fakeResolver{result: nearby.Result{Places: []nearby.Place{}, Error: "overpass status 504: timeout"}}
	mux := newTestServer(t, resolver)

	req := httptest.NewRequest(http.MethodGet, "/api/nearby?lat=1&lng=2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := "{\"places\":[],\"error\":\"overpass status 504: timeout\"}\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestNearbyRejectsBadCoordinates(t *testing.T) {
	tests := []string{
		"/api/nearby",
		"/api/nearby?lat=1",
		"/api/nearby?lat=abc&lng=2",
		"/api/nearby?lat=100&lng=2",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			resolver := &fakeResolver{}
			mux := newTestServer(t, resolver)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"places":[]`) || !strings.Contains(rec.Body.String(), `"error":`) {
				t.Fatalf("unexpected body: %s", rec.Body.String())
			}
			if len(resolver.calls) != 0 {
				t.Fatalf("resolver should not be called")
			}
		})
	}
}

func TestNearbyGeoJSON(t *testing.T) {
	resolver := &fakeResolver{result: nearby.Result{Places: []nearby.Place{{Name: "Elevator", Lat: 1.5, Lng: 2.5}}}}
	mux := newTestServer(t, resolver)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nearby?lat=1&lng=2&format=geojson", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/geo+json" {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `"FeatureCollection"`) || !strings.Contains(rec.Body.String(), `[2.5,1.5]`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestNearbyMethodNotAllowed(t *testing.T) {
	mux := newTestServer(t, &fakeResolver{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/nearby?lat=1&lng=2", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func postForm(mux *http.ServeMux, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func signupForm() url.Values {
	return url.Values{
		"name":               {"Gopal"},
		"age":                {"68"},
		"gender":             {"male"},
		"mobile":             {"9123456780"},
		"password":           {"pass123"},
		"category":           {"senior"},
		"emergency_contacts": {"Son:9000000003,Daughter:9000000004"},
	}
}

func TestSignupLoginAndProfile(t *testing.T) {
	mux := newTestServer(t, &fakeResolver{})

	rec := postForm(mux, "/api/signup", signupForm())
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var signup AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if signup.UserID == 0 || signup.Redirect != "/senior/1" {
		t.Fatalf("unexpected signup response: %+v", signup)
	}

	rec = postForm(mux, "/api/login", url.Values{"mobile": {"9123456780"}, "password": {"pass123"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pass123") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("profile leaks password material: %s", rec.Body.String())
	}
	var view UserView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if len(view.EmergencyContacts) != 2 || view.EmergencyContacts[1].Name != "Daughter" {
		t.Fatalf("unexpected contacts: %+v", view.EmergencyContacts)
	}
}

func TestSignupAndLoginErrors(t *testing.T) {
	mux := newTestServer(t, &fakeResolver{})
	if rec := postForm(mux, "/api/signup", signupForm()); rec.Code != http.StatusCreated {
		t.Fatalf("seed signup: expected 201, got %d", rec.Code)
	}

	badCategory := signupForm()
	badCategory.Set("mobile", "1")
	badCategory.Set("category", "tourist")
	badAge := signupForm()
	badAge.Set("mobile", "2")
	badAge.Set("age", "old")

	tests := []struct {
		name     string
		target   string
		form     url.Values
		wantCode int
		wantMsg  string
	}{
		{"duplicate mobile", "/api/signup", signupForm(), http.StatusConflict, "Mobile number already registered. Please login."},
		{"invalid category", "/api/signup", badCategory, http.StatusBadRequest, "Please select a valid category."},
		{"invalid age", "/api/signup", badAge, http.StatusBadRequest, "Please enter a valid age."},
		{"unknown mobile", "/api/login", url.Values{"mobile": {"0"}, "password": {"x"}}, http.StatusNotFound, "Mobile number not found. Please sign up."},
		{"wrong password", "/api/login", url.Values{"mobile": {"9123456780"}, "password": {"x"}}, http.StatusUnauthorized, "Incorrect password. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(mux, tt.target, tt.form)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("unexpected message: %q", body.Error)
			}
		})
	}
}

func TestUserNotFound(t *testing.T) {
	mux := newTestServer(t, &fakeResolver{})
	for _, target := range []string{"/api/users/99", "/api/users/abc"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	mux := newTestServer(t, &fakeResolver{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}
