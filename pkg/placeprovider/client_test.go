package placeprovider

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestClientSearchTextRequest(t *testing.T) {
	const expectedURL = "http://places.test/v1/places:searchText"
	respBody := `{"places":[{"id":"place_123","displayName":{"text":"Demo Coffee"},"formattedAddress":"123 Demo St, Austin, TX 78701","location":{"latitude":30.26,"longitude":-97.74},"addressComponents":[{"longText":"Austin","shortText":"Austin","types":["locality"]},{"longText":"Texas","shortText":"TX","types":["administrative_area_level_1"]},{"longText":"78701","shortText":"78701","types":["postal_code"]}],"businessStatus":"OPERATIONAL","userRatingCount":42}]}`

	var capturedURL string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedHeaders = req.Header.Clone()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://places.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	records, err := client.SearchText(context.Background(), "coffee in austin tx")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedHeaders.Get("X-Goog-Api-Key") != "test-key" {
		t.Fatalf("api key header missing")
	}
	if capturedHeaders.Get("X-Goog-FieldMask") != searchFieldMask {
		t.Fatalf("unexpected field mask %q", capturedHeaders.Get("X-Goog-FieldMask"))
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.ProviderID != "place_123" || rec.Name != "Demo Coffee" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.City != "Austin" || rec.State != "TX" || rec.Zip != "78701" {
		t.Fatalf("address components not mapped: %+v", rec)
	}
	if !rec.IsOperational || rec.RatingsCount != 42 {
		t.Fatalf("status or ratings not mapped: %+v", rec)
	}
}

func TestClientResolvePlaceClosedStatus(t *testing.T) {
	respBody := `{"id":"place_456","displayName":{"text":"Old Diner"},"formattedAddress":"1 Gone Ave","location":{"latitude":1,"longitude":2},"businessStatus":"CLOSED_PERMANENTLY","userRatingCount":7}`

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v1/places/place_456" {
			t.Fatalf("unexpected path %q", req.URL.Path)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://places.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	rec, err := client.ResolvePlace(context.Background(), "place_456")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rec.IsOperational {
		t.Fatalf("closed place reported operational")
	}
	if rec.ProviderID != "place_456" || rec.RatingsCount != 7 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
