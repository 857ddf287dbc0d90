package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/recipes/{recipeID}", "200"))
	RecordHTTPRequest("GET", "/recipes/{recipeID}", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/recipes/{recipeID}", "200"))
	if after != before+1 {
		t.Fatalf("requests counter = %v, want %v", after, before+1)
	}
}

func TestRecordHTTPRequestUnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")); got != before+1 {
		t.Fatalf("unmatched counter = %v, want %v", got, before+1)
	}
}

func TestRecordRecipeCreateAndSearch(t *testing.T) {
	before := testutil.ToFloat64(RecipesCreated.WithLabelValues("created"))
	RecordRecipeCreate("created")
	if got := testutil.ToFloat64(RecipesCreated.WithLabelValues("created")); got != before+1 {
		t.Fatalf("created counter = %v, want %v", got, before+1)
	}

	searches := testutil.ToFloat64(SearchesTotal.WithLabelValues("best"))
	RecordSearch("best", 3)
	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("best")); got != searches+1 {
		t.Fatalf("search counter = %v, want %v", got, searches+1)
	}
}
