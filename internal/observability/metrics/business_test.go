package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSourceCrawl(t *testing.T) {
	before := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("test-source"))

	RecordSourceCrawl("test-source", 100*time.Millisecond, 10, 4, 6)

	after := testutil.ToFloat64(ArticlesFetchedTotal.WithLabelValues("test-source"))
	if after-before != 10 {
		t.Errorf("fetched counter delta = %v, want 10", after-before)
	}

	inserted := testutil.ToFloat64(ArticlesInsertedTotal.WithLabelValues("test-source"))
	if inserted < 4 {
		t.Errorf("inserted counter = %v, want >= 4", inserted)
	}
}

func TestRecordSourceCrawlError(t *testing.T) {
	before := testutil.ToFloat64(SourceCrawlErrors.WithLabelValues("test-source", "fetch_failed"))
	RecordSourceCrawlError("test-source", "fetch_failed")
	after := testutil.ToFloat64(SourceCrawlErrors.WithLabelValues("test-source", "fetch_failed"))
	if after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}
}

func TestRecordRetentionCleanup(t *testing.T) {
	before := testutil.ToFloat64(ArticlesDeletedTotal)
	RecordRetentionCleanup(7)
	after := testutil.ToFloat64(ArticlesDeletedTotal)
	if after-before != 7 {
		t.Errorf("deleted counter delta = %v, want 7", after-before)
	}
}

func TestUpdateArticlesTotal(t *testing.T) {
	UpdateArticlesTotal(42)
	if got := testutil.ToFloat64(ArticlesTotal); got != 42 {
		t.Errorf("articles gauge = %v, want 42", got)
	}
}
