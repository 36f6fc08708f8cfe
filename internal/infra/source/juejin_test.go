package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fastinfo/internal/usecase/crawl"
)

func TestJuejinAdapter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"err_no":0,"err_msg":"success","data":[
			{"content":{"content_id":"7001","title":"Go 并发模式"},
			 "content_counter":{"view":5400,"like":120,"comment_count":30},
			 "author":{"name":"wang"}}
		]}`)
	}))
	defer srv.Close()

	adapter := NewJuejinAdapter(srv.Client())
	adapter.baseURL = srv.URL

	raws, err := adapter.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected 1 article, got %d", len(raws))
	}

	item, ok := adapter.Transform(raws[0])
	if !ok {
		t.Fatal("expected transform to succeed")
	}
	if item.URL != "https://juejin.cn/post/7001" {
		t.Errorf("unexpected URL: %q", item.URL)
	}
	if item.Views != 5400 || item.Likes != 120 || item.Comments != 30 {
		t.Errorf("unexpected engagement: views=%d likes=%d comments=%d",
			item.Views, item.Likes, item.Comments)
	}
}

func TestJuejinAdapter_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"err_no":403,"err_msg":"forbidden","data":null}`)
	}))
	defer srv.Close()

	adapter := NewJuejinAdapter(srv.Client())
	adapter.baseURL = srv.URL

	_, err := adapter.Fetch(context.Background(), 10)
	var parseErr *crawl.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for err_no envelope, got %v", err)
	}
}
