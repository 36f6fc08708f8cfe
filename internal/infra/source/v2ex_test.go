package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestV2EXAdapter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"id":1001,"title":"一个问题","url":"https://www.v2ex.com/t/1001","content":"内容","replies":42,"created":1700000000,
			 "member":{"username":"zhang","avatar_large":"/avatar/zhang.png"},"node":{"avatar_large":""}},
			{"id":1002,"title":"另一个","url":"https://www.v2ex.com/t/1002","replies":3,"created":1700000100,
			 "member":{"username":"li"},"node":{"avatar_large":"https://cdn.v2ex.com/node.png"}}
		]`)
	}))
	defer srv.Close()

	adapter := NewV2EXAdapter(srv.Client())
	adapter.baseURL = srv.URL

	raws, err := adapter.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(raws))
	}

	first, ok := adapter.Transform(raws[0])
	if !ok {
		t.Fatal("expected transform to succeed")
	}
	if first.Comments != 42 {
		t.Errorf("expected replies as comments, got %d", first.Comments)
	}
	if first.ImageURL != "https://www.v2ex.com/avatar/zhang.png" {
		t.Errorf("expected site-relative avatar to be prefixed, got %q", first.ImageURL)
	}

	second, _ := adapter.Transform(raws[1])
	if second.ImageURL != "https://cdn.v2ex.com/node.png" {
		t.Errorf("expected node avatar preferred, got %q", second.ImageURL)
	}
}

func TestV2EXAdapter_FetchRespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"id":1,"title":"a","url":"https://www.v2ex.com/t/1"},
			{"id":2,"title":"b","url":"https://www.v2ex.com/t/2"},
			{"id":3,"title":"c","url":"https://www.v2ex.com/t/3"}
		]`)
	}))
	defer srv.Close()

	adapter := NewV2EXAdapter(srv.Client())
	adapter.baseURL = srv.URL

	raws, err := adapter.Fetch(context.Background(), 2)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(raws))
	}
}
