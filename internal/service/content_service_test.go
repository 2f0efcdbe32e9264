package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/studyhub/internal/cms"
	"github.com/studyhub/internal/queries"
	"go.uber.org/goleak"
)

type fetchCall struct {
	query   string
	params  cms.Params
	preview bool
}

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	calls     []fetchCall
}

func (f *fakeFetcher) Fetch(_ context.Context, q queries.Query, params cms.Params, opts ...cms.FetchOption) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{query: q.Name, params: params, preview: len(opts) > 0})
	f.mu.Unlock()

	if err, ok := f.failures[q.Name]; ok {
		return nil, err
	}
	if body, ok := f.responses[q.Name]; ok {
		return json.RawMessage(body), nil
	}
	return json.RawMessage("null"), nil
}

func (f *fakeFetcher) lastCall() fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func TestFAQSelectsQueryByCategory(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"faqByCategory": `[{"_id":"q1","question":"Visa?","category":"visa","order":1,"isActive":true}]`,
	}}
	svc := NewContentService(fetcher, nil, nil, false)

	items, err := svc.FAQ(context.Background(), FAQFilter{Category: " visa "})
	if err != nil {
		t.Fatalf("FAQ returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	call := fetcher.lastCall()
	if call.query != "faqByCategory" {
		t.Fatalf("unexpected query %s", call.query)
	}
	if diff := cmp.Diff(cms.Params{"category": "visa"}, call.params); diff != "" {
		t.Fatalf("unexpected params (-want +got):\n%s", diff)
	}
}

func TestQueryErrorPolicyDependsOnEnvironment(t *testing.T) {
	storeErr := &cms.QueryError{Query: "carousel", StatusCode: 400, Type: "queryParseError", Description: "bad"}
	fetcher := &fakeFetcher{failures: map[string]error{"carousel": storeErr}}

	dev := NewContentService(fetcher, nil, nil, false)
	if _, err := dev.Carousel(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("expected query error outside production, got %v", err)
	}

	prod := NewContentService(fetcher, nil, nil, true)
	items, err := prod.Carousel(context.Background())
	if err != nil {
		t.Fatalf("expected degraded result in production, got %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty list, got %v", items)
	}
}

func TestTransportErrorsAlwaysPropagate(t *testing.T) {
	transport := &cms.TransportError{Query: "testimonials", Err: errors.New("timeout")}
	fetcher := &fakeFetcher{failures: map[string]error{"testimonials": transport}}

	prod := NewContentService(fetcher, nil, nil, true)
	if _, err := prod.Testimonials(context.Background()); !cms.IsTransportError(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestMalformedPayloadDegradesInProduction(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{"faq": `{"not":"a list"}`}}

	if _, err := NewContentService(fetcher, nil, nil, false).FAQ(context.Background(), FAQFilter{}); err == nil {
		t.Fatal("expected malformed payload error outside production")
	}
	items, err := NewContentService(fetcher, nil, nil, true).FAQ(context.Background(), FAQFilter{})
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty degraded list, got %v %v", items, err)
	}
}

func TestPostBySlug(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"postBySlug": `{"_id":"p1","title":"Hello","slug":"hello"}`,
	}}
	svc := NewContentService(fetcher, nil, nil, true)

	post, err := svc.PostBySlug(context.Background(), "hello", true)
	if err != nil {
		t.Fatalf("PostBySlug returned error: %v", err)
	}
	if post.Slug != "hello" {
		t.Fatalf("unexpected post %+v", post)
	}
	if call := fetcher.lastCall(); !call.preview || call.params["slug"] != "hello" {
		t.Fatalf("unexpected fetch call %+v", call)
	}

	if _, err := svc.PostBySlug(context.Background(), "  ", false); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for empty slug, got %v", err)
	}

	fetcher.responses["postBySlug"] = "null"
	if _, err := svc.PostBySlug(context.Background(), "missing", false); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostsFilters(t *testing.T) {
	fetcher := &fakeFetcher{responses: map[string]string{
		"posts":           `[{"_id":"1","title":"A","slug":"a"},{"_id":"2","title":"B","slug":"b"},{"_id":"3","title":"C","slug":"c"}]`,
		"featuredPosts":   `[{"_id":"2","title":"B","slug":"b","featured":true}]`,
		"postsByCategory": `[{"_id":"1","title":"A","slug":"a"},{"_id":"2","title":"B","slug":"b","featured":true}]`,
	}}
	svc := NewContentService(fetcher, nil, nil, false)
	ctx := context.Background()

	posts, err := svc.Posts(ctx, PostFilter{Limit: 2})
	if err != nil || len(posts) != 2 || posts[0].ID != "1" {
		t.Fatalf("unexpected limited posts %v %v", posts, err)
	}

	posts, err = svc.Posts(ctx, PostFilter{FeaturedOnly: true})
	if err != nil || len(posts) != 1 || fetcher.lastCall().query != "featuredPosts" {
		t.Fatalf("unexpected featured posts %v %v", posts, err)
	}

	posts, err = svc.Posts(ctx, PostFilter{Category: "visas", FeaturedOnly: true})
	if err != nil || len(posts) != 1 || posts[0].ID != "2" {
		t.Fatalf("unexpected category posts %v %v", posts, err)
	}
	if call := fetcher.lastCall(); call.query != "postsByCategory" || call.params["category"] != "visas" {
		t.Fatalf("unexpected fetch call %+v", call)
	}
}

func TestAuthorBySlugNotFound(t *testing.T) {
	svc := NewContentService(&fakeFetcher{}, nil, nil, false)
	if _, err := svc.AuthorBySlug(context.Background(), "nobody"); !errors.Is(err, ErrAuthorNotFound) {
		t.Fatalf("expected ErrAuthorNotFound, got %v", err)
	}
}

func TestHomeIsolatesSectionFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetcher := &fakeFetcher{
		responses: map[string]string{
			"carousel":      `[{"_id":"a","order":2,"isActive":true,"title":"X"},{"_id":"b","order":1,"isActive":true,"title":"Y"}]`,
			"faq":           `[{"_id":"q1","question":"Why?","order":1,"isActive":true}]`,
			"featuredPosts": `[{"_id":"p1","title":"Hi","slug":"hi","featured":true}]`,
		},
		failures: map[string]error{
			"testimonials": &cms.TransportError{Query: "testimonials", Err: errors.New("unreachable")},
		},
	}
	svc := NewContentService(fetcher, nil, nil, true)

	home := svc.Home(context.Background())

	if len(home.Carousel) != 2 || home.Carousel[0].ID != "b" {
		t.Fatalf("unexpected carousel %+v", home.Carousel)
	}
	if len(home.FAQ) != 1 || len(home.FeaturedPosts) != 1 {
		t.Fatalf("healthy sections must still load: %+v", home)
	}
	if home.Testimonials == nil || len(home.Testimonials) != 0 {
		t.Fatalf("failed section must fall back to empty list, got %v", home.Testimonials)
	}
	if len(home.Errors) != 1 || home.Errors[SectionTestimonials] == nil {
		t.Fatalf("expected only testimonials error, got %v", home.Errors)
	}
}
