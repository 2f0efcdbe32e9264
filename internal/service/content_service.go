package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/studyhub/internal/cms"
	"github.com/studyhub/internal/mapper"
	"github.com/studyhub/internal/model"
	"github.com/studyhub/internal/queries"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrAuthorNotFound = errors.New("author not found")
)

// Fetcher executes a named query and returns the raw result.
type Fetcher interface {
	Fetch(ctx context.Context, q queries.Query, params cms.Params, opts ...cms.FetchOption) (json.RawMessage, error)
}

// ContentService 串联查询定义、内容源客户端与映射层，向页面输出领域模型。
type ContentService struct {
	fetcher    Fetcher
	mapper     *mapper.Mapper
	logger     *zap.Logger
	production bool
}

// NewContentService wires the service. In production, store-side query errors degrade to empty
// results; elsewhere they are returned so that broken queries fail loudly.
func NewContentService(fetcher Fetcher, m *mapper.Mapper, logger *zap.Logger, production bool) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = mapper.New(logger)
	}
	return &ContentService{
		fetcher:    fetcher,
		mapper:     m,
		logger:     logger,
		production: production,
	}
}

// FAQFilter narrows the FAQ listing.
type FAQFilter struct {
	Category string
}

// PostFilter narrows the post listing.
type PostFilter struct {
	Category     string
	FeaturedOnly bool
	Limit        int
}

func (s *ContentService) degradable(err error) bool {
	return s.production && (cms.IsQueryError(err) || errors.Is(err, mapper.ErrMalformedPayload))
}

// load fetches q and maps the result, applying the production degrade policy to both steps.
func load[T any](ctx context.Context, s *ContentService, q queries.Query, params cms.Params, mapFn func(json.RawMessage) (T, error), opts ...cms.FetchOption) (T, error) {
	var zero T

	raw, err := s.fetcher.Fetch(ctx, q, params, opts...)
	if err != nil {
		if s.degradable(err) {
			s.logger.Error("content query failed, serving empty result", zap.String("query", q.Name), zap.Error(err))
			return mapFn(nil)
		}
		return zero, err
	}

	out, err := mapFn(raw)
	if err != nil {
		if s.degradable(err) {
			s.logger.Error("content payload malformed, serving empty result", zap.String("query", q.Name), zap.Error(err))
			return mapFn(nil)
		}
		return zero, err
	}
	return out, nil
}

// Carousel returns active homepage slides.
func (s *ContentService) Carousel(ctx context.Context) ([]model.CarouselItem, error) {
	return load(ctx, s, queries.Carousel, nil, s.mapper.Carousel)
}

// FAQ returns active questions, optionally restricted to one category.
func (s *ContentService) FAQ(ctx context.Context, filter FAQFilter) ([]model.FAQItem, error) {
	category := strings.TrimSpace(filter.Category)
	if category == "" {
		return load(ctx, s, queries.FAQ, nil, s.mapper.FAQ)
	}
	return load(ctx, s, queries.FAQByCategory, cms.Params{"category": category}, s.mapper.FAQ)
}

// Testimonials returns active testimonials, featured first.
func (s *ContentService) Testimonials(ctx context.Context) ([]model.TestimonialItem, error) {
	return load(ctx, s, queries.Testimonials, nil, s.mapper.Testimonials)
}

// Posts returns published posts matching filter, newest first.
func (s *ContentService) Posts(ctx context.Context, filter PostFilter) ([]model.BlogPost, error) {
	var (
		posts []model.BlogPost
		err   error
	)

	category := strings.TrimSpace(filter.Category)
	switch {
	case category != "":
		posts, err = load(ctx, s, queries.PostsByCategory, cms.Params{"category": category}, s.mapper.Posts)
	case filter.FeaturedOnly:
		posts, err = load(ctx, s, queries.FeaturedPosts, nil, s.mapper.Posts)
	default:
		posts, err = load(ctx, s, queries.Posts, nil, s.mapper.Posts)
	}
	if err != nil {
		return nil, err
	}

	if category != "" && filter.FeaturedOnly {
		featured := posts[:0]
		for _, post := range posts {
			if post.Featured {
				featured = append(featured, post)
			}
		}
		posts = featured
	}
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

// PostBySlug returns one post. Preview reads drafts and bypasses any cache.
func (s *ContentService) PostBySlug(ctx context.Context, slug string, preview bool) (*model.BlogPost, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrPostNotFound
	}

	var opts []cms.FetchOption
	if preview {
		opts = append(opts, cms.Preview())
	}

	post, err := load(ctx, s, queries.PostBySlug, cms.Params{"slug": slug}, s.mapper.Post, opts...)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Authors lists authors.
func (s *ContentService) Authors(ctx context.Context) ([]model.Author, error) {
	return load(ctx, s, queries.Authors, nil, s.mapper.Authors)
}

// AuthorBySlug returns one author.
func (s *ContentService) AuthorBySlug(ctx context.Context, slug string) (*model.Author, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrAuthorNotFound
	}
	author, err := load(ctx, s, queries.AuthorBySlug, cms.Params{"slug": slug}, s.mapper.Author)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrAuthorNotFound
	}
	return author, nil
}

// Categories lists blog categories.
func (s *ContentService) Categories(ctx context.Context) ([]model.Category, error) {
	return load(ctx, s, queries.Categories, nil, s.mapper.Categories)
}

const (
	SectionCarousel      = "carousel"
	SectionFAQ           = "faq"
	SectionTestimonials  = "testimonials"
	SectionFeaturedPosts = "featuredPosts"
)

// HomeSections 首页各区块的数据。某个区块失败时为空列表，错误记录在 Errors 中。
type HomeSections struct {
	Carousel      []model.CarouselItem
	FAQ           []model.FAQItem
	Testimonials  []model.TestimonialItem
	FeaturedPosts []model.BlogPost
	Errors        map[string]error
}

// Home loads every homepage section concurrently. Sections are independent: a failing section
// yields an empty list and an entry in Errors without affecting the others.
func (s *ContentService) Home(ctx context.Context) HomeSections {
	var (
		g     errgroup.Group
		home  HomeSections
		errCa error
		errFQ error
		errTe error
		errFP error
	)

	g.Go(func() error {
		home.Carousel, errCa = s.Carousel(ctx)
		return nil
	})
	g.Go(func() error {
		home.FAQ, errFQ = s.FAQ(ctx, FAQFilter{})
		return nil
	})
	g.Go(func() error {
		home.Testimonials, errTe = s.Testimonials(ctx)
		return nil
	})
	g.Go(func() error {
		home.FeaturedPosts, errFP = s.Posts(ctx, PostFilter{FeaturedOnly: true, Limit: 3})
		return nil
	})
	_ = g.Wait()

	home.Errors = make(map[string]error)
	if errCa != nil {
		home.Errors[SectionCarousel] = errCa
		home.Carousel = []model.CarouselItem{}
	}
	if errFQ != nil {
		home.Errors[SectionFAQ] = errFQ
		home.FAQ = []model.FAQItem{}
	}
	if errTe != nil {
		home.Errors[SectionTestimonials] = errTe
		home.Testimonials = []model.TestimonialItem{}
	}
	if errFP != nil {
		home.Errors[SectionFeaturedPosts] = errFP
		home.FeaturedPosts = []model.BlogPost{}
	}
	for section, err := range home.Errors {
		s.logger.Warn("home section unavailable", zap.String("section", section), zap.Error(err))
	}
	return home
}
