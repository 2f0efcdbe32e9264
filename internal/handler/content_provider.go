package handler

import (
	"context"

	"github.com/studyhub/internal/model"
	"github.com/studyhub/internal/service"
)

type contentProvider interface {
	Carousel(ctx context.Context) ([]model.CarouselItem, error)
	FAQ(ctx context.Context, filter service.FAQFilter) ([]model.FAQItem, error)
	Testimonials(ctx context.Context) ([]model.TestimonialItem, error)
	Posts(ctx context.Context, filter service.PostFilter) ([]model.BlogPost, error)
	PostBySlug(ctx context.Context, slug string, preview bool) (*model.BlogPost, error)
	Authors(ctx context.Context) ([]model.Author, error)
	AuthorBySlug(ctx context.Context, slug string) (*model.Author, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Home(ctx context.Context) service.HomeSections
}
