// Package queries declares the named GROQ queries the site issues against the content store.
// Queries are templates: parameters are referenced as $name and bound by the client at call time.
package queries

import (
	"errors"
	"fmt"
)

// ErrUnknownQuery 表示请求了未注册的查询名称。
var ErrUnknownQuery = errors.New("unknown query")

// Query is a named, parameterizable, read-only query.
type Query struct {
	Name string
	Text string
	// Params lists the $-parameters Text references; every one must be bound.
	Params []string
	// Filterable marks collections gated by isActive.
	Filterable bool
}

const (
	imageProjection = `image{_type, "ref": asset._ref, alt}`

	// imageOrURLProjection keeps a plain URL string image that imageProjection would null out.
	imageOrURLProjection = `"image": select(
		defined(image.asset) => ` + imageProjection + `,
		defined(image) => image
	)`

	authorProjection = `{
	_id,
	name,
	"slug": slug.current,
	"image": image{_type, "ref": asset._ref, alt},
	bio
}`

	categoryProjection = `{
	_id,
	title,
	"slug": slug.current,
	description,
	color
}`

	postProjection = `{
	_id,
	_createdAt,
	_updatedAt,
	title,
	"slug": slug.current,
	excerpt,
	"mainImage": mainImage{_type, "ref": asset._ref, alt},
	"author": author->` + authorProjection + `,
	"categories": categories[]->` + categoryProjection + `,
	publishedAt,
	featured,
	"body": coalesce(body, content)
}`

	postListProjection = `{
	_id,
	_createdAt,
	_updatedAt,
	title,
	"slug": slug.current,
	excerpt,
	"mainImage": mainImage{_type, "ref": asset._ref, alt},
	"author": author->` + authorProjection + `,
	"categories": categories[]->` + categoryProjection + `,
	publishedAt,
	featured
}`
)

// Carousel lists active homepage slides.
var Carousel = Query{
	Name: "carousel",
	Text: `*[_type == "carouselItem" && isActive == true] | order(order asc) {
	_id,
	title,
	subtitle,
	description,
	"image": select(
		defined(image.asset) => ` + imageProjection + `,
		defined(image) => image,
		imageUrl
	),
	buttonText,
	buttonLink,
	order,
	isActive
}`,
	Filterable: true,
}

// FAQ lists every active question.
var FAQ = Query{
	Name: "faq",
	Text: `*[_type == "faqItem" && isActive == true] | order(order asc) {
	_id,
	question,
	answer,
	category,
	order,
	isActive
}`,
	Filterable: true,
}

// FAQByCategory lists active questions of one category.
var FAQByCategory = Query{
	Name: "faqByCategory",
	Text: `*[_type == "faqItem" && isActive == true && category == $category] | order(order asc) {
	_id,
	question,
	answer,
	category,
	order,
	isActive
}`,
	Params:     []string{"category"},
	Filterable: true,
}

// Testimonials lists active testimonials, featured first.
var Testimonials = Query{
	Name: "testimonials",
	Text: `*[_type == "testimonial" && isActive == true] | order(featured desc, order asc) {
	_id,
	name,
	role,
	company,
	"quote": coalesce(quote, content),
	` + imageOrURLProjection + `,
	rating,
	featured,
	order,
	isActive
}`,
	Filterable: true,
}

// Posts lists published posts, newest first.
var Posts = Query{
	Name: "posts",
	Text: `*[_type == "post" && defined(slug.current) && publishedAt <= now()] | order(publishedAt desc) ` + postListProjection,
}

// FeaturedPosts lists featured published posts.
var FeaturedPosts = Query{
	Name: "featuredPosts",
	Text: `*[_type == "post" && defined(slug.current) && featured == true && publishedAt <= now()] | order(publishedAt desc) ` + postListProjection,
}

// PostsByCategory lists published posts referencing the category with the given slug.
var PostsByCategory = Query{
	Name: "postsByCategory",
	Text: `*[_type == "post" && defined(slug.current) && publishedAt <= now() && $category in categories[]->slug.current] | order(publishedAt desc) ` + postListProjection,
	Params: []string{"category"},
}

// PostBySlug fetches a single post including its body.
var PostBySlug = Query{
	Name:   "postBySlug",
	Text:   `*[_type == "post" && slug.current == $slug] | order(_updatedAt desc) [0] ` + postProjection,
	Params: []string{"slug"},
}

// Authors lists authors by name.
var Authors = Query{
	Name: "authors",
	Text: `*[_type == "author"] | order(name asc) ` + authorProjection,
}

// AuthorBySlug fetches a single author.
var AuthorBySlug = Query{
	Name:   "authorBySlug",
	Text:   `*[_type == "author" && slug.current == $slug] | order(_updatedAt desc) [0] ` + authorProjection,
	Params: []string{"slug"},
}

// Categories lists blog categories by title.
var Categories = Query{
	Name: "categories",
	Text: `*[_type == "category"] | order(title asc) ` + categoryProjection,
}

var registry = []Query{
	Carousel,
	FAQ,
	FAQByCategory,
	Testimonials,
	Posts,
	FeaturedPosts,
	PostsByCategory,
	PostBySlug,
	Authors,
	AuthorBySlug,
	Categories,
}

// All returns every registered query in a stable order.
func All() []Query {
	out := make([]Query, len(registry))
	copy(out, registry)
	return out
}

// Lookup 根据名称返回已注册的查询。
func Lookup(name string) (Query, error) {
	for _, q := range registry {
		if q.Name == name {
			return q, nil
		}
	}
	return Query{}, fmt.Errorf("%w: %s", ErrUnknownQuery, name)
}
