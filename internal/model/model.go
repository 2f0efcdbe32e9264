// Package model holds the UI-facing content contracts. Fields that are not guaranteed by every
// valid document are pointers or slices so that absence stays distinguishable from a value.
package model

import "time"

// CarouselItem 首页轮播项。
type CarouselItem struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Subtitle    *string      `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Description *string      `json:"description,omitempty" yaml:"description,omitempty"`
	Image       *ImageSource `json:"image,omitempty" yaml:"image,omitempty"`
	ButtonText  *string      `json:"buttonText,omitempty" yaml:"buttonText,omitempty"`
	ButtonLink  *string      `json:"buttonLink,omitempty" yaml:"buttonLink,omitempty"`
	Order       *int         `json:"order,omitempty" yaml:"order,omitempty"`

	// ButtonAction is a local UI hook. It is never populated from remote data.
	ButtonAction func() `json:"-" yaml:"-"`
}

// FAQItem 常见问题条目。
type FAQItem struct {
	ID       string  `json:"id" yaml:"id"`
	Question string  `json:"question" yaml:"question"`
	Answer   *string `json:"answer,omitempty" yaml:"answer,omitempty"`
	Category *string `json:"category,omitempty" yaml:"category,omitempty"`
	Order    *int    `json:"order,omitempty" yaml:"order,omitempty"`
}

// FAQGroup is a client-side regrouping of FAQ items sharing a category.
type FAQGroup struct {
	Category string    `json:"category" yaml:"category"`
	Items    []FAQItem `json:"items" yaml:"items"`
}

const (
	// MinRating and MaxRating bound TestimonialItem.Rating.
	MinRating = 1
	MaxRating = 5
)

// TestimonialItem 用户评价。
type TestimonialItem struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Role     *string      `json:"role,omitempty" yaml:"role,omitempty"`
	Company  *string      `json:"company,omitempty" yaml:"company,omitempty"`
	Quote    *string      `json:"quote,omitempty" yaml:"quote,omitempty"`
	Image    *ImageSource `json:"image,omitempty" yaml:"image,omitempty"`
	Rating   *int         `json:"rating,omitempty" yaml:"rating,omitempty"`
	Featured bool         `json:"featured" yaml:"featured"`
	Order    *int         `json:"order,omitempty" yaml:"order,omitempty"`
}

// BlogPost 博客文章。_id/_createdAt/_updatedAt 为展示与审计保留。
type BlogPost struct {
	ID          string       `json:"_id" yaml:"_id"`
	CreatedAt   time.Time    `json:"_createdAt" yaml:"_createdAt"`
	UpdatedAt   time.Time    `json:"_updatedAt" yaml:"_updatedAt"`
	Title       string       `json:"title" yaml:"title"`
	Slug        string       `json:"slug" yaml:"slug"`
	Excerpt     *string      `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	MainImage   *ImageSource `json:"mainImage,omitempty" yaml:"mainImage,omitempty"`
	Author      *Author      `json:"author,omitempty" yaml:"author,omitempty"`
	Categories  []Category   `json:"categories" yaml:"categories"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	Featured    bool         `json:"featured" yaml:"featured"`
	Body        []Block      `json:"body,omitempty" yaml:"body,omitempty"`
}

// Author 文章作者，仅通过文章引用出现。
type Author struct {
	ID    string       `json:"_id" yaml:"_id"`
	Name  string       `json:"name" yaml:"name"`
	Slug  string       `json:"slug,omitempty" yaml:"slug,omitempty"`
	Image *ImageSource `json:"image,omitempty" yaml:"image,omitempty"`
	Bio   []Block      `json:"bio,omitempty" yaml:"bio,omitempty"`
}

// Category 文章分类。
type Category struct {
	ID          string        `json:"_id" yaml:"_id"`
	Title       string        `json:"title" yaml:"title"`
	Slug        string        `json:"slug,omitempty" yaml:"slug,omitempty"`
	Description *string       `json:"description,omitempty" yaml:"description,omitempty"`
	Color       CategoryColor `json:"color,omitempty" yaml:"color,omitempty"`
}

// CategoryColor is a closed set of named badge colors. The zero value means unset.
type CategoryColor string

const (
	ColorBlue   CategoryColor = "blue"
	ColorGreen  CategoryColor = "green"
	ColorPurple CategoryColor = "purple"
	ColorOrange CategoryColor = "orange"
	ColorRed    CategoryColor = "red"
	ColorTeal   CategoryColor = "teal"
)

var categoryColors = []CategoryColor{ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorRed, ColorTeal}

// CategoryColors returns the allowed colors.
func CategoryColors() []CategoryColor {
	return append([]CategoryColor(nil), categoryColors...)
}

// Valid reports whether c is one of the named colors.
func (c CategoryColor) Valid() bool {
	for _, known := range categoryColors {
		if c == known {
			return true
		}
	}
	return false
}
