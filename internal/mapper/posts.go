package mapper

import (
	"encoding/json"

	"github.com/studyhub/internal/model"
)

const (
	collectionPosts      = "posts"
	collectionAuthors    = "authors"
	collectionCategories = "categories"
)

type rawAuthor struct {
	ID    json.RawMessage `json:"_id"`
	Name  json.RawMessage `json:"name"`
	Slug  json.RawMessage `json:"slug"`
	Image json.RawMessage `json:"image"`
	Bio   json.RawMessage `json:"bio"`
}

type rawCategory struct {
	ID          json.RawMessage `json:"_id"`
	Title       json.RawMessage `json:"title"`
	Slug        json.RawMessage `json:"slug"`
	Description json.RawMessage `json:"description"`
	Color       json.RawMessage `json:"color"`
}

type rawPost struct {
	ID          json.RawMessage `json:"_id"`
	CreatedAt   json.RawMessage `json:"_createdAt"`
	UpdatedAt   json.RawMessage `json:"_updatedAt"`
	Title       json.RawMessage `json:"title"`
	Slug        json.RawMessage `json:"slug"`
	Excerpt     json.RawMessage `json:"excerpt"`
	MainImage   json.RawMessage `json:"mainImage"`
	Author      json.RawMessage `json:"author"`
	Categories  json.RawMessage `json:"categories"`
	PublishedAt json.RawMessage `json:"publishedAt"`
	Featured    json.RawMessage `json:"featured"`
	Body        json.RawMessage `json:"body"`
}

// Posts maps a post listing. Store order (publishedAt desc) is kept as returned.
func (m *Mapper) Posts(raw json.RawMessage) ([]model.BlogPost, error) {
	return mapList(m, collectionPosts, raw, m.convertPost)
}

// Post maps a single post; it returns nil when the store found nothing or the document is unusable.
func (m *Mapper) Post(raw json.RawMessage) (*model.BlogPost, error) {
	return mapSingle(m, collectionPosts, raw, m.convertPost)
}

// Authors 映射作者列表。
func (m *Mapper) Authors(raw json.RawMessage) ([]model.Author, error) {
	return mapList(m, collectionAuthors, raw, m.convertAuthor)
}

// Author maps a single author document.
func (m *Mapper) Author(raw json.RawMessage) (*model.Author, error) {
	return mapSingle(m, collectionAuthors, raw, m.convertAuthor)
}

// Categories 映射分类列表，未知颜色会被置空并记录异常。
func (m *Mapper) Categories(raw json.RawMessage) ([]model.Category, error) {
	return mapList(m, collectionCategories, raw, m.convertCategory)
}

func (m *Mapper) convertPost(r rawPost, f fields) (model.BlogPost, error) {
	id, err := f.required(r.ID, "_id")
	if err != nil {
		return model.BlogPost{}, err
	}
	title, err := f.required(r.Title, "title")
	if err != nil {
		return model.BlogPost{}, err
	}
	slug, err := f.required(r.Slug, "slug")
	if err != nil {
		return model.BlogPost{}, err
	}

	post := model.BlogPost{
		ID:          id,
		Title:       title,
		Slug:        slug,
		Excerpt:     f.optString(r.Excerpt, "excerpt"),
		MainImage:   parseImage(r.MainImage),
		Categories:  []model.Category{},
		PublishedAt: f.optTime(r.PublishedAt, "publishedAt"),
		Featured:    f.flag(r.Featured, "featured"),
		Body:        parseBlocks(f.list(r.Body, "body")),
	}
	if t := f.optTime(r.CreatedAt, "_createdAt"); t != nil {
		post.CreatedAt = *t
	}
	if t := f.optTime(r.UpdatedAt, "_updatedAt"); t != nil {
		post.UpdatedAt = *t
	}

	if !isNull(r.Author) {
		// A broken author reference drops the relation, not the post.
		author, err := mapSingle(m, collectionAuthors, r.Author, m.convertAuthor)
		if err != nil {
			m.anomaly(collectionPosts, id, "author is not a document")
		}
		post.Author = author
	}

	for i, element := range f.list(r.Categories, "categories") {
		if isNull(element) {
			continue
		}
		if category, ok := mapOne(m, collectionCategories, i, element, m.convertCategory); ok {
			post.Categories = append(post.Categories, category)
		}
	}
	return post, nil
}

func (m *Mapper) convertAuthor(r rawAuthor, f fields) (model.Author, error) {
	id, err := f.required(r.ID, "_id")
	if err != nil {
		return model.Author{}, err
	}
	name, err := f.required(r.Name, "name")
	if err != nil {
		return model.Author{}, err
	}

	author := model.Author{
		ID:    id,
		Name:  name,
		Image: parseImage(r.Image),
		Bio:   parseBlocks(f.list(r.Bio, "bio")),
	}
	if slug := f.optString(r.Slug, "slug"); slug != nil {
		author.Slug = *slug
	}
	return author, nil
}

func (m *Mapper) convertCategory(r rawCategory, f fields) (model.Category, error) {
	id, err := f.required(r.ID, "_id")
	if err != nil {
		return model.Category{}, err
	}
	title, err := f.required(r.Title, "title")
	if err != nil {
		return model.Category{}, err
	}

	category := model.Category{
		ID:          id,
		Title:       title,
		Description: f.optString(r.Description, "description"),
	}
	if slug := f.optString(r.Slug, "slug"); slug != nil {
		category.Slug = *slug
	}
	if color := f.optString(r.Color, "color"); color != nil {
		if c := model.CategoryColor(*color); c.Valid() {
			category.Color = c
		} else {
			f.invalid("color", r.Color)
		}
	}
	return category, nil
}
