package mapper

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/studyhub/internal/model"
)

const (
	collectionCarousel     = "carousel"
	collectionFAQ          = "faq"
	collectionTestimonials = "testimonials"
)

type rawCarouselItem struct {
	ID          json.RawMessage `json:"_id"`
	Title       json.RawMessage `json:"title"`
	Subtitle    json.RawMessage `json:"subtitle"`
	Description json.RawMessage `json:"description"`
	Image       json.RawMessage `json:"image"`
	ButtonText  json.RawMessage `json:"buttonText"`
	ButtonLink  json.RawMessage `json:"buttonLink"`
	Order       json.RawMessage `json:"order"`
	IsActive    json.RawMessage `json:"isActive"`
}

type rawFAQItem struct {
	ID       json.RawMessage `json:"_id"`
	Question json.RawMessage `json:"question"`
	Answer   json.RawMessage `json:"answer"`
	Category json.RawMessage `json:"category"`
	Order    json.RawMessage `json:"order"`
	IsActive json.RawMessage `json:"isActive"`
}

type rawTestimonial struct {
	ID       json.RawMessage `json:"_id"`
	Name     json.RawMessage `json:"name"`
	Role     json.RawMessage `json:"role"`
	Company  json.RawMessage `json:"company"`
	Quote    json.RawMessage `json:"quote"`
	Image    json.RawMessage `json:"image"`
	Rating   json.RawMessage `json:"rating"`
	Featured json.RawMessage `json:"featured"`
	Order    json.RawMessage `json:"order"`
	IsActive json.RawMessage `json:"isActive"`
}

// Carousel 过滤未启用的轮播项，并按 order 升序稳定排序。
func (m *Mapper) Carousel(raw json.RawMessage) ([]model.CarouselItem, error) {
	items, err := mapList(m, collectionCarousel, raw, func(r rawCarouselItem, f fields) (model.CarouselItem, error) {
		if err := f.active(r.IsActive); err != nil {
			return model.CarouselItem{}, err
		}
		id, err := f.required(r.ID, "_id")
		if err != nil {
			return model.CarouselItem{}, err
		}
		title, err := f.required(r.Title, "title")
		if err != nil {
			return model.CarouselItem{}, err
		}
		return model.CarouselItem{
			ID:          id,
			Title:       title,
			Subtitle:    f.optString(r.Subtitle, "subtitle"),
			Description: f.optString(r.Description, "description"),
			Image:       parseImage(r.Image),
			ButtonText:  f.optString(r.ButtonText, "buttonText"),
			ButtonLink:  f.optString(r.ButtonLink, "buttonLink"),
			Order:       f.optInt(r.Order, "order"),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(items, func(a, b model.CarouselItem) int {
		return compareOrder(a.Order, b.Order)
	})
	return items, nil
}

// FAQ filters inactive questions and orders by ascending order.
func (m *Mapper) FAQ(raw json.RawMessage) ([]model.FAQItem, error) {
	items, err := mapList(m, collectionFAQ, raw, func(r rawFAQItem, f fields) (model.FAQItem, error) {
		if err := f.active(r.IsActive); err != nil {
			return model.FAQItem{}, err
		}
		id, err := f.required(r.ID, "_id")
		if err != nil {
			return model.FAQItem{}, err
		}
		question, err := f.required(r.Question, "question")
		if err != nil {
			return model.FAQItem{}, err
		}
		return model.FAQItem{
			ID:       id,
			Question: question,
			Answer:   f.optString(r.Answer, "answer"),
			Category: f.optString(r.Category, "category"),
			Order:    f.optInt(r.Order, "order"),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(items, func(a, b model.FAQItem) int {
		return compareOrder(a.Order, b.Order)
	})
	return items, nil
}

// Testimonials 过滤未启用项，featured 在前，组内按 order 升序。
func (m *Mapper) Testimonials(raw json.RawMessage) ([]model.TestimonialItem, error) {
	items, err := mapList(m, collectionTestimonials, raw, func(r rawTestimonial, f fields) (model.TestimonialItem, error) {
		if err := f.active(r.IsActive); err != nil {
			return model.TestimonialItem{}, err
		}
		id, err := f.required(r.ID, "_id")
		if err != nil {
			return model.TestimonialItem{}, err
		}
		name, err := f.required(r.Name, "name")
		if err != nil {
			return model.TestimonialItem{}, err
		}

		item := model.TestimonialItem{
			ID:       id,
			Name:     name,
			Role:     f.optString(r.Role, "role"),
			Company:  f.optString(r.Company, "company"),
			Quote:    f.optString(r.Quote, "quote"),
			Image:    parseImage(r.Image),
			Featured: f.flag(r.Featured, "featured"),
			Order:    f.optInt(r.Order, "order"),
		}
		if rating := f.optNumber(r.Rating, "rating"); rating != nil {
			if v, ok := boundedRating(*rating); ok {
				item.Rating = &v
			} else {
				m.anomaly(collectionTestimonials, id, fmt.Sprintf("rating %v out of range", *rating))
			}
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(items, compareTestimonials)
	return items, nil
}

func compareTestimonials(a, b model.TestimonialItem) int {
	if a.Featured != b.Featured {
		if a.Featured {
			return -1
		}
		return 1
	}
	return compareOrder(a.Order, b.Order)
}

func boundedRating(v float64) (int, bool) {
	if v != float64(int(v)) {
		return 0, false
	}
	rating := int(v)
	if rating < model.MinRating || rating > model.MaxRating {
		return 0, false
	}
	return rating, true
}

// GroupFAQ regroups items by category without changing their relative order. Groups appear in
// order of first occurrence; uncategorized items share the "" group.
func GroupFAQ(items []model.FAQItem) []model.FAQGroup {
	groups := make([]model.FAQGroup, 0)
	index := make(map[string]int)

	for _, item := range items {
		key := ""
		if item.Category != nil {
			key = *item.Category
		}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, model.FAQGroup{Category: key})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

// SortedCategories returns the distinct FAQ categories alphabetically.
func SortedCategories(items []model.FAQItem) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		if item.Category == nil {
			continue
		}
		if _, ok := seen[*item.Category]; ok {
			continue
		}
		seen[*item.Category] = struct{}{}
		out = append(out, *item.Category)
	}
	slices.SortFunc(out, cmp.Compare[string])
	return out
}
