package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/internal/logging"
	"github.com/studyhub/internal/mapper"
	"github.com/studyhub/internal/model"
	"github.com/studyhub/internal/service"
	"go.uber.org/zap"
)

// PreviewSecretHeader authorizes draft previews.
const PreviewSecretHeader = "X-Preview-Secret"

// GetHome returns every homepage section. A failed section is rendered as an empty list and
// reported under "errors"; the response itself still succeeds.
func (a *API) GetHome(c *gin.Context) {
	home := a.content.Home(c.Request.Context())

	sectionErrors := gin.H{}
	for section, err := range home.Errors {
		c.Error(err)
		sectionErrors[section] = err.Error()
		a.logger.Warn("home section failed",
			zap.String("request_id", logging.RequestID(c)),
			zap.String("section", section),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"carousel":      home.Carousel,
		"faqs":          home.FAQ,
		"faqGroups":     mapper.GroupFAQ(home.FAQ),
		"testimonials":  home.Testimonials,
		"featuredPosts": home.FeaturedPosts,
		"errors":        sectionErrors,
	})
}

// GetCarousel 返回首页轮播数据。
func (a *API) GetCarousel(c *gin.Context) {
	items, err := a.content.Carousel(c.Request.Context())
	if err != nil {
		a.respondContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetFAQs returns active questions; grouped=1 adds the per-category regrouping.
func (a *API) GetFAQs(c *gin.Context) {
	items, err := a.content.FAQ(c.Request.Context(), service.FAQFilter{Category: c.Query("category")})
	if err != nil {
		a.respondContentError(c, err)
		return
	}

	payload := gin.H{
		"items":      items,
		"categories": mapper.SortedCategories(items),
	}
	if parseBoolQuery(c, "grouped") {
		payload["groups"] = mapper.GroupFAQ(items)
	}
	c.JSON(http.StatusOK, payload)
}

// GetTestimonials 返回用户评价。
func (a *API) GetTestimonials(c *gin.Context) {
	items, err := a.content.Testimonials(c.Request.Context())
	if err != nil {
		a.respondContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetPosts lists published posts.
func (a *API) GetPosts(c *gin.Context) {
	filter := service.PostFilter{
		Category:     strings.TrimSpace(c.Query("category")),
		FeaturedOnly: parseBoolQuery(c, "featured"),
		Limit:        parsePositiveInt(c.DefaultQuery("limit", "0"), 0),
	}

	posts, err := a.content.Posts(c.Request.Context(), filter)
	if err != nil {
		a.respondContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": posts})
}

// GetPost returns a single post. preview=1 requires the preview secret header.
func (a *API) GetPost(c *gin.Context) {
	preview := parseBoolQuery(c, "preview")
	if preview && !a.previewAllowed(c) {
		respondError(c, http.StatusUnauthorized, "preview not authorized")
		return
	}
	if preview {
		c.Header("Cache-Control", "no-store")
	}

	post, err := a.content.PostBySlug(c.Request.Context(), c.Param("slug"), preview)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		a.respondContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// GetAuthors 返回作者列表。
func (a *API) GetAuthors(c *gin.Context) {
	authors, err := a.content.Authors(c.Request.Context())
	if err != nil {
		a.respondContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": authors})
}

// GetAuthor returns a single author.
func (a *API) GetAuthor(c *gin.Context) {
	author, err := a.content.AuthorBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			respondError(c, http.StatusNotFound, "author not found")
			return
		}
		a.respondContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"author": author})
}

// GetCategories 返回文章分类。
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.content.Categories(c.Request.Context())
	if err != nil {
		a.respondContentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":  categories,
		"colors": model.CategoryColors(),
	})
}

func (a *API) previewAllowed(c *gin.Context) bool {
	if a.previewSecret == "" {
		return false
	}
	given := c.GetHeader(PreviewSecretHeader)
	return subtle.ConstantTimeCompare([]byte(given), []byte(a.previewSecret)) == 1
}
