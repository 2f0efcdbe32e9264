package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/internal/cms"
	"github.com/studyhub/internal/logging"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondContentError maps content failures to HTTP statuses: transport failures are upstream
// problems (502), anything else is ours (500).
func (a *API) respondContentError(c *gin.Context, err error) {
	c.Error(err)
	a.logger.Error("content request failed",
		zap.String("request_id", logging.RequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	switch {
	case cms.IsTransportError(err):
		respondError(c, http.StatusBadGateway, "content store unavailable")
	case cms.IsQueryError(err):
		var qe *cms.QueryError
		errors.As(err, &qe)
		respondError(c, http.StatusInternalServerError, "content query failed: "+qe.Description)
	default:
		respondError(c, http.StatusInternalServerError, "failed to load content")
	}
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

func parseBoolQuery(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
