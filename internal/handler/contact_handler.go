package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyhub/internal/contact"
)

// GetContact returns the contact target for the page at ?path=. Every call is a fresh
// navigation event; nothing is remembered between requests.
func (a *API) GetContact(c *gin.Context) {
	widget := contact.NewWidget(a.contacts.defaultTarget, a.contacts.studyAbroadTarget)
	target := widget.Navigate(c.DefaultQuery("path", "/"))

	c.JSON(http.StatusOK, gin.H{
		"state":  widget.State().String(),
		"target": target,
	})
}
