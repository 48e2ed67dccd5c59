package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-contact/internal/i18n"
	"portfolio-contact/pkg/models"
)

type I18nHandler struct {
	Catalog *i18n.Catalog
}

func NewI18nHandler(catalog *i18n.Catalog) *I18nHandler {
	return &I18nHandler{Catalog: catalog}
}

func (h *I18nHandler) GetCatalog(c *gin.Context) {
	lang := c.Param("lang")
	messages, ok := h.Catalog.Messages(lang)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unsupported locale", "supported": h.Catalog.Locales()})
		return
	}
	c.JSON(http.StatusOK, models.Catalog{
		Locale:    lang,
		Supported: h.Catalog.Locales(),
		Messages:  messages,
	})
}
