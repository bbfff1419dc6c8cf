package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortr-be/internal/middleware"
	"shortr-be/internal/models"
	"shortr-be/internal/service"
)

type ShortenerController struct {
	urlService service.URLService
}

func NewShortenerController(urlService service.URLService) *ShortenerController {
	return &ShortenerController{
		urlService: urlService,
	}
}

// CreateShortURL handles POST /api/url/shorten
func (sc *ShortenerController) CreateShortURL(c *gin.Context) {
	var req models.CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	response, err := sc.urlService.CreateShortURL(c.Request.Context(), &req, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidURL) || errors.Is(err, service.ErrUnreachableURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR: failed to create short URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// RedirectToURL handles GET /r/:shortCode
func (sc *ShortenerController) RedirectToURL(c *gin.Context) {
	shortCode := c.Param("shortCode")

	url, err := sc.urlService.GetByShortCode(c.Request.Context(), shortCode)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Printf("ERROR: failed to resolve %s: %v", shortCode, err)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found or expired"})
		return
	}

	// Click counting is best-effort relative to the redirect itself.
	if err := sc.urlService.IncrementClicks(shortCode); err != nil {
		log.Printf("Warning: failed to increment click count for %s: %v", shortCode, err)
	}

	c.Redirect(http.StatusFound, url.OriginalURL)
}

// GetURLStats handles GET /api/url/stats/:shortCode
func (sc *ShortenerController) GetURLStats(c *gin.Context) {
	shortCode := c.Param("shortCode")

	stats, err := sc.urlService.GetURLStats(shortCode)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Printf("ERROR: failed to load stats for %s: %v", shortCode, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAllURLs handles GET /api/url/all. Unauthenticated callers get an empty
// list rather than an error.
func (sc *ShortenerController) GetAllURLs(c *gin.Context) {
	urls, err := sc.urlService.GetUserURLs(middleware.UserID(c))
	if err != nil {
		log.Printf("ERROR: failed to list URLs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, urls)
}

// DeleteURL handles DELETE /api/url/:shortCode
func (sc *ShortenerController) DeleteURL(c *gin.Context) {
	shortCode := c.Param("shortCode")

	err := sc.urlService.DeleteURL(c.Request.Context(), shortCode, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
			return
		}
		log.Printf("ERROR: failed to delete %s: %v", shortCode, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "URL deleted successfully"})
}
