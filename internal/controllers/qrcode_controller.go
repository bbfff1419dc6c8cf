package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"shortr-be/internal/service"
)

type QRCodeController struct {
	urlService service.URLService
}

func NewQRCodeController(urlService service.URLService) *QRCodeController {
	return &QRCodeController{
		urlService: urlService,
	}
}

// GenerateQRCode handles GET /api/url/qrcode/:shortCode - generates a QR code
// for the rendered short link
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	shortCode := c.Param("shortCode")
	if shortCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Short code is required"})
		return
	}

	pngData, err := qrcode.Encode(qc.urlService.ShortURL(shortCode), qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
