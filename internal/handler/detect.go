package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/metrics"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/middleware"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/normalize"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/service"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/store"
)

type DetectHandler struct {
	ai      *service.AIService
	store   *store.Store
	metrics *metrics.Recorder
}

func NewDetectHandler(ai *service.AIService, st *store.Store, m *metrics.Recorder) *DetectHandler {
	return &DetectHandler{ai: ai, store: st, metrics: m}
}

// POST /functions/v1/detect-disease  body: {"imageUrl":"..."}
func (h *DetectHandler) Detect(c *gin.Context) {
	var req model.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validImageURL(req.ImageURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl must be an http(s) or data URL"})
		return
	}
	ctx := c.Request.Context()
	uid := middleware.UserID(c)

	answer, err := h.ai.DetectDisease(ctx, req.ImageURL)
	if err != nil {
		status, msg := aiFailure(err, "Failed to detect disease")
		h.metrics.Refresh("detect", metrics.OutcomeError, 0)
		logger.Error("detect.failed", "uid", uid, "status", status, "err", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	result := normalize.ParseStructuredAnswer(answer)
	h.metrics.Refresh("detect", metrics.OutcomeSuccess, 1)
	logger.Info("detect.done", "uid", uid, "disease", result.Disease, "confidence", result.Confidence)

	if uid != "" {
		row := &model.DiseaseDetection{
			UserID:          uid,
			ImageURL:        req.ImageURL,
			DiseaseName:     result.Disease,
			Confidence:      result.Confidence,
			Treatment:       result.Treatment,
			Recommendations: result.Recommendations,
		}
		if err := h.store.SaveDetection(ctx, row); err != nil {
			h.metrics.StoreError("disease_detections")
			logger.Error("detect.store", "uid", uid, "err", err)
		}
	}
	c.JSON(http.StatusOK, result)
}

func validImageURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:image/") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
