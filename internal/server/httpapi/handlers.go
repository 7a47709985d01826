package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/server/models"
	"github.com/studyvault/noteguard/internal/server/payments"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type issueSessionRequest struct {
	NoteID string `json:"noteId" binding:"required"`
}

type issueSessionResponse struct {
	SessionID  string    `json:"sessionId"`
	ViewToken  string    `json:"viewToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
	ContentURL string    `json:"contentUrl,omitempty"`
	TotalPages int       `json:"totalPages"`
}

func (s *Server) issueSession(c *gin.Context) {

	var req issueSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}

	userID := c.GetString(ctxUserIDKey)

	issued, err := s.sessions.Issue(c.Request.Context(), userID, req.NoteID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPaymentRequired):
			c.JSON(http.StatusForbidden, gin.H{"error": "REQUIRES_PAYMENT"})
		case errors.Is(err, common.ErrAccountBlocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "DENY"})
		case errors.Is(err, common.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
		default:
			s.logger.Error(c.Request.Context(), "session issue failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		}
		return
	}

	c.JSON(http.StatusOK, issueSessionResponse{
		SessionID:  issued.Session.ID,
		ViewToken:  issued.ViewToken,
		ExpiresAt:  issued.Session.ExpiresAt,
		ContentURL: issued.ContentURL,
		TotalPages: issued.TotalPages,
	})
}

func (s *Server) getWatermark(c *gin.Context) {

	session := c.MustGet(ctxSessionKey).(*models.ViewSession)

	profile, err := s.users.GetByID(c.Request.Context(), session.UserID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "profile lookup failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		return
	}

	resp, err := s.signer.Build(session, profile)
	if err != nil {
		s.logger.Error(c.Request.Context(), "watermark build failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

type reportProgressRequest struct {
	LastPage          int `json:"lastPage"`
	CompletionPercent int `json:"completionPercent"`
}

func (s *Server) reportProgress(c *gin.Context) {

	var req reportProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}

	session := c.MustGet(ctxSessionKey).(*models.ViewSession)

	err := s.progress.Record(c.Request.Context(), session.UserID, session.NoteID,
		req.LastPage, req.CompletionPercent)
	if err != nil {
		// The caller drops failures silently and retries next tick; still
		// log and signal so clients can distinguish ack from non-ack.
		s.logger.Warn(c.Request.Context(), "progress record failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

func (s *Server) getProgress(c *gin.Context) {

	userID := c.GetString(ctxUserIDKey)
	noteID := c.Param("noteId")

	rec, err := s.progress.Get(c.Request.Context(), userID, noteID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"noteId":            rec.NoteID,
		"lastPage":          rec.LastPage,
		"completionPercent": rec.CompletionPercent,
		"updatedAt":         rec.UpdatedAt,
	})
}

type createOrderRequest struct {
	PlanID     string `json:"planId" binding:"required"`
	CouponCode string `json:"couponCode"`
}

func (s *Server) createOrder(c *gin.Context) {

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}

	userID := c.GetString(ctxUserIDKey)

	intent, err := s.payments.CreateOrder(c.Request.Context(), userID, req.PlanID, req.CouponCode)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		s.logger.Error(c.Request.Context(), "order create failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":               intent.OrderID,
		"merchantTransactionId": intent.MerchantTxID,
		"redirectUrl":           intent.RedirectURL,
		"amountPaise":           intent.AmountPaise,
		"finalAmountPaise":      intent.FinalAmountPaise,
	})
}

func (s *Server) getOrderStatus(c *gin.Context) {

	mtxID := c.Param("merchantTransactionId")

	order, err := s.payments.GetOrderStatus(c.Request.Context(), mtxID)
	if err != nil {
		if errors.Is(err, common.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ORDER_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		return
	}

	c.JSON(http.StatusOK, orderJSON(order))
}

func (s *Server) providerWebhook(c *gin.Context) {

	var ev payments.ProviderEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}

	if err := s.payments.ApplyProviderEvent(c.Request.Context(), ev); err != nil {
		switch {
		case errors.Is(err, common.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ORDER_NOT_FOUND"})
		case errors.Is(err, common.ErrInvalidTransition):
			// Duplicate or out-of-order callback; acknowledged so the
			// provider stops retrying, but nothing changed.
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		default:
			s.logger.Error(c.Request.Context(), "webhook apply failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func orderJSON(o *models.PaymentOrder) gin.H {
	out := gin.H{
		"orderId":               o.ID,
		"merchantTransactionId": o.MerchantTxID,
		"planId":                o.PlanID,
		"status":                string(o.Status),
		"amountPaise":           o.AmountPaise,
		"finalAmountPaise":      o.FinalAmountPaise,
		"createdAt":             o.CreatedAt,
	}
	if o.CompletedAt != nil {
		out["completedAt"] = *o.CompletedAt
	}
	return out
}
