package handler

import (
	"net/http"

	"meditation-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// createPayment godoc
// @Summary Создать платеж у провайдера
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body handler.createPaymentRequest true "Провайдер: card или wallet"
// @Success 201 {object} models.Charge
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /meditations/{id}/payments [post]
func (h *MeditationHandler) createPayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()})
		return
	}

	charge, err := h.payments.CreatePayment(c.Request.Context(), userID, id, models.PaymentProvider(req.Provider))
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, charge)
}

// confirmPayment godoc
// @Summary Подтвердить платеж
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body handler.confirmPaymentRequest true "Ссылка провайдера"
// @Success 200 {object} handler.MeditationResponse
// @Failure 402 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /meditations/{id}/payments/confirm [post]
func (h *MeditationHandler) confirmPayment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()})
		return
	}

	m, err := h.payments.ConfirmPayment(c.Request.Context(), userID, id, req.ProviderRef)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, toMeditationResponse(m))
}

// startFulfillment godoc
// @Summary Запустить озвучку и доставку
// @Tags fulfillment
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 202 {object} handler.MeditationResponse
// @Failure 402 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /meditations/{id}/fulfill [post]
func (h *MeditationHandler) startFulfillment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	m, err := h.fulfillment.StartFulfillment(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	h.logger.Info("Fulfillment accepted", zap.String("meditationID", id.String()))
	c.JSON(http.StatusAccepted, toMeditationResponse(m))
}
