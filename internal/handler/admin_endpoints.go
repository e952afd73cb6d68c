package handler

import (
	"net/http"

	"meditation-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// adminListMeditations godoc
// @Summary Все заявки
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Param cursor query string false "Курсор страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} handler.PaginatedResponse{data=[]handler.MeditationResponse}
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/meditations [get]
func (h *MeditationHandler) adminListMeditations(c *gin.Context) {
	cursor, limit, ok := parsePage(c)
	if !ok {
		return
	}
	var status *models.Status
	if raw := c.Query("status"); raw != "" {
		s := models.Status(raw)
		status = &s
	}

	items, next, err := h.meditations.AdminList(c.Request.Context(), status, cursor, limit)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Data: toMeditationResponses(items), NextCursor: next})
}

// adminGetMeditation godoc
// @Summary Заявка любого пользователя
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 200 {object} handler.MeditationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/meditations/{id} [get]
func (h *MeditationHandler) adminGetMeditation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	m, err := h.meditations.AdminGet(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, toMeditationResponse(m))
}

// adminMarkRefunded godoc
// @Summary Отметить возврат оплаты упавшей заявки
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 200 {object} handler.MeditationResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/meditations/{id}/refund [post]
func (h *MeditationHandler) adminMarkRefunded(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	m, err := h.payments.MarkRefunded(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	h.logger.Info("Admin marked payment refunded", zap.String("meditationID", id.String()))
	c.JSON(http.StatusOK, toMeditationResponse(m))
}
