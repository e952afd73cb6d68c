package handler

import (
	"net/http"

	"meditation-server/internal/models"
	"meditation-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getCatalog godoc
// @Summary Каталог голосов и фонов
// @Tags catalog
// @Produce json
// @Success 200 {object} handler.catalogResponse
// @Router /catalog [get]
func (h *MeditationHandler) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, catalogResponse{
		Voices:             models.AllVoices(),
		Backgrounds:        models.AllBackgrounds(),
		MinDurationMinutes: models.MinDurationMinutes,
		MaxDurationMinutes: models.MaxDurationMinutes,
		PriceCents:         h.opts.PriceCents,
		Currency:           h.opts.Currency,
		PaymentProviders:   h.opts.PaymentProviders,
	})
}

// createMeditation godoc
// @Summary Создать заявку на медитацию
// @Tags meditations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body handler.createMeditationRequest true "Параметры медитации"
// @Success 201 {object} handler.MeditationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /meditations [post]
func (h *MeditationHandler) createMeditation(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req createMeditationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid create meditation payload", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()})
		return
	}

	m, err := h.meditations.Create(c.Request.Context(), userID, service.CreateMeditationInput{
		Input: models.MeditationInput{
			Goal:            req.Goal,
			Mood:            req.Mood,
			Challenges:      req.Challenges,
			Affirmations:    req.Affirmations,
			DurationMinutes: req.DurationMinutes,
			Voice:           models.Voice(req.Voice),
			Background:      models.Background(req.Background),
		},
		Contact: models.Contact{Email: req.Email, Phone: req.Phone, PushToken: req.PushToken},
	})
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, toMeditationResponse(m))
}

// listMyMeditations godoc
// @Summary Заявки текущего пользователя
// @Tags meditations
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Курсор страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} handler.PaginatedResponse{data=[]handler.MeditationResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /meditations [get]
func (h *MeditationHandler) listMyMeditations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	cursor, limit, ok := parsePage(c)
	if !ok {
		return
	}

	items, next, err := h.meditations.ListMine(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Data: toMeditationResponses(items), NextCursor: next})
}

// getMeditation godoc
// @Summary Статус заявки
// @Tags meditations
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 200 {object} handler.MeditationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /meditations/{id} [get]
func (h *MeditationHandler) getMeditation(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	m, err := h.meditations.GetStatus(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, toMeditationResponse(m))
}

// generateScript godoc
// @Summary Сгенерировать сценарий
// @Tags scripts
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Success 200 {object} handler.MeditationResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /meditations/{id}/script [post]
func (h *MeditationHandler) generateScript(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	m, err := h.meditations.GenerateScript(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, toMeditationResponse(m))
}

// updateScript godoc
// @Summary Сохранить правку сценария
// @Tags scripts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body handler.updateScriptRequest true "Новый текст"
// @Success 200 {object} handler.MeditationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /meditations/{id}/script [put]
func (h *MeditationHandler) updateScript(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req updateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()})
		return
	}

	m, err := h.meditations.UpdateScript(c.Request.Context(), userID, id, req.Text)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, toMeditationResponse(m))
}

// rewriteScript godoc
// @Summary Переписать сценарий
// @Tags scripts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заявки"
// @Param request body handler.rewriteScriptRequest true "Подсказки тона и длины"
// @Success 200 {object} handler.rewriteResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /meditations/{id}/script/rewrite [post]
func (h *MeditationHandler) rewriteScript(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req rewriteScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()})
		return
	}

	res, err := h.meditations.RewriteScript(c.Request.Context(), userID, id, req.ToneHint, req.LengthHint, req.Apply)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, rewriteResponse{
		Text:       res.Text,
		Applied:    res.Applied,
		Meditation: toMeditationResponse(res.Meditation),
	})
}
