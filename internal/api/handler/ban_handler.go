package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/api/metrics"
	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

// BanHandler serves the moderation routes. Routes are expected behind an
// Auth middleware restricted to moderators and admins.
type BanHandler struct {
	banService ports.BanService
}

func NewBanHandler(banService ports.BanService) *BanHandler {
	return &BanHandler{banService: banService}
}

// Permanent bans a user with no expiry.
//
// @Summary      Ban a user permanently
// @Tags         bans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string               true  "User ID"
// @Param        body    body      permanentBanRequest  true  "Ban reason"
// @Success      201     {object}  banResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /auth/{userId}/ban/permanent [post]
func (h *BanHandler) Permanent(c echo.Context) error {
	var req permanentBanRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ban, err := h.banService.IssuePermanent(c.Request().Context(), c.Param("userId"), req.Reason)
	if err != nil {
		return err
	}

	metrics.BansIssuedTotal.WithLabelValues(domain.BanPermanent).Inc()
	return c.JSON(http.StatusCreated, banResponse{Message: "user banned permanently", Ban: ban})
}

// Temporary bans a user for a number of minutes.
//
// @Summary      Ban a user temporarily
// @Tags         bans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string               true  "User ID"
// @Param        body    body      temporaryBanRequest  true  "Ban reason and duration"
// @Success      201     {object}  banResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /auth/{userId}/ban/temporary [post]
func (h *BanHandler) Temporary(c echo.Context) error {
	var req temporaryBanRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ban, err := h.banService.IssueTemporary(c.Request().Context(), c.Param("userId"), req.Reason, req.DurationInMinutes)
	if err != nil {
		return err
	}

	metrics.BansIssuedTotal.WithLabelValues(domain.BanTemporary).Inc()
	return c.JSON(http.StatusCreated, banResponse{Message: "user banned temporarily", Ban: ban})
}

// Status reports whether a user is currently banned.
//
// @Summary      Current ban status
// @Tags         bans
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  domain.BanStatus
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /auth/{userId}/ban [get]
func (h *BanHandler) Status(c echo.Context) error {
	status, err := h.banService.Status(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

// History lists every ban issued to a user, newest first.
//
// @Summary      Ban history
// @Tags         bans
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {array}   domain.Ban
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /auth/{userId}/bans [get]
func (h *BanHandler) History(c echo.Context) error {
	bans, err := h.banService.History(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bans)
}
