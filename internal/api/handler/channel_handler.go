package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/api/metrics"
	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

type ChannelHandler struct {
	channelService ports.ChannelService
}

func NewChannelHandler(channelService ports.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// OpenDM returns the direct-message channel with :userId, creating it on
// first use.
//
// @Summary      Open a direct message channel
// @Tags         channels
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Recipient user ID"
// @Success      200     {object}  domain.Channel
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /channels/dm/{userId} [post]
func (h *ChannelHandler) OpenDM(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	ch, err := h.channelService.OpenDM(c.Request().Context(), user.ID, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

// Send posts a message to a channel the caller can access.
//
// @Summary      Send a message
// @Tags         channels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Channel ID"
// @Param        body  body      sendMessageRequest  true  "Message content"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /channels/{id}/messages [post]
func (h *ChannelHandler) Send(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	msg, err := h.channelService.SendMessage(c.Request().Context(), user.ID, c.Param("id"), req.Content)
	if err != nil {
		return err
	}

	metrics.MessagesSentTotal.Inc()
	return c.JSON(http.StatusCreated, msg)
}

// History returns a page of messages, newest first.
//
// @Summary      Channel history
// @Tags         channels
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Channel ID"
// @Param        before  query     int     false  "Only messages before this time (epoch milliseconds)"
// @Param        limit   query     int     false  "Page size (default 50, max 100)"
// @Success      200     {array}   domain.Message
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /channels/{id}/messages [get]
func (h *ChannelHandler) History(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	in := ports.HistoryInput{ActorID: user.ID, ChannelID: c.Param("id")}

	if raw := c.QueryParam("before"); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.NewValidationError("before must be a timestamp in epoch milliseconds")
		}
		in.Before = time.UnixMilli(ms).UTC()
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return domain.NewValidationError("limit must be a number")
		}
		in.Limit = limit
	}

	msgs, err := h.channelService.History(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}
