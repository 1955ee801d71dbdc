package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/core/domain"
	"github.com/chatcord/chat-api/internal/core/ports"
)

type ServerHandler struct {
	serverService  ports.ServerService
	channelService ports.ChannelService
}

func NewServerHandler(serverService ports.ServerService, channelService ports.ChannelService) *ServerHandler {
	return &ServerHandler{serverService: serverService, channelService: channelService}
}

// Create
//
// @Summary      Create a server
// @Tags         servers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServerRequest  true  "Server details"
// @Success      201   {object}  domain.Server
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /servers [post]
func (h *ServerHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req createServerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	srv, err := h.serverService.Create(c.Request().Context(), ports.CreateServerInput{
		OwnerID: user.ID,
		Name:    req.Name,
		Icon:    req.Icon,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, srv)
}

// List returns the servers the caller belongs to.
//
// @Summary      List own servers
// @Tags         servers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Server
// @Failure      401  {object}  ErrorResponse
// @Router       /servers [get]
func (h *ServerHandler) List(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	servers, err := h.serverService.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, servers)
}

// Get returns a server with its members and channels. Members only.
//
// @Summary      Get a server
// @Tags         servers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server ID"
// @Success      200  {object}  ports.ServerDetail
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /servers/{id} [get]
func (h *ServerHandler) Get(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	detail, err := h.serverService.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Join
//
// @Summary      Join a server
// @Tags         servers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /servers/{id}/join [post]
func (h *ServerHandler) Join(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.serverService.Join(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "joined server"})
}

// Leave
//
// @Summary      Leave a server
// @Tags         servers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /servers/{id}/leave [delete]
func (h *ServerHandler) Leave(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.serverService.Leave(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "left server"})
}

// Delete removes an owned server and everything in it.
//
// @Summary      Delete a server
// @Tags         servers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Server ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /servers/{id} [delete]
func (h *ServerHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.serverService.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "server deleted successfully"})
}

// CreateChannel adds a channel to an owned server.
//
// @Summary      Create a server channel
// @Tags         servers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Server ID"
// @Param        body  body      createChannelRequest  true  "Channel details"
// @Success      201   {object}  domain.Channel
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /servers/{id}/channels [post]
func (h *ServerHandler) CreateChannel(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req createChannelRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ch, err := h.channelService.CreateServerChannel(c.Request().Context(), ports.CreateChannelInput{
		ActorID:  user.ID,
		ServerID: c.Param("id"),
		Name:     req.Name,
		Type:     domain.ChannelType(req.Type),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ch)
}
