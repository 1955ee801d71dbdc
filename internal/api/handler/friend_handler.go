package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/api/metrics"
	"github.com/chatcord/chat-api/internal/core/ports"
)

type FriendHandler struct {
	friendService ports.FriendService
}

func NewFriendHandler(friendService ports.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// Add sends a friend request to the user named by :id.
//
// @Summary      Send a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Receiver user ID"
// @Success      201  {object}  friendRequestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /friend/add/{id} [post]
func (h *FriendHandler) Add(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	req, err := h.friendService.Send(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.RelationshipOpsTotal.WithLabelValues("friend_send").Inc()
	return c.JSON(http.StatusCreated, friendRequestResponse{Message: "friend request sent", Request: req})
}

// Accept resolves an incoming request by id.
//
// @Summary      Accept a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friend request ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/accept/{id} [post]
func (h *FriendHandler) Accept(c echo.Context) error {
	return applyLedgerOp(c, h.friendService.Accept, "friend_accept", "friend request accepted")
}

// Deny
//
// @Summary      Deny a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friend request ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/deny/{id} [post]
func (h *FriendHandler) Deny(c echo.Context) error {
	return applyLedgerOp(c, h.friendService.Deny, "friend_deny", "friend request denied")
}

// Revoke cancels a request the caller sent.
//
// @Summary      Revoke a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friend request ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/revoke/{id} [delete]
func (h *FriendHandler) Revoke(c echo.Context) error {
	return applyLedgerOp(c, h.friendService.Revoke, "friend_revoke", "friend request revoked")
}

// Remove ends a friendship with the user named by :id.
//
// @Summary      Remove a friend
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Friend user ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/remove/{id} [post]
func (h *FriendHandler) Remove(c echo.Context) error {
	return applyLedgerOp(c, h.friendService.Remove, "friend_remove", "friend removed")
}

// Friends
//
// @Summary      List friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PublicUser
// @Failure      401  {object}  ErrorResponse
// @Router       /friend/friends [get]
func (h *FriendHandler) Friends(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	friends, err := h.friendService.ListFriends(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, friends)
}

// Incoming lists pending requests addressed to the caller.
//
// @Summary      List incoming friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.FriendRequestView
// @Failure      401  {object}  ErrorResponse
// @Router       /friend/requests [get]
func (h *FriendHandler) Incoming(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	reqs, err := h.friendService.ListIncoming(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reqs)
}

// Outgoing lists pending requests the caller sent.
//
// @Summary      List outgoing friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.FriendRequestView
// @Failure      401  {object}  ErrorResponse
// @Router       /friend/requests/outgoing [get]
func (h *FriendHandler) Outgoing(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	reqs, err := h.friendService.ListOutgoing(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reqs)
}

// ledgerOp is a friend or block mutation keyed by the caller and the :id
// path parameter.
type ledgerOp func(ctx context.Context, actorID, id string) error

func applyLedgerOp(c echo.Context, op ledgerOp, metric, msg string) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := op(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}

	metrics.RelationshipOpsTotal.WithLabelValues(metric).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
