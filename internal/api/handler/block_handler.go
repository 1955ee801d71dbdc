package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatcord/chat-api/internal/core/ports"
)

type BlockHandler struct {
	blockService ports.BlockService
}

func NewBlockHandler(blockService ports.BlockService) *BlockHandler {
	return &BlockHandler{blockService: blockService}
}

// Block
//
// @Summary      Block a user
// @Tags         blocks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /block/{id} [post]
func (h *BlockHandler) Block(c echo.Context) error {
	return applyLedgerOp(c, h.blockService.Block, "block", "user blocked")
}

// Unblock
//
// @Summary      Unblock a user
// @Tags         blocks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /block/{id} [delete]
func (h *BlockHandler) Unblock(c echo.Context) error {
	return applyLedgerOp(c, h.blockService.Unblock, "unblock", "user unblocked")
}

// List
//
// @Summary      List blocked users
// @Tags         blocks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PublicUser
// @Failure      401  {object}  ErrorResponse
// @Router       /block [get]
func (h *BlockHandler) List(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	blocked, err := h.blockService.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blocked)
}
