package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	appctx "github.com/piresc/payon/internal/pkg/context"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/internal/utils"
	"github.com/piresc/payon/services/tracker"
)

// TransactionHandler handles HTTP requests for transfers and their status
type TransactionHandler struct {
	trackerUC tracker.TrackerUC
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(trackerUC tracker.TrackerUC) *TransactionHandler {
	return &TransactionHandler{trackerUC: trackerUC}
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req models.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for transaction creation",
			logger.Err(err),
			logger.String("endpoint", "CreateTransaction"))
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	tx, err := h.trackerUC.CreateTransaction(appctx.FromEcho(c), &req)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusCreated, "Transaction created", tx)
}

// GetStatus handles GET /api/transactions/:id/status
func (h *TransactionHandler) GetStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}

	view, err := h.trackerUC.GetView(appctx.FromEcho(c), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "", view)
}

// UpdateComment handles PATCH /api/transactions/:id/comment
func (h *TransactionHandler) UpdateComment(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return utils.BadRequestResponse(c, "Invalid transaction ID")
	}
	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	if err := h.trackerUC.UpdateComment(appctx.FromEcho(c), id, req.Comment); err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, http.StatusOK, "Commentaire mis à jour", nil)
}

// ListDiagnostics handles GET /api/transactions/:id/diagnostics
func (h *TransactionHandler) ListDiagnostics(c echo.Context) error {
	id := c.Param("id")
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return utils.BadRequestResponse(c, "Invalid limit")
		}
		limit = n
	}

	diags, err := h.trackerUC.Diagnostics(appctx.FromEcho(c), id, limit)
	if err != nil {
		return h.respondError(c, err)
	}
	if diags == nil {
		diags = []models.Diagnostic{}
	}
	return utils.SuccessResponse(c, http.StatusOK, "", diags)
}

// respondError maps domain errors to HTTP responses
func (h *TransactionHandler) respondError(c echo.Context, err error) error {
	var (
		rejected *models.CreationRejectedError
		comment  *models.CommentRejectedError
	)
	switch {
	case errors.As(err, &rejected):
		return utils.RejectedResponse(c, rejected.Code, rejected.Message)
	case errors.As(err, &comment):
		if comment.Remote {
			return utils.BadGatewayResponse(c, comment.Reason)
		}
		return utils.BadRequestResponse(c, comment.Reason)
	case errors.Is(err, models.ErrInvalidRequest):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		return utils.UnauthorizedResponse(c, "")
	case errors.Is(err, models.ErrTransactionNotFound):
		return utils.NotFoundResponse(c, "Transaction introuvable")
	case errors.Is(err, models.ErrChannelFailure), errors.Is(err, models.ErrInvalidTransition):
		logger.WarnCtx(c.Request().Context(), "Backend call failed",
			logger.String("path", c.Path()),
			logger.Err(err))
		return utils.BadGatewayResponse(c, "")
	default:
		logger.ErrorCtx(c.Request().Context(), "Unexpected tracker error",
			logger.String("path", c.Path()),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, "")
	}
}
