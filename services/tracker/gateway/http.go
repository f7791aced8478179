package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	appctx "github.com/piresc/payon/internal/pkg/context"
	httpclient "github.com/piresc/payon/internal/pkg/http"
	"github.com/piresc/payon/internal/pkg/lifecycle"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/internal/pkg/riskcodes"
	"github.com/shopspring/decimal"
)

const (
	opCreateTransaction = "create_transaction"
	opGetStatus         = "get_status"
	opUpdateComment     = "update_comment"
)

// Comment failure messages shown when the backend gives no detail
const (
	msgCommentUpdateFailed = "Échec de la mise à jour"
	msgNetworkError        = "Erreur réseau. Réessayez."
)

// HTTPGateway calls the payment backend REST API
type HTTPGateway struct {
	client *httpclient.Client
}

// NewHTTPGateway creates a backend gateway on top of a resilient client
func NewHTTPGateway(client *httpclient.Client) *HTTPGateway {
	return &HTTPGateway{client: client}
}

type createTransactionBody struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Comment   string          `json:"comment,omitempty"`
}

// transactionResponse mirrors the backend's lite transaction payload
type transactionResponse struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Direction     string          `json:"direction"`
	Status        string          `json:"status"`
	RecipientName string          `json:"recipient_name"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Comment       string          `json:"comment"`
}

// backendError is the error body returned by the backend
type backendError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// CreateTransaction submits a transfer; a refusal becomes *models.CreationRejectedError
func (g *HTTPGateway) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	if appctx.GetToken(ctx) == "" {
		return nil, models.ErrUnauthenticated
	}

	currency := req.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	body := createTransactionBody{
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Currency:  strings.ToUpper(currency),
		Comment:   strings.TrimSpace(req.Comment),
	}

	var resp transactionResponse
	if err := g.client.PostJSON(ctx, opCreateTransaction, "/transactions", body, &resp); err != nil {
		return nil, mapCreateError(err)
	}

	status, ok := lifecycle.Parse(resp.Status)
	if !ok {
		status = models.TransactionStatusPending
	}
	return &models.Transaction{
		ID:           resp.TransactionID,
		Amount:       resp.Amount,
		Currency:     resp.Currency,
		Counterparty: resp.RecipientName,
		Direction:    models.TransactionDirection(strings.ToUpper(resp.Direction)),
		Status:       status,
		CreatedAt:    resp.CreatedAt,
		Comment:      resp.Comment,
	}, nil
}

func mapCreateError(err error) error {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) || he.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	if he.StatusCode == http.StatusUnauthorized {
		return models.ErrUnauthenticated
	}

	var body backendError
	_ = json.Unmarshal(he.Body, &body)
	if body.Code == "" {
		msg := body.Detail
		if msg == "" {
			msg = http.StatusText(he.StatusCode)
		}
		return &models.CreationRejectedError{Code: fmt.Sprintf("HTTP_%d", he.StatusCode), Message: msg}
	}

	if !riskcodes.Known(body.Code) {
		logger.Warn("Backend returned a rule code missing from the message table",
			logger.String("code", body.Code),
			logger.String("table_version", riskcodes.TableVersion))
	}
	return &models.CreationRejectedError{Code: body.Code, Message: riskcodes.Message(body.Code)}
}

// GetStatus fetches the authoritative status. Unknown wire values are kept
// upper-cased so that reconciliation can report them.
func (g *HTTPGateway) GetStatus(ctx context.Context, transactionID string) (*models.StatusResponse, error) {
	if appctx.GetToken(ctx) == "" {
		return nil, models.ErrUnauthenticated
	}

	var resp transactionResponse
	endpoint := "/transactions/" + url.PathEscape(transactionID)
	if err := g.client.GetJSON(ctx, opGetStatus, endpoint, &resp); err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			switch he.StatusCode {
			case http.StatusNotFound:
				return nil, models.ErrTransactionNotFound
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, models.ErrUnauthenticated
			}
		}
		return nil, fmt.Errorf("%w: status fetch: %w", models.ErrChannelFailure, err)
	}

	status, ok := lifecycle.Parse(resp.Status)
	if !ok {
		status = models.TransactionStatus(strings.ToUpper(strings.TrimSpace(resp.Status)))
	}
	updatedAt := resp.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = resp.CreatedAt
	}
	return &models.StatusResponse{
		TransactionID: transactionID,
		Status:        status,
		UpdatedAt:     updatedAt,
	}, nil
}

// UpdateComment sends an already validated comment. Any failure becomes a
// *models.CommentRejectedError flagged as remote.
func (g *HTTPGateway) UpdateComment(ctx context.Context, transactionID, comment string) error {
	if appctx.GetToken(ctx) == "" {
		return models.ErrUnauthenticated
	}

	endpoint := "/transactions/" + url.PathEscape(transactionID) + "/comment"
	body := map[string]string{"comment": comment}
	err := g.client.PatchJSON(ctx, opUpdateComment, endpoint, body, nil)
	if err == nil {
		return nil
	}

	var he *httpclient.HTTPError
	if !errors.As(err, &he) || he.StatusCode >= http.StatusInternalServerError {
		logger.Warn("Comment update failed",
			logger.TransactionID(transactionID),
			logger.Err(err))
		return &models.CommentRejectedError{Reason: msgNetworkError, Remote: true}
	}
	if he.StatusCode == http.StatusUnauthorized {
		return models.ErrUnauthenticated
	}
	if he.StatusCode == http.StatusNotFound {
		return models.ErrTransactionNotFound
	}

	var be backendError
	if json.Unmarshal(he.Body, &be) != nil || be.Detail == "" {
		be.Detail = msgCommentUpdateFailed
	}
	return &models.CommentRejectedError{Reason: be.Detail, Remote: true}
}
