package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	appctx "github.com/piresc/payon/internal/pkg/context"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/internal/utils"
	"github.com/piresc/payon/services/tracker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	c.Set("token", "tok")
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestCreateTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewTransactionHandler(uc)

	c, rec := newRequest(http.MethodPost, "/api/transactions", `{"recipient":"alice","amount":"12.50","comment":"merci"}`)
	uc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
			assert.Equal(t, "tok", appctx.GetToken(ctx))
			assert.Equal(t, "user-1", appctx.GetUserID(ctx))
			assert.Equal(t, "alice", req.Recipient)
			assert.Equal(t, "12.5", req.Amount.String())
			return &models.Transaction{ID: "tx-1", Status: models.TransactionStatusPending}, nil
		})

	require.NoError(t, h.CreateTransaction(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCreateTransaction_InvalidPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewTransactionHandler(mocks.NewMockTrackerUC(ctrl))

	c, rec := newRequest(http.MethodPost, "/api/transactions", `{"recipient":`)
	require.NoError(t, h.CreateTransaction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTransaction_RejectedByBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewTransactionHandler(uc)

	c, rec := newRequest(http.MethodPost, "/api/transactions", `{"recipient":"alice","amount":5000}`)
	uc.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil, &models.CreationRejectedError{
		Code:    "RULE_MAX_AMOUNT",
		Message: "Le montant dépasse le plafond autorisé pour une transaction.",
	})

	require.NoError(t, h.CreateTransaction(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp utils.RejectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RULE_MAX_AMOUNT", resp.Code)
	assert.Equal(t, "Le montant dépasse le plafond autorisé pour une transaction.", resp.Message)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"invalid request", fmt.Errorf("%w: amount must be positive", models.ErrInvalidRequest), http.StatusBadRequest},
		{"local comment rejection", &models.CommentRejectedError{Reason: "vide"}, http.StatusBadRequest},
		{"remote comment rejection", &models.CommentRejectedError{Reason: "Erreur réseau. Réessayez.", Remote: true}, http.StatusBadGateway},
		{"unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized},
		{"not found", models.ErrTransactionNotFound, http.StatusNotFound},
		{"channel failure", fmt.Errorf("%w: status fetch: boom", models.ErrChannelFailure), http.StatusBadGateway},
		{"unknown backend status", &models.TransitionError{From: "PENDING", To: "ESCALATED"}, http.StatusBadGateway},
		{"anything else", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockTrackerUC(ctrl)
			h := NewTransactionHandler(uc)

			c, rec := newRequest(http.MethodGet, "/api/transactions/tx-1/status", "")
			uc.EXPECT().GetView(gomock.Any(), "tx-1").Return(nil, tt.err)

			require.NoError(t, h.GetStatus(withID(c, "tx-1")))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestGetStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewTransactionHandler(uc)

	c, rec := newRequest(http.MethodGet, "/api/transactions/tx-1/status", "")
	uc.EXPECT().GetView(gomock.Any(), "tx-1").Return(&models.TransactionView{
		TransactionID: "tx-1",
		Status:        models.TransactionStatusValidated,
		Label:         "Validé",
		Terminal:      true,
	}, nil)

	require.NoError(t, h.GetStatus(withID(c, "tx-1")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"Validé"`)
}

func TestUpdateComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewTransactionHandler(uc)

	c, rec := newRequest(http.MethodPatch, "/api/transactions/tx-1/comment", `{"comment":"loyer"}`)
	uc.EXPECT().UpdateComment(gomock.Any(), "tx-1", "loyer").Return(nil)

	require.NoError(t, h.UpdateComment(withID(c, "tx-1")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListDiagnostics(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockTrackerUC(ctrl)
	h := NewTransactionHandler(uc)

	t.Run("limit is forwarded", func(t *testing.T) {
		c, rec := newRequest(http.MethodGet, "/api/transactions/tx-1/diagnostics?limit=5", "")
		uc.EXPECT().Diagnostics(gomock.Any(), "tx-1", 5).Return(nil, nil)

		require.NoError(t, h.ListDiagnostics(withID(c, "tx-1")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("bad limit", func(t *testing.T) {
		c, rec := newRequest(http.MethodGet, "/api/transactions/tx-1/diagnostics?limit=abc", "")
		require.NoError(t, h.ListDiagnostics(withID(c, "tx-1")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
