package projection

import (
	"time"

	"github.com/piresc/payon/internal/pkg/lifecycle"
	"github.com/piresc/payon/internal/pkg/models"
)

type badge struct {
	label string
	icon  string
	style string
}

var badges = map[models.TransactionStatus]badge{
	models.TransactionStatusPending:   {label: "En attente", icon: "clock", style: "status-pending"},
	models.TransactionStatusAnalyzing: {label: "Analyse IA...", icon: "loader", style: "status-analyzing"},
	models.TransactionStatusSuspect:   {label: "Vérification requise", icon: "alert-triangle", style: "status-suspect"},
	models.TransactionStatusValidated: {label: "Validé", icon: "check-circle", style: "status-validated"},
	models.TransactionStatusRejected:  {label: "Rejeté", icon: "x-circle", style: "status-rejected"},
}

// unknownBadge is shown once the bounded wait for a live status has expired
var unknownBadge = badge{
	label: "Statut inconnu, vérifiez plus tard",
	icon:  "help-circle",
	style: "status-unknown",
}

// Render builds the view model for a status
func Render(transactionID string, status models.TransactionStatus, unknown bool, updatedAt time.Time) models.TransactionView {
	b, ok := badges[status]
	if unknown || !ok {
		b = unknownBadge
	}
	return models.TransactionView{
		TransactionID:  transactionID,
		Status:         status,
		Label:          b.label,
		Icon:           b.icon,
		StyleClass:     b.style,
		Terminal:       lifecycle.IsTerminal(status),
		AwaitingReview: lifecycle.IsAwaitingReview(status),
		Unknown:        unknown,
		UpdatedAt:      updatedAt,
	}
}
