// Package riskcodes maps backend rule codes to the messages shown when a
// transfer is refused.
package riskcodes

import (
	"fmt"
	"sort"
)

// TableVersion identifies the revision of the message table. Bump it whenever
// a message changes or a code is added.
const TableVersion = "2024.1"

// FallbackTemplate is used for any code the table does not know
const FallbackTemplate = "Transaction refusée (code %s). Contactez le support si le problème persiste."

const (
	RuleMaxAmount          = "RULE_MAX_AMOUNT"
	RuleInsufficientFunds  = "RULE_INSUFFICIENT_FUNDS"
	RuleAccountLocked      = "RULE_ACCOUNT_LOCKED"
	RuleSelfTransfer       = "RULE_SELF_TRANSFER"
	RuleInvalidAmount      = "RULE_INVALID_AMOUNT"
	RuleCountryBlocked     = "RULE_COUNTRY_BLOCKED"
	RuleDestinationLocked  = "RULE_DESTINATION_LOCKED"
	RuleAmountAnomaly      = "RULE_AMOUNT_ANOMALY"
	RuleFreqSpike          = "RULE_FREQ_SPIKE"
	RuleNewAccountActivity = "RULE_NEW_ACCOUNT_ACTIVITY"
	RuleNewBeneficiary     = "RULE_NEW_BENEFICIARY"
	RuleGeoAnomaly         = "RULE_GEO_ANOMALY"
	RuleOddHour            = "RULE_ODD_HOUR"
	RuleHighRiskProfile    = "RULE_HIGH_RISK_PROFILE"
	RuleRecidivism         = "RULE_RECIDIVISM"
)

var messages = map[string]string{
	RuleMaxAmount:          "Le montant dépasse le plafond autorisé pour une transaction.",
	RuleInsufficientFunds:  "Solde insuffisant pour effectuer ce transfert.",
	RuleAccountLocked:      "Votre compte est temporairement bloqué. Contactez le support.",
	RuleSelfTransfer:       "Vous ne pouvez pas vous envoyer de l'argent à vous-même.",
	RuleInvalidAmount:      "Le montant saisi est invalide.",
	RuleCountryBlocked:     "Les transferts vers ce pays ne sont pas autorisés.",
	RuleDestinationLocked:  "Le compte du destinataire ne peut pas recevoir de fonds actuellement.",
	RuleAmountAnomaly:      "Ce montant est inhabituel par rapport à vos transactions récentes.",
	RuleFreqSpike:          "Trop de transactions en peu de temps. Réessayez plus tard.",
	RuleNewAccountActivity: "Votre compte est trop récent pour effectuer ce transfert.",
	RuleNewBeneficiary:     "Ce bénéficiaire est nouveau et le montant dépasse la limite autorisée.",
	RuleGeoAnomaly:         "Activité inhabituelle détectée depuis votre localisation.",
	RuleOddHour:            "Ce transfert a lieu à une heure inhabituelle et a été bloqué par précaution.",
	RuleHighRiskProfile:    "Ce transfert présente un niveau de risque trop élevé.",
	RuleRecidivism:         "Plusieurs transferts récents ont été signalés. Contactez le support.",
}

// Message returns the user-facing message for a backend rule code
func Message(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return fmt.Sprintf(FallbackTemplate, code)
}

// Known reports whether the table carries a message for code
func Known(code string) bool {
	_, ok := messages[code]
	return ok
}

// Codes returns every code in the table, sorted
func Codes() []string {
	codes := make([]string, 0, len(messages))
	for code := range messages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Drift lists the differences between the table and a canonical code list
type Drift struct {
	// Missing are canonical codes with no message in the table
	Missing []string
	// Unknown are table codes absent from the canonical list
	Unknown []string
}

// Empty reports whether table and canonical list agree
func (d Drift) Empty() bool {
	return len(d.Missing) == 0 && len(d.Unknown) == 0
}

func (d Drift) Error() string {
	return fmt.Sprintf("riskcodes table %s drift: missing %v, unknown %v", TableVersion, d.Missing, d.Unknown)
}

// Validate compares the table against the backend's canonical rule codes.
// It returns nil when both agree, a Drift error otherwise.
func Validate(canonical []string) error {
	seen := make(map[string]bool, len(canonical))
	var drift Drift
	for _, code := range canonical {
		seen[code] = true
		if !Known(code) {
			drift.Missing = append(drift.Missing, code)
		}
	}
	for _, code := range Codes() {
		if !seen[code] {
			drift.Unknown = append(drift.Unknown, code)
		}
	}
	sort.Strings(drift.Missing)

	if drift.Empty() {
		return nil
	}
	return drift
}
