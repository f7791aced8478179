package riskcodes

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_KnownCode(t *testing.T) {
	assert.Equal(t, "Le montant dépasse le plafond autorisé pour une transaction.", Message(RuleMaxAmount))
}

func TestMessage_UnknownCodeKeepsRawCode(t *testing.T) {
	msg := Message("X")
	assert.Contains(t, msg, "X")
	assert.Equal(t, "Transaction refusée (code X). Contactez le support si le problème persiste.", msg)
}

func TestEveryCodeHasAMessage(t *testing.T) {
	codes := Codes()
	assert.Len(t, codes, 15)
	for _, code := range codes {
		assert.True(t, strings.HasPrefix(code, "RULE_"), code)
		assert.NotEmpty(t, messages[code], code)
		assert.NotContains(t, Message(code), code)
	}
}

func TestValidate(t *testing.T) {
	t.Run("table matches canonical list", func(t *testing.T) {
		assert.NoError(t, Validate(Codes()))
	})

	t.Run("drift is reported both ways", func(t *testing.T) {
		canonical := append([]string{"RULE_VELOCITY"}, Codes()[1:]...)
		err := Validate(canonical)
		require.Error(t, err)

		var drift Drift
		require.True(t, errors.As(err, &drift))
		assert.Equal(t, []string{"RULE_VELOCITY"}, drift.Missing)
		assert.Equal(t, []string{Codes()[0]}, drift.Unknown)
		assert.Contains(t, err.Error(), TableVersion)
	})
}
