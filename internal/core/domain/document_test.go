package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_KnownValid(t *testing.T) {
	for _, raw := range []string{"11144477735", "52998224725", "39053344705"} {
		t.Run(raw, func(t *testing.T) {
			doc, err := ParseDocument(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, doc.Digits())
			assert.False(t, doc.IsZero())
		})
	}
}

func TestParseDocument_KnownInvalid(t *testing.T) {
	tests := map[string]string{
		"all zeros":          "00000000000",
		"last digit altered": "11144477736",
		"first check digit":  "11144477745",
		"empty":              "",
		"letters only":       "abc.def.ghi-jk",
		"too short":          "1114447773",
		"too long":           "111444777350",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseDocument(raw)
			require.ErrorIs(t, err, ErrInvalidDocument)
			assert.True(t, doc.IsZero())
		})
	}
}

func TestParseDocument_RepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		raw := strings.Repeat(string(d), 11)
		_, err := ParseDocument(raw)
		assert.ErrorIs(t, err, ErrInvalidDocument, raw)

		_, err = ParseDocument(FormatDigits(raw))
		assert.ErrorIs(t, err, ErrInvalidDocument, FormatDigits(raw))
	}
}

func TestParseDocument_WrongDigitCount(t *testing.T) {
	for n := 0; n <= 14; n++ {
		if n == 11 {
			continue
		}
		raw := strings.Repeat("1234567890", 2)[:n]
		_, err := ParseDocument(raw)
		assert.ErrorIs(t, err, ErrInvalidDocument, "length %d", n)
	}
}

func TestParseDocument_IgnoresPunctuation(t *testing.T) {
	inputs := []string{
		"111.444.777-35",
		" 111 444 777 35 ",
		"111-444-777/35",
		"cpf: 111.444.777-35",
	}
	for _, raw := range inputs {
		doc, err := ParseDocument(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "11144477735", doc.Digits())
		assert.Equal(t, "111.444.777-35", doc.Format())
	}
}

func TestParseDocument_IdempotentOnCanonicalForm(t *testing.T) {
	for _, raw := range []string{"529.982.247-25", "390.533.447-05", "76974694059"} {
		first, err := ParseDocument(raw)
		require.NoError(t, err)

		second, err := ParseDocument(first.Digits())
		require.NoError(t, err)
		assert.Equal(t, first, second)

		third, err := ParseDocument(first.Format())
		require.NoError(t, err)
		assert.Equal(t, first, third)
	}
}

func TestDocumentNumber_Masked(t *testing.T) {
	doc, err := ParseDocument("11144477735")
	require.NoError(t, err)
	assert.Equal(t, "111.***.***-35", doc.Masked())
	assert.Empty(t, DocumentNumber{}.Masked())
}

func TestCleanDocument(t *testing.T) {
	assert.Equal(t, "11144477735", CleanDocument("111.444.777-35"))
	assert.Equal(t, "", CleanDocument("..-"))
	assert.Equal(t, "12", CleanDocument("1a2"))
}

func TestFormatDigits_LeavesOtherLengthsAlone(t *testing.T) {
	assert.Equal(t, "123", FormatDigits("123"))
}
