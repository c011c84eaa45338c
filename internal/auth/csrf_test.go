package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-press/inkwell/internal/auth"
)

func TestCSRFTokenRoundtrip(t *testing.T) {
	m := auth.NewCSRFManager("secret")
	token := m.TokenFor("sess-1")
	assert.NoError(t, m.Verify("sess-1", token))
}

func TestCSRFTokenMismatch(t *testing.T) {
	m := auth.NewCSRFManager("secret")
	assert.ErrorIs(t, m.Verify("sess-1", ""), auth.ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.Verify("sess-1", "garbage"), auth.ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.Verify("sess-2", m.TokenFor("sess-1")), auth.ErrCSRFTokenMismatch)

	other := auth.NewCSRFManager("different-secret")
	assert.ErrorIs(t, m.Verify("sess-1", other.TokenFor("sess-1")), auth.ErrCSRFTokenMismatch)
}
