package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespace(t *testing.T) {
	ns := Details("adnan")
	assert.Equal(t, "adnan", ns.UserID)
	assert.Equal(t, DetailsCategory, ns.Category)
	assert.Equal(t, "adnan/details", ns.String())
	assert.NoError(t, ns.Validate())

	assert.ErrorIs(t, Namespace{Category: "details"}.Validate(), ErrInvalidUserID)
	assert.ErrorIs(t, Namespace{UserID: "adnan"}.Validate(), ErrInvalidCategory)
}
