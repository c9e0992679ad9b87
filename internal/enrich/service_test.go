package enrich

import (
	"testing"

	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestShouldOverwriteType(t *testing.T) {
	assert.True(t, ShouldOverwriteType(""))
	assert.True(t, ShouldOverwriteType(models.ReportTypeOther))

	assert.False(t, ShouldOverwriteType(models.ReportTypePothole))
	assert.False(t, ShouldOverwriteType(models.ReportTypeTrash))
}
