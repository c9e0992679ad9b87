package ai

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/enrich"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/fixmyblock/fixmyblock-backend/internal/vision"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupEnrichApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Report{}))

	cfg := &config.Config{}
	visionClient := vision.NewClient(cfg)
	module := New(visionClient, enrich.NewService(db, visionClient))

	app := fiber.New()
	module.RegisterAdminRoutes(app.Group("/api/admin"), db, cfg)
	return app, db
}

func postEnrich(t *testing.T, app *fiber.App, reportID uuid.UUID) *http.Response {
	t.Helper()

	payload, err := json.Marshal(fiber.Map{"report_id": reportID})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/admin/ai/enrich-report", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestEnrichReportUnknownIDIs404(t *testing.T) {
	app, _ := setupEnrichApp(t)

	resp := postEnrich(t, app, uuid.New())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// AI being unavailable degrades the response, never the request: the caller
// still gets a 200 with success=false. A bad report reference is the caller's
// mistake and stays a 404.
func TestEnrichReportAIFailureIsSoft200(t *testing.T) {
	app, db := setupEnrichApp(t)

	owner := models.User{DisplayName: "Asha", Email: "asha@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	report := models.Report{
		Type:      models.ReportTypeOther,
		Status:    models.StatusOpen,
		PhotoURL:  "https://example.com/p.jpg",
		CreatedBy: owner.ID,
	}
	require.NoError(t, db.Create(&report).Error)

	resp := postEnrich(t, app, report.ID)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body suggestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}
