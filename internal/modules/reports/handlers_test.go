package reports

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fixmyblock/fixmyblock-backend/internal/config"
	"github.com/fixmyblock/fixmyblock-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signAccessToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "marcus@example.com",
		"role":  "user",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type feedResponse struct {
	Reports []View `json:"reports"`
}

// The feed is public but still personalizes for a signed-in caller: a valid
// bearer token must surface the caller's own upvotes, and its absence (or an
// invalid token) must degrade to anonymous, never to an error.
func TestFeedPersonalizationFromBearerToken(t *testing.T) {
	f := newFixture(t)
	cfg := &config.Config{JWTSecret: "test-secret"}

	report := f.addReport(t, models.ReportTypePothole, models.StatusOpen)

	voter := models.User{DisplayName: "Marcus", Email: "marcus@example.com", Password: "x"}
	require.NoError(t, f.db.Create(&voter).Error)
	require.NoError(t, f.db.Create(&models.Upvote{ReportID: report.ID, UserID: voter.ID}).Error)

	app := fiber.New()
	New(f.service).RegisterRoutes(app.Group("/api"), f.db, cfg)

	fetchFeed := func(bearer string) feedResponse {
		req := httptest.NewRequest("GET", "/api/feed", nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body feedResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Reports, 1)
		return body
	}

	withToken := fetchFeed(signAccessToken(t, "test-secret", voter.ID))
	assert.True(t, withToken.Reports[0].UpvotedByViewer)
	assert.Equal(t, 1, withToken.Reports[0].UpvoteCount)

	anonymous := fetchFeed("")
	assert.False(t, anonymous.Reports[0].UpvotedByViewer)
	assert.Equal(t, 1, anonymous.Reports[0].UpvoteCount)

	badToken := fetchFeed(signAccessToken(t, "wrong-secret", voter.ID))
	assert.False(t, badToken.Reports[0].UpvotedByViewer)
}

func TestReportDetailPersonalizationFromBearerToken(t *testing.T) {
	f := newFixture(t)
	cfg := &config.Config{JWTSecret: "test-secret"}

	report := f.addReport(t, models.ReportTypeTrash, models.StatusOpen)

	voter := models.User{DisplayName: "Marcus", Email: "marcus@example.com", Password: "x"}
	require.NoError(t, f.db.Create(&voter).Error)
	require.NoError(t, f.db.Create(&models.Upvote{ReportID: report.ID, UserID: voter.ID}).Error)

	app := fiber.New()
	New(f.service).RegisterRoutes(app.Group("/api"), f.db, cfg)

	req := httptest.NewRequest("GET", "/api/reports/"+report.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+signAccessToken(t, "test-secret", voter.ID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var detail Detail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
	assert.True(t, detail.UpvotedByViewer)
}
