package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/ratedesk/errors"
	"github.com/grovetools/ratedesk/internal/apitest"
	"github.com/grovetools/ratedesk/logging"
	"github.com/grovetools/ratedesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "secret"

type harness struct {
	t       *testing.T
	backend *apitest.Server
	config  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("RATEDESK_LOG_DIR", t.TempDir())

	backend := apitest.New(nil, testToken)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	return &harness{t: t, backend: backend, config: writeConfig(t, srv.URL, testToken)}
}

func writeConfig(t *testing.T, baseURL, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratedesk.yml")
	content := fmt.Sprintf("version: \"1.0\"\napi:\n  base_url: %s\n  token: %s\n  timeout: 5s\n", baseURL, token)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI and returns stdout and stderr.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--config", h.config))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// runJSON executes the CLI with --json and decodes stdout into v.
func (h *harness) runJSON(v interface{}, args ...string) {
	h.t.Helper()
	stdout, stderr, err := h.run(append(args, "--json")...)
	require.NoError(h.t, err, stderr)
	require.NoError(h.t, json.Unmarshal([]byte(stdout), v), stdout)
}

func (h *harness) create(title string) models.RateCard {
	h.t.Helper()
	var out struct {
		RateCard models.RateCard `json:"rateCard"`
	}
	h.runJSON(&out, "create", "--title", title, "--platform", "instagram:12000:4.5")
	require.NotEmpty(h.t, out.RateCard.ID)
	return out.RateCard
}

func TestListJSON(t *testing.T) {
	h := newHarness(t)
	h.backend.Seed(
		models.RateCard{Title: "One", Status: "draft"},
		models.RateCard{Title: "Two", Status: "published"},
	)

	var out struct {
		RateCards  []models.RateCard `json:"rateCards"`
		Pagination models.Pagination `json:"pagination"`
	}
	h.runJSON(&out, "list")
	assert.Len(t, out.RateCards, 2)
	assert.Equal(t, 2, out.Pagination.Total)

	h.runJSON(&out, "list", "--status", "published")
	require.Len(t, out.RateCards, 1)
	assert.Equal(t, "Two", out.RateCards[0].Title)
}

func TestListHumanOutput(t *testing.T) {
	h := newHarness(t)
	h.backend.Seed(models.RateCard{Title: "Travel reels"})

	stdout, _, err := h.run("list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Travel reels")
	assert.Contains(t, stdout, "Page:")
}

func TestTimingFlagReportsRequests(t *testing.T) {
	h := newHarness(t)
	h.backend.Seed(models.RateCard{Title: "Timed"})

	_, stderr, err := h.run("list", "--timing")
	require.NoError(t, err)
	assert.Contains(t, stderr, "timing")
	assert.Contains(t, stderr, "GET /api/ratecards")
}

func TestCreateThenShowAll(t *testing.T) {
	h := newHarness(t)
	card := h.create("Summer")
	assert.Equal(t, "Summer", card.Title)
	assert.Equal(t, 1, card.Version.Current)

	var out struct {
		RateCard  models.RateCard       `json:"rateCard"`
		History   []models.HistoryEntry `json:"history"`
		Analytics *models.Analytics     `json:"analytics"`
	}
	h.runJSON(&out, "show", card.ID, "--all")
	assert.Equal(t, card.ID, out.RateCard.ID)
	require.Len(t, out.History, 1)
	assert.Equal(t, models.ChangeCreated, out.History[0].ChangeType)
	require.NotNil(t, out.Analytics)
	assert.Equal(t, card.ID, out.Analytics.RateCardID)
}

func TestCreateValidationNeverReachesServer(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("create", "--platform", "instagram:100")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
	assert.Zero(t, h.backend.Requests("create"))
}

func TestCreateFromYAMLFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "card.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: From file
metrics:
  platforms:
    - name: tiktok
      followers: 5000
      engagementRate: 7.5
pricing:
  - platform: tiktok
    deliverables:
      - type: video
        rate: 300
`), 0o644))

	var out struct {
		RateCard      models.RateCard `json:"rateCard"`
		AISuggestions json.RawMessage `json:"aiSuggestions"`
	}
	h.runJSON(&out, "create", "-f", path)
	assert.Equal(t, "From file", out.RateCard.Title)
	rate, ok := out.RateCard.DeliverableRate("tiktok", "video")
	assert.True(t, ok)
	assert.Equal(t, 300.0, rate)
	assert.Contains(t, string(out.AISuggestions), "tiktok")
}

func TestPricingFromFlags(t *testing.T) {
	h := newHarness(t)
	card := h.create("Priced")

	var out models.RateCard
	h.runJSON(&out, "pricing", card.ID, "--rate", "instagram:reel:500", "--rate", "instagram:story:150:usd")
	require.Len(t, out.Pricing, 1)
	require.Len(t, out.Pricing[0].Deliverables, 2)
	assert.Equal(t, "USD", out.Pricing[0].Deliverables[1].Currency)
}

func TestPricingServerFailureMessage(t *testing.T) {
	h := newHarness(t)
	card := h.create("Failing")
	h.backend.FailNext("pricing", apitest.Failure{Status: 500, Message: "Pricing service unavailable"})

	_, _, err := h.run("pricing", card.ID, "--rate", "instagram:reel:500")
	require.Error(t, err)
	assert.Equal(t, "Pricing service unavailable", errors.Message(err))
}

func TestTermsNormalizesAdvance(t *testing.T) {
	h := newHarness(t)
	card := h.create("Terms")

	var out models.ProfessionalDetails
	h.runJSON(&out, "terms", card.ID, "--advance", "140", "--revisions", "3")
	assert.Equal(t, 100, out.PaymentTerms.AdvancePercentage)
	assert.Equal(t, models.DefaultPaymentDueDays, out.PaymentTerms.PaymentDueDays)
	assert.Equal(t, 3, out.Revisions)
}

func TestPackageLifecycle(t *testing.T) {
	h := newHarness(t)
	card := h.create("Bundles")
	h.runJSON(&models.RateCard{}, "pricing", card.ID, "--rate", "instagram:reel:500", "--rate", "instagram:story:150")

	var pkgs []models.Package
	h.runJSON(&pkgs, "package", "add", card.ID, "--name", "Launch",
		"--item", "instagram:reel:1", "--item", "instagram:story", "--price", "600")
	require.Len(t, pkgs, 1)
	assert.Equal(t, 650.0, pkgs[0].IndividualTotal)
	pid := pkgs[0].ID

	h.runJSON(&pkgs, "package", "update", card.ID, pid, "--price", "550")
	require.Len(t, pkgs, 1)
	assert.Equal(t, "Launch", pkgs[0].Name)
	assert.Equal(t, 550.0, pkgs[0].PackagePrice)
	assert.Len(t, pkgs[0].Deliverables, 2)

	h.runJSON(&pkgs, "package", "rm", card.ID, pid)
	assert.Empty(t, pkgs)
}

func TestPackageUpdateUnknownPackage(t *testing.T) {
	h := newHarness(t)
	card := h.create("Nope")

	_, _, err := h.run("package", "update", card.ID, "missing", "--price", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestPublishShareAndRestore(t *testing.T) {
	h := newHarness(t)
	card := h.create("Publish me")

	_, _, err := h.run("publish", card.ID)
	require.Error(t, err)
	assert.Equal(t, "Add pricing before publishing", errors.Message(err))

	h.runJSON(&models.RateCard{}, "pricing", card.ID, "--rate", "instagram:reel:500")

	var published models.PublishResult
	h.runJSON(&published, "publish", card.ID)
	assert.Equal(t, "/share/"+card.ID, published.ShareURL)
	assert.Equal(t, models.StatusPublished, published.RateCard.Status)

	var sharing struct {
		Settings  models.ShareSettings `json:"settings"`
		ExpiresAt *time.Time           `json:"expiresAt"`
	}
	h.runJSON(&sharing, "share", card.ID, "--allow-download", "--expires-in", "24h")
	assert.True(t, sharing.Settings.AllowDownload)
	require.NotNil(t, sharing.ExpiresAt)

	var restored struct {
		RateCard models.RateCard       `json:"rateCard"`
		History  []models.HistoryEntry `json:"history"`
	}
	h.runJSON(&restored, "restore", card.ID, "1")
	assert.Empty(t, restored.RateCard.Pricing)
	require.NotEmpty(t, restored.History)
	assert.Equal(t, models.ChangeRestored, restored.History[0].ChangeType)
}

func TestRestoreRejectsBadVersion(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("restore", "abc", "zero")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}

func TestDeleteRemovesCard(t *testing.T) {
	h := newHarness(t)
	ids := h.backend.Seed(models.RateCard{Title: "Doomed"})

	_, _, err := h.run("delete", ids[0])
	require.NoError(t, err)

	_, _, err = h.run("show", ids[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestWrongTokenIsUnauthorized(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.backend.Handler())
	t.Cleanup(srv.Close)
	h.config = writeConfig(t, srv.URL, "wrong")

	_, _, err := h.run("list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized))
	assert.Equal(t, "Authentication required", errors.Message(err))
}

func TestExecuteReportsErrors(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(h.backend.Handler())
	t.Cleanup(srv.Close)

	root := NewRootCmd()
	var stderr bytes.Buffer
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{"list", "--config", writeConfig(t, srv.URL, "wrong")})

	assert.Equal(t, 1, Execute(context.Background(), root))
	assert.Contains(t, stderr.String(), "Authentication required")
	assert.Contains(t, stderr.String(), "RATEDESK_TOKEN")
}

func TestVersionJSON(t *testing.T) {
	h := newHarness(t)
	var info map[string]string
	h.runJSON(&info, "version")
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "platform")
}

func TestConfigSchema(t *testing.T) {
	h := newHarness(t)
	stdout, _, err := h.run("config-schema")
	require.NoError(t, err)
	assert.Contains(t, stdout, "base_url")

	stdout, _, err = h.run("config-schema", "--check", h.config)
	require.NoError(t, err)
	assert.Contains(t, stdout, "is valid")
}

func TestLogsTail(t *testing.T) {
	h := newHarness(t)
	path := logging.LogFilePath("sample", time.Now())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\nthird\n"), 0o644))

	stdout, _, err := h.run("logs", "sample", "--tail", "2")
	require.NoError(t, err)
	assert.Equal(t, "second\nthird\n", stdout)
}
