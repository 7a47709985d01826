package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyvault/noteguard/internal/common"
	"github.com/studyvault/noteguard/internal/logging"
	"github.com/studyvault/noteguard/internal/server/entitlements"
	"github.com/studyvault/noteguard/internal/server/models"
	"github.com/studyvault/noteguard/internal/server/payments"
	"github.com/studyvault/noteguard/internal/server/progress"
	"github.com/studyvault/noteguard/internal/server/sessions"
	"github.com/studyvault/noteguard/internal/server/watermarks"
)

var testSecret = []byte("view-token-secret")

type sessionRepoStub struct {
	sessions map[string]*models.ViewSession
}

func (s *sessionRepoStub) Create(ctx context.Context, session *models.ViewSession) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *sessionRepoStub) GetByID(ctx context.Context, id string) (*models.ViewSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return session, nil
}

type noteRepoStub struct{}

func (s *noteRepoStub) GetByID(ctx context.Context, id string) (*models.Note, error) {
	if id != "n-1" {
		return nil, common.ErrNotFound
	}
	return &models.Note{ID: "n-1", Subject: "physics", IsPremium: true, TotalPages: 42}, nil
}

type userRepoStub struct{}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	return &models.UserProfile{
		ID: id, DisplayName: "Asha Verma", Email: "asha@example.com",
		Phone: "+919876543210", Status: models.UserStatusActive,
	}, nil
}

type resolverStub struct {
	verdict entitlements.Verdict
}

func (s *resolverStub) Resolve(ctx context.Context, userID, noteID string) (entitlements.Verdict, error) {
	return s.verdict, nil
}

type progressRepoStub struct {
	records map[string]*models.ProgressRecord
}

func (s *progressRepoStub) Upsert(ctx context.Context, rec *models.ProgressRecord) error {
	s.records[rec.UserID+"/"+rec.NoteID] = rec
	return nil
}

func (s *progressRepoStub) Get(ctx context.Context, userID, noteID string) (*models.ProgressRecord, error) {
	rec, ok := s.records[userID+"/"+noteID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rec, nil
}

type fixture struct {
	server   *Server
	resolver *resolverStub
	mock     sqlmock.Sqlmock
	db       *sql.DB
	signer   *watermarks.Signer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	resolver := &resolverStub{verdict: entitlements.VerdictAllow}
	sessionSvc := sessions.NewService(
		&sessionRepoStub{sessions: map[string]*models.ViewSession{}},
		&noteRepoStub{}, resolver, nil, testSecret, 30*time.Minute)

	signer := watermarks.NewSigner([]byte("watermark-key"))
	progressSvc := progress.NewService(&progressRepoStub{records: map[string]*models.ProgressRecord{}})
	paymentSvc := payments.NewService(db, nil, logging.NewNullLogger())

	server := NewServer(":0", logging.NewNullLogger(),
		sessionSvc, signer, &userRepoStub{}, progressSvc, paymentSvc)

	return &fixture{server: server, resolver: resolver, mock: mock, db: db, signer: signer}
}

func (f *fixture) request(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *fixture) issueSession(t *testing.T) (sessionID, token string) {
	t.Helper()
	w := f.request(t, http.MethodPost, "/v1/sessions",
		map[string]string{"noteId": "n-1"}, map[string]string{common.UserIDHeaderName: "u-1"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	return body["sessionId"].(string), body["viewToken"].(string)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodGet, "/v1/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIssueSession_RequiresUserHeader(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/v1/sessions", map[string]string{"noteId": "n-1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssueSession_Allow(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/v1/sessions",
		map[string]string{"noteId": "n-1"}, map[string]string{common.UserIDHeaderName: "u-1"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.NotEmpty(t, body["sessionId"])
	assert.NotEmpty(t, body["viewToken"])
	assert.Equal(t, float64(42), body["totalPages"])
}

func TestIssueSession_RequiresPayment(t *testing.T) {
	f := newFixture(t)
	f.resolver.verdict = entitlements.VerdictRequiresPayment

	w := f.request(t, http.MethodPost, "/v1/sessions",
		map[string]string{"noteId": "n-1"}, map[string]string{common.UserIDHeaderName: "u-1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "REQUIRES_PAYMENT", decode(t, w)["error"])
}

func TestIssueSession_BlockedUser(t *testing.T) {
	f := newFixture(t)
	f.resolver.verdict = entitlements.VerdictDeny

	w := f.request(t, http.MethodPost, "/v1/sessions",
		map[string]string{"noteId": "n-1"}, map[string]string{common.UserIDHeaderName: "u-1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "DENY", decode(t, w)["error"])
}

func TestIssueSession_UnknownNote(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/v1/sessions",
		map[string]string{"noteId": "ghost"}, map[string]string{common.UserIDHeaderName: "u-1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetWatermark(t *testing.T) {
	f := newFixture(t)
	sessionID, token := f.issueSession(t)

	w := f.request(t, http.MethodGet, "/v1/watermark", nil,
		map[string]string{common.ViewTokenHeaderName: token})
	require.Equal(t, http.StatusOK, w.Code)

	var resp watermarks.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, sessionID, resp.Payload.ViewSessionID)
	assert.Equal(t, "a***@example.com", resp.Payload.MaskedEmail)
	assert.Equal(t, "******10", resp.Payload.MaskedPhone)
	assert.True(t, f.signer.Verify(resp.Payload, resp.Signature))
}

func TestGetWatermark_NoToken(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodGet, "/v1/watermark", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetWatermark_ExpiredToken(t *testing.T) {
	f := newFixture(t)

	expired, err := sessions.GenerateViewToken("vs-x", "u-1", "n-1", testSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	w := f.request(t, http.MethodGet, "/v1/watermark", nil,
		map[string]string{common.ViewTokenHeaderName: expired})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SESSION_EXPIRED", decode(t, w)["error"])
}

func TestProgressRoundTrip(t *testing.T) {
	f := newFixture(t)
	_, token := f.issueSession(t)

	w := f.request(t, http.MethodPost, "/v1/progress",
		map[string]int{"lastPage": 17, "completionPercent": 40},
		map[string]string{common.ViewTokenHeaderName: token})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = f.request(t, http.MethodGet, "/v1/progress/n-1", nil,
		map[string]string{common.UserIDHeaderName: "u-1"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(17), body["lastPage"])
	assert.Equal(t, float64(40), body["completionPercent"])
}

func TestGetProgress_NotFound(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodGet, "/v1/progress/n-1", nil,
		map[string]string{common.UserIDHeaderName: "u-1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderStatus_NotFound(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectQuery(`(?s)^SELECT\s+id,\s*merchant_tx_id`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	w := f.request(t, http.MethodGet, "/v1/orders/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decode(t, w)["error"])
}

func TestGetOrderStatus_Found(t *testing.T) {
	f := newFixture(t)

	rows := sqlmock.NewRows([]string{
		"id", "merchant_tx_id", "user_id", "plan_id", "status",
		"amount_paise", "final_amount_paise", "created_at", "completed_at",
	}).AddRow("o-1", "mtx-1", "u-1", "p-1", "PENDING", int64(49900), int64(49900), time.Now(), nil)
	f.mock.ExpectQuery(`(?s)^SELECT\s+id,\s*merchant_tx_id`).
		WithArgs("mtx-1").
		WillReturnRows(rows)

	w := f.request(t, http.MethodGet, "/v1/orders/mtx-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "PENDING", body["status"])
	assert.Equal(t, "mtx-1", body["merchantTransactionId"])
}

func TestProviderWebhook_DuplicateIgnored(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	completed := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "merchant_tx_id", "user_id", "plan_id", "status",
		"amount_paise", "final_amount_paise", "created_at", "completed_at",
	}).AddRow("o-1", "mtx-1", "u-1", "p-1", "SUCCESS", int64(49900), int64(49900), time.Now(), completed)
	f.mock.ExpectQuery(`(?s)^SELECT\s+id,\s*merchant_tx_id`).
		WithArgs("mtx-1").
		WillReturnRows(rows)
	f.mock.ExpectRollback()

	w := f.request(t, http.MethodPost, "/v1/provider/webhook",
		map[string]string{"merchantTransactionId": "mtx-1", "status": "COMPLETED"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", decode(t, w)["status"])
}

func TestProviderWebhook_BadBody(t *testing.T) {
	f := newFixture(t)

	w := f.request(t, http.MethodPost, "/v1/provider/webhook",
		map[string]string{"status": "COMPLETED"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
