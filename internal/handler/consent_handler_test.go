package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fanexp/vip-tickets/internal/dto"
	"github.com/fanexp/vip-tickets/internal/models"
	"github.com/fanexp/vip-tickets/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock ConsentService ---

type mockConsentService struct {
	submitFn func(ctx context.Context, in service.ConsentInput, ip string) (*models.Consent, error)
	getFn    func(ctx context.Context, fanID uint) (*models.Consent, error)
	updateFn func(ctx context.Context, fanID uint, upd service.ConsentUpdate) (*models.Consent, error)
	attachFn func(ctx context.Context, fanID uint, path string) (*models.Consent, error)
	deleteFn func(ctx context.Context, fanID uint) error
}

func (m *mockConsentService) Submit(ctx context.Context, in service.ConsentInput, ip string) (*models.Consent, error) {
	return m.submitFn(ctx, in, ip)
}
func (m *mockConsentService) Get(ctx context.Context, fanID uint) (*models.Consent, error) {
	return m.getFn(ctx, fanID)
}
func (m *mockConsentService) Update(ctx context.Context, fanID uint, upd service.ConsentUpdate) (*models.Consent, error) {
	return m.updateFn(ctx, fanID, upd)
}
func (m *mockConsentService) AttachPhotoID(ctx context.Context, fanID uint, path string) (*models.Consent, error) {
	return m.attachFn(ctx, fanID, path)
}
func (m *mockConsentService) Delete(ctx context.Context, fanID uint) error {
	return m.deleteFn(ctx, fanID)
}

// --- Tests ---

func TestSubmitConsent_Created(t *testing.T) {
	svc := &mockConsentService{
		submitFn: func(ctx context.Context, in service.ConsentInput, ip string) (*models.Consent, error) {
			now := time.Now()
			return &models.Consent{
				ID:              1,
				FanID:           in.FanID,
				AgreedToTerms:   in.AgreedToTerms,
				AgreedToPrivacy: in.AgreedToPrivacy,
				AgeVerified:     in.AgeVerified,
				ConfirmedName:   in.ConfirmedName,
				ConfirmedEmail:  in.ConfirmedEmail,
				Agreed:          true,
				TicketUnlocked:  true,
				SignedAt:        &now,
			}, nil
		},
	}

	body := `{"agreed_to_terms":true,"agreed_to_privacy":true,"age_verified":true,` +
		`"confirmed_name":"Jamie Fan","confirmed_email":"fan@example.com"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/fans/1/consent", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewConsentHandler(svc, t.TempDir()).Submit(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.ConsentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Agreed)
	assert.True(t, resp.TicketUnlocked)
}

func TestSubmitConsent_MissingTermsRejected(t *testing.T) {
	called := false
	svc := &mockConsentService{
		submitFn: func(ctx context.Context, in service.ConsentInput, ip string) (*models.Consent, error) {
			called = true
			return nil, nil
		},
	}

	body := `{"agreed_to_terms":false,"agreed_to_privacy":true,"age_verified":true,` +
		`"confirmed_name":"Jamie Fan","confirmed_email":"fan@example.com"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/fans/1/consent", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewConsentHandler(svc, t.TempDir()).Submit(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.False(t, called, "incomplete consent must be rejected before the service")
}

func TestSubmitConsent_AlreadyExists(t *testing.T) {
	svc := &mockConsentService{
		submitFn: func(ctx context.Context, in service.ConsentInput, ip string) (*models.Consent, error) {
			return nil, service.ErrConsentExists
		},
	}

	body := `{"agreed_to_terms":true,"agreed_to_privacy":true,"age_verified":true,` +
		`"confirmed_name":"Jamie Fan","confirmed_email":"fan@example.com"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/fans/1/consent", body)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewConsentHandler(svc, t.TempDir()).Submit(c)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestConsentStatus_NotSubmitted(t *testing.T) {
	svc := &mockConsentService{
		getFn: func(ctx context.Context, fanID uint) (*models.Consent, error) {
			return nil, service.ErrConsentNotFound
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/fans/1/consent/status", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewConsentHandler(svc, t.TempDir()).Status(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp["submitted"])
	assert.False(t, resp["ticket_unlocked"])
}

func TestConsentStatus_Unlocked(t *testing.T) {
	svc := &mockConsentService{
		getFn: func(ctx context.Context, fanID uint) (*models.Consent, error) {
			return &models.Consent{
				FanID:           fanID,
				AgreedToTerms:   true,
				AgreedToPrivacy: true,
				AgeVerified:     true,
				Agreed:          true,
				TicketUnlocked:  true,
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/fans/1/consent/status", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewConsentHandler(svc, t.TempDir()).Status(c)
	require.NoError(t, err)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["submitted"])
	assert.True(t, resp["complete"])
	assert.True(t, resp["ticket_unlocked"])
}

func multipartUpload(t *testing.T, filename string, content []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/fans/1/consent/photo-id", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	return c, rec
}

func TestUploadPhotoID_Success(t *testing.T) {
	var attachedPath string
	svc := &mockConsentService{
		attachFn: func(ctx context.Context, fanID uint, path string) (*models.Consent, error) {
			attachedPath = path
			return &models.Consent{ID: 1, FanID: fanID, PhotoIDUploaded: true}, nil
		},
	}

	c, rec := multipartUpload(t, "my driver's license.jpg", []byte("fake image"))

	err := NewConsentHandler(svc, t.TempDir()).UploadPhotoID(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, attachedPath, "photo_id_1_")
	assert.NotContains(t, attachedPath, "'")
	assert.True(t, strings.HasSuffix(attachedPath, ".jpg"))
}

func TestUploadPhotoID_BadExtension(t *testing.T) {
	c, _ := multipartUpload(t, "malware.exe", []byte("nope"))

	err := NewConsentHandler(&mockConsentService{}, t.TempDir()).UploadPhotoID(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestUploadPhotoID_TraversalNameIsSanitized(t *testing.T) {
	var attachedPath string
	svc := &mockConsentService{
		attachFn: func(ctx context.Context, fanID uint, path string) (*models.Consent, error) {
			attachedPath = path
			return &models.Consent{ID: 1, FanID: fanID, PhotoIDUploaded: true}, nil
		},
	}

	c, _ := multipartUpload(t, "../../evil.png", []byte("fake image"))

	err := NewConsentHandler(svc, t.TempDir()).UploadPhotoID(c)
	require.NoError(t, err)
	assert.NotContains(t, strings.TrimPrefix(attachedPath, "/"), "..")
}
