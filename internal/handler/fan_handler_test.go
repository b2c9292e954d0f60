package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
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

// --- Mock FanService ---

type mockFanService struct {
	registerFn          func(ctx context.Context, in service.RegisterInput) (*models.Fan, error)
	getFn               func(ctx context.Context, id uint) (*models.Fan, error)
	getByEmailFn        func(ctx context.Context, email string) (*models.Fan, error)
	getByCodeFn         func(ctx context.Context, code string) (*models.Fan, error)
	updateFn            func(ctx context.Context, id uint, upd service.FanUpdate) (*models.Fan, error)
	addSelectionFn      func(ctx context.Context, fanID, tourID uint) (*models.Selection, error)
	addSelectionsBulkFn func(ctx context.Context, fanID uint, tourIDs []uint) ([]models.Selection, error)
	listSelectionsFn    func(ctx context.Context, fanID uint) ([]models.Selection, error)
	removeSelectionFn   func(ctx context.Context, fanID, selectionID uint) error
}

func (m *mockFanService) Register(ctx context.Context, in service.RegisterInput) (*models.Fan, error) {
	return m.registerFn(ctx, in)
}
func (m *mockFanService) Get(ctx context.Context, id uint) (*models.Fan, error) {
	return m.getFn(ctx, id)
}
func (m *mockFanService) GetByEmail(ctx context.Context, email string) (*models.Fan, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockFanService) GetByCode(ctx context.Context, code string) (*models.Fan, error) {
	return m.getByCodeFn(ctx, code)
}
func (m *mockFanService) Update(ctx context.Context, id uint, upd service.FanUpdate) (*models.Fan, error) {
	return m.updateFn(ctx, id, upd)
}
func (m *mockFanService) AddSelection(ctx context.Context, fanID, tourID uint) (*models.Selection, error) {
	return m.addSelectionFn(ctx, fanID, tourID)
}
func (m *mockFanService) AddSelectionsBulk(ctx context.Context, fanID uint, tourIDs []uint) ([]models.Selection, error) {
	return m.addSelectionsBulkFn(ctx, fanID, tourIDs)
}
func (m *mockFanService) ListSelections(ctx context.Context, fanID uint) ([]models.Selection, error) {
	return m.listSelectionsFn(ctx, fanID)
}
func (m *mockFanService) RemoveSelection(ctx context.Context, fanID, selectionID uint) error {
	return m.removeSelectionFn(ctx, fanID, selectionID)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

// --- Tests ---

func TestRegisterFan_Success(t *testing.T) {
	svc := &mockFanService{
		registerFn: func(ctx context.Context, in service.RegisterInput) (*models.Fan, error) {
			return &models.Fan{
				ID:               1,
				Email:            in.Email,
				Name:             in.Name,
				Phone:            in.Phone,
				RegistrationCode: "VIP-A1B2C3D4",
				IsActive:         true,
				RegisteredAt:     time.Now(),
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/api/fans",
		`{"email":"fan@example.com","name":"Jamie Fan","phone":"1234567890"}`)

	err := NewFanHandler(svc).Register(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.FanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	assert.Regexp(t, regexp.MustCompile(`^VIP-[A-Z0-9]{8}$`), resp.RegistrationCode)
	assert.False(t, resp.ConsentCompleted)
}

func TestRegisterFan_InvalidEmail(t *testing.T) {
	called := false
	svc := &mockFanService{
		registerFn: func(ctx context.Context, in service.RegisterInput) (*models.Fan, error) {
			called = true
			return nil, nil
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/api/fans",
		`{"email":"not-an-email","name":"Jamie Fan"}`)

	err := NewFanHandler(svc).Register(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.False(t, called, "service must not be reached on invalid input")
}

func TestRegisterFan_EmailTaken(t *testing.T) {
	svc := &mockFanService{
		registerFn: func(ctx context.Context, in service.RegisterInput) (*models.Fan, error) {
			return nil, service.ErrEmailTaken
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/api/fans",
		`{"email":"fan@example.com","name":"Jamie Fan"}`)

	err := NewFanHandler(svc).Register(c)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestGetFan_NotFound(t *testing.T) {
	svc := &mockFanService{
		getFn: func(ctx context.Context, id uint) (*models.Fan, error) {
			return nil, service.ErrFanNotFound
		},
	}

	c, _ := newTestContext(t, http.MethodGet, "/api/fans/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := NewFanHandler(svc).Get(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestGetFan_BadID(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/api/fans/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := NewFanHandler(&mockFanService{}).Get(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestAddSelection_TourFullResponse(t *testing.T) {
	svc := &mockFanService{
		addSelectionFn: func(ctx context.Context, fanID, tourID uint) (*models.Selection, error) {
			return nil, service.ErrTourUnavailable
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/api/fans/1/selections", `{"tour_id":10}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewFanHandler(svc).AddSelection(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestAddSelection_LimitResponse(t *testing.T) {
	svc := &mockFanService{
		addSelectionFn: func(ctx context.Context, fanID, tourID uint) (*models.Selection, error) {
			return nil, service.ErrSelectionLimit
		},
	}

	c, _ := newTestContext(t, http.MethodPost, "/api/fans/1/selections", `{"tour_id":10}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewFanHandler(svc).AddSelection(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestAddSelection_Created(t *testing.T) {
	svc := &mockFanService{
		addSelectionFn: func(ctx context.Context, fanID, tourID uint) (*models.Selection, error) {
			return &models.Selection{
				ID:         3,
				FanID:      fanID,
				TourID:     tourID,
				Status:     models.SelectionPending,
				SelectedAt: time.Now(),
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/api/fans/1/selections", `{"tour_id":10}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := NewFanHandler(svc).AddSelection(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.SelectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(10), resp.TourID)
	assert.Equal(t, models.SelectionPending, resp.Status)
}

func TestRemoveSelection_HasTicketConflict(t *testing.T) {
	svc := &mockFanService{
		removeSelectionFn: func(ctx context.Context, fanID, selectionID uint) error {
			return service.ErrHasTicket
		},
	}

	c, _ := newTestContext(t, http.MethodDelete, "/api/fans/1/selections/2", "")
	c.SetParamNames("id", "selectionID")
	c.SetParamValues("1", "2")

	err := NewFanHandler(svc).RemoveSelection(c)
	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
}
