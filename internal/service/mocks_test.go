package service

import (
	"context"

	"github.com/fanexp/vip-tickets/internal/models"
	"github.com/fanexp/vip-tickets/pkg/pdf"
	"gorm.io/gorm"
)

// Function-field mocks. Unset lookups report gorm.ErrRecordNotFound and
// unset writes succeed, so each test only wires what it exercises.

type mockFanRepo struct {
	createFn       func(ctx context.Context, fan *models.Fan) error
	findByIDFn     func(ctx context.Context, id uint) (*models.Fan, error)
	findByIDFullFn func(ctx context.Context, id uint) (*models.Fan, error)
	findByEmailFn  func(ctx context.Context, email string) (*models.Fan, error)
	findByCodeFn   func(ctx context.Context, code string) (*models.Fan, error)
	codeExistsFn   func(ctx context.Context, code string) (bool, error)
	saveFn         func(ctx context.Context, fan *models.Fan) error
	countFn        func(ctx context.Context) (int64, error)
}

func (m *mockFanRepo) Create(ctx context.Context, fan *models.Fan) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, fan)
}

func (m *mockFanRepo) FindByID(ctx context.Context, id uint) (*models.Fan, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockFanRepo) FindByIDFull(ctx context.Context, id uint) (*models.Fan, error) {
	if m.findByIDFullFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFullFn(ctx, id)
}

func (m *mockFanRepo) FindByEmail(ctx context.Context, email string) (*models.Fan, error) {
	if m.findByEmailFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByEmailFn(ctx, email)
}

func (m *mockFanRepo) FindByCode(ctx context.Context, code string) (*models.Fan, error) {
	if m.findByCodeFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByCodeFn(ctx, code)
}

func (m *mockFanRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.codeExistsFn == nil {
		return false, nil
	}
	return m.codeExistsFn(ctx, code)
}

func (m *mockFanRepo) Save(ctx context.Context, fan *models.Fan) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, fan)
}

func (m *mockFanRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn == nil {
		return 0, nil
	}
	return m.countFn(ctx)
}

type mockTourRepo struct {
	createFn            func(ctx context.Context, tour *models.Tour) error
	findByIDFn          func(ctx context.Context, id uint) (*models.Tour, error)
	findByIDForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.Tour, error)
	findByIDsFn         func(ctx context.Context, ids []uint) ([]models.Tour, error)
	findAllFn           func(ctx context.Context, activeOnly bool, offset, limit int) ([]models.Tour, int64, error)
	findAvailableFn     func(ctx context.Context) ([]models.Tour, error)
	saveFn              func(ctx context.Context, tour *models.Tour) error
	saveTxFn            func(ctx context.Context, tx *gorm.DB, tour *models.Tour) error
	deleteFn            func(ctx context.Context, tour *models.Tour) error
	countFn             func(ctx context.Context, activeOnly bool) (int64, error)
}

func (m *mockTourRepo) Create(ctx context.Context, tour *models.Tour) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, tour)
}

func (m *mockTourRepo) FindByID(ctx context.Context, id uint) (*models.Tour, error) {
	if m.findByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockTourRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Tour, error) {
	if m.findByIDForUpdateFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDForUpdateFn(ctx, tx, id)
}

func (m *mockTourRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Tour, error) {
	if m.findByIDsFn == nil {
		return nil, nil
	}
	return m.findByIDsFn(ctx, ids)
}

func (m *mockTourRepo) FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]models.Tour, int64, error) {
	if m.findAllFn == nil {
		return nil, 0, nil
	}
	return m.findAllFn(ctx, activeOnly, offset, limit)
}

func (m *mockTourRepo) FindAvailable(ctx context.Context) ([]models.Tour, error) {
	if m.findAvailableFn == nil {
		return nil, nil
	}
	return m.findAvailableFn(ctx)
}

func (m *mockTourRepo) Save(ctx context.Context, tour *models.Tour) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, tour)
}

func (m *mockTourRepo) SaveTx(ctx context.Context, tx *gorm.DB, tour *models.Tour) error {
	if m.saveTxFn == nil {
		return nil
	}
	return m.saveTxFn(ctx, tx, tour)
}

func (m *mockTourRepo) Delete(ctx context.Context, tour *models.Tour) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, tour)
}

func (m *mockTourRepo) Count(ctx context.Context, activeOnly bool) (int64, error) {
	if m.countFn == nil {
		return 0, nil
	}
	return m.countFn(ctx, activeOnly)
}

type mockSelectionRepo struct {
	createFn           func(ctx context.Context, tx *gorm.DB, s *models.Selection) error
	findByIDTxFn       func(ctx context.Context, tx *gorm.DB, id uint) (*models.Selection, error)
	findByIDFullFn     func(ctx context.Context, id uint) (*models.Selection, error)
	findByFanFn        func(ctx context.Context, fanID uint) ([]models.Selection, error)
	findByFanAndIDFn   func(ctx context.Context, fanID, id uint) (*models.Selection, error)
	findByTicketIDFn   func(ctx context.Context, ticketID string) (*models.Selection, error)
	countLiveByFanFn   func(ctx context.Context, fanID uint) (int64, error)
	saveTxFn           func(ctx context.Context, tx *gorm.DB, s *models.Selection) error
	deleteFn           func(ctx context.Context, s *models.Selection) error
	countFn            func(ctx context.Context) (int64, error)
	countWithTicketsFn func(ctx context.Context) (int64, error)
}

func (m *mockSelectionRepo) Create(ctx context.Context, tx *gorm.DB, s *models.Selection) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, tx, s)
}

func (m *mockSelectionRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uint) (*models.Selection, error) {
	if m.findByIDTxFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDTxFn(ctx, tx, id)
}

func (m *mockSelectionRepo) FindByIDFull(ctx context.Context, id uint) (*models.Selection, error) {
	if m.findByIDFullFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByIDFullFn(ctx, id)
}

func (m *mockSelectionRepo) FindByFan(ctx context.Context, fanID uint) ([]models.Selection, error) {
	if m.findByFanFn == nil {
		return nil, nil
	}
	return m.findByFanFn(ctx, fanID)
}

func (m *mockSelectionRepo) FindByFanAndID(ctx context.Context, fanID, id uint) (*models.Selection, error) {
	if m.findByFanAndIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByFanAndIDFn(ctx, fanID, id)
}

func (m *mockSelectionRepo) FindByTicketID(ctx context.Context, ticketID string) (*models.Selection, error) {
	if m.findByTicketIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByTicketIDFn(ctx, ticketID)
}

func (m *mockSelectionRepo) CountLiveByFan(ctx context.Context, fanID uint) (int64, error) {
	if m.countLiveByFanFn == nil {
		return 0, nil
	}
	return m.countLiveByFanFn(ctx, fanID)
}

func (m *mockSelectionRepo) SaveTx(ctx context.Context, tx *gorm.DB, s *models.Selection) error {
	if m.saveTxFn == nil {
		return nil
	}
	return m.saveTxFn(ctx, tx, s)
}

func (m *mockSelectionRepo) Delete(ctx context.Context, s *models.Selection) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, s)
}

func (m *mockSelectionRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn == nil {
		return 0, nil
	}
	return m.countFn(ctx)
}

func (m *mockSelectionRepo) CountWithTickets(ctx context.Context) (int64, error) {
	if m.countWithTicketsFn == nil {
		return 0, nil
	}
	return m.countWithTicketsFn(ctx)
}

// Transaction runs fn with a nil tx; the mocks ignore it.
func (m *mockSelectionRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type mockConsentRepo struct {
	createFn    func(ctx context.Context, consent *models.Consent) error
	findByFanFn func(ctx context.Context, fanID uint) (*models.Consent, error)
	saveFn      func(ctx context.Context, consent *models.Consent) error
	deleteFn    func(ctx context.Context, consent *models.Consent) error
}

func (m *mockConsentRepo) Create(ctx context.Context, consent *models.Consent) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, consent)
}

func (m *mockConsentRepo) FindByFan(ctx context.Context, fanID uint) (*models.Consent, error) {
	if m.findByFanFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.findByFanFn(ctx, fanID)
}

func (m *mockConsentRepo) Save(ctx context.Context, consent *models.Consent) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, consent)
}

func (m *mockConsentRepo) Delete(ctx context.Context, consent *models.Consent) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, consent)
}

// mockRenderer records rendered tickets instead of producing files.
type mockRenderer struct {
	err     error
	paths   []string
	tickets []pdf.Ticket
}

func (m *mockRenderer) RenderFile(path string, t pdf.Ticket) error {
	if m.err != nil {
		return m.err
	}
	m.paths = append(m.paths, path)
	m.tickets = append(m.tickets, t)
	return nil
}
