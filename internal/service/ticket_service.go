package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fanexp/vip-tickets/internal/ident"
	"github.com/fanexp/vip-tickets/internal/models"
	"github.com/fanexp/vip-tickets/internal/repository"
	"github.com/fanexp/vip-tickets/pkg/mailer"
	"github.com/fanexp/vip-tickets/pkg/pdf"
	"github.com/fanexp/vip-tickets/pkg/qrcode"
	"github.com/fanexp/vip-tickets/pkg/rabbitmq"
	"gorm.io/gorm"
)

var (
	ErrTourNotFound      = errors.New("tour not found")
	ErrTourUnavailable   = errors.New("tour is not available")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTicketFileMissing = errors.New("ticket file not found on server")
	ErrConsentRequired   = errors.New("consent form must be completed before generating tickets")
	ErrNoSelections      = errors.New("no tour selections found")
	ErrSelectionClosed   = errors.New("selection is cancelled or expired")
)

// Long-form date printed on tickets, e.g. "Monday, January 5, 2026 at 07:00 PM".
const ticketDateLayout = "Monday, January 2, 2006 at 03:04 PM"

// TicketPDFRenderer renders a ticket document to a file. Satisfied by
// *pdf.TicketRenderer.
type TicketPDFRenderer interface {
	RenderFile(path string, t pdf.Ticket) error
}

// IssueResult describes one generated (or already present) ticket.
type IssueResult struct {
	SelectionID      uint       `json:"selection_id"`
	TourID           uint       `json:"tour_id"`
	TicketID         string     `json:"ticket_id"`
	QRCode           string     `json:"qr_code,omitempty"`
	PDFPath          string     `json:"pdf_path"`
	PDFFilename      string     `json:"pdf_filename"`
	GeneratedAt      *time.Time `json:"generated_at,omitempty"`
	AlreadyGenerated bool       `json:"already_generated"`
	Error            string     `json:"error,omitempty"`
}

// DownloadInfo points a fan at one of their generated tickets.
type DownloadInfo struct {
	TicketID    string     `json:"ticket_id"`
	TourTitle   string     `json:"tour_title"`
	TourDate    time.Time  `json:"tour_date"`
	TourCity    string     `json:"tour_city"`
	DownloadURL string     `json:"download_url"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

type TicketService interface {
	Issue(ctx context.Context, fanID, selectionID uint) (*IssueResult, error)
	IssueAllForFan(ctx context.Context, fanID uint) ([]IssueResult, error)
	Regenerate(ctx context.Context, selectionID uint) (*IssueResult, error)
	Verify(ctx context.Context, ticketID string) (*models.Selection, error)
	DownloadPath(ctx context.Context, ticketID string) (string, error)
	FanDownloads(ctx context.Context, fanID uint) ([]DownloadInfo, error)
	Info(ctx context.Context, selectionID uint) (*models.Selection, error)
}

type ticketService struct {
	fans       repository.FanRepository
	tours      repository.TourRepository
	selections repository.SelectionRepository
	renderer   TicketPDFRenderer
	mail       *mailer.Mailer
	publisher  *rabbitmq.Publisher
	ticketDir  string
}

func NewTicketService(
	fans repository.FanRepository,
	tours repository.TourRepository,
	selections repository.SelectionRepository,
	renderer TicketPDFRenderer,
	mail *mailer.Mailer,
	publisher *rabbitmq.Publisher,
	ticketDir string,
) TicketService {
	return &ticketService{
		fans:       fans,
		tours:      tours,
		selections: selections,
		renderer:   renderer,
		mail:       mail,
		publisher:  publisher,
		ticketDir:  ticketDir,
	}
}

// Issue generates a ticket for one selection. Inside a single
// transaction it locks the tour row, re-checks the already-has-ticket
// case and tour availability, renders the PDF, and persists ticket
// fields, the confirmed status and the claimed counter together. A
// selection that already has a ticket is reported as such and nothing
// is re-generated or re-counted.
func (s *ticketService) Issue(ctx context.Context, fanID, selectionID uint) (*IssueResult, error) {
	fan, err := s.fans.FindByID(ctx, fanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}
	if !fan.HasCompletedConsent() {
		return nil, ErrConsentRequired
	}

	selection, err := s.selections.FindByFanAndID(ctx, fanID, selectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSelectionNotFound
		}
		return nil, err
	}

	result, err := s.issue(ctx, fan, selection, true)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyGenerated && s.mail != nil {
		go s.mailTicket(fan, result)
	}
	return result, nil
}

// issue runs the transactional issuance steps. countClaim controls
// whether a successful generation bumps the tour counter; regeneration
// of an existing ticket passes false.
func (s *ticketService) issue(ctx context.Context, fan *models.Fan, selection *models.Selection, countClaim bool) (*IssueResult, error) {
	if selection.Status == models.SelectionCancelled || selection.Status == models.SelectionExpired {
		return nil, ErrSelectionClosed
	}
	if countClaim && selection.HasTicket() {
		return alreadyGenerated(selection), nil
	}

	var result *IssueResult
	err := s.selections.Transaction(ctx, func(tx *gorm.DB) error {
		tour, err := s.tours.FindByIDForUpdate(ctx, tx, selection.TourID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTourNotFound
			}
			return err
		}

		// Re-read under the lock: a concurrent request may have issued
		// this ticket between our first read and the lock acquisition.
		current, err := s.selections.FindByIDTx(ctx, tx, selection.ID)
		if err != nil {
			return err
		}
		if countClaim {
			if current.HasTicket() {
				result = alreadyGenerated(current)
				return nil
			}
			// Capacity is re-validated at issuance time, not just at
			// selection time.
			if !tour.IsAvailable() {
				return ErrTourUnavailable
			}
		}

		ticketID := ident.TicketID(fan.ID, tour.ID)
		qrURI, err := qrcode.DataURI(ticketID)
		if err != nil {
			return fmt.Errorf("generate qr: %w", err)
		}

		filename := fmt.Sprintf("VIP_Ticket_%s_%s_%s.pdf",
			ident.SanitizeFilename(fan.Name),
			ident.SanitizeFilename(tour.Title),
			ticketID,
		)
		path := filepath.Join(s.ticketDir, filename)

		ticket := pdf.Ticket{
			TicketID:  ticketID,
			FanName:   fan.Name,
			TourTitle: tour.Title,
			Artists:   tour.Artists,
			Date:      tour.Date.Format(ticketDateLayout),
			Venue:     tour.Venue,
			City:      tour.City,
			QRDataURI: qrURI,
		}
		if err := s.renderer.RenderFile(path, ticket); err != nil {
			// Abort before any row is touched; the transaction leaves
			// the selection unmodified.
			return fmt.Errorf("render ticket pdf: %w", err)
		}

		now := time.Now().UTC()
		current.TicketID = ticketID
		current.TicketQRCode = qrURI
		current.TicketPDFPath = path
		current.TicketGeneratedAt = &now
		current.Status = models.SelectionConfirmed
		current.ConfirmedAt = &now
		if err := s.selections.SaveTx(ctx, tx, current); err != nil {
			return fmt.Errorf("save selection: %w", err)
		}

		if countClaim {
			tour.TicketsClaimed++
			if err := s.tours.SaveTx(ctx, tx, tour); err != nil {
				return fmt.Errorf("save tour: %w", err)
			}
		}

		result = &IssueResult{
			SelectionID: current.ID,
			TourID:      tour.ID,
			TicketID:    ticketID,
			QRCode:      qrURI,
			PDFPath:     path,
			PDFFilename: filename,
			GeneratedAt: &now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if countClaim && !result.AlreadyGenerated {
		_ = s.publisher.Publish(rabbitmq.KeyTicketIssued, result)
	}
	return result, nil
}

// IssueAllForFan generates tickets for every pending or confirmed
// selection. Already-ticketed selections are reported as such;
// per-item failures are logged and skipped so the batch continues.
func (s *ticketService) IssueAllForFan(ctx context.Context, fanID uint) ([]IssueResult, error) {
	fan, err := s.fans.FindByIDFull(ctx, fanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}
	if !fan.HasCompletedConsent() {
		return nil, ErrConsentRequired
	}
	if len(fan.Selections) == 0 {
		return nil, ErrNoSelections
	}

	var results []IssueResult
	var generatedPaths []string
	for i := range fan.Selections {
		selection := &fan.Selections[i]
		if selection.Status != models.SelectionPending && selection.Status != models.SelectionConfirmed {
			continue
		}

		if selection.HasTicket() {
			results = append(results, *alreadyGenerated(selection))
			continue
		}

		result, err := s.issue(ctx, fan, selection, true)
		if err != nil {
			log.Printf("issue ticket for selection %d: %v", selection.ID, err)
			results = append(results, IssueResult{
				SelectionID: selection.ID,
				TourID:      selection.TourID,
				Error:       err.Error(),
			})
			continue
		}
		results = append(results, *result)
		generatedPaths = append(generatedPaths, result.PDFPath)
	}

	if len(generatedPaths) > 0 && s.mail != nil {
		go func(email, name string, paths []string) {
			if err := s.mail.SendAllTickets(email, name, paths); err != nil {
				log.Printf("ticket mail: %v", err)
			}
		}(fan.Email, fan.Name, generatedPaths)
	}

	return results, nil
}

// Regenerate replaces a selection's ticket: a fresh ticket ID and
// document are produced, then the old PDF is removed. The claimed
// counter is bumped only when the selection had no ticket before, so
// regeneration never double-counts.
func (s *ticketService) Regenerate(ctx context.Context, selectionID uint) (*IssueResult, error) {
	selection, err := s.selections.FindByIDFull(ctx, selectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSelectionNotFound
		}
		return nil, err
	}

	fan := selection.Fan
	if fan == nil {
		return nil, ErrFanNotFound
	}
	if !fan.HasCompletedConsent() {
		return nil, ErrConsentRequired
	}

	hadTicket := selection.HasTicket()
	oldPDFPath := selection.TicketPDFPath

	result, err := s.issue(ctx, fan, selection, !hadTicket)
	if err != nil {
		return nil, err
	}

	// Remove the replaced file only once the new ticket exists, so a
	// failed render leaves the previous ticket downloadable.
	if hadTicket && oldPDFPath != result.PDFPath {
		if err := os.Remove(oldPDFPath); err != nil && !os.IsNotExist(err) {
			log.Printf("remove old ticket pdf %s: %v", oldPDFPath, err)
		}
	}

	_ = s.publisher.Publish(rabbitmq.KeyTicketRegenerated, result)

	if s.mail != nil {
		go s.mailTicket(fan, result)
	}
	return result, nil
}

// Verify is a pure lookup: the selection (with fan and tour) for a
// ticket ID, or not-found. No QR payload parsing is involved.
func (s *ticketService) Verify(ctx context.Context, ticketID string) (*models.Selection, error) {
	selection, err := s.selections.FindByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return selection, nil
}

func (s *ticketService) DownloadPath(ctx context.Context, ticketID string) (string, error) {
	selection, err := s.selections.FindByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTicketNotFound
		}
		return "", err
	}
	if selection.TicketPDFPath == "" {
		return "", ErrTicketNotFound
	}
	if _, err := os.Stat(selection.TicketPDFPath); err != nil {
		return "", ErrTicketFileMissing
	}
	return selection.TicketPDFPath, nil
}

func (s *ticketService) FanDownloads(ctx context.Context, fanID uint) ([]DownloadInfo, error) {
	fan, err := s.fans.FindByIDFull(ctx, fanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFanNotFound
		}
		return nil, err
	}

	downloads := make([]DownloadInfo, 0)
	for i := range fan.Selections {
		selection := &fan.Selections[i]
		if !selection.HasTicket() || selection.Tour == nil {
			continue
		}
		downloads = append(downloads, DownloadInfo{
			TicketID:    selection.TicketID,
			TourTitle:   selection.Tour.Title,
			TourDate:    selection.Tour.Date,
			TourCity:    selection.Tour.City,
			DownloadURL: "/api/tickets/download/" + selection.TicketID,
			GeneratedAt: selection.TicketGeneratedAt,
		})
	}
	return downloads, nil
}

func (s *ticketService) Info(ctx context.Context, selectionID uint) (*models.Selection, error) {
	selection, err := s.selections.FindByIDFull(ctx, selectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSelectionNotFound
		}
		return nil, err
	}
	return selection, nil
}

func (s *ticketService) mailTicket(fan *models.Fan, result *IssueResult) {
	tourTitle := result.PDFFilename
	if sel, err := s.selections.FindByIDFull(context.Background(), result.SelectionID); err == nil && sel.Tour != nil {
		tourTitle = sel.Tour.Title
	}
	if err := s.mail.SendTicket(fan.Email, fan.Name, tourTitle, result.PDFPath); err != nil {
		log.Printf("ticket mail: %v", err)
	}
}

func alreadyGenerated(s *models.Selection) *IssueResult {
	return &IssueResult{
		SelectionID:      s.ID,
		TourID:           s.TourID,
		TicketID:         s.TicketID,
		PDFPath:          s.TicketPDFPath,
		PDFFilename:      filepath.Base(s.TicketPDFPath),
		GeneratedAt:      s.TicketGeneratedAt,
		AlreadyGenerated: true,
	}
}
