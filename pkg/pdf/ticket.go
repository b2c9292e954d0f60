// Package pdf renders the fixed-layout VIP ticket document.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"log"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Ticket carries the fields printed on a rendered ticket. Date is the
// already-formatted long-form date string.
type Ticket struct {
	TicketID  string
	FanName   string
	TourTitle string
	Artists   string
	Date      string
	Venue     string
	City      string

	// Optional QR image as a data URI; an undecodable value is skipped
	// and the rest of the ticket still renders.
	QRDataURI string
}

// Letter page in points.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	margin     = 54.0 // 0.75 inch
	inch       = 72.0
)

// TicketRenderer draws a single-page VIP ticket. Zero value is ready to
// use; construct once and share, it holds no mutable state.
type TicketRenderer struct{}

func NewTicketRenderer() *TicketRenderer {
	return &TicketRenderer{}
}

// Render writes the ticket PDF to w.
func (r *TicketRenderer) Render(w io.Writer, t Ticket) error {
	doc := r.layout(t)
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("pdf output: %w", err)
	}
	return nil
}

// RenderFile writes the ticket PDF to path.
func (r *TicketRenderer) RenderFile(path string, t Ticket) error {
	doc := r.layout(t)
	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("pdf output %s: %w", path, err)
	}
	return nil
}

func (r *TicketRenderer) layout(t Ticket) *fpdf.Fpdf {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	r.drawBorders(doc)
	r.drawHeader(doc)
	r.drawInfo(doc, t)
	if t.QRDataURI != "" {
		r.drawQR(doc, t.QRDataURI)
	}
	r.drawFooter(doc)

	return doc
}

func (r *TicketRenderer) drawBorders(doc *fpdf.Fpdf) {
	// Gold outer frame
	doc.SetDrawColor(212, 175, 55)
	doc.SetLineWidth(3)
	doc.Rect(margin, margin, pageWidth-2*margin, pageHeight-2*margin, "D")

	// Thin dark inner frame
	doc.SetDrawColor(26, 26, 26)
	doc.SetLineWidth(1)
	inset := 0.1 * inch
	doc.Rect(margin+inset, margin+inset, pageWidth-2*margin-2*inset, pageHeight-2*margin-2*inset, "D")
}

func (r *TicketRenderer) drawHeader(doc *fpdf.Fpdf) {
	doc.SetTextColor(212, 175, 55)
	doc.SetFont("Helvetica", "B", 36)
	centerText(doc, 1.5*inch, "VIP TICKET")

	doc.SetTextColor(26, 26, 26)
	doc.SetFont("Helvetica", "", 14)
	centerText(doc, 1.9*inch, "Exclusive Access Pass")

	doc.SetDrawColor(212, 175, 55)
	doc.SetLineWidth(2)
	doc.Line(2*inch, 2.2*inch, pageWidth-2*inch, 2.2*inch)
}

func (r *TicketRenderer) drawInfo(doc *fpdf.Fpdf, t Ticket) {
	x := margin + 0.5*inch
	y := 3 * inch

	doc.SetTextColor(26, 26, 26)
	labelled(doc, x, y, "Ticket ID:", orNA(t.TicketID))
	y += 0.5 * inch
	labelled(doc, x, y, "Name:", orNA(t.FanName))
	y += 0.7 * inch

	doc.SetTextColor(212, 175, 55)
	doc.SetFont("Helvetica", "B", 16)
	doc.Text(x, y, "TOUR DETAILS")
	y += 0.5 * inch

	doc.SetTextColor(26, 26, 26)
	doc.SetFont("Helvetica", "B", 14)
	doc.Text(x, y, orNA(t.TourTitle))
	y += 0.4 * inch

	doc.SetFont("Helvetica", "", 12)
	doc.Text(x, y, "Artists: "+orNA(t.Artists))
	y += 0.4 * inch
	doc.Text(x, y, "Date: "+orNA(t.Date))
	y += 0.4 * inch
	doc.Text(x, y, "Venue: "+orNA(t.Venue))
	y += 0.4 * inch
	doc.Text(x, y, "City: "+orNA(t.City))
}

func (r *TicketRenderer) drawQR(doc *fpdf.Fpdf, dataURI string) {
	raw, err := decodeDataURI(dataURI)
	if err != nil {
		// Ticket stays usable without the QR section
		log.Printf("pdf: skipping QR image: %v", err)
		return
	}

	// Registering undecodable bytes would poison the whole document,
	// so confirm they parse as PNG first.
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		log.Printf("pdf: skipping QR image: %v", err)
		return
	}

	size := 2 * inch
	x := pageWidth - margin - size - 0.5*inch
	y := pageHeight - 2*inch - size

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(raw))
	doc.ImageOptions("ticket-qr", x, y, size, size, false, opts, 0, "")

	doc.SetTextColor(26, 26, 26)
	doc.SetFont("Helvetica", "", 10)
	doc.SetXY(x, y+size+0.15*inch)
	doc.CellFormat(size, 12, "Scan for Verification", "", 0, "C", false, 0, "")
}

func (r *TicketRenderer) drawFooter(doc *fpdf.Fpdf) {
	doc.SetTextColor(26, 26, 26)
	doc.SetFont("Helvetica", "", 9)
	centerText(doc, pageHeight-margin-0.5*inch, "This is your official VIP access pass. Please present this ticket at the venue.")

	doc.SetFont("Helvetica", "", 8)
	centerText(doc, pageHeight-margin-0.25*inch, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"))
}

// decodeDataURI strips an optional data:image/...;base64, prefix and
// decodes the remainder.
func decodeDataURI(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:image") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URI")
		}
		s = s[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode qr payload: %w", err)
	}
	return raw, nil
}

func centerText(doc *fpdf.Fpdf, y float64, s string) {
	doc.SetXY(0, y-10)
	doc.CellFormat(pageWidth, 14, s, "", 0, "C", false, 0, "")
}

func labelled(doc *fpdf.Fpdf, x, y float64, label, value string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.Text(x, y, label)
	doc.SetFont("Helvetica", "", 12)
	doc.Text(x+inch, y, value)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
