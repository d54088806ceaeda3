package playbook

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const contentWidth = 180.0

// WritePDF renders pb as a one-page A4 document.
func WritePDF(w io.Writer, pb Playbook, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Retention Playbook", false)
	pdf.SetCreator("churn-dashboard", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(contentWidth, 12, "Retention Playbook", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", generatedAt.Format("2 January 2006 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFillColor(245, 247, 250)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 8, "Risk Assessment", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	row(pdf, "Risk level", pb.RiskLevel)
	row(pdf, "Churn probability", fmt.Sprintf("%.1f%%", pb.Score*100))
	row(pdf, "Asset exposure", money(pb.Exposure))
	row(pdf, "Segment", pb.Tier)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 8, "Recommended Action", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(contentWidth, 6, pb.Action, "LRB", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(contentWidth, 8, "Recoverable Assets", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(contentWidth, 10, money(pb.RecoverableAsset), "LRB", 1, "L", false, 0, "")
	pdf.Ln(6)

	if len(pb.Context) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(contentWidth, 8, "Technical Context (illustrative heuristic)", "1", 1, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, d := range pb.Context {
			pdf.CellFormat(50, 6, d.Name, "L", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%+.2f", d.Value), "", 0, "R", false, 0, "")
			pdf.CellFormat(contentWidth-70, 6, d.Note, "R", 1, "L", false, 0, "")
		}
		pdf.CellFormat(contentWidth, 1, "", "LRB", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render playbook PDF: %w", err)
	}
	return nil
}

func row(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(50, 7, label, "L", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth-50, 7, value, "R", 1, "L", false, 0, "")
}

// money formats whole dollars with thousands separators.
func money(amount int64) string {
	return "$" + groupThousands(amount)
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
