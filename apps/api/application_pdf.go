package main

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// buildApplicationPDF renders the submission as a printable A4 document for
// the shelter's paper records.
func buildApplicationPDF(sub Submission) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(applicationSubject(sub), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Adoption Application")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Dog: %s", sub.Value(dogNameField))))
	pdf.Ln(7)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Applicant: %s", sub.Value(applicantNameField))))
	pdf.Ln(10)

	for _, field := range sub {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 6, tr(formatFieldLabel(field.Name)), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, tr(formatFieldValue(field.Value)), "", "L", false)
		pdf.Ln(2)
	}

	buffer := bytes.NewBuffer(nil)
	if err := pdf.Output(buffer); err != nil {
		return nil, fmt.Errorf("render application pdf: %w", err)
	}
	return buffer.Bytes(), nil
}
