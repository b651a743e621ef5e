package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	courtStatement = "This report contains digital forensic analysis of Android logs. It has been prepared in accordance " +
		"with forensic investigation standards and is intended for use as court-admissible evidence. All procedures " +
		"were performed following established chain-of-custody practices."
	methodology = "The analysis involved the extraction of logs from the device using ADB commands. The logs were then " +
		"filtered by time range, keyword, severity, and subtype, and categorized by log type. Graphical " +
		"representations were generated to illustrate key activity trends. All steps were conducted under strict " +
		"forensic protocols to preserve evidence integrity."
	conclusion = "Based on the analysis of the Android logs, the evidence indicates activity pertinent to the case. " +
		"All analyses were conducted in accordance with forensic standards. This report is complete and is prepared " +
		"for court presentation."
)

var custodySteps = []string{
	"1. Evidence acquired from the Android device using approved ADB tools.",
	"2. Logs extracted include Android Logcat, Call Logs, and SMS Logs.",
	"3. All files were hashed with SHA-256 at report time; digests are listed below.",
	"4. This report documents the complete process, ensuring chain-of-custody integrity.",
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w writer) heading(size float64, text string, align string) {
	w.pdf.SetFont("Arial", "B", size)
	w.pdf.CellFormat(0, 10, w.tr(text), "", 1, align, false, 0, "")
}

func (w writer) line(text string) {
	w.pdf.SetFont("Arial", "", 12)
	w.pdf.CellFormat(0, 8, w.tr(text), "", 1, "L", false, 0, "")
}

func (w writer) para(size float64, text, align string) {
	w.pdf.SetFont("Arial", "", size)
	w.pdf.MultiCell(0, 8, w.tr(text), "", align, false)
}

func (w writer) table(valueHeader, countHeader string, rows []Count) {
	w.pdf.SetFont("Arial", "B", 12)
	w.pdf.CellFormat(90, 8, w.tr(valueHeader), "1", 0, "L", false, 0, "")
	w.pdf.CellFormat(50, 8, w.tr(countHeader), "1", 1, "L", false, 0, "")
	w.pdf.SetFont("Arial", "", 12)
	for _, row := range rows {
		w.pdf.CellFormat(90, 8, w.tr(row.Value), "1", 0, "L", false, 0, "")
		w.pdf.CellFormat(50, 8, strconv.Itoa(row.Count), "1", 1, "L", false, 0, "")
	}
}

// RenderPDF writes r as a multi-page PDF document.
func RenderPDF(r Report, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Forensic Analysis Report", false)
	pdf.SetCreator("droidtrace", false)
	pdf.SetAuthor(r.Examiner, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Case %s - Page %d/{nb}", r.CaseNumber, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	w := writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	// Cover
	pdf.AddPage()
	w.heading(24, "FORENSIC ANALYSIS REPORT", "C")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 16)
	pdf.CellFormat(0, 10, w.tr("Case Number: "+r.CaseNumber), "", 1, "C", false, 0, "")
	pdf.Ln(5)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, w.tr("Examiner: "+r.Examiner), "", 1, "C", false, 0, "")
	pdf.Ln(10)
	pdf.CellFormat(0, 10, "Date: "+r.Generated.Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(20)
	w.para(12, courtStatement, "C")

	// Chain of custody
	pdf.AddPage()
	w.heading(18, "Chain of Custody", "C")
	pdf.Ln(10)
	for _, step := range custodySteps {
		w.para(12, step, "L")
	}
	if len(r.Hashes) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Courier", "", 8)
		for _, h := range r.Hashes {
			pdf.MultiCell(0, 5, w.tr(fmt.Sprintf("%s (%d bytes)\nSHA-256 %s", filepath.Base(h.Path), h.Size, h.SHA256)), "", "L", false)
		}
	}

	// Methodology
	pdf.AddPage()
	w.heading(18, "Methodology", "C")
	pdf.Ln(10)
	w.para(12, methodology, "L")

	// Contents
	pdf.AddPage()
	w.heading(16, "Table of Contents", "L")
	pdf.Ln(10)
	for _, entry := range []string{"1. Call Log Analysis", "2. SMS Log Analysis", "3. Logcat Analysis", "4. Conclusion"} {
		w.line(entry)
	}

	// Device
	pdf.AddPage()
	w.heading(16, "Device Information", "L")
	pdf.Ln(5)
	if r.DeviceErr != nil {
		w.line("Could not retrieve device information")
	} else {
		w.line("Device Model: " + r.Device.Model)
		w.line("Android Version: " + r.Device.AndroidVersion)
		w.line("Kernel Version: " + r.Device.Kernel)
	}

	renderCalls(w, r)
	renderSMS(w, r)
	renderLogcat(w, r)

	// Conclusion
	pdf.AddPage()
	w.heading(18, "Conclusion", "C")
	pdf.Ln(10)
	w.para(12, conclusion, "L")
	pdf.Ln(10)
	w.line("Examiner Signature: __________________________")
	w.line("Date: " + r.Generated.Format("2006-01-02"))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderCalls(w writer, r Report) {
	w.pdf.AddPage()
	w.heading(16, "1. Call Log Analysis", "L")
	w.pdf.Ln(10)
	switch {
	case r.CallsErr != nil:
		w.line(fmt.Sprintf("Error analyzing call logs: %v", r.CallsErr))
		return
	case r.Calls.Note != "":
		w.line(r.Calls.Note)
		return
	case r.Calls.Total == 0:
		w.line("No call logs found")
		return
	}
	w.line(fmt.Sprintf("Total calls: %d", r.Calls.Total))
	w.line(fmt.Sprintf("Incoming calls: %d", r.Calls.Incoming))
	w.line(fmt.Sprintf("Outgoing calls: %d", r.Calls.Outgoing))
	w.line(fmt.Sprintf("Missed calls: %d", r.Calls.Missed))
	w.pdf.Ln(10)
	if len(r.Calls.Top) == 0 {
		w.line("No phone numbers found")
		return
	}
	w.heading(14, "Top 5 Most Frequent Callers", "L")
	w.pdf.Ln(5)
	w.table("Phone Number", "Call Count", r.Calls.Top)
}

func renderSMS(w writer, r Report) {
	w.pdf.AddPage()
	w.heading(16, "2. SMS Log Analysis", "L")
	w.pdf.Ln(10)
	switch {
	case r.SMSErr != nil:
		w.line(fmt.Sprintf("Error analyzing SMS logs: %v", r.SMSErr))
		return
	case r.SMS.Note != "":
		w.line(r.SMS.Note)
		return
	case r.SMS.Total == 0:
		w.line("No SMS logs found")
		return
	}
	w.line(fmt.Sprintf("Total SMS messages: %d", r.SMS.Total))
	w.line(fmt.Sprintf("Incoming messages: %d", r.SMS.Incoming))
	w.line(fmt.Sprintf("Outgoing messages: %d", r.SMS.Outgoing))
	w.pdf.Ln(10)
	if len(r.SMS.Top) == 0 {
		w.line("No sender data found")
		return
	}
	w.heading(14, "Top 5 Most Frequent SMS Senders", "L")
	w.pdf.Ln(5)
	w.table("Phone Number", "Message Count", r.SMS.Top)
}

func renderLogcat(w writer, r Report) {
	w.pdf.AddPage()
	w.heading(16, "3. Logcat Analysis", "L")
	w.pdf.Ln(10)
	for _, s := range r.Categories {
		if s.Err != nil {
			w.line(fmt.Sprintf("Error analyzing %s logs: %v", s.Name, s.Err))
			continue
		}
		w.heading(14, s.Name+" Logs", "L")
		renderSection(w, s, "No log entries found for today.")
	}
	switch {
	case r.Raw != nil:
		w.heading(14, r.Raw.Name, "L")
		if r.Raw.Err != nil {
			w.line(fmt.Sprintf("Error reading raw logcat: %v", r.Raw.Err))
			return
		}
		renderSection(w, *r.Raw, "No raw log entries found for today.")
	case r.RawMissing:
		w.heading(14, "Raw Logcat Data", "L")
		w.line("No raw logcat data available.")
	}
}

func renderSection(w writer, s Section, emptyText string) {
	w.pdf.Ln(5)
	w.line(fmt.Sprintf("Total entries: %d", s.Total))
	if len(s.Today) == 0 {
		w.para(10, emptyText, "L")
		w.pdf.Ln(5)
		return
	}
	w.pdf.SetFont("Arial", "B", 12)
	w.pdf.CellFormat(0, 8, "Recent Logs from Today:", "", 1, "L", false, 0, "")
	for _, line := range s.Today {
		w.para(10, "- "+line, "L")
	}
	w.pdf.Ln(5)
}
