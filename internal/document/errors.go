package document

import "fmt"

// SupportedFormatsList is the human-readable list used in unsupported-
// format errors.
const SupportedFormatsList = "PDF, TXT, DOC, DOCX, CSV, JSON, XML, or image files"

// UnsupportedFormatError is returned for extensions outside the supported
// set. It is a client-input failure.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: use %s", e.Ext, SupportedFormatsList)
}

// CapabilityError is returned when the only extraction path for a format
// depends on a backend that is missing or produced nothing. The message
// names every capability that would have unblocked the request.
type CapabilityError struct {
	Format  string
	Missing []string
}

func (e *CapabilityError) Error() string {
	switch e.Format {
	case "pdf":
		return "could not extract text from PDF: install poppler-utils (pdftotext) for digital PDFs, " +
			"or poppler-utils (pdftoppm) plus tesseract OCR for scanned PDFs"
	case "image":
		return "could not extract text from image: install tesseract OCR"
	default:
		return fmt.Sprintf("could not extract text from %s: missing %v", e.Format, e.Missing)
	}
}

// MalformedInputError is returned for corrupt archives and PDFs. It is a
// client-input failure distinct from a missing capability.
type MalformedInputError struct {
	Format string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s file: %v", e.Format, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
