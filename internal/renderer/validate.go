package renderer

import "bytes"

// pdfMagic is the signature every well-formed PDF starts with.
var pdfMagic = []byte("%PDF-")

func validatePDF(data []byte, minSize int) error {
	if len(data) < minSize {
		return &ValidationError{Reason: "output below minimum size", Size: len(data)}
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return &ValidationError{Reason: "missing %PDF- signature", Size: len(data)}
	}
	return nil
}
