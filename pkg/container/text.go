package container

import "unicode/utf8"

// TextOf extracts text from a text_blob container, or decodes the payload
// of a bytes container as UTF-8. Any other container yields false.
func TextOf(dc *DataContainer) (string, bool) {
	if dc == nil {
		return "", false
	}
	switch dc.Type() {
	case TypeTextBlob:
		return dc.Text("text_blob")
	case TypeBytes:
		b, ok := dc.Bytes("b")
		if !ok || !utf8.Valid(b) {
			return "", false
		}
		return string(b), true
	}
	return "", false
}
