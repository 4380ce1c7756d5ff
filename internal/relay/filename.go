package relay

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ExtensionForMIME returns the canonical extension (with dot) for a MIME type,
// or "" when unknown.
func ExtensionForMIME(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		return ""
	}
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}
	if m := mimetype.Lookup(mimeType); m != nil {
		return m.Extension()
	}
	return ""
}

// ResolveFilename picks the name a file is uploaded under: the original name,
// else "<file-id><extension inferred from MIME>", else "<file-id><fallbackExt>".
func ResolveFilename(fileID, original, mimeType, fallbackExt string) string {
	if original = strings.TrimSpace(original); original != "" {
		if name := filepath.Base(original); name != "." && name != ".." && name != string(filepath.Separator) {
			return name
		}
	}
	if ext := ExtensionForMIME(mimeType); ext != "" {
		return fileID + ext
	}
	return fileID + fallbackExt
}
