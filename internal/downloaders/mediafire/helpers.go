package mediafire

import (
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tanq16/mediafire-dl/internal/utils"
	"golang.org/x/text/encoding/charmap"
)

var quotedFilenameRegex = regexp.MustCompile(`filename="(.*)"`)

// MaterializeOutput picks where the resolved file goes: the explicit
// destination when given, else the name from Content-Disposition, else the
// last path segment of the resolved URL. An explicit path naming an existing
// directory receives the derived name inside that directory.
func MaterializeOutput(res *Resolved, explicit utils.Destination) utils.Destination {
	if explicit == nil {
		return utils.PathDestination{Path: derivedName(res)}
	}
	if d, ok := explicit.(utils.PathDestination); ok {
		if info, err := os.Stat(d.Path); err == nil && info.IsDir() {
			return utils.PathDestination{Path: filepath.Join(d.Path, derivedName(res))}
		}
	}
	return explicit
}

func derivedName(res *Resolved) string {
	if name := filenameFromHeader(res.Response.Header.Get("Content-Disposition")); name != "" {
		return name
	}
	return filenameFromURL(res.URL)
}

func filenameFromHeader(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}
	var name string
	if m := quotedFilenameRegex.FindStringSubmatch(contentDisposition); m != nil {
		name = RecodeLatin1(m[1])
	} else if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
		// mime folds filename*=UTF-8''... into "filename"
		name = params["filename"]
	}
	return sanitizeFilename(name)
}

// RecodeLatin1 undoes a Latin-1 decode of UTF-8 bytes. The site sends UTF-8
// file names in Content-Disposition and some HTTP stacks hand them over as
// Latin-1 text ("rÃ©sumÃ©" for "résumé"). Text that is not representable in
// Latin-1, or whose bytes are not valid UTF-8, is returned unchanged.
func RecodeLatin1(s string) string {
	raw, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(raw) {
		return s
	}
	return raw
}

// sanitizeFilename keeps only the final element of a header-supplied name.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	return base
}

func filenameFromURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	base := path.Base(parsedURL.Path)
	if base == "." || base == "/" || base == "" {
		return "download"
	}
	return base
}
