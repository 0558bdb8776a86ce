package media

import (
	"bytes"
	"errors"
	"regexp"
)

var ErrNotSVG = errors.New("not an svg document")

var (
	svgScript        = regexp.MustCompile(`(?is)<\s*script[\s>].*?<\s*/\s*script\s*>`)
	svgForeign       = regexp.MustCompile(`(?is)<\s*foreignObject[\s>].*?<\s*/\s*foreignObject\s*>`)
	svgEventAttr     = regexp.MustCompile(`(?is)\son[a-z]+\s*=\s*("[^"]*"|'[^']*')`)
	svgJavascriptRef = regexp.MustCompile(`(?is)\s(?:xlink:)?href\s*=\s*("\s*javascript:[^"]*"|'\s*javascript:[^']*')`)
)

// SanitizeSVG strips scripts, foreign objects, event handlers and
// javascript: links from an SVG document.
func SanitizeSVG(input []byte) ([]byte, error) {
	if !bytes.Contains(bytes.ToLower(input), []byte("<svg")) {
		return nil, ErrNotSVG
	}

	clean := svgScript.ReplaceAll(input, nil)
	clean = svgForeign.ReplaceAll(clean, nil)
	clean = svgEventAttr.ReplaceAll(clean, nil)
	clean = svgJavascriptRef.ReplaceAll(clean, nil)
	return clean, nil
}
