// Package epub parses EPUB content into plain-text chapters and presents
// them as discrete, navigable pages with a fine-grained location index for
// progress estimation.
package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrClosed is returned when a Document is used after Close.
var ErrClosed = errors.New("epub: document is closed")

// Chapter is one spine entry with its extracted plain text.
type Chapter struct {
	Href  string
	Label string // from the nav map; may be empty
	Text  string
	Runes int // rune length of Text, cached for the location index
}

// Document is a parsed EPUB. Build one with Open, release it with Close.
type Document struct {
	Title    string
	Author   string
	Chapters []Chapter

	locations *Locations
	closed    bool
}

// container.xml points at the package document.
type containerXML struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// packageXML is the subset of the OPF package document we need.
type packageXML struct {
	Metadata struct {
		Title   string `xml:"title"`
		Creator string `xml:"creator"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID        string `xml:"id,attr"`
			Href      string `xml:"href,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		TocID    string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// ncxXML is the NCX table of contents: nav point labels keyed by content src.
type ncxXML struct {
	NavPoints []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxNavPoint struct {
	Label   string        `xml:"navLabel>text"`
	Content struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// Open parses EPUB bytes into a Document. The location index is not built
// here — call BuildLocations once after Open.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("epub: not a valid archive: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var container containerXML
	if err := readXML(files, "META-INF/container.xml", &container); err != nil {
		return nil, fmt.Errorf("epub: reading container: %w", err)
	}
	if len(container.Rootfiles) == 0 {
		return nil, errors.New("epub: container lists no rootfile")
	}
	opfPath := container.Rootfiles[0].FullPath

	var pkg packageXML
	if err := readXML(files, opfPath, &pkg); err != nil {
		return nil, fmt.Errorf("epub: reading package document: %w", err)
	}

	opfDir := path.Dir(opfPath)
	hrefByID := make(map[string]string, len(pkg.Manifest.Items))
	var ncxHref string
	for _, item := range pkg.Manifest.Items {
		hrefByID[item.ID] = item.Href
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxHref = item.Href
		}
	}
	if href, ok := hrefByID[pkg.Spine.TocID]; ok && href != "" {
		ncxHref = href
	}

	labels := map[string]string{}
	if ncxHref != "" {
		var ncx ncxXML
		if err := readXML(files, resolveHref(opfDir, ncxHref), &ncx); err == nil {
			collectLabels(ncx.NavPoints, labels)
		}
		// A broken TOC is tolerated; chapters just go unlabeled.
	}

	doc := &Document{
		Title:  strings.TrimSpace(pkg.Metadata.Title),
		Author: strings.TrimSpace(pkg.Metadata.Creator),
	}

	for _, ref := range pkg.Spine.ItemRefs {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}
		f, ok := files[resolveHref(opfDir, href)]
		if !ok {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("epub: opening %s: %w", href, err)
		}
		text, err := extractText(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("epub: parsing %s: %w", href, err)
		}
		doc.Chapters = append(doc.Chapters, Chapter{
			Href:  href,
			Label: labels[href],
			Text:  text,
			Runes: len([]rune(text)),
		})
	}

	if len(doc.Chapters) == 0 {
		return nil, errors.New("epub: spine has no readable chapters")
	}
	return doc, nil
}

// Close releases the parsed chapter text. Safe to call more than once.
func (d *Document) Close() {
	d.Chapters = nil
	d.locations = nil
	d.closed = true
}

// Locations returns the location index, or nil before BuildLocations.
func (d *Document) Locations() *Locations {
	return d.locations
}

func readXML(files map[string]*zip.File, name string, out interface{}) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("missing %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	dec := xml.NewDecoder(rc)
	dec.Strict = false
	return dec.Decode(out)
}

// resolveHref joins a manifest href onto the OPF directory.
func resolveHref(opfDir, href string) string {
	href = strings.SplitN(href, "#", 2)[0]
	if opfDir == "." || opfDir == "" {
		return href
	}
	return path.Join(opfDir, href)
}

// collectLabels flattens the nav map into href → label, keeping the first
// label seen for each content document.
func collectLabels(points []ncxNavPoint, out map[string]string) {
	for _, p := range points {
		src := strings.SplitN(p.Content.Src, "#", 2)[0]
		if src != "" {
			if _, seen := out[src]; !seen {
				out[src] = strings.TrimSpace(p.Label)
			}
		}
		collectLabels(p.Children, out)
	}
}

// blockTags start a new paragraph when encountered in chapter markup.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "section": true, "article": true,
}

// skipTags have no reader-visible text content.
var skipTags = map[string]bool{"head": true, "script": true, "style": true}

// extractText reduces chapter XHTML to plain text with blank lines between
// blocks. Inline whitespace is collapsed the way a renderer would.
func extractText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var (
		sb    strings.Builder
		skip  int
		chunk strings.Builder
	)

	flush := func() {
		text := collapseSpace(chunk.String())
		chunk.Reset()
		if text == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if skipTags[name] {
				skip++
				continue
			}
			if blockTags[name] {
				flush()
			}
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			if skipTags[name] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if blockTags[name] {
				flush()
			}
		case xml.CharData:
			if skip == 0 {
				chunk.Write(t)
			}
		}
	}
	flush()
	return sb.String(), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
