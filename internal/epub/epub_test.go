package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildEPUB assembles a minimal but well-formed EPUB in memory. chapters maps
// file name → body paragraphs; labels maps file name → nav label.
func buildEPUB(t *testing.T, title, author string, chapterOrder []string, chapters map[string][]string, labels map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	add := func(name, content string) {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	add("mimetype", "application/epub+zip")
	add("META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)

	var manifest, spine strings.Builder
	for i, name := range chapterOrder {
		fmt.Fprintf(&manifest, `<item id="ch%d" href="%s" media-type="application/xhtml+xml"/>`, i, name)
		fmt.Fprintf(&spine, `<itemref idref="ch%d"/>`, i)
	}
	manifest.WriteString(`<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>`)

	add("OEBPS/content.opf", fmt.Sprintf(`<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>%s</dc:title>
    <dc:creator>%s</dc:creator>
  </metadata>
  <manifest>%s</manifest>
  <spine toc="ncx">%s</spine>
</package>`, title, author, manifest.String(), spine.String()))

	var navPoints strings.Builder
	i := 0
	for _, name := range chapterOrder {
		if label, ok := labels[name]; ok {
			fmt.Fprintf(&navPoints, `<navPoint id="np%d"><navLabel><text>%s</text></navLabel><content src="%s"/></navPoint>`, i, label, name)
			i++
		}
	}
	add("OEBPS/toc.ncx", fmt.Sprintf(`<?xml version="1.0"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/"><navMap>%s</navMap></ncx>`, navPoints.String()))

	for _, name := range chapterOrder {
		var body strings.Builder
		for _, para := range chapters[name] {
			fmt.Fprintf(&body, "<p>%s</p>", para)
		}
		add("OEBPS/"+name, fmt.Sprintf(`<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>x</title></head><body>%s</body></html>`, body.String()))
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testBook(t *testing.T) []byte {
	t.Helper()
	return buildEPUB(t, "The Dispossessed", "Ursula K. Le Guin",
		[]string{"ch1.xhtml", "ch2.xhtml", "ch3.xhtml"},
		map[string][]string{
			"ch1.xhtml": {
				"There was a wall. It did not look important.",
				strings.Repeat("Anarres words here. ", 120),
			},
			"ch2.xhtml": {strings.Repeat("Urras and its oceans. ", 200)},
			"ch3.xhtml": {"A short closing chapter."},
		},
		map[string]string{
			"ch1.xhtml": "Chapter One",
			"ch2.xhtml": "Chapter Two",
		})
}

func TestOpen_Metadata(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if doc.Title != "The Dispossessed" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Author != "Ursula K. Le Guin" {
		t.Errorf("Author = %q", doc.Author)
	}
	if len(doc.Chapters) != 3 {
		t.Fatalf("chapters = %d, want 3", len(doc.Chapters))
	}
}

func TestOpen_ChapterLabelsAndText(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if doc.Chapters[0].Label != "Chapter One" {
		t.Errorf("chapter 0 label = %q", doc.Chapters[0].Label)
	}
	if doc.Chapters[2].Label != "" {
		t.Errorf("chapter 2 label = %q, want empty (not in nav map)", doc.Chapters[2].Label)
	}

	if !strings.HasPrefix(doc.Chapters[0].Text, "There was a wall.") {
		t.Errorf("chapter text = %q...", doc.Chapters[0].Text[:40])
	}
	if !strings.Contains(doc.Chapters[0].Text, "\n\n") {
		t.Error("paragraphs should be separated by blank lines")
	}
	if strings.Contains(doc.Chapters[0].Text, "<p>") {
		t.Error("markup must not leak into extracted text")
	}
	if doc.Chapters[0].Runes != len([]rune(doc.Chapters[0].Text)) {
		t.Error("Runes must cache the rune length of Text")
	}
}

func TestOpen_HeadContentSkipped(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	for _, ch := range doc.Chapters {
		if strings.HasPrefix(ch.Text, "x") {
			t.Errorf("head <title> text leaked into %s", ch.Href)
		}
	}
}

func TestOpen_RejectsGarbage(t *testing.T) {
	if _, err := Open([]byte("not a zip")); err == nil {
		t.Fatal("expected error for non-archive input")
	}
}

func TestBuildLocations(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	loc, err := doc.BuildLocations(DefaultLocationSize)
	if err != nil {
		t.Fatalf("BuildLocations: %v", err)
	}

	// Every chapter contributes at least one span, even the short one.
	if loc.Total() < len(doc.Chapters) {
		t.Errorf("Total() = %d, want >= %d", loc.Total(), len(doc.Chapters))
	}

	totalRunes := 0
	for _, ch := range doc.Chapters {
		totalRunes += ch.Runes
	}
	want := 0
	for _, ch := range doc.Chapters {
		n := (ch.Runes + DefaultLocationSize - 1) / DefaultLocationSize
		if n == 0 {
			n = 1
		}
		want += n
	}
	if loc.Total() != want {
		t.Errorf("Total() = %d, want %d for %d total runes", loc.Total(), want, totalRunes)
	}
}

func TestPercentFromPosition_Bounds(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	loc, err := doc.BuildLocations(0) // 0 selects the default size
	if err != nil {
		t.Fatal(err)
	}

	if got := loc.PercentFromPosition(0, 0); got != 0 {
		t.Errorf("percent at start = %d, want 0", got)
	}
	last := len(doc.Chapters) - 1
	if got := loc.PercentFromPosition(last, doc.Chapters[last].Runes); got != 100 {
		t.Errorf("percent at end = %d, want 100", got)
	}
}

func TestPercentFromPosition_Monotonic(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	loc, err := doc.BuildLocations(100)
	if err != nil {
		t.Fatal(err)
	}

	prev := -1
	for ci, ch := range doc.Chapters {
		for off := 0; off <= ch.Runes; off += 50 {
			p := loc.PercentFromPosition(ci, off)
			if p < prev {
				t.Fatalf("percent went backwards at chapter %d offset %d: %d < %d", ci, off, p, prev)
			}
			prev = p
		}
	}
}

func TestPercentFromIndex(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()
	loc, err := doc.BuildLocations(200)
	if err != nil {
		t.Fatal(err)
	}

	if got := loc.PercentFromIndex(0); got != 0 {
		t.Errorf("PercentFromIndex(0) = %d, want 0", got)
	}
	if got := loc.PercentFromIndex(loc.Total() - 1); got != 100 {
		t.Errorf("PercentFromIndex(last) = %d, want 100", got)
	}
	if got := loc.PercentFromIndex(loc.Total() + 5); got != 100 {
		t.Errorf("out-of-range index should clamp, got %d", got)
	}
}

func TestOpen_EmptyBookFailsLocationBuild(t *testing.T) {
	data := buildEPUB(t, "Empty", "Nobody",
		[]string{"ch1.xhtml"},
		map[string][]string{"ch1.xhtml": {}},
		nil)

	doc, err := Open(data)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if _, err := doc.BuildLocations(0); err == nil {
		t.Fatal("a book with no text should not index")
	}
}

func TestClosedDocument(t *testing.T) {
	doc, err := Open(testBook(t))
	if err != nil {
		t.Fatal(err)
	}
	doc.Close()

	if _, err := doc.BuildLocations(0); err != ErrClosed {
		t.Errorf("BuildLocations after Close = %v, want ErrClosed", err)
	}
	if _, err := NewPaginator(doc, 80, 24); err != ErrClosed {
		t.Errorf("NewPaginator after Close = %v, want ErrClosed", err)
	}
}
