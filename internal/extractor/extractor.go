package extractor

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"
)

// Extract pulls plain UTF-8 text out of a document file. Any failure —
// missing file, unsupported or corrupt format, unreadable page — yields an
// empty string; errors never cross this boundary.
func Extract(filePath string) (result string) {
	defer func() {
		// some format readers panic on malformed input
		if r := recover(); r != nil {
			log.Warn().Str("file", filePath).Interface("panic", r).Msg("Recovered while extracting text")
			result = ""
		}
	}()

	text, err := extract(filePath)
	if err != nil {
		log.Warn().Err(err).Str("file", filePath).Msg("Text extraction failed")
		return ""
	}
	return strings.TrimSpace(text)
}

// Supported reports whether a file extension has an extraction path.
func Supported(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf", ".docx", ".pptx", ".xlsx", ".ods", ".txt", ".md":
		return true
	}
	return false
}

func extract(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		return extractDOCX(filePath)
	case ".pptx":
		return extractPPTX(filePath)
	case ".xlsx":
		return extractXLSX(filePath)
	case ".ods":
		return extractODS(filePath)
	case ".txt":
		return extractText(filePath)
	case ".md":
		return extractMarkdown(filePath)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

// extractPDF reads pages sequentially and joins them with page-boundary
// markers so chunks stay attributable to a page.
func extractPDF(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		text.WriteString(fmt.Sprintf("\n--- Page %d ---\n%s\n", i, pageText))
	}
	log.Debug().Str("file", filePath).Int("pages", numPages).Int("chars", text.Len()).Msg("Extracted PDF text")
	return text.String(), nil
}

func extractDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	doc := r.Editable()
	var text strings.Builder
	for _, p := range strings.Split(doc.GetContent(), "\n") {
		p = stripXMLTags(p)
		if strings.TrimSpace(p) == "" {
			continue
		}
		text.WriteString(p)
		text.WriteString("\n")
	}
	return text.String(), nil
}

func extractPPTX(filePath string) (string, error) {
	f, err := zip.OpenReader(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text strings.Builder
	slideNum := 0
	for _, file := range f.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		slideText := extractTextRuns(string(data))
		if strings.TrimSpace(slideText) == "" {
			continue
		}
		slideNum++
		text.WriteString(fmt.Sprintf("\n--- Page %d ---\n%s\n", slideNum, slideText))
	}
	return text.String(), nil
}

func extractXLSX(filePath string) (string, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}

func extractODS(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}

func extractText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractMarkdown walks the goldmark AST and collects the text nodes,
// dropping markup.
func extractMarkdown(filePath string) (string, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(gmtext.NewReader(source))

	var text strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				text.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			text.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				text.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return text.String(), nil
}

// extractTextRuns pulls the <a:t> runs out of DrawingML slide XML.
func extractTextRuns(xmlContent string) string {
	var text strings.Builder
	parts := strings.Split(xmlContent, "<a:t>")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		endIdx := strings.Index(part, "</a:t>")
		if endIdx >= 0 {
			text.WriteString(part[:endIdx] + " ")
		}
	}
	return text.String()
}

func stripXMLTags(s string) string {
	var text strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			text.WriteRune(r)
		}
	}
	return text.String()
}
