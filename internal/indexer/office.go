package indexer

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

var (
	docxBreak = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr[^>]*/>`)
	docxTab   = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTag    = regexp.MustCompile(`<[^>]*>`)
)

// readDocx returns the text of a Word document, one paragraph per line.
func readDocx(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer func() {
		_ = r.Close()
	}()

	return docxText(r.Editable().GetContent()), nil
}

// docxText strips WordprocessingML markup from the body of document.xml.
func docxText(content string) string {
	content = docxBreak.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

// readXLSX returns one line per non-empty spreadsheet row, cells joined
// with " | ", sheets in workbook order.
func readXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var buf strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("failed to read sheet %s of %s: %w", sheet, path, err)
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if cell = strings.TrimSpace(cell); cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) == 0 {
				continue
			}
			buf.WriteString(strings.Join(cells, " | "))
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
