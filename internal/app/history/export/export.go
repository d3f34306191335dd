package export

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/tealeg/xlsx"

	"audioscribe/internal/app/model"
)

// ToExcel writes the history collection to an .xlsx workbook.
func ToExcel(items []model.HistoryItem, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("History")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Kind"
	headerRow.AddCell().Value = "Created At"
	headerRow.AddCell().Value = "Language"
	headerRow.AddCell().Value = "Language Codes"
	headerRow.AddCell().Value = "Filename"
	headerRow.AddCell().Value = "Text"

	for _, item := range items {
		row := sheet.AddRow()
		row.AddCell().Value = item.ID
		row.AddCell().Value = string(item.Kind)
		row.AddCell().Value = item.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = item.Language
		row.AddCell().Value = strings.Join(item.LanguageCodes, ", ")
		if item.Metadata != nil {
			row.AddCell().Value = item.Metadata.Filename
		} else {
			row.AddCell().Value = ""
		}
		row.AddCell().Value = item.Text
	}

	return file.Save(outputFilePath)
}

// ToJSON writes the history collection as an indented JSON document, the
// same shape served by the export endpoint.
func ToJSON(items []model.HistoryItem, outputFilePath string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputFilePath, data, 0o644)
}
