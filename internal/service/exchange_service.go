package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nmanzi/partsdb/internal/archive"
	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/repository"
)

// exportHeader is the flattened row contract shared by import and export so
// an exported file re-imports as-is.
var exportHeader = []string{
	"name", "description", "quantity", "part_type", "specifications",
	"manufacturer", "model", "bin_number", "category_name",
}

// ImportResult lists every created part name in processing order plus one
// message per rejected row.
type ImportResult struct {
	Created []string `json:"created"`
	Errors  []string `json:"errors"`
}

// ExchangeService is the CSV bulk import/export pipeline. Import reconciles
// loosely-specified external text against existing rows: bins are matched by
// number and categories by name, auto-created the first time they are seen.
type ExchangeService struct {
	parts      *repository.PartRepository
	bins       *repository.BinRepository
	categories *repository.CategoryRepository
	relations  *PartService
	archiver   *archive.Archiver
	logger     *zap.Logger
}

func NewExchangeService(repos *repository.Repositories, relations *PartService, archiver *archive.Archiver, logger *zap.Logger) *ExchangeService {
	return &ExchangeService{
		parts:      repos.Part,
		bins:       repos.Bin,
		categories: repos.Category,
		relations:  relations,
		archiver:   archiver,
		logger:     logger,
	}
}

// Import processes the CSV row by row. A file that cannot be parsed as CSV,
// or whose header lacks name/bin_number, aborts before any row; after that a
// bad row only costs itself. Row numbers in error messages are 1-based and
// count the header, matching what the user sees in a spreadsheet.
func (s *ExchangeService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	if s.archiver != nil {
		if _, err := s.archiver.StoreImport(ctx, data); err != nil {
			s.logger.Warn("import archive failed", zap.Error(err))
		}
	}

	// Tolerate a UTF-8 BOM from spreadsheet exports.
	text := strings.TrimPrefix(string(data), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &UpstreamError{Reason: "unable to parse CSV", Err: err}
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "bin_number"} {
		if _, ok := cols[required]; !ok {
			return nil, &UpstreamError{Reason: fmt.Sprintf("CSV is missing required column %q", required)}
		}
	}

	result := &ImportResult{Created: []string{}, Errors: []string{}}
	rowNum := 1 // header row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if err := s.importRow(record, cols); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Created = append(result.Created, strings.TrimSpace(field(record, cols, "name")))
	}

	s.logger.Info("import finished",
		zap.Int("created", len(result.Created)),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// importRow creates one part, provisioning its bin and categories on first
// sight. Each row commits immediately; there is no whole-file transaction.
func (s *ExchangeService) importRow(record []string, cols map[string]int) error {
	name := strings.TrimSpace(field(record, cols, "name"))
	if name == "" {
		return fmt.Errorf("name is required")
	}

	binNumber, err := strconv.Atoi(strings.TrimSpace(field(record, cols, "bin_number")))
	if err != nil || binNumber <= 0 {
		return fmt.Errorf("invalid bin_number %q", field(record, cols, "bin_number"))
	}
	bin, err := s.getOrCreateBin(binNumber)
	if err != nil {
		return err
	}

	var categoryIDs []uint
	for _, catName := range strings.Split(field(record, cols, "category_name"), ";") {
		catName = strings.TrimSpace(catName)
		if catName == "" {
			continue
		}
		cat, err := s.getOrCreateCategory(catName)
		if err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, cat.ID)
	}

	quantity := 1
	if q, err := strconv.Atoi(strings.TrimSpace(field(record, cols, "quantity"))); err == nil && q > 0 {
		quantity = q
	}

	part := &entity.Part{
		Name:           name,
		Description:    strings.TrimSpace(field(record, cols, "description")),
		Quantity:       quantity,
		PartType:       strings.TrimSpace(field(record, cols, "part_type")),
		Specifications: strings.TrimSpace(field(record, cols, "specifications")),
		Manufacturer:   strings.TrimSpace(field(record, cols, "manufacturer")),
		Model:          strings.TrimSpace(field(record, cols, "model")),
		BinID:          bin.ID,
	}
	if err := s.parts.Create(part); err != nil {
		return err
	}
	if len(categoryIDs) > 0 {
		if err := s.relations.AddCategories(part.ID, categoryIDs); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExchangeService) getOrCreateBin(number int) (*entity.Bin, error) {
	bin, err := s.bins.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if bin != nil {
		return bin, nil
	}
	bin = &entity.Bin{
		Number:      number,
		Name:        fmt.Sprintf("Bin %d", number),
		Description: "Auto-created during import",
	}
	if err := s.bins.Create(bin); err != nil {
		return nil, err
	}
	s.logger.Info("auto-created bin", zap.Int("number", number))
	return bin, nil
}

func (s *ExchangeService) getOrCreateCategory(name string) (*entity.Category, error) {
	cat, err := s.categories.GetByName(name)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		return cat, nil
	}
	cat = &entity.Category{
		Name:        name,
		Description: "Auto-created during import",
	}
	if err := s.categories.Create(cat); err != nil {
		return nil, err
	}
	s.logger.Info("auto-created category", zap.String("name", name))
	return cat, nil
}

// Export writes every part as one flattened CSV row, categories joined with
// ";" in CategoriesOf order. Absent optionals render as empty strings.
func (s *ExchangeService) Export(w io.Writer) error {
	rows, err := s.exportRows()
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportXLSX emits the same rows as a spreadsheet with a bold header.
func (s *ExchangeService) ExportXLSX() (*excelize.File, error) {
	rows, err := s.exportRows()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	for i, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}
	return f, nil
}

func (s *ExchangeService) exportRows() ([][]string, error) {
	const batchSize = 500
	var out [][]string
	for offset := 0; ; offset += batchSize {
		parts, err := s.parts.List(repository.PartListParams{Offset: offset, Limit: batchSize})
		if err != nil {
			return nil, err
		}
		for _, part := range parts {
			binNumber := ""
			if part.Bin != nil {
				binNumber = strconv.Itoa(part.Bin.Number)
			}
			names := make([]string, len(part.Categories))
			for i, cat := range part.Categories {
				names[i] = cat.Name
			}
			out = append(out, []string{
				part.Name,
				part.Description,
				strconv.Itoa(part.Quantity),
				part.PartType,
				part.Specifications,
				part.Manufacturer,
				part.Model,
				binNumber,
				strings.Join(names, ";"),
			})
		}
		if len(parts) < batchSize {
			break
		}
	}
	return out, nil
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
