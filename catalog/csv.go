package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rushteam/bookrec/core"
)

// 必需列：缺失任何一列都视为 Schema 错误。
// published_year / num_pages 允许缺失，整列按均值填充规则处理（无可解析值时为 0）。
var requiredColumns = []string{"title", "authors", "categories", "average_rating", "ratings_count"}

// CSVSource 从 CSV 文件读取图书目录。
// 第一行为表头，列顺序任意；多余的列被忽略。
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Name() string { return "csv" }

// Load 读取并校验目录。
// 文件不可读 → Resource 错误；必需列缺失 → Schema 错误。
func (s *CSVSource) Load(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnreadable,
			fmt.Sprintf("catalog: open %s: %v", s.Path, err))
	}
	defer f.Close()
	return ReadRecords(f)
}

// ReadRecords 从任意 reader 解析 CSV 目录，表头校验规则与 CSVSource 相同。
func ReadRecords(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 行内列数允许不齐，缺失的按空处理

	header, err := reader.Read()
	if err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnreadable,
			fmt.Sprintf("catalog: read header: %v", err))
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeSchemaInvalid,
				fmt.Sprintf("catalog: required column %q missing", name))
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnreadable,
				fmt.Sprintf("catalog: read row: %v", err))
		}
		records = append(records, Record{
			Title:         field(row, "title"),
			Authors:       field(row, "authors"),
			Categories:    field(row, "categories"),
			PublishedYear: field(row, "published_year"),
			AverageRating: field(row, "average_rating"),
			NumPages:      field(row, "num_pages"),
			RatingsCount:  field(row, "ratings_count"),
		})
	}
	return records, nil
}
