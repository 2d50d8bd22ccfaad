package catalog

import (
	"strconv"
	"strings"

	"github.com/rushteam/bookrec/core"
)

// Preprocess 把原始记录集转换为 core.Book 集合：
//
//  1. 缺省值：title -> "" / authors -> "Unknown" / categories -> "Uncategorized"
//  2. 派生字段：NormalizedAuthors、CombinedText（title + authors + categories 空格拼接）
//  3. 数值列均值填充：解析失败的值用该列在本次调用数据集上的均值补齐
//
// 均值按“本次传入的数据集”重新计算（全量目录或调用方给的子集），
// 同一本书在不同子集里可能得到不同的填充值，与参考行为保持一致。
func Preprocess(records []Record) []core.Book {
	books := make([]core.Book, len(records))
	for i, rec := range records {
		authors := rec.Authors
		if authors == "" {
			authors = "Unknown"
		}
		categories := rec.Categories
		if categories == "" {
			categories = "Uncategorized"
		}
		books[i] = core.Book{
			Title:             rec.Title,
			Authors:           authors,
			NormalizedAuthors: core.NormalizeAuthor(authors),
			Categories:        categories,
			CombinedText:      rec.Title + " " + authors + " " + categories,
		}
	}

	imputeColumn(records, books, func(r Record) string { return r.PublishedYear },
		func(b *core.Book, v float64) { b.PublishedYear = v })
	imputeColumn(records, books, func(r Record) string { return r.AverageRating },
		func(b *core.Book, v float64) { b.AverageRating = v })
	imputeColumn(records, books, func(r Record) string { return r.NumPages },
		func(b *core.Book, v float64) { b.NumPages = v })
	imputeColumn(records, books, func(r Record) string { return r.RatingsCount },
		func(b *core.Book, v float64) { b.RatingsCount = v })

	return books
}

// imputeColumn 解析单个数值列，无法解析的值用该列已解析值的均值补齐。
// 整列都无法解析时均值取 0。
func imputeColumn(records []Record, books []core.Book, get func(Record) string, set func(*core.Book, float64)) {
	parsed := make([]float64, len(records))
	valid := make([]bool, len(records))
	var sum float64
	var count int
	for i, rec := range records {
		v, err := strconv.ParseFloat(strings.TrimSpace(get(rec)), 64)
		if err != nil {
			continue
		}
		parsed[i] = v
		valid[i] = true
		sum += v
		count++
	}

	var mean float64
	if count > 0 {
		mean = sum / float64(count)
	}
	for i := range books {
		if valid[i] {
			set(&books[i], parsed[i])
		} else {
			set(&books[i], mean)
		}
	}
}
