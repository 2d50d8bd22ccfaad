// Package catalog 负责图书目录的接入与预处理：
// 从表格数据源读取原始记录，补齐缺省值、归一化作者名、
// 拼接组合文本并对数值列做均值填充，产出 core.Book 集合。
package catalog

import "context"

// Record 是目录中的一行原始记录，数值列保留原始文本，解析失败时走均值填充。
type Record struct {
	Title         string
	Authors       string
	Categories    string
	PublishedYear string
	AverageRating string
	NumPages      string
	RatingsCount  string
}

// Source 是目录数据源的抽象。
// 实现负责在 Load 时校验表结构：必需列缺失返回 Schema 错误（构建期致命）。
type Source interface {
	// Name 返回数据源名称（用于日志/错误信息）
	Name() string

	// Load 读取全部原始记录
	Load(ctx context.Context) ([]Record, error)
}
