package core

// Book 是预处理完成后的图书记录，推荐链路中的唯一领域实体。
//
// 字符串字段已应用缺省值（authors -> "Unknown"，categories -> "Uncategorized"），
// 数值字段已完成均值填充；NormalizedAuthors 与 CombinedText 为预处理派生字段，
// 分别用于作者偏好匹配与 TF-IDF 向量化。
type Book struct {
	Title             string  `json:"title"`
	Authors           string  `json:"authors"`
	NormalizedAuthors string  `json:"normalized_authors"`
	Categories        string  `json:"categories"`
	PublishedYear     float64 `json:"published_year"`
	AverageRating     float64 `json:"average_rating"`
	NumPages          float64 `json:"num_pages"`
	RatingsCount      float64 `json:"ratings_count"`
	CombinedText      string  `json:"combined_text"`
}
