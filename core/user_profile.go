package core

import "time"

// User 是一个注册账号。密码只以哈希形式保存。
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile 是用户首次登录后填写的基本画像。
// 它不直接进入分类器，用于仪表盘展示与后续问卷的默认值。
type UserProfile struct {
	UserID         uint      `json:"user_id"`
	Age            int       `json:"age"`
	EducationLevel string    `json:"education_level"` // elementary / junior_high / high_school / senior_high / college / graduate
	CurrentStatus  string    `json:"current_status"`  // student / employed / unemployed ...
	Skills         string    `json:"skills"`
	Interests      string    `json:"interests"`
	Barriers       string    `json:"barriers"` // 经济、时间、交通等
	UpdatedAt      time.Time `json:"updated_at"`
}

// Response 是一次问卷提交的原始答案记录。
type Response struct {
	ID        uint              `json:"id"`
	UserID    uint              `json:"user_id"`
	Pathway   Pathway           `json:"pathway"`
	Answers   map[string]string `json:"answers"`
	CreatedAt time.Time         `json:"created_at"`
}

// SavedRecommendation 是用户收藏的一条推荐结果。
type SavedRecommendation struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username,omitempty"` // 仅管理后台的全量列表会填充
	Pathway   Pathway   `json:"pathway"`
	Item      Item      `json:"recommendation"`
	CreatedAt time.Time `json:"created_at"`
}

// PopularTitle 是某个 pathway 下被收藏次数最多的标题。
type PopularTitle struct {
	Title string `json:"title"`
	Saves int64  `json:"saves"`
}

// Stats 是管理后台的聚合统计。
type Stats struct {
	TotalUsers           int64                      `json:"total_users"`
	TotalRecommendations int64                      `json:"total_recommendations"`
	SavedByPathway       map[Pathway]int64          `json:"saved_by_pathway"`
	ResponsesByPathway   map[Pathway]int64          `json:"responses_by_pathway"`
	PopularTitles        map[Pathway][]PopularTitle `json:"popular_titles,omitempty"`
}
