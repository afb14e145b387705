package core

import "context"

// Store 是 KV 存储的领域接口。
//
// 实现：
//   - store.MemoryStore：测试/开发
//   - store.RedisStore：生产
//
// 使用场景：模型包二进制缓存、收藏热度统计。
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值；不存在返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒，<=0 表示不过期
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}

// KeyValueStore 在 Store 之上增加有序集合，用于按收藏次数排序的热门标题。
type KeyValueStore interface {
	Store

	// ZIncrBy 给有序集合成员加分
	ZIncrBy(ctx context.Context, key string, delta float64, member string) error

	// ZRevRangeWithScores 按分数降序取 [start, stop] 区间的成员
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]PopularTitle, error)
}

// UserStore 是账号存储（外部协作者）。
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context, search string) ([]*User, error)
	// DeleteUser 删除账号及其画像、答案、收藏
	DeleteUser(ctx context.Context, username string) error
}

// ProfileStore 是用户画像存储。
type ProfileStore interface {
	SaveProfile(ctx context.Context, p *UserProfile) error
	GetProfile(ctx context.Context, userID uint) (*UserProfile, error)
}

// ResponseStore 保存问卷原始答案。
type ResponseStore interface {
	SaveResponse(ctx context.Context, userID uint, pathway Pathway, answers map[string]string) error
}

// RecommendationStore 保存/查询/删除收藏的推荐。
type RecommendationStore interface {
	SaveRecommendation(ctx context.Context, userID uint, pathway Pathway, item *Item) (*SavedRecommendation, error)
	ListSaved(ctx context.Context, userID uint) ([]*SavedRecommendation, error)
	// DeleteSaved 只删除属于 userID 的收藏；不存在返回 NOT_FOUND
	DeleteSaved(ctx context.Context, id, userID uint) error
}

// AdminStore 是管理后台需要的只读聚合与强制删除。
type AdminStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountSavedByPathway(ctx context.Context) (map[Pathway]int64, error)
	CountResponsesByPathway(ctx context.Context) (map[Pathway]int64, error)
	// ListAllSaved 返回所有用户的收藏（带用户名），最新的在前；pathway 为空表示不过滤
	ListAllSaved(ctx context.Context, pathway Pathway) ([]*SavedRecommendation, error)
	// DeleteRecommendation 不校验归属，直接删除收藏
	DeleteRecommendation(ctx context.Context, id uint) error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 或记录不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsStoreNotFound 检查错误是否为存储层的 NOT_FOUND。
func IsStoreNotFound(err error) bool {
	de := GetDomainError(err)
	return de != nil && de.Module == ModuleStore && de.Code == ErrorCodeNotFound
}

// IsStoreNotSupported 检查错误是否为存储层的 NOT_SUPPORTED。
func IsStoreNotSupported(err error) bool {
	de := GetDomainError(err)
	return de != nil && de.Module == ModuleStore && de.Code == ErrorCodeNotSupported
}
