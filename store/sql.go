package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pkg/logger"
	"github.com/rushteam/pathwise/pkg/metrics"
)

type userRow struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type profileRow struct {
	UserID         uint `gorm:"primaryKey;autoIncrement:false"`
	Age            int
	EducationLevel string `gorm:"size:32"`
	CurrentStatus  string `gorm:"size:32"`
	Skills         string
	Interests      string
	Barriers       string
	UpdatedAt      time.Time
}

func (profileRow) TableName() string { return "user_profiles" }

type responseRow struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Pathway   string `gorm:"index;size:16;not null"`
	Answers   string `gorm:"type:text"` // JSON
	CreatedAt time.Time
}

func (responseRow) TableName() string { return "responses" }

type savedRow struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Pathway   string `gorm:"index;size:16;not null"`
	Title     string `gorm:"not null"`
	Match     float64
	Metadata  string `gorm:"type:text"` // JSON
	CreatedAt time.Time
}

func (savedRow) TableName() string { return "recommendations" }

// SQLStore 是 gorm 实现的关系型存储：账号、画像、问卷答案与收藏。
// 答案与 metadata 以 JSON 文本列保存。
type SQLStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// OpenSQLite 打开 SQLite 数据库；dsn 为 ":memory:" 时是进程内数据库。
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dsn == ":memory:" {
		// 内存库每个连接都是独立的数据库
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func NewSQLStore(db *gorm.DB, log *logger.Logger) *SQLStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &SQLStore{db: db, log: log.With("store", "sql")}
}

// Migrate 创建/升级表结构。
func (s *SQLStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&userRow{}, &profileRow{}, &responseRow{}, &savedRow{})
}

func (s *SQLStore) Name() string { return "sql" }

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func storageErr(op string, err error) error {
	metrics.StorageErrors.WithLabelValues(op).Inc()
	return core.WrapDomainError(core.ModuleStore, core.ErrorCodeStorage, op+" failed", err)
}

func notFound(what string) error {
	return core.WrapDomainError(core.ModuleStore, core.ErrorCodeNotFound, what+" not found", core.ErrStoreNotFound)
}

// ---- UserStore ----

func (s *SQLStore) CreateUser(ctx context.Context, username, passwordHash string) (*core.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&userRow{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, storageErr("create_user", err)
	}
	if count > 0 {
		return nil, core.NewDomainError(core.ModuleAccount, core.ErrorCodeInvalidInput, "username already exists")
	}
	row := &userRow{Username: username, PasswordHash: passwordHash}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, storageErr("create_user", err)
	}
	return row.toUser(), nil
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user")
	}
	if err != nil {
		return nil, storageErr("get_user", err)
	}
	return row.toUser(), nil
}

func (s *SQLStore) ListUsers(ctx context.Context, search string) ([]*core.User, error) {
	q := s.db.WithContext(ctx).Model(&userRow{}).Order("id")
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("username LIKE ?", "%"+search+"%")
	}
	var rows []userRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, storageErr("list_users", err)
	}
	out := make([]*core.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toUser())
	}
	return out, nil
}

func (s *SQLStore) DeleteUser(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userRow
		err := tx.Where("username = ?", username).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("user")
		}
		if err != nil {
			return storageErr("delete_user", err)
		}
		for _, m := range []any{&savedRow{}, &responseRow{}, &profileRow{}} {
			if err := tx.Where("user_id = ?", row.ID).Delete(m).Error; err != nil {
				return storageErr("delete_user", err)
			}
		}
		if err := tx.Delete(&userRow{}, row.ID).Error; err != nil {
			return storageErr("delete_user", err)
		}
		s.log.Info("user deleted", "username", username, "user_id", row.ID)
		return nil
	})
}

func (r *userRow) toUser() *core.User {
	return &core.User{ID: r.ID, Username: r.Username, PasswordHash: r.PasswordHash, CreatedAt: r.CreatedAt}
}

// ---- ProfileStore ----

func (s *SQLStore) SaveProfile(ctx context.Context, p *core.UserProfile) error {
	row := &profileRow{
		UserID:         p.UserID,
		Age:            p.Age,
		EducationLevel: p.EducationLevel,
		CurrentStatus:  p.CurrentStatus,
		Skills:         p.Skills,
		Interests:      p.Interests,
		Barriers:       p.Barriers,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(row).Error
	if err != nil {
		return storageErr("save_profile", err)
	}
	return nil
}

func (s *SQLStore) GetProfile(ctx context.Context, userID uint) (*core.UserProfile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("profile")
	}
	if err != nil {
		return nil, storageErr("get_profile", err)
	}
	return &core.UserProfile{
		UserID:         row.UserID,
		Age:            row.Age,
		EducationLevel: row.EducationLevel,
		CurrentStatus:  row.CurrentStatus,
		Skills:         row.Skills,
		Interests:      row.Interests,
		Barriers:       row.Barriers,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

// ---- ResponseStore ----

func (s *SQLStore) SaveResponse(ctx context.Context, userID uint, pathway core.Pathway, answers map[string]string) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return storageErr("save_response", err)
	}
	row := &responseRow{UserID: userID, Pathway: string(pathway), Answers: string(data)}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return storageErr("save_response", err)
	}
	return nil
}

// ListResponses 返回用户的历史答案，最新的在前。
func (s *SQLStore) ListResponses(ctx context.Context, userID uint) ([]*core.Response, error) {
	var rows []responseRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, storageErr("list_responses", err)
	}
	out := make([]*core.Response, 0, len(rows))
	for _, r := range rows {
		answers := map[string]string{}
		if r.Answers != "" {
			if err := json.Unmarshal([]byte(r.Answers), &answers); err != nil {
				s.log.Warn("skip malformed response", "id", r.ID, "error", err)
				continue
			}
		}
		out = append(out, &core.Response{
			ID: r.ID, UserID: r.UserID, Pathway: core.Pathway(r.Pathway), Answers: answers, CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// ---- RecommendationStore ----

func (s *SQLStore) SaveRecommendation(ctx context.Context, userID uint, pathway core.Pathway, item *core.Item) (*core.SavedRecommendation, error) {
	if item == nil || strings.TrimSpace(item.Title) == "" {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "recommendation title is required")
	}
	meta, err := json.Marshal(item.Meta)
	if err != nil {
		return nil, storageErr("save_recommendation", err)
	}
	row := &savedRow{
		UserID:   userID,
		Pathway:  string(pathway),
		Title:    item.Title,
		Match:    item.Match,
		Metadata: string(meta),
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, storageErr("save_recommendation", err)
	}
	return row.toSaved()
}

func (s *SQLStore) ListSaved(ctx context.Context, userID uint) ([]*core.SavedRecommendation, error) {
	var rows []savedRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, storageErr("list_saved", err)
	}
	out := make([]*core.SavedRecommendation, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toSaved()
		if err != nil {
			s.log.Warn("skip malformed recommendation", "id", rows[i].ID, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *SQLStore) DeleteSaved(ctx context.Context, id, userID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&savedRow{})
	if res.Error != nil {
		return storageErr("delete_saved", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("recommendation")
	}
	return nil
}

func (r *savedRow) toSaved() (*core.SavedRecommendation, error) {
	meta := map[string]string{}
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &meta); err != nil {
			return nil, err
		}
	}
	return &core.SavedRecommendation{
		ID:        r.ID,
		UserID:    r.UserID,
		Pathway:   core.Pathway(r.Pathway),
		Item:      core.Item{Title: r.Title, Match: r.Match, Meta: meta},
		CreatedAt: r.CreatedAt,
	}, nil
}

// ---- AdminStore ----

func (s *SQLStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&userRow{}).Count(&n).Error; err != nil {
		return 0, storageErr("count_users", err)
	}
	return n, nil
}

func (s *SQLStore) CountSavedByPathway(ctx context.Context) (map[core.Pathway]int64, error) {
	return s.countByPathway(ctx, &savedRow{}, "count_saved")
}

func (s *SQLStore) CountResponsesByPathway(ctx context.Context) (map[core.Pathway]int64, error) {
	return s.countByPathway(ctx, &responseRow{}, "count_responses")
}

func (s *SQLStore) countByPathway(ctx context.Context, model any, op string) (map[core.Pathway]int64, error) {
	var rows []struct {
		Pathway string
		N       int64
	}
	err := s.db.WithContext(ctx).Model(model).
		Select("pathway, COUNT(*) AS n").
		Group("pathway").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr(op, err)
	}
	out := make(map[core.Pathway]int64, len(rows))
	for _, r := range rows {
		out[core.Pathway(r.Pathway)] = r.N
	}
	return out, nil
}

// savedWithUser 是收藏与用户表 join 后的扫描目标。
type savedWithUser struct {
	savedRow `gorm:"embedded"`
	Username string
}

func (s *SQLStore) ListAllSaved(ctx context.Context, pathway core.Pathway) ([]*core.SavedRecommendation, error) {
	var rows []savedWithUser
	q := s.db.WithContext(ctx).Model(&savedRow{}).
		Select("recommendations.*, users.username").
		Joins("JOIN users ON users.id = recommendations.user_id").
		Order("recommendations.id DESC")
	if pathway != "" {
		q = q.Where("recommendations.pathway = ?", string(pathway))
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, storageErr("list_all_saved", err)
	}
	out := make([]*core.SavedRecommendation, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toSaved()
		if err != nil {
			s.log.Warn("skip malformed recommendation", "id", rows[i].ID, "error", err)
			continue
		}
		rec.Username = rows[i].Username
		out = append(out, rec)
	}
	return out, nil
}

func (s *SQLStore) DeleteRecommendation(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&savedRow{}, id)
	if res.Error != nil {
		return storageErr("delete_recommendation", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("recommendation")
	}
	return nil
}

var (
	_ core.UserStore           = (*SQLStore)(nil)
	_ core.ProfileStore        = (*SQLStore)(nil)
	_ core.ResponseStore       = (*SQLStore)(nil)
	_ core.RecommendationStore = (*SQLStore)(nil)
	_ core.AdminStore          = (*SQLStore)(nil)
)
