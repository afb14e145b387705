package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/filter"
)

// Profiles 读写用户画像。
type Profiles struct {
	Store core.ProfileStore
}

func educationLevels() []string {
	levels := make([]string, 0, len(filter.EducationEligibility))
	for l := range filter.EducationEligibility {
		levels = append(levels, l)
	}
	sort.Strings(levels)
	return levels
}

// SaveProfile 校验并保存画像；学历为空表示未填写。
func (s *Profiles) SaveProfile(ctx context.Context, p *core.UserProfile) error {
	if p == nil || p.UserID == 0 {
		return core.NewDomainError(core.ModuleAccount, core.ErrorCodeInvalidInput, "profile owner is required")
	}
	p.EducationLevel = strings.ToLower(strings.TrimSpace(p.EducationLevel))
	if p.EducationLevel != "" {
		if _, ok := filter.EducationEligibility[p.EducationLevel]; !ok {
			return core.NewValidationError(core.ModuleAccount, "unknown education level", educationLevels())
		}
	}
	return s.Store.SaveProfile(ctx, p)
}

func (s *Profiles) GetProfile(ctx context.Context, userID uint) (*core.UserProfile, error) {
	return s.Store.GetProfile(ctx, userID)
}
