package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rushteam/pathwise/core"
	"github.com/rushteam/pathwise/pkg/logger"
)

// Accounts 负责注册与登录，密码以 bcrypt 哈希保存。
type Accounts struct {
	Users core.UserStore
	// Cost 为 0 时使用 bcrypt.DefaultCost
	Cost int
	Log  *logger.Logger
}

// CreateAccount 注册账号。两次密码不一致或用户名已存在时返回 INVALID_INPUT。
func (a *Accounts) CreateAccount(ctx context.Context, username, password, confirm string) (*core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, core.NewDomainError(core.ModuleAccount, core.ErrorCodeInvalidInput, "username and password are required")
	}
	if password != confirm {
		return nil, core.NewDomainError(core.ModuleAccount, core.ErrorCodeInvalidInput, "passwords do not match")
	}
	cost := a.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleAccount, core.ErrorCodeInvalidInput, "password cannot be hashed", err)
	}
	u, err := a.Users.CreateUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}
	if a.Log != nil {
		a.Log.Info("account created", "user_id", u.ID)
	}
	return u, nil
}

// Authenticate 校验用户名密码，成功返回用户 ID。
// 用户不存在与密码错误返回同一个 core.ErrInvalidCredentials。
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (uint, error) {
	u, err := a.Users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if core.IsNotFound(err) {
		return 0, core.ErrInvalidCredentials
	}
	if err != nil {
		return 0, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return 0, core.ErrInvalidCredentials
	}
	return u.ID, nil
}
