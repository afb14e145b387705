package core

import (
	"errors"
	"strings"
)

// DomainError 是领域层的统一错误类型。
//
// 使用场景：
//   - bundle：模型包缺失/损坏（UNAVAILABLE、NOT_FOUND）
//   - filter：学历资格校验失败（INVALID_INPUT，Allowed 列出可选项）
//   - rerank：教育路径没有匹配的项目（EMPTY_RESULT）
//   - storage：持久化失败（STORAGE）
//   - account：认证失败（UNAUTHORIZED）
type DomainError struct {
	Code    string   // 错误代码（如 "UNAVAILABLE", "INVALID_INPUT"）
	Message string   // 面向调用方的消息
	Module  string   // 模块名称（如 "bundle", "filter"）
	Allowed []string // INVALID_INPUT 时可选的合法取值
	Err     error    // 底层错误
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// IsDomainError 检查错误链中是否有 DomainError。
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 取出错误链中的 DomainError，没有则返回 nil。
func GetDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 以领域错误包装底层错误。
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError 创建带可选取值列表的校验错误。
func NewValidationError(module, message string, allowed []string) *DomainError {
	msg := message
	if len(allowed) > 0 {
		msg = message + ". Allowed choices: " + strings.Join(allowed, ", ")
	}
	return &DomainError{
		Module:  module,
		Code:    ErrorCodeInvalidInput,
		Message: msg,
		Allowed: append([]string(nil), allowed...),
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 暂不可用（如模型包未加载），稍后重试
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeEmptyResult   = "EMPTY_RESULT"   // 没有符合条件的结果
	ErrorCodeStorage       = "STORAGE"        // 持久化失败
	ErrorCodeUnauthorized  = "UNAUTHORIZED"   // 认证失败
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleBundle    = "bundle"
	ModuleNormalize = "normalize"
	ModuleRank      = "rank"
	ModuleFilter    = "filter"
	ModuleRerank    = "rerank"
	ModuleService   = "service"
	ModuleTraining  = "training"
	ModuleAccount   = "account"
)

func hasCode(err error, code string) bool {
	if de := GetDomainError(err); de != nil {
		return de.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsUnavailable 检查错误是否为 UNAVAILABLE（模型包不可用）。
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsEmptyResult 检查错误是否为 EMPTY_RESULT。
func IsEmptyResult(err error) bool { return hasCode(err, ErrorCodeEmptyResult) }

// IsStorage 检查错误是否为 STORAGE。
func IsStorage(err error) bool { return hasCode(err, ErrorCodeStorage) }

// IsUnauthorized 检查错误是否为 UNAUTHORIZED。
func IsUnauthorized(err error) bool { return hasCode(err, ErrorCodeUnauthorized) }

// 常用错误
var (
	// ErrUnknownPathway 表示 pathway 名称不在 career / education / tesda 之内。
	ErrUnknownPathway = NewDomainError(ModuleService, ErrorCodeNotFound, "unknown pathway")

	// ErrBundleUnavailable 表示该 pathway 的模型包暂不可用，调用方应提示稍后重试。
	ErrBundleUnavailable = NewDomainError(ModuleBundle, ErrorCodeUnavailable,
		"recommendation models are still being prepared, please try again in a few moments")

	// ErrNoProgramsMatched 表示教育路径的项目类型过滤后为空。
	ErrNoProgramsMatched = NewDomainError(ModuleRerank, ErrorCodeEmptyResult,
		"no programs matched your selected program type")

	// ErrInvalidCredentials 表示用户名或密码错误。
	ErrInvalidCredentials = NewDomainError(ModuleAccount, ErrorCodeUnauthorized, "invalid credentials")
)
