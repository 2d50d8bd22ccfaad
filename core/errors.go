package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 错误分层：
//   - Schema 错误：目录缺少必需列，构建期致命，查询期不会出现
//   - Resource 错误：目录/快照不可读或版本不符，加载期致命
//   - 查询期的降级（空过滤结果、零分母、词表外查询）不是错误，
//     引擎静默返回空或零权重结果
type DomainError struct {
	Code    string // 错误代码（如 "SCHEMA_INVALID", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "engine", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeSchemaInvalid = "SCHEMA_INVALID" // 目录缺少必需列
	ErrorCodeUnreadable    = "UNREADABLE"     // 目录或快照不可读
	ErrorCodeBadVersion    = "BAD_VERSION"    // 快照版本不兼容
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleCatalog = "catalog" // 目录接入模块
	ModuleEngine  = "engine"  // 推荐引擎模块
	ModuleStore   = "store"   // 存储模块
)

// IsSchemaError 检查错误是否为目录 Schema 错误（必需列缺失）
func IsSchemaError(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeSchemaInvalid
	}
	return false
}

// IsResourceError 检查错误是否为资源错误（不可读 / 版本不符）
func IsResourceError(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnreadable || domainErr.Code == ErrorCodeBadVersion
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}
