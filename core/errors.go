package core

import "fmt"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 数据集错误：DATASET_NOT_FOUND
//   - 推荐器错误：NOT_INITIALIZED, INVALID_REQUEST, INTERNAL_ERROR
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "DATASET_NOT_FOUND", "NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "dataset", "recommender", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf 创建带格式化消息的领域错误。
func NewDomainErrorf(module, code, format string, args ...any) *DomainError {
	return NewDomainError(module, code, fmt.Sprintf(format, args...))
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeDatasetNotFound = "DATASET_NOT_FOUND" // 数据目录或文件缺失，初始化失败
	ErrorCodeNotInitialized  = "NOT_INITIALIZED"   // 数据尚未加载就发起打分请求
	ErrorCodeInvalidRequest  = "INVALID_REQUEST"   // 请求参数非法（如内容召回偏好为空）
	ErrorCodeNotFound        = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeInternalError   = "INTERNAL_ERROR"    // 单次打分内部异常，在请求边界兜住
)

// 模块名称常量
const (
	ModuleDataset     = "dataset"     // 数据加载模块
	ModuleRecommender = "recommender" // 推荐器门面
	ModuleStore       = "store"       // 存储模块
	ModulePipeline    = "pipeline"    // 编排模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsDatasetNotFound 检查错误是否为数据集缺失。
func IsDatasetNotFound(err error) bool { return hasCode(err, ErrorCodeDatasetNotFound) }

// IsNotInitialized 检查错误是否为推荐器未初始化。
func IsNotInitialized(err error) bool { return hasCode(err, ErrorCodeNotInitialized) }

// IsInvalidRequest 检查错误是否为请求非法。
func IsInvalidRequest(err error) bool { return hasCode(err, ErrorCodeInvalidRequest) }

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInternalError 检查错误是否为内部异常。
func IsInternalError(err error) bool { return hasCode(err, ErrorCodeInternalError) }
