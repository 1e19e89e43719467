package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 推荐核心的错误都是局部、非致命的：模型/目录缺失降级为无客群路径，
// 内容打分不适用降级为兜底排序，任何错误都不应终止调用方进程。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "catalog", "model"）
}

func (e *DomainError) Error() string {
	return e.Message
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

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"       // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"   // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"     // 数据源不可用（目录/模型缺失）
	ErrorCodeNotApplicable = "NOT_APPLICABLE"  // 策略对当前输入不适用
	ErrorCodeInvalidInput  = "INVALID_INPUT"   // 输入无效（维度不匹配等）
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 商品目录模块
	ModuleModel   = "model"   // 客群模型模块
	ModuleRank    = "rank"    // 排序模块
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsNotApplicable 检查错误是否为 NOT_APPLICABLE。
func IsNotApplicable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotApplicable
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// 预定义领域错误
var (
	// ErrCatalogUnavailable 表示商品目录缺失或为空，推荐核心无候选可用。
	ErrCatalogUnavailable = NewDomainError(ModuleCatalog, ErrorCodeUnavailable, "catalog: unavailable")

	// ErrModelUnavailable 表示持久化的客群模型缺失，链路降级为无客群路径。
	ErrModelUnavailable = NewDomainError(ModuleModel, ErrorCodeUnavailable, "model: segment model unavailable")

	// ErrContentNotApplicable 表示过滤后候选集中没有任何历史商品，
	// 内容相似打分没有有效的历史特征矩阵，调用方应改走兜底排序。
	// 不允许退化成全 0 分：全 0 与“全部同等不相关”不可区分，会掩盖真实原因。
	ErrContentNotApplicable = NewDomainError(ModuleRank, ErrorCodeNotApplicable, "rank: no history item in candidate set")
)
