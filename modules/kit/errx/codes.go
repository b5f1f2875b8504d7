package errx

// 这里定义“跨服务统一”的错误码。
//
// 约束：
// - 系统类错误码用于技术错误归一化（便于告警、观测、排障）
// - 领域通用分类码（校验/前置条件/不存在/并发冲突/持久化）由 kit 统一给出，
//   具体的业务拒绝原因通过 WithReason 挂在 data.reason 上，由各业务自行定义

const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用/服务不可用（DB/下游服务/网络异常等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeRateLimited 表示被限流/过载保护。
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeMaintenance 表示服务维护/停服。
	CodeMaintenance Code = "MAINTENANCE"
	// 请求参数错误
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

const (
	// CodeValidation 输入形态不合法（例如数量 <= 0、名称为空）。
	CodeValidation Code = "VALIDATION_ERROR"
	// CodePrecondition 业务规则拒绝（资金不足、等级不够、目标过强……）。
	CodePrecondition Code = "PRECONDITION_FAILED"
	// CodeNotFound 引用的对象不存在（联盟、兵种、建筑）。
	CodeNotFound Code = "NOT_FOUND"
	// CodeConflict 乐观并发冲突，调用方需要重试。
	CodeConflict Code = "CONCURRENT_CONFLICT"
	// CodePersistence 持久化写入/读取失败，内存态不受影响。
	CodePersistence Code = "PERSISTENCE_ERROR"
)

// 统一系统类哨兵错误（允许 WithData/WithCause 派生新对象）。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrRateLimited = NewSys(CodeRateLimited, "请求过于频繁")
	ErrMaintenance = NewSys(CodeMaintenance, "服务维护中")
	ErrReqParamERR = NewSys(CodeReqParamError, "请求参数错误")
	ErrPersistence = NewSys(CodePersistence, "持久化失败")
)

// 领域通用哨兵错误：业务侧通过 WithReason/WithData 派生。
var (
	ErrValidation   = NewBiz(CodeValidation, "参数不合法")
	ErrPrecondition = NewBiz(CodePrecondition, "不满足前置条件")
	ErrNotFound     = NewBiz(CodeNotFound, "对象不存在")
	ErrConflict     = NewBiz(CodeConflict, "并发冲突，请重试")
)
