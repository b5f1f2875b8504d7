package transport

import "WarSim/modules/kit/errx"

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体 code 字段的取值；0 表示成功。
const (
	OK           = 0
	InvalidParam = 4000
	Precondition = 4090
	NotFound     = 4040
	Conflict     = 4091
	Unavailable  = 5030
	SystemError  = 5000
)

// BizCodeFromError 把 errx 错误码映射成响应体业务码。
func BizCodeFromError(err error) BizCode {
	if err == nil {
		return OK
	}
	switch errx.CodeOf(err) {
	case errx.CodeValidation, errx.CodeReqParamError:
		return InvalidParam
	case errx.CodePrecondition:
		return Precondition
	case errx.CodeNotFound:
		return NotFound
	case errx.CodeConflict:
		return Conflict
	case errx.CodePersistence, errx.CodeUnavailable, errx.CodeTimeout:
		return Unavailable
	default:
		return SystemError
	}
}

// HTTPStatus 返回业务码对应的 HTTP 状态码。
func (c BizCode) HTTPStatus() int {
	switch c {
	case OK:
		return 200
	case InvalidParam:
		return 400
	case NotFound:
		return 404
	case Precondition, Conflict:
		return 409
	case Unavailable:
		return 503
	default:
		return 500
	}
}
