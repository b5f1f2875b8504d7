package dto

import "WarSim/internal/shared/gameconfig/catalog"

// Response 是所有接口统一的响应体；code 为 0 表示成功。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Msg: "ok", Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

type UnitsResp struct {
	Total int            `json:"total"`
	Units []catalog.Unit `json:"units"`
}

type PersistResp struct {
	Persisted bool `json:"persisted"`
}
