package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"WarSim/internal/shared/transport"
	"WarSim/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 只缓存响应体开头，{"code":...} 总在最前面。
const sniffLimit = 512

type codeSniffer struct {
	gin.ResponseWriter
	head bytes.Buffer
}

func (w *codeSniffer) Write(data []byte) (int, error) {
	w.keep(data)
	return w.ResponseWriter.Write(data)
}

func (w *codeSniffer) WriteString(s string) (int, error) {
	w.keep([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *codeSniffer) keep(data []byte) {
	if room := sniffLimit - w.head.Len(); room > 0 {
		if len(data) > room {
			data = data[:room]
		}
		w.head.Write(data)
	}
}

// AccessLog 写访问日志。业务码优先用 handler 通过 transport.SetBizCode 设置的值，
// 没设置时从响应体开头的 code 字段推断；路由参数（scope/player/name）一并记录。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContextWithParent(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		sw := &codeSniffer{ResponseWriter: c.Writer}
		c.Writer = sw

		c.Next()

		if !transport.BizCodeSet(ctx) {
			transport.SetBizCode(ctx, inferBizCode(sw.head.Bytes(), sw.Status()))
		}
		transport.WriteAccessLog(ctx, log, routeFields(c)...)
	}
}

func routeFields(c *gin.Context) []zap.Field {
	if len(c.Params) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, len(c.Params))
	for _, p := range c.Params {
		fields = append(fields, zap.String(p.Key, p.Value))
	}
	return fields
}

func inferBizCode(head []byte, httpStatus int) transport.BizCode {
	if code, ok := leadingCode(head); ok {
		return transport.BizCode(code)
	}
	if httpStatus >= http.StatusBadRequest {
		return transport.SystemError
	}
	return transport.OK
}

// leadingCode 逐个 token 读取顶层对象，读到 code 即返回；截断处之前没出现 code 视为没有。
func leadingCode(head []byte) (int, bool) {
	dec := json.NewDecoder(bytes.NewReader(head))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return 0, false
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return 0, false
		}
		key, _ := tok.(string)
		if key == "code" {
			var code int
			if err := dec.Decode(&code); err != nil {
				return 0, false
			}
			return code, true
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return 0, false
		}
	}
	return 0, false
}
