package middleware

import (
	"strings"
	"testing"
)

func TestLeadingCode_读取顶层code(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
		ok   bool
	}{
		{"code 在最前", `{"code":4090,"msg":"x","data":null}`, 4090, true},
		{"code 在嵌套对象之后", `{"data":{"code":1},"code":4040}`, 4040, true},
		{"没有 code", `{"status":"ok"}`, 0, false},
		{"不是对象", `[1,2]`, 0, false},
		{"截断在 code 之前", `{"data":"` + strings.Repeat("a", 600), 0, false},
		{"code 后面被截断", `{"code":0,"data":[` + strings.Repeat("1,", 300), 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := []byte(tc.body)
			if len(body) > sniffLimit {
				body = body[:sniffLimit]
			}
			got, ok := leadingCode(body)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("leadingCode(%.40q) = %d,%v want %d,%v", tc.body, got, ok, tc.want, tc.ok)
			}
		})
	}
}
