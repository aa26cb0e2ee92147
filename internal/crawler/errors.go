package crawler

import "fmt"

// TransportError 传输层错误（超时、连接失败、非2xx）。
// StatusCode 为 0 表示未拿到 HTTP 状态；Body 保留响应体便于诊断上游契约变化。
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("上游HTTP错误: 状态码=%d, 响应体=%s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("上游请求异常: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError 响应体不是合法的JSON信封
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("响应解析失败: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// UpstreamError 上游信封返回失败状态（success=false 或 errorCode 非 0）
type UpstreamError struct {
	Success   *bool
	ErrorCode *int
	ErrorMsg  string
}

func (e *UpstreamError) Error() string {
	success, errorCode := false, 0
	if e.Success != nil {
		success = *e.Success
	}
	if e.ErrorCode != nil {
		errorCode = *e.ErrorCode
	}
	return fmt.Sprintf("API返回失败状态: success=%t, errorCode=%d, errorMsg=%s", success, errorCode, e.ErrorMsg)
}
