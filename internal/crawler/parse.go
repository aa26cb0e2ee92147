package crawler

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// envelope 上游统一响应信封
type envelope struct {
	Success      *bool           `json:"success"`
	ErrorCode    *int            `json:"errorCode"`
	ErrorMsg     *string         `json:"errorMsg"`
	ErrorCodeStr *string         `json:"errorCodeStr"`
	ErrorData    json.RawMessage `json:"errorData"`
	Data         json.RawMessage `json:"data"`
}

// failed 信封是否为失败状态（success 缺失/false 或 errorCode 非 0）
func (e *envelope) failed() bool {
	if e.Success == nil || !*e.Success {
		return true
	}
	return e.ErrorCode != nil && *e.ErrorCode != 0
}

// parseEnvelope 解析响应信封；非法JSON返回 *ParseError
func parseEnvelope(raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &env, nil
}

// decodeTree 将原始JSON解码为通用树，数字保留为 json.Number 以免精度丢失
func decodeTree(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// asString 宽容取字符串：数字同样格式化为字符串（上游计数字段类型不稳定）
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

// asFloat 宽容取浮点：接受数字或数字字符串
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func getString(m map[string]any, key string) string {
	return asString(m[key])
}

func getFloat(m map[string]any, key string) float64 {
	f, _ := asFloat(m[key])
	return f
}

func getInt(m map[string]any, key string) int {
	f, _ := asFloat(m[key])
	return int(f)
}

func getObject(m map[string]any, key string) map[string]any {
	obj, _ := m[key].(map[string]any)
	return obj
}

func getArray(m map[string]any, key string) []any {
	arr, _ := m[key].([]any)
	return arr
}
