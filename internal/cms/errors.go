package cms

import (
	"errors"
	"fmt"
)

// TransportError 表示网络不可达、超时、服务端 5xx 等传输层失败，由调用方决定降级方式。
type TransportError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("content store %s: status %d: %v", e.Query, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("content store %s: %v", e.Query, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// QueryError 表示查询本身有误（语法错误、未知字段、参数不合法），属于程序错误。
type QueryError struct {
	Query       string
	StatusCode  int
	Type        string
	Description string
}

func (e *QueryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("content store rejected %s (%d %s): %s", e.Query, e.StatusCode, e.Type, e.Description)
	}
	return fmt.Sprintf("invalid query %s: %s", e.Query, e.Description)
}

// IsQueryError reports whether err is, or wraps, a *QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// IsTransportError reports whether err is, or wraps, a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
