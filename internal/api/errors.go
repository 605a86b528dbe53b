package api

// ServerError HTTP 成功但载荷带有 error 字段；消息原样展示给用户
// ServerError means the HTTP exchange succeeded but the payload carried an
// "error" field. Its message is shown to the user verbatim, in the same
// display slot a success would use.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ValidationError 本地校验失败；发生在任何网络调用之前，消息直接展示
// ValidationError is a local pre-network rejection. No request is issued when
// one occurs; the message is user-facing as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
