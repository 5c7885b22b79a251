package serverutils

// Envelope: success as {data: ...}, failure as {error: {code, message, fields?}}.

type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

func DataResponse[T any](data T) DataEnvelope[T] {
	return DataEnvelope[T]{Data: data}
}

type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func ErrorResponse(code, message string, fields map[string]string) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorBody{Code: code, Message: message, Fields: fields}}
}
