package transport

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response. Error responses carry a domain error code;
// a version conflict puts the stored state in Meta.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: StatusSuccess,
		Data:   data,
		Meta:   meta,
	}
}

func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: StatusError,
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}
