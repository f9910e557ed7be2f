package api

import "fmt"

// ConflictError báo lỗi trùng tên khi tạo thư mục (HTTP 409). The UI matches it
// with errors.As to show an inline field message instead of a generic toast.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// StatusError is any non-2xx response that is not a recognised conflict.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}
