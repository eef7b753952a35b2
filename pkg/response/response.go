// Package response defines the operation result envelope returned by every
// business operation and its mapping onto HTTP status codes.
package response

import (
	"fmt"
	"net/http"
)

type Status int

const (
	StatusBadRequest          Status = http.StatusBadRequest
	StatusUnauthorized        Status = http.StatusUnauthorized
	StatusForbidden           Status = http.StatusForbidden
	StatusNotFound            Status = http.StatusNotFound
	StatusConflict            Status = http.StatusConflict
	StatusInternalServerError Status = http.StatusInternalServerError
	StatusOK                  Status = http.StatusOK
	StatusCreated             Status = http.StatusCreated
	StatusNoContent           Status = http.StatusNoContent
)

// Operation is the uniform success/failure envelope. Failed operations carry a
// status classification and an error list; successful ones may carry a payload.
type Operation struct {
	IsSuccessful bool     `json:"isSuccessful"`
	Code         Status   `json:"code"`
	Errors       []string `json:"errors"`
	Data         any      `json:"data,omitempty"`
}

func Successful() *Operation {
	return &Operation{IsSuccessful: true, Code: StatusOK, Errors: []string{}}
}

func SuccessfulWith(data any) *Operation {
	return &Operation{IsSuccessful: true, Code: StatusOK, Errors: []string{}, Data: data}
}

func Created() *Operation {
	return &Operation{IsSuccessful: true, Code: StatusCreated, Errors: []string{}}
}

func CreatedWith(data any) *Operation {
	return &Operation{IsSuccessful: true, Code: StatusCreated, Errors: []string{}, Data: data}
}

func NoContent() *Operation {
	return &Operation{IsSuccessful: true, Code: StatusNoContent, Errors: []string{}}
}

func Failed(code Status) *Operation {
	return &Operation{IsSuccessful: false, Code: code, Errors: []string{}}
}

func (o *Operation) AddError(message string) *Operation {
	o.Errors = append(o.Errors, message)
	return o
}

func (o *Operation) AddErrors(messages []string) *Operation {
	o.Errors = append(o.Errors, messages...)
	return o
}

func (o *Operation) WithData(data any) *Operation {
	o.Data = data
	return o
}

// HTTPStatus maps the status classification to its transport code. The mapping
// is exhaustive: an unmapped status is a programming error, not a 200.
func (o *Operation) HTTPStatus() int {
	switch o.Code {
	case StatusBadRequest,
		StatusUnauthorized,
		StatusForbidden,
		StatusNotFound,
		StatusConflict,
		StatusInternalServerError,
		StatusOK,
		StatusCreated,
		StatusNoContent:
		return int(o.Code)
	}
	panic(fmt.Sprintf("response: unmapped status code %d", o.Code))
}
