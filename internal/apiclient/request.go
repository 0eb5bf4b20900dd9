package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ResponseKind declares how a success body is read.
type ResponseKind int

const (
	ResponseJSON ResponseKind = iota
	ResponseRaw
)

// Request describes one upstream call. At most one of JSON and Form is used;
// Form wins when both are set.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	JSON     any
	Form     *MultipartForm
	Header   http.Header
	Response ResponseKind
}

func Get(path string, query url.Values) Request {
	return Request{Method: http.MethodGet, Path: path, Query: query}
}

func PostJSON(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, JSON: body}
}

func PostForm(path string, form *MultipartForm) Request {
	return Request{Method: http.MethodPost, Path: path, Form: form}
}

type formField struct {
	name  string
	value string
}

type filePart struct {
	field    string
	fileName string
	content  []byte
}

// MultipartForm is a file-bearing request body with ordered named parts.
type MultipartForm struct {
	fields []formField
	files  []filePart
}

func NewMultipartForm() *MultipartForm {
	return &MultipartForm{}
}

func (form *MultipartForm) AddField(name string, value string) *MultipartForm {
	form.fields = append(form.fields, formField{name: name, value: value})
	return form
}

func (form *MultipartForm) AddFile(field string, fileName string, content []byte) *MultipartForm {
	form.files = append(form.files, filePart{field: field, fileName: fileName, content: content})
	return form
}

func (form *MultipartForm) encode() ([]byte, string, error) {
	buffer := &bytes.Buffer{}
	writer := multipart.NewWriter(buffer)
	for _, field := range form.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", field.name, err)
		}
	}
	for _, file := range form.files {
		part, err := writer.CreateFormFile(file.field, file.fileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.fileName, err)
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", file.fileName, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buffer.Bytes(), writer.FormDataContentType(), nil
}

// preparedRequest holds an encoded body so the identical request can be sent
// a second time after a refresh.
type preparedRequest struct {
	method      string
	target      *url.URL
	header      http.Header
	body        []byte
	contentType string
	response    ResponseKind
}

func prepare(base *url.URL, request Request) (preparedRequest, error) {
	method := strings.ToUpper(strings.TrimSpace(request.Method))
	if method == "" {
		method = http.MethodGet
	}

	target := resolve(base, request.Path)
	if len(request.Query) > 0 {
		target.RawQuery = request.Query.Encode()
	}

	prepared := preparedRequest{
		method:   method,
		target:   target,
		header:   request.Header.Clone(),
		response: request.Response,
	}

	switch {
	case request.Form != nil:
		body, contentType, err := request.Form.encode()
		if err != nil {
			return preparedRequest{}, err
		}
		prepared.body = body
		prepared.contentType = contentType
	case request.JSON != nil:
		body, err := json.Marshal(request.JSON)
		if err != nil {
			return preparedRequest{}, fmt.Errorf("encode json body: %w", err)
		}
		prepared.body = body
		prepared.contentType = "application/json"
	}
	return prepared, nil
}

func (prepared preparedRequest) build(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if prepared.body != nil {
		body = bytes.NewReader(prepared.body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, prepared.method, prepared.target.String(), body)
	if err != nil {
		return nil, err
	}

	for key, values := range prepared.header {
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}
	if prepared.contentType != "" {
		httpRequest.Header.Set("Content-Type", prepared.contentType)
	}
	if httpRequest.Header.Get("Accept") == "" && prepared.response == ResponseJSON {
		httpRequest.Header.Set("Accept", "application/json")
	}
	return httpRequest, nil
}

func resolve(base *url.URL, path string) *url.URL {
	trimmed := strings.TrimPrefix(strings.TrimSpace(path), "/")
	if trimmed == "" {
		clone := *base
		return &clone
	}
	return base.JoinPath(trimmed)
}
