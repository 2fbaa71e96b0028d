package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blang/posty/api"
	"github.com/stretchr/testify/assert"
)

func TestJsonError(t *testing.T) {
	assert := assert.New(t)
	const output = `{"error":"MyError"}`
	w := httptest.NewRecorder()
	jsonError(w, nil, cErrClient, "MyError")
	assert.Equal(output, w.Body.String(), "Invalid response")
	assert.Equal(http.StatusBadRequest, w.Code, "Invalid statuscode")
}

func TestJsonErrorDefaultMessage(t *testing.T) {
	w := httptest.NewRecorder()
	jsonError(w, nil, cErrServer, "")
	assert.Equal(t, `{"error":"Internal Server Error"}`, w.Body.String())
}

func TestDecodeValidates(t *testing.T) {
	assert := assert.New(t)
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"al","email":"nope","fullName":"Al","password":"secret"}`))
	var req api.SignupRequest
	err := decode(r, &req)
	if assert.Error(err) {
		assert.Equal("Invalid email format, Username must be at least 3 characters long", err.Error())
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	assert.EqualError(decode(r, &req), "Invalid request body")
}
