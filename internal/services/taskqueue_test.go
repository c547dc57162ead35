package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTaskReturnsFalseOn204(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	task, ok, err := testClient().GetTask(srv.URL)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, task)
}

func TestGetTaskDecodesTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Task{ID: "42", Config: json.RawMessage(`{"M":3}`)})
	}))
	defer srv.Close()

	task, ok, err := testClient().GetTask(srv.URL)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", task.ID)
}

func TestPostResultSucceedsOn201(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := testClient().PostResult(srv.URL, TaskResult{ID: "42", Map: "a", EDUs: "b"})
	assert.NoError(t, err)
}

func TestPostResultFailsPermanentlyOn400(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := testClient().PostResult(srv.URL, TaskResult{ID: "42"})
	assert.Error(t, err)
}
