package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision-alert-service/internal/config"
	"vision-alert-service/internal/core/domain"
)

func testConfig(serverURL string) config.TelegramConfig {
	return config.TelegramConfig{
		Enabled: true,
		URL:     serverURL + "/bot",
		Token:   "TOKEN",
		ChatID:  "12345",
	}
}

func TestClient_IsAvailable(t *testing.T) {
	c := NewClient(config.TelegramConfig{Enabled: true, Token: "t"})
	assert.True(t, c.IsAvailable())

	c = NewClient(config.TelegramConfig{Enabled: true})
	assert.False(t, c.IsAvailable(), "missing token")

	c = NewClient(config.TelegramConfig{Enabled: false, Token: "t"})
	assert.False(t, c.IsAvailable(), "disabled")
}

func TestClient_SendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	err := c.SendMessage(context.Background(), "99", "hello")
	assert.NoError(t, err)
	assert.Equal(t, "/botTOKEN/sendMessage", gotPath)
	assert.Equal(t, "99", gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
	_, hasParseMode := gotBody["parse_mode"]
	assert.False(t, hasParseMode)
}

func TestClient_SendMessage_DefaultChat(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	err := c.SendMessage(context.Background(), "", "hello")
	assert.NoError(t, err)
	assert.Equal(t, "12345", gotBody["chat_id"])
}

func TestClient_SendMessage_Options(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.ParseMode = "HTML"
	cfg.DisableWebPagePreview = true
	cfg.DisableNotification = true
	c := NewClient(cfg)

	err := c.SendMessage(context.Background(), "", "<b>hi</b>")
	assert.NoError(t, err)
	assert.Equal(t, "HTML", gotBody["parse_mode"])
	assert.Equal(t, true, gotBody["disable_web_page_preview"])
	assert.Equal(t, true, gotBody["disable_notification"])
}

func TestClient_SendMessage_InvalidParseMode(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.ParseMode = "BBCode"
	c := NewClient(cfg)

	err := c.SendMessage(context.Background(), "", "hello")
	assert.ErrorContains(t, err, "parse mode")
}

func TestClient_SendMessage_NotEnabled(t *testing.T) {
	c := NewClient(config.TelegramConfig{})

	err := c.SendMessage(context.Background(), "", "hello")
	assert.ErrorIs(t, err, domain.ErrNotifierNotEnabled)
}

func TestClient_SendMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	err := c.SendMessage(context.Background(), "", "hello")
	assert.ErrorContains(t, err, "telegram error (401)")
	assert.ErrorContains(t, err, "Unauthorized")
}

func TestClient_SendPhoto(t *testing.T) {
	var gotPath string
	var gotChatID, gotCaption string
	var photoSize int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotChatID = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")
		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		photoSize = header.Size
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	err := c.SendPhoto(context.Background(), "", []byte("jpegdata"), "snapshot")
	assert.NoError(t, err)
	assert.Equal(t, "/botTOKEN/sendPhoto", gotPath)
	assert.Equal(t, "12345", gotChatID)
	assert.Equal(t, "snapshot", gotCaption)
	assert.Equal(t, int64(len("jpegdata")), photoSize)
}
