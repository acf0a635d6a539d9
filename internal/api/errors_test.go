package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/npezzotti/go-roomcal/internal/service"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func Test_errorFromService(t *testing.T) {
	dbErr := errors.New("connection reset")

	tcases := []struct {
		name       string
		err        error
		statusCode int
		message    string
		detail     string
	}{
		{name: "unauthenticated", err: service.ErrUnauthenticated, statusCode: http.StatusUnauthorized, message: "unauthorized"},
		{name: "invalid credentials", err: service.ErrInvalidCredentials, statusCode: http.StatusUnauthorized, message: msgInvalidCredentials},
		{name: "not found", err: service.ErrNotFound, statusCode: http.StatusNotFound, message: "not found"},
		{name: "forbidden", err: service.ErrForbidden, statusCode: http.StatusForbidden, message: "forbidden"},
		{name: "self removal", err: service.ErrSelfRemoval, statusCode: http.StatusForbidden, message: msgSelfRemoval},
		{
			name:       "invalid input",
			err:        fmt.Errorf("%w: %s", service.ErrInvalidInput, "title is required"),
			statusCode: http.StatusBadRequest,
			message:    msgInvalidInput,
			detail:     "title is required",
		},
		{name: "email taken", err: service.ErrEmailTaken, statusCode: http.StatusConflict, message: msgEmailTaken},
		{name: "room codes exhausted", err: service.ErrRoomCreationExhausted, statusCode: http.StatusServiceUnavailable, message: msgRoomCodeExhausted},
		{name: "wrapped not found", err: fmt.Errorf("get room: %w", service.ErrNotFound), statusCode: http.StatusNotFound, message: "not found"},
		{name: "unknown", err: dbErr, statusCode: http.StatusInternalServerError, message: "internal server error"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			errResp := errorFromService(tc.err)
			assert.Equal(t, tc.statusCode, errResp.StatusCode)
			assert.Equal(t, tc.message, errResp.Message)
			assert.Equal(t, tc.detail, errResp.Detail)
		})
	}

	assert.ErrorIs(t, errorFromService(dbErr), dbErr, "500s keep their cause for logging")
}

func Test_localize(t *testing.T) {
	tcases := []struct {
		name           string
		acceptLanguage string
		lang           language.Tag
		message        string
	}{
		{name: "no header", acceptLanguage: "", lang: language.English, message: "not found"},
		{name: "english", acceptLanguage: "en-US,en;q=0.9", lang: language.English, message: "not found"},
		{name: "japanese", acceptLanguage: "ja-JP,ja;q=0.9,en;q=0.8", lang: language.Japanese, message: "見つかりませんでした"},
		{name: "japanese preferred second", acceptLanguage: "fr-FR,ja;q=0.5", lang: language.Japanese, message: "見つかりませんでした"},
		{name: "unsupported", acceptLanguage: "de-DE", lang: language.English, message: "not found"},
		{name: "garbage", acceptLanguage: ";;;=", lang: language.English, message: "not found"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tc.acceptLanguage)
			}

			assert.Equal(t, tc.lang, requestLanguage(req))

			orig := NewNotFoundError()
			got := localize(req, orig)
			assert.Equal(t, tc.message, got.Message)
			assert.Equal(t, "not found", orig.Message, "localize must not modify its argument")
		})
	}
}

func Test_japaneseMessagesComplete(t *testing.T) {
	for _, code := range []int{
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusServiceUnavailable,
	} {
		assert.Contains(t, japaneseMessages, newStatusError(code).Message)
	}

	for _, msg := range []string{msgInvalidInput, msgInvalidCredentials, msgEmailTaken, msgSelfRemoval, msgRoomCodeExhausted} {
		assert.Contains(t, japaneseMessages, msg)
	}
}
