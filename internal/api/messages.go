package api

import (
	"net/http"

	"golang.org/x/text/language"
)

// English is the fallback and must stay first.
var supportedLanguages = []language.Tag{
	language.English,
	language.Japanese,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// japaneseMessages translates the English messages written by the error
// constructors.
var japaneseMessages = map[string]string{
	"bad request":           "リクエストが不正です",
	"unauthorized":          "ログインが必要です",
	"forbidden":             "この操作を行う権限がありません",
	"not found":             "見つかりませんでした",
	"too many requests":     "リクエストが多すぎます。しばらくしてから再度お試しください",
	"internal server error": "サーバーエラーが発生しました",
	"service unavailable":   "現在サービスを利用できません",
	msgInvalidInput:         "入力内容に誤りがあります",
	msgInvalidCredentials:   "メールアドレスまたはパスワードが正しくありません",
	msgEmailTaken:           "このメールアドレスは既に登録されています",
	msgSelfRemoval:          "オーナーは自分自身をルームから削除できません",
	msgRoomCodeExhausted:    "ルームコードを割り当てられませんでした。もう一度お試しください",
}

// requestLanguage picks the response language from Accept-Language.
func requestLanguage(r *http.Request) language.Tag {
	if r == nil {
		return language.English
	}

	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}

	_, idx, _ := languageMatcher.Match(tags...)
	return supportedLanguages[idx]
}

// localize returns a copy of e with its message in the caller's language.
func localize(r *http.Request, e *ApiError) *ApiError {
	if requestLanguage(r) != language.Japanese {
		return e
	}

	msg, ok := japaneseMessages[e.Message]
	if !ok {
		return e
	}

	out := *e
	out.Message = msg
	return &out
}
