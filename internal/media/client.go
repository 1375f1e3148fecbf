// Package media は外部メディアホストへのファイルアップロード機能を提供する。
// アップロードされた画像・動画はメディアホスト上のURLとして返され、
// 仕事のimages/videoフィールドにはそのURLのみを保存する。
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
)

const (
	// MaxImageCount は1リクエストあたりの最大画像数。
	MaxImageCount = 10
	// MaxImageSize は画像1枚あたりの最大サイズ（4MB）。
	MaxImageSize = 4 << 20
	// MaxVideoSize は動画の最大サイズ（20MB）。
	MaxVideoSize = 20 << 20
	// sniffLen はMIMEタイプ判定に使う先頭バイト数。
	sniffLen = 512
)

// allowedImageTypes はアップロードを許可する画像のMIMEタイプ。
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// allowedVideoTypes はアップロードを許可する動画のMIMEタイプ。
var allowedVideoTypes = map[string]struct{}{
	"video/mp4":  {},
	"video/webm": {},
}

// File はアップロード対象のファイル1件を表す。
type File struct {
	Name    string
	Content []byte
}

// UploadResult はメディアホストから返されたアップロード結果。
type UploadResult struct {
	ImageURLs []string `json:"imageUrls"`
	VideoURL  *string  `json:"videoUrl,omitempty"`
}

// Client はメディアホストへのアップロードクライアント。
// SSRF防止機能付きのHTTPクライアントを通じてリクエストを送信する。
// エンドポイント未設定のまま生成された場合、Uploadは設定不足エラーを返す。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	apiKey     string
}

// NewClient はClient の新しいインスタンスを生成する。
// endpointが空の場合も生成は成功し、Upload呼び出し時にエラーとなる。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// Configured はアップロード先が設定済みかを返す。
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// ValidateImage は画像ファイルのサイズとMIMEタイプを検証する。
// MIMEタイプは拡張子ではなく先頭バイトの内容から判定する。
func ValidateImage(f File) error {
	if len(f.Content) == 0 {
		return fmt.Errorf("画像ファイルが空です: %s", f.Name)
	}
	if len(f.Content) > MaxImageSize {
		return fmt.Errorf("画像サイズが上限を超えています: %s (%dバイト > %dバイト)", f.Name, len(f.Content), MaxImageSize)
	}
	contentType := sniffContentType(f.Content)
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Errorf("サポートされていない画像形式です: %s (%s)", f.Name, contentType)
	}
	return nil
}

// ValidateVideo は動画ファイルのサイズとMIMEタイプを検証する。
func ValidateVideo(f File) error {
	if len(f.Content) == 0 {
		return fmt.Errorf("動画ファイルが空です: %s", f.Name)
	}
	if len(f.Content) > MaxVideoSize {
		return fmt.Errorf("動画サイズが上限を超えています: %s (%dバイト > %dバイト)", f.Name, len(f.Content), MaxVideoSize)
	}
	contentType := sniffContentType(f.Content)
	if _, ok := allowedVideoTypes[contentType]; !ok {
		return fmt.Errorf("サポートされていない動画形式です: %s (%s)", f.Name, contentType)
	}
	return nil
}

// sniffContentType はファイル先頭の内容からMIMEタイプを判定する。
func sniffContentType(content []byte) string {
	if len(content) > sniffLen {
		content = content[:sniffLen]
	}
	return http.DetectContentType(content)
}

// Upload は画像群と動画（省略可）をメディアホストへ転送し、公開URLを返す。
// 画像は最大10枚、各ファイルは事前にValidateImage/ValidateVideoで検証済みであること。
func (c *Client) Upload(ctx context.Context, images []File, video *File) (*UploadResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("メディアホストが設定されていません")
	}

	if len(images) > MaxImageCount {
		return nil, fmt.Errorf("画像の数が上限を超えています: %d > %d", len(images), MaxImageCount)
	}

	// multipartボディ構築
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, img := range images {
		part, err := writer.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, fmt.Errorf("multipartフォームの構築に失敗しました: %w", err)
		}
		if _, err := part.Write(img.Content); err != nil {
			return nil, fmt.Errorf("画像の書き込みに失敗しました: %w", err)
		}
	}
	if video != nil {
		part, err := writer.CreateFormFile("video", video.Name)
		if err != nil {
			return nil, fmt.Errorf("multipartフォームの構築に失敗しました: %w", err)
		}
		if _, err := part.Write(video.Content); err != nil {
			return nil, fmt.Errorf("動画の書き込みに失敗しました: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("multipartフォームの終端処理に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("メディアホストへのアップロードに失敗しました",
			slog.String("error", err.Error()),
			slog.Int("image_count", len(images)),
		)
		return nil, fmt.Errorf("メディアホストへのアップロードに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("メディアホストがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("メディアホストがステータス %d を返しました", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	return &result, nil
}
