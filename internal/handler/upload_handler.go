package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/hitoshi/shigotoba/internal/media"
	"github.com/hitoshi/shigotoba/internal/model"
)

// maxUploadBodySize はアップロードリクエストボディ全体の上限。
// 画像10枚×4MB + 動画20MB + multipartオーバーヘッドを収める。
const maxUploadBodySize = 64 << 20

// MediaUploaderInterface はアップロードハンドラーが必要とするクライアントインターフェース。
type MediaUploaderInterface interface {
	Configured() bool
	Upload(ctx context.Context, images []media.File, video *media.File) (*media.UploadResult, error)
}

// UploadHandler はメディアアップロードのHTTPハンドラー。
type UploadHandler struct {
	uploader MediaUploaderInterface
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(uploader MediaUploaderInterface) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// readFormFile はmultipartのファイルヘッダを読み出してmedia.Fileに変換する。
func readFormFile(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return media.File{}, err
	}

	return media.File{Name: fh.Filename, Content: content}, nil
}

// Upload は画像・動画のメディアホストへのアップロードを処理する。
// POST /upload (multipart: images[], video?)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.uploader.Configured() {
		writeAPIErrorResponse(w, http.StatusServiceUnavailable, model.NewUploadNotConfiguredError())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBodySize)
	if err := r.ParseMultipartForm(maxUploadBodySize); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("multipartフォームの解析に失敗しました"))
		return
	}

	imageHeaders := r.MultipartForm.File["images"]
	if len(imageHeaders) > media.MaxImageCount {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("画像は最大10枚までです"))
		return
	}

	images := make([]media.File, 0, len(imageHeaders))
	for _, fh := range imageHeaders {
		f, err := readFormFile(fh)
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("画像の読み取りに失敗しました"))
			return
		}
		if err := media.ValidateImage(f); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(err.Error()))
			return
		}
		images = append(images, f)
	}

	var video *media.File
	if videoHeaders := r.MultipartForm.File["video"]; len(videoHeaders) > 0 {
		f, err := readFormFile(videoHeaders[0])
		if err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("動画の読み取りに失敗しました"))
			return
		}
		if err := media.ValidateVideo(f); err != nil {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(err.Error()))
			return
		}
		video = &f
	}

	if len(images) == 0 && video == nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("アップロード対象のファイルがありません"))
		return
	}

	result, err := h.uploader.Upload(r.Context(), images, video)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
