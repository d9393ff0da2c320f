package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"sync"

	"cloudshelf/internal/models"
	"cloudshelf/internal/namespace"
	"cloudshelf/internal/uploads"
)

type UploadFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type UploadResponse struct {
	Created []models.Node   `json:"created"`
	Failed  []UploadFailure `json:"failed,omitempty"`
}

// @Summary      Upload one or more files
// @Description  Every file in the form starts transport immediately and independently; progress is streamed per upload over the websocket. A file's record is created only after its blob has been committed.
// @Tags         nodes
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        path   formData  string  false  "Target path key, defaults to /"
// @Param        files  formData  file    true   "Files to upload"
// @Success      201  {object}  UploadResponse
// @Failure      400  {string}  string "Bad form or path"
// @Router       /nodes/file [post]
func (s *Server) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<30)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	path := r.FormValue("path")
	if path == "" {
		path = "/"
	}
	if !namespace.Valid(path) {
		http.Error(w, "Malformed path", http.StatusBadRequest)
		return
	}
	if err := s.nodes.RequireFolderAt(r.Context(), claims.UserID, path); err != nil {
		respondServiceError(w, err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		http.Error(w, "No files in request", http.StatusBadRequest)
		return
	}

	// Every selected file starts transport immediately; there is no cap or
	// queue on in-flight uploads.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		resp UploadResponse
	)
	for _, header := range headers {
		wg.Add(1)
		go func(header *multipart.FileHeader) {
			defer wg.Done()

			file, err := header.Open()
			if err != nil {
				mu.Lock()
				resp.Failed = append(resp.Failed, UploadFailure{Name: header.Filename, Reason: "cannot open form file"})
				mu.Unlock()
				return
			}
			defer file.Close()

			mimeType := header.Header.Get("Content-Type")
			node, err := s.uploader.Upload(r.Context(), claims.UserID, path, header.Filename, mimeType, header.Size, file)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				reason := "upload failed"
				if errors.Is(err, uploads.ErrEmptyFileName) || errors.Is(err, uploads.ErrInvalidFileName) {
					reason = err.Error()
				}
				resp.Failed = append(resp.Failed, UploadFailure{Name: header.Filename, Reason: reason})
				return
			}
			resp.Created = append(resp.Created, *node)
		}(header)
	}
	wg.Wait()

	if resp.Created == nil {
		resp.Created = []models.Node{}
	}

	status := http.StatusCreated
	if len(resp.Created) == 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}

// @Summary      List in-flight uploads
// @Tags         nodes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  uploads.Entry
// @Router       /uploads [get]
func (s *Server) ListUploadsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.uploader.Snapshot())
}
