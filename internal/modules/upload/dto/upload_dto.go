package dto

type UploadResponse struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type DeleteImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}
