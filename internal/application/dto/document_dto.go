package dto

// UploadResponse acuse de recibo de un documento.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}
