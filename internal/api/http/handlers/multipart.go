package handlers

import (
	"io"
	"mime/multipart"
)

// readUpload pulls the full contents of a multipart file part.
func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck
	return io.ReadAll(file)
}
