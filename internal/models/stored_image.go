package models

// UploadsURLPrefix is the public path stored images are served under
const UploadsURLPrefix = "/uploads/"

// StoredImage is the metadata of one uploaded image after it was written to the image store
type StoredImage struct {
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// URL returns the relative path the image is served back at
func (s StoredImage) URL() string {
	return UploadsURLPrefix + s.StoredName
}
