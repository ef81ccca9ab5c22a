package images

import "mime/multipart"

type UploadImagePayload struct {
	FormFiles map[string]*multipart.FileHeader `form:"-" json:"-"`
}
