package form

import "github.com/angelmondragon/delivery-admin/pkg/upload"

// FileField holds a picked local file until submission, or the URL of the
// image already stored on the server.
type FileField struct {
	File     *upload.File
	Existing string
}

func ExistingFile(url string) FileField {
	return FileField{Existing: url}
}

// Attach replaces any previous pick.
func (f *FileField) Attach(file *upload.File) {
	f.File = file
}

func (f *FileField) Clear() {
	f.File = nil
}

// Preview is a data URL for a new pick, or the existing server URL.
func (f FileField) Preview() string {
	if f.File != nil {
		return f.File.DataURL()
	}
	return f.Existing
}

// Changed reports whether a new file must be uploaded.
func (f FileField) Changed() bool {
	return f.File != nil
}

func (f FileField) HasValue() bool {
	return f.File != nil || f.Existing != ""
}

// ImageFile rejects a newly picked file that is not an image.
func ImageFile[T any](field string, get func(T) FileField) Rule[T] {
	return func(values T) FieldErrors {
		f := get(values)
		if f.File != nil && !f.File.IsImage() {
			return FieldErrors{field: "must be an image"}
		}
		return nil
	}
}

// RequiredFile demands a file whenever cond holds.
func RequiredFile[T any](field string, get func(T) FileField, cond func(T) bool) Rule[T] {
	return func(values T) FieldErrors {
		if cond != nil && !cond(values) {
			return nil
		}
		if !get(values).HasValue() {
			return FieldErrors{field: "is required"}
		}
		return nil
	}
}
