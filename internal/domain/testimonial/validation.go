package testimonial

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const (
	msgTextFieldsRequired = "All fields (name, location, productName) are required."
	msgVideoRequired      = "Testimonial video file is required."
	msgThumbnailRequired  = "Video thumbnail file is required."
)

// normalize trims every text field of the input in place.
func (in *CreateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.VideoPath = strings.TrimSpace(in.VideoPath)
	in.ThumbnailPath = strings.TrimSpace(in.ThumbnailPath)
}

// validationMessage returns the client-facing message for the first failed rule, or "" when valid.
func (in CreateInput) validationMessage() string {
	err := validate.Struct(in)
	if err == nil {
		return ""
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return err.Error()
	}

	// Text fields are reported before files, matching the order clients fill the form.
	var missingText, missingVideo, missingThumb bool
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Name", "Location", "ProductName":
			missingText = true
		case "VideoPath":
			missingVideo = true
		case "ThumbnailPath":
			missingThumb = true
		}
	}
	switch {
	case missingText:
		return msgTextFieldsRequired
	case missingVideo:
		return msgVideoRequired
	case missingThumb:
		return msgThumbnailRequired
	}
	return err.Error()
}

// apply copies every non-blank text field of the update onto t and reports whether anything changed.
func (in UpdateInput) apply(t *Testimonial) bool {
	changed := false
	set := func(dst *string, v string) {
		v = strings.TrimSpace(v)
		if v == "" || v == *dst {
			return
		}
		*dst = v
		changed = true
	}
	set(&t.Name, in.Name)
	set(&t.Location, in.Location)
	set(&t.ProductName, in.ProductName)
	return changed
}
