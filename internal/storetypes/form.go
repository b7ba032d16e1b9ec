package storetypes

import "github.com/angelmondragon/delivery-admin/internal/form"

// Form holds the store type dialog fields.
type Form struct {
	NameAr        string         `json:"name_ar" validate:"required"`
	NameEn        string         `json:"name_en" validate:"required"`
	DescriptionAr string         `json:"description_ar"`
	DescriptionEn string         `json:"description_en"`
	Image         form.FileField `json:"image"`
}

func image(f Form) form.FileField { return f.Image }

// Schema requires an image on create only. Edits may keep the stored one.
func Schema(mode form.Mode) form.Schema[Form] {
	rules := []form.Rule[Form]{
		form.StructRule[Form](),
		form.ImageFile("image", image),
	}
	if mode == form.ModeCreate {
		rules = append(rules, form.RequiredFile("image", image, nil))
	}
	return form.NewSchema(rules...)
}

func FromEntity(st StoreType) Form {
	return Form{
		NameAr:        st.NameAr,
		NameEn:        st.NameEn,
		DescriptionAr: st.DescriptionAr,
		DescriptionEn: st.DescriptionEn,
		Image:         form.ExistingFile(st.Image),
	}
}

func (f Form) Input() Input {
	return Input{
		NameAr:        f.NameAr,
		NameEn:        f.NameEn,
		DescriptionAr: f.DescriptionAr,
		DescriptionEn: f.DescriptionEn,
		Image:         f.Image.File,
	}
}
