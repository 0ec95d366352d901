package models

import (
	"time"
)

// Quote represents the quotes table. Rows are written once and never updated.
type Quote struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"column:name;size:255;not null"`
	Phone       string    `json:"phone" gorm:"column:phone;size:64;not null"`
	Email       string    `json:"email" gorm:"column:email;size:255"`
	Service     string    `json:"service" gorm:"column:service;size:255;not null"`
	BudgetMin   int       `json:"budget_min" gorm:"column:budget_min;default:0"`
	BudgetMax   int       `json:"budget_max" gorm:"column:budget_max;default:0"`
	Description string    `json:"description" gorm:"column:description;type:text;not null"`
	Location    string    `json:"location" gorm:"column:location;size:255;not null"`
	ImageURL    *string   `json:"image_url" gorm:"column:image_url;size:512"`
	ImageName   *string   `json:"image_name" gorm:"column:image_name;size:255"`
	ImageType   *string   `json:"image_type" gorm:"column:image_type;size:128"`
	ImageURL1   *string   `json:"image_url_1" gorm:"column:image_url_1;size:512"`
	ImageName1  *string   `json:"image_name_1" gorm:"column:image_name_1;size:255"`
	ImageType1  *string   `json:"image_type_1" gorm:"column:image_type_1;size:128"`
	ImageURL2   *string   `json:"image_url_2" gorm:"column:image_url_2;size:512"`
	ImageName2  *string   `json:"image_name_2" gorm:"column:image_name_2;size:255"`
	ImageType2  *string   `json:"image_type_2" gorm:"column:image_type_2;size:128"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

// TableName sets the insert table name for Quote
func (Quote) TableName() string {
	return "quotes"
}

// MaxQuoteImages is the number of image slots a quote row carries
const MaxQuoteImages = 3

// SetImages fills the image slots in upload order; unused slots stay NULL
func (q *Quote) SetImages(images []StoredImage) {
	slots := []struct{ url, name, typ **string }{
		{&q.ImageURL, &q.ImageName, &q.ImageType},
		{&q.ImageURL1, &q.ImageName1, &q.ImageType1},
		{&q.ImageURL2, &q.ImageName2, &q.ImageType2},
	}
	for i, slot := range slots {
		if i >= len(images) {
			*slot.url, *slot.name, *slot.typ = nil, nil, nil
			continue
		}
		url := images[i].URL()
		name := images[i].OriginalName
		typ := images[i].MimeType
		*slot.url, *slot.name, *slot.typ = &url, &name, &typ
	}
}

// ImageRefs returns the non-empty image slots as (url, name, type) triples
func (q *Quote) ImageRefs() [][3]string {
	var refs [][3]string
	for _, s := range [][3]*string{
		{q.ImageURL, q.ImageName, q.ImageType},
		{q.ImageURL1, q.ImageName1, q.ImageType1},
		{q.ImageURL2, q.ImageName2, q.ImageType2},
	} {
		if s[0] == nil {
			continue
		}
		refs = append(refs, [3]string{*s[0], deref(s[1]), deref(s[2])})
	}
	return refs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
